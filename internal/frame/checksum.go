package frame

// Sum returns the additive checksum the TA612 uses: the low 8 bits of the
// byte-wise sum.
func Sum(data []byte) byte {
	var s byte
	for _, b := range data {
		s += b
	}
	return s
}

// Verify recomputes the checksum over everything that precedes it in the
// frame and compares it to the received byte.
func Verify(data []byte, checksum byte) bool {
	return Sum(data) == checksum
}
