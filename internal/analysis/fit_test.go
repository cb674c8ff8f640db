package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func synth(tFinal, tInitial, tau float64, n int, step float64) ([]float64, []float64) {
	seconds := make([]float64, n)
	celsius := make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i) * step
		seconds[i] = t
		celsius[i] = tFinal - (tFinal-tInitial)*math.Exp(-t/tau)
	}
	return seconds, celsius
}

func TestFitExponentialHeating(t *testing.T) {
	seconds, celsius := synth(80, 20, 120, 121, 5)

	fit, err := FitExponential(seconds, celsius)
	require.NoError(t, err)
	require.InDelta(t, 120, fit.Tau, 2)
	require.InDelta(t, 80, fit.TFinal, 0.5)
	require.InDelta(t, 20, fit.TInitial, 0.5)
	require.Greater(t, fit.RSquared, 0.999)
	require.Less(t, fit.RMSE, 0.1)
	require.Equal(t, 121, fit.N)
}

func TestFitCoolingFromPeak(t *testing.T) {
	// Heating run-up followed by a clean exponential decay.
	rise, riseTemp := synth(90, 20, 60, 61, 5)
	decay, decayTemp := synth(22, 90, 200, 121, 5)
	seconds := append([]float64{}, rise...)
	celsius := append([]float64{}, riseTemp...)
	last := rise[len(rise)-1]
	for i := 1; i < len(decay); i++ {
		seconds = append(seconds, last+decay[i])
		celsius = append(celsius, decayTemp[i])
	}

	fit, err := FitCooling(seconds, celsius)
	require.NoError(t, err)
	require.InDelta(t, 200, fit.Tau, 10)
	require.InDelta(t, 22, fit.TFinal, 1)
	require.Greater(t, fit.RSquared, 0.99)
}

func TestFitHeatingSkipsSteadyState(t *testing.T) {
	// Two minutes flat, then the heater switches on.
	var seconds, celsius []float64
	for i := 0; i < 24; i++ {
		seconds = append(seconds, float64(i)*5)
		celsius = append(celsius, 20)
	}
	rise, riseTemp := synth(80, 20, 120, 121, 5)
	offset := seconds[len(seconds)-1] + 5
	for i := range rise {
		seconds = append(seconds, offset+rise[i])
		celsius = append(celsius, riseTemp[i])
	}

	fit, err := FitHeating(seconds, celsius)
	require.NoError(t, err)
	require.InDelta(t, 120, fit.Tau, 10)
	require.InDelta(t, 80, fit.TFinal, 1)
}

func TestFitExponentialErrors(t *testing.T) {
	_, err := FitExponential([]float64{0, 1}, []float64{20, 21})
	require.ErrorIs(t, err, ErrTooFewPoints)

	_, err = FitExponential([]float64{0, 1, 2}, []float64{20, 21})
	require.Error(t, err)

	_, err = FitExponential([]float64{0, 0, 0}, []float64{20, 21, 22})
	require.Error(t, err)
}

func TestPredict(t *testing.T) {
	fit := Fit{TInitial: 20, TFinal: 80, Tau: 120}
	require.InDelta(t, 20, fit.Predict(0), 1e-9)
	// One time constant reaches ~63.2% of the rise.
	require.InDelta(t, 20+60*(1-math.Exp(-1)), fit.Predict(120), 1e-9)
}
