// Package analysis fits exponential heating/cooling models to an exported
// temperature series to recover the thermal time constant.
package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

var ErrTooFewPoints = errors.New("analysis: need at least 3 data points")

// Fit is the result of a least-squares fit of
//
//	T(t) = T_final - (T_final - T_initial) · exp(-t/τ)
//
// which covers both heating (T_final > T_initial) and cooling.
type Fit struct {
	TInitial float64
	TFinal   float64
	Tau      float64 // seconds
	RSquared float64
	RMSE     float64
	N        int
}

// Predict evaluates the fitted model at t seconds.
func (f Fit) Predict(t float64) float64 {
	return f.TFinal - (f.TFinal-f.TInitial)*math.Exp(-t/f.Tau)
}

func (f Fit) String() string {
	return fmt.Sprintf("T0=%.2f°C Tfinal=%.2f°C tau=%.1fs (R²=%.4f RMSE=%.3f°C n=%d)",
		f.TInitial, f.TFinal, f.Tau, f.RSquared, f.RMSE, f.N)
}

// FitExponential runs an unconstrained Nelder-Mead least-squares fit over
// (T_final, T_initial, log τ). Seconds must be elapsed time from the first
// point of the phase being fitted.
func FitExponential(seconds, celsius []float64) (Fit, error) {
	if len(seconds) != len(celsius) {
		return Fit{}, fmt.Errorf("analysis: %d times vs %d temperatures", len(seconds), len(celsius))
	}
	if len(seconds) < 3 {
		return Fit{}, ErrTooFewPoints
	}
	duration := seconds[len(seconds)-1] - seconds[0]
	if duration <= 0 {
		return Fit{}, errors.New("analysis: series spans no time")
	}

	tauGuess := duration / 3
	if tauGuess < 1 {
		tauGuess = 1
	}
	x0 := []float64{celsius[len(celsius)-1], celsius[0], math.Log(tauGuess)}

	// τ is optimized in log space, which keeps it positive without bounds.
	sse := func(x []float64) float64 {
		tFinal, tInitial, tau := x[0], x[1], math.Exp(x[2])
		var s float64
		for i, t := range seconds {
			r := celsius[i] - (tFinal - (tFinal-tInitial)*math.Exp(-t/tau))
			s += r * r
		}
		return s
	}

	result, err := optimize.Minimize(optimize.Problem{Func: sse}, x0, nil, &optimize.NelderMead{})
	if err != nil {
		return Fit{}, fmt.Errorf("analysis: minimize: %w", err)
	}

	fit := Fit{
		TFinal:   result.X[0],
		TInitial: result.X[1],
		Tau:      math.Exp(result.X[2]),
		N:        len(seconds),
	}

	estimates := make([]float64, len(seconds))
	for i, t := range seconds {
		estimates[i] = fit.Predict(t)
	}
	fit.RSquared = stat.RSquaredFrom(estimates, celsius, nil)
	fit.RMSE = math.Sqrt(result.F / float64(len(seconds)))
	return fit, nil
}

// FitHeating trims the series to its heating phase and fits the model.
func FitHeating(seconds, celsius []float64) (Fit, error) {
	ts, temps, err := heatingWindow(seconds, celsius)
	if err != nil {
		return Fit{}, err
	}
	return FitExponential(ts, temps)
}

// FitCooling fits the decay from the peak temperature onward.
func FitCooling(seconds, celsius []float64) (Fit, error) {
	ts, temps, err := coolingWindow(seconds, celsius)
	if err != nil {
		return Fit{}, err
	}
	return FitExponential(ts, temps)
}

// heatingWindow cuts the series at the peak and drops the leading steady
// state: heating is taken to start a few samples before the temperature
// first exceeds 10% of the total rise.
func heatingWindow(seconds, celsius []float64) ([]float64, []float64, error) {
	if len(seconds) < 3 || len(seconds) != len(celsius) {
		return nil, nil, ErrTooFewPoints
	}
	peak := floats.MaxIdx(celsius)
	ts := seconds[:peak+1]
	temps := celsius[:peak+1]
	if len(ts) < 3 {
		return nil, nil, ErrTooFewPoints
	}

	total := temps[len(temps)-1] - temps[0]
	start := 0
	if total > 0 {
		threshold := temps[0] + 0.1*total
		for i, v := range temps {
			if v > threshold {
				start = i - 5
				break
			}
		}
		if start < 0 {
			start = 0
		}
	}
	return rebase(ts[start:], temps[start:])
}

// coolingWindow keeps everything from the peak on.
func coolingWindow(seconds, celsius []float64) ([]float64, []float64, error) {
	if len(seconds) < 3 || len(seconds) != len(celsius) {
		return nil, nil, ErrTooFewPoints
	}
	peak := floats.MaxIdx(celsius)
	return rebase(seconds[peak:], celsius[peak:])
}

func rebase(seconds, celsius []float64) ([]float64, []float64, error) {
	if len(seconds) < 3 {
		return nil, nil, ErrTooFewPoints
	}
	out := make([]float64, len(seconds))
	for i, t := range seconds {
		out[i] = t - seconds[0]
	}
	return out, celsius, nil
}
