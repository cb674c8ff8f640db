package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/floriangmeiner/thermal-logger/internal/analysis"
	"github.com/floriangmeiner/thermal-logger/internal/csvlog"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		input  string
		column string
		mode   string
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Fit an exponential heating/cooling model to a logged CSV series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(input)
			if err != nil {
				return err
			}
			defer f.Close()

			series, err := csvlog.ReadSeries(f, column)
			if err != nil {
				return err
			}

			var fit analysis.Fit
			switch mode {
			case "heating":
				fit, err = analysis.FitHeating(series.Seconds, series.Celsius)
			case "cooling":
				fit, err = analysis.FitCooling(series.Seconds, series.Celsius)
			default:
				return fmt.Errorf("unknown mode %q (want heating or cooling)", mode)
			}
			if err != nil {
				return err
			}

			fmt.Printf("Fitted %s model on %q (%d points):\n", mode, column, fit.N)
			fmt.Printf("  T_0 (initial):          %8.3f °C\n", fit.TInitial)
			fmt.Printf("  T_final (steady-state): %8.3f °C\n", fit.TFinal)
			fmt.Printf("  tau (time constant):    %8.1f s  (%.2f min)\n", fit.Tau, fit.Tau/60)
			fmt.Printf("Goodness of fit:\n")
			fmt.Printf("  R^2  = %.6f\n", fit.RSquared)
			fmt.Printf("  RMSE = %.4f °C\n", fit.RMSE)
			fmt.Printf("Characteristic times:\n")
			fmt.Printf("  63%% of final temperature:      tau  = %8.1f s\n", fit.Tau)
			fmt.Printf("  95%% of final temperature:      3tau = %8.1f s\n", 3*fit.Tau)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "input CSV file (required)")
	cmd.Flags().StringVarP(&column, "column", "c", "ch1_celsius", "CSV column to fit")
	cmd.Flags().StringVarP(&mode, "mode", "m", "heating", "model orientation: heating or cooling")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
