package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/floriangmeiner/thermal-logger/internal/csvlog"
	"github.com/floriangmeiner/thermal-logger/pkg/ta612"
)

func newRealTimeCmd() *cobra.Command {
	var (
		output   string
		dir      string
		duration time.Duration
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "realtime",
		Short: "Log live readings to a CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path, err := outputPath(dir, cfg.Output.Dir, output, "thermal_data")
			if err != nil {
				return err
			}

			dev, err := openDevice(cfg)
			if err != nil {
				return err
			}
			defer dev.Close()
			announce(dev)

			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			w, err := csvlog.NewRealTimeWriter(f)
			if err != nil {
				return err
			}

			logrus.Infof("logging data to %s, press Ctrl+C to stop", path)
			ctx := cmd.Context()
			start := time.Now()
			count := 0
			for {
				rt, err := dev.RealTime()
				if err != nil {
					return err
				}
				if err := w.WriteRealTime(rt.At, rt.Sample); err != nil {
					return err
				}
				count++
				fmt.Printf("Sample %d: CH1=%s  CH2=%s  CH3=%s  CH4=%s\n",
					count, rt.Sample[0], rt.Sample[1], rt.Sample[2], rt.Sample[3])

				if duration > 0 && time.Since(start) >= duration {
					break
				}
				select {
				case <-ctx.Done():
					logrus.Infof("stopped, logged %d samples", count)
					return nil
				case <-time.After(interval):
				}
			}
			logrus.Infof("logged %d samples", count)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV filename (default: auto-generated with timestamp)")
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default from config, else current directory)")
	cmd.Flags().DurationVarP(&duration, "duration", "d", 0, "how long to log (0 = until interrupted)")
	cmd.Flags().DurationVarP(&interval, "interval", "i", time.Second, "sampling interval")
	return cmd
}

func newRecordedCmd() *cobra.Command {
	var (
		output string
		dir    string
	)
	cmd := &cobra.Command{
		Use:   "recorded",
		Short: "Download recorded data from device memory to a CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path, err := outputPath(dir, cfg.Output.Dir, output, "thermal_recorded")
			if err != nil {
				return err
			}

			dev, err := openDevice(cfg)
			if err != nil {
				return err
			}
			defer dev.Close()
			announce(dev)

			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			w, err := csvlog.NewRecordedWriter(f)
			if err != nil {
				return err
			}

			logrus.Infof("downloading recorded data to %s", path)
			st, err := dev.Recorded()
			if err != nil {
				return err
			}
			count := 0
			for st.Next() {
				if err := w.WriteRecorded(st.Sample()); err != nil {
					return err
				}
				count++
				if count%100 == 0 {
					logrus.Infof("downloaded %d samples...", count)
				}
			}
			if err := st.Err(); err != nil {
				return fmt.Errorf("download aborted after %d samples: %w", count, err)
			}
			logrus.Infof("download complete, total samples: %d", count)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV filename (default: auto-generated with timestamp)")
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default from config, else current directory)")
	return cmd
}

// announce logs the device identity; a failure here is not fatal, the
// device still answers data commands.
func announce(dev *ta612.Device) {
	info, err := dev.DeviceInfo()
	if err != nil {
		logrus.WithError(err).Warn("connected, but device info unavailable")
		return
	}
	logrus.Infof("connected to %s", info)
}

// outputPath picks flag dir over config dir, generates a timestamped
// filename when none is given, and makes sure the directory exists.
func outputPath(flagDir, cfgDir, name, prefix string) (string, error) {
	dir := flagDir
	if dir == "" {
		dir = cfgDir
	}
	if name == "" {
		name = fmt.Sprintf("%s_%s.csv", prefix, time.Now().Format("20060102_150405"))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
