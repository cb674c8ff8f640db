package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/floriangmeiner/thermal-logger/internal/config"
	"github.com/floriangmeiner/thermal-logger/pkg/ta612"
)

var (
	rootCmd = &cobra.Command{
		Use:   "thermal-logger",
		Short: "Read temperature data from TA612 thermal loggers",
		Long:  "thermal-logger talks to TA612-series 4-channel thermal loggers over a serial port and exports readings as CSV.",
	}

	configPath string
	portName   string
	baud       int
	timeout    time.Duration
	verbose    bool
	strictSums bool
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to YAML config file")
	pf.StringVarP(&portName, "port", "p", "", "serial port (e.g. /dev/ttyUSB0 or COM3)")
	pf.IntVar(&baud, "baud", 0, "baud rate (default 9600)")
	pf.DurationVar(&timeout, "timeout", 0, "serial read timeout (default 2s)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&strictSums, "strict-checksums", false, "reject frames with a bad checksum instead of warning")

	rootCmd.AddCommand(newInfoCmd(), newRealTimeCmd(), newRecordedCmd(), newAnalyzeCmd(), newFrameCmd())
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	cobra.OnInitialize(func() {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	})
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}

// loadConfig merges the optional config file with the command-line flags;
// flags win.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if portName != "" {
		cfg.Serial.Port = portName
	}
	if baud != 0 {
		cfg.Serial.Baud = baud
	}
	if timeout != 0 {
		cfg.Serial.ReadTimeout = timeout
	}
	if cfg.Serial.Port == "" {
		return nil, fmt.Errorf("no serial port given (use --port or a config file)")
	}
	return cfg, nil
}

func openDevice(cfg *config.Config) (*ta612.Device, error) {
	return ta612.Open(cfg.Serial.Port, ta612.Config{
		Baud:            cfg.Serial.Baud,
		ReadTimeout:     cfg.Serial.ReadTimeout,
		StrictChecksums: strictSums,
	})
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print device model and firmware version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dev, err := openDevice(cfg)
			if err != nil {
				return err
			}
			defer dev.Close()

			info, err := dev.DeviceInfo()
			if err != nil {
				return err
			}
			fmt.Println(info.String())
			return nil
		},
	}
}

func newFrameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "frame [hex]",
		Short: "Dissect a captured device frame from a hex dump",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runAnalyzeFrame(args[0])
			}
			return runInteractiveFrames()
		},
	}
}

func runInteractiveFrames() error {
	scanner := bufio.NewScanner(os.Stdin)
	logrus.Info("frame analyze mode. Paste a hex frame and press Enter (Ctrl+D to exit).")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := runAnalyzeFrame(line); err != nil {
			logrus.WithError(err).Error("failed to decode frame")
		}
	}
	return scanner.Err()
}

func runAnalyzeFrame(hexDump string) error {
	result, err := ta612.AnalyzeHex(hexDump)
	if err != nil {
		return err
	}
	fmt.Println(result.String())
	return nil
}
