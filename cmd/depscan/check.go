package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/depscan/pkg/depscan/checker"
	"github.com/jamesainslie/depscan/pkg/depscan/config"
	"github.com/jamesainslie/depscan/pkg/depscan/logging"
	"github.com/jamesainslie/depscan/pkg/depscan/output"
)

// errIssuesFound signals a clean run that nevertheless found dependency
// issues; it maps to a non-zero exit code without an error message.
var errIssuesFound = errors.New("dependency issues found")

// runCheck is the root command handler.
func runCheck(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("%v", err)
		return err
	}

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := runOnce(ctx, cfg, dir)
	if err != nil {
		printError("%v", err)
		return err
	}

	if err := render(cfg.Output, report); err != nil {
		printError("%v", err)
		return err
	}

	if !report.Clean() && !viper.GetBool("no_fail") {
		return errIssuesFound
	}
	return nil
}

// loadConfig loads configuration and initializes logging from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if viper.GetBool("verbose") {
		level = "debug"
	}
	if err := logging.Init(logging.Config{Level: level, Components: cfg.Logging.Components}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runOnce performs one full check and converts the result to a report.
func runOnce(ctx context.Context, cfg *config.Config, dir string) (*output.Report, error) {
	c := checker.New(checker.Options{
		Directory:         dir,
		IgnorePatterns:    cfg.IgnorePatterns,
		IgnoreFile:        cfg.IgnoreFile,
		ReadIgnoreFile:    cfg.ReadIgnoreFile,
		SkipMissing:       cfg.SkipMissing,
		IgnoreBinPackages: cfg.IgnoreBinPackages,
		Workers:           cfg.Workers,
	})

	result, err := c.Check(ctx)
	if err != nil {
		return nil, err
	}

	return &output.Report{
		Directory:             result.Directory,
		Missing:               result.Missing(),
		UnusedDependencies:    result.UnusedDependencies(),
		UnusedDevDependencies: result.UnusedDevDependencies(),
		FilesScanned:          result.FilesScanned,
		Elapsed:               result.Elapsed,
		Errors:                result.Errors,
	}, nil
}

// render formats the report and writes it to stdout.
func render(format string, report *output.Report) error {
	formatter, err := output.Get(format)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, output.Available())
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, report); err != nil {
		return err
	}
	_, err = os.Stdout.Write(buf.Bytes())
	return err
}
