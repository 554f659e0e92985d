package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/haops/profilestore/internal/application"
	"github.com/haops/profilestore/internal/config"
	"github.com/haops/profilestore/internal/logging"
)

func main() {
	kingpinApp := kingpin.New("profilectl", "Cluster bootstrap profile renderer - merges environment overrides over the default parameter profile")
	profilesFile := kingpinApp.Flag("profiles", "Path to the profile document (default: built-in profiles)").Short('p').String()
	environment := kingpinApp.Flag("environment", "Environment identifier detected by the caller (e.g. microsoft-azure)").Short('e').String()
	format := kingpinApp.Flag("format", "Output format: yaml, corosync, or sysconfig").Short('f').String()
	confFile := kingpinApp.Flag("conf", "Existing corosync.conf to merge into or migrate").String()
	outputFile := kingpinApp.Flag("output", "Write the result to this file instead of stdout").Short('o').String()
	migrateFlag := kingpinApp.Flag("migrate", "Upgrade --conf to the corosync 3 layout instead of rendering").Bool()
	listFlag := kingpinApp.Flag("list-environments", "List the override profiles present in the document").Bool()
	verboseFlag := kingpinApp.Flag("verbose", "Enable debug logging").Short('v').Bool()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ProfilesFile:     profilesFile,
		Environment:      environment,
		Format:           format,
		ConfFile:         confFile,
		OutputFile:       outputFile,
		Migrate:          migrateFlag,
		ListEnvironments: listFlag,
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(*verboseFlag)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	out, closeOut, err := openOutput(cfg.OutputFile)
	if err != nil {
		logger.Fatal("failed to open output", zap.Error(err))
	}

	if err := app.Run(out); err != nil {
		_ = closeOut()
		logger.Fatal("failed to run", zap.Error(err))
	}
	if err := closeOut(); err != nil {
		logger.Fatal("failed to finalize output", zap.Error(err))
	}
}

// openOutput returns stdout or the requested file plus the matching close
// function.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, f.Close, nil
}
