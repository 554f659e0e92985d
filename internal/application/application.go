package application

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/haops/profilestore/corosync"
	"github.com/haops/profilestore/internal/config"
	"github.com/haops/profilestore/profile"
	"github.com/haops/profilestore/sbd"
)

// App encapsulates the loaded profile store and the requested operation.
type App struct {
	cfg    config.Config
	logger *zap.Logger
	store  *profile.Store
}

// New loads the profile document named by the configuration (or the
// shipped one) and wires the application together.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	var (
		store *profile.Store
		err   error
	)
	if cfg.ProfilesFile != "" {
		store, err = profile.LoadFile(cfg.ProfilesFile)
	} else {
		store, err = profile.Builtin()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}

	return &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}, nil
}

// Store exposes the loaded profile store.
func (a *App) Store() *profile.Store {
	return a.store
}

// Run executes the configured operation and writes the result to w.
func (a *App) Run(w io.Writer) error {
	switch {
	case a.cfg.ListEnvironments:
		return a.listEnvironments(w)
	case a.cfg.Migrate:
		return a.migrate(w)
	default:
		return a.render(w)
	}
}

func (a *App) listEnvironments(w io.Writer) error {
	for _, env := range a.store.Environments() {
		if _, err := fmt.Fprintln(w, env); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) migrate(w io.Writer) error {
	conf, err := corosync.ParseFile(a.cfg.ConfFile)
	if err != nil {
		return err
	}
	if err := conf.Migrate(a.logger); err != nil {
		return fmt.Errorf("migrate %s: %w", a.cfg.ConfFile, err)
	}
	return conf.Encode(w)
}

func (a *App) render(w io.Writer) error {
	env := profile.Environment(a.cfg.Environment)
	if a.cfg.Environment != "" && !profile.IsKnownEnvironment(a.cfg.Environment) {
		a.logger.Warn("unknown environment, falling back to defaults",
			zap.String("environment", a.cfg.Environment))
	}
	merged := a.store.Resolve(env)
	a.logger.Debug("resolved profile",
		zap.String("environment", a.cfg.Environment),
		zap.Int("parameters", len(merged)))

	switch a.cfg.Format {
	case config.FormatYAML:
		return merged.Encode(w)
	case config.FormatCorosync:
		return a.renderCorosync(w, merged)
	case config.FormatSysconfig:
		_, err := w.Write(sbd.Render(merged))
		return err
	default:
		// config.Load validates the format; reaching this is a bug.
		return fmt.Errorf("unknown output format %q", a.cfg.Format)
	}
}

func (a *App) renderCorosync(w io.Writer, merged profile.Profile) error {
	var (
		conf *corosync.Conf
		err  error
	)
	if a.cfg.ConfFile != "" {
		conf, err = corosync.ParseFile(a.cfg.ConfFile)
		if err != nil {
			return err
		}
	} else {
		conf = corosync.Default()
	}
	if err := conf.Apply(merged); err != nil {
		return err
	}
	return conf.Encode(w)
}
