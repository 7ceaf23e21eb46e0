package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/billbook-dev/billbook/internal/activity"
	"github.com/billbook-dev/billbook/internal/config"
	"github.com/billbook-dev/billbook/internal/kv"
	"github.com/billbook-dev/billbook/internal/kv/filekv"
	"github.com/billbook-dev/billbook/internal/kv/sqlitekv"
	"github.com/billbook-dev/billbook/internal/logging"
	"github.com/billbook-dev/billbook/internal/money"
	"github.com/billbook-dev/billbook/internal/records"
)

// Option customizes the root command. Used by tests to pin the clock.
type Option func(*settings)

type settings struct {
	now func() time.Time
	loc *time.Location
}

// WithClock makes commands treat now() as the current time.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithLocation sets the time zone dates are read and shown in.
func WithLocation(loc *time.Location) Option {
	return func(s *settings) { s.loc = loc }
}

// app is everything a command needs once the project is opened.
type app struct {
	dir    string
	cfg    *config.Config
	log    *slog.Logger
	kv     kv.Store
	store  *records.Store
	format money.Formatter
	loc    *time.Location
	now    func() time.Time
}

// openApp loads the project configuration in dir and opens its storage.
// Callers must Close the result.
func (s *settings) openApp(cmd *cobra.Command, dir string) (*app, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.LoadDir(absDir)
	if err != nil {
		return nil, err
	}

	log := logging.New(cmd.ErrOrStderr(), logging.ParseLevel(cfg.Log.Level))

	format, err := money.NewFormatter(cfg.Display.Locale, cfg.Display.Currency)
	if err != nil {
		return nil, err
	}

	store, err := openKV(cfg, absDir)
	if err != nil {
		return nil, err
	}
	log.Debug("storage opened", "backend", cfg.Storage.Backend, "path", cfg.StoragePath(absDir))

	loc := s.loc
	if loc == nil {
		loc = time.Local
	}
	now := s.now
	if now == nil {
		now = time.Now
	}

	clock := func() time.Time { return now().In(loc) }
	rs := records.NewStore(store, log, loc)
	rs.SetClock(clock)

	return &app{
		dir:    absDir,
		cfg:    cfg,
		log:    log,
		kv:     store,
		store:  rs,
		format: format,
		loc:    loc,
		now:    clock,
	}, nil
}

func openKV(cfg *config.Config, dir string) (kv.Store, error) {
	path := cfg.StoragePath(dir)
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		s, err := sqlitekv.New(path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite storage: %w", err)
		}
		return s, nil
	default:
		s, err := filekv.New(path)
		if err != nil {
			return nil, fmt.Errorf("opening file storage: %w", err)
		}
		return s, nil
	}
}

// note appends to the activity log. The change itself is already saved, so
// a failure here is only logged.
func (a *app) note(entries ...activity.Entry) {
	now := a.now()
	for i := range entries {
		if entries[i].Timestamp.IsZero() {
			entries[i].Timestamp = now
		}
	}
	if err := activity.Append(a.dir, entries...); err != nil {
		a.log.Warn("recording activity", "error", err)
	}
}

// Close releases the storage backend.
func (a *app) Close() error {
	return a.kv.Close()
}

// withApp opens the project named by --dir, runs fn and closes it again.
func (s *settings) withApp(cmd *cobra.Command, fn func(a *app) error) error {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}
	a, err := s.openApp(cmd, dir)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			a.log.Warn("closing storage", "error", cerr)
		}
	}()
	return fn(a)
}
