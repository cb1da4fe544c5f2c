package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/torrico/rollcall/internal/config"
	"github.com/torrico/rollcall/internal/logger"
	"github.com/torrico/rollcall/internal/message"
	"github.com/torrico/rollcall/internal/mirror"
	"github.com/torrico/rollcall/internal/sender"
	"github.com/torrico/rollcall/internal/store"
	"github.com/torrico/rollcall/internal/tracker"
	"github.com/torrico/rollcall/internal/whatsapp"
)

// app bundles everything a command needs: the config, both
// representations, the tracker over them and the send pipeline.
type app struct {
	cfg     *config.Config
	store   *store.Store
	mirror  *mirror.Mirror
	tracker *tracker.Tracker
	catalog *message.Catalog
	client  *whatsapp.Client
	sender  *sender.Sender
	log     zerolog.Logger
}

// openApp loads the config (defaults when path is empty) and wires the
// stack. Callers must Close.
func openApp(cfgPath string, opts *RootOptions) (*app, error) {
	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "loading config", err)
		}
		cfg = loaded
	}

	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	log := logger.New(os.Stderr, level)

	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("opening database %s", cfg.DBPath), err)
	}

	catalog := message.DefaultCatalog()
	if cfg.TemplatesDir != "" {
		catalog, err = message.LoadDir(cfg.TemplatesDir)
		if err != nil {
			s.Close()
			return nil, WrapExitError(ExitCommandError, "loading message catalog", err)
		}
	}

	m := mirror.New(cfg.CSVPath)
	tr := tracker.New(s, m, log)
	client := whatsapp.NewClient(cfg.WhatsApp.AccessToken, cfg.WhatsApp.PhoneNumberID, cfg.WhatsApp.Version)
	snd := sender.New(tr, client, catalog, cfg.SendDelay.Duration(), log)

	return &app{
		cfg:     cfg,
		store:   s,
		mirror:  m,
		tracker: tr,
		catalog: catalog,
		client:  client,
		sender:  snd,
		log:     log,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
