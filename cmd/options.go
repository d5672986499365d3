package cmd

import (
	"fmt"
	"os"

	"github.com/hubdeck/hubdeck/config"
	"github.com/hubdeck/hubdeck/internal/api"
	"github.com/hubdeck/hubdeck/internal/log"
	"github.com/hubdeck/hubdeck/internal/session"
)

// Options holds flags shared across commands.
type Options struct {
	Verbosity int
}

// Runtime bundles the wired-up pieces every command needs: the merged
// configuration, the credential-backed session manager, and an API
// client that signs requests with the session token.
type Runtime struct {
	Config  *config.Config
	Session *session.Manager
	Client  *api.Client
}

// setup initializes logging and builds the runtime. Commands call it
// once at the top of their RunE.
func setup(opts *Options) (*Runtime, error) {
	log.Initialize(opts.Verbosity, os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := session.NewStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}
	mgr := session.NewManager(store)

	client := api.NewClient(cfg.GetBackendURL(), mgr)

	return &Runtime{Config: cfg, Session: mgr, Client: client}, nil
}
