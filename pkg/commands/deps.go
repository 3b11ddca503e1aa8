package commands

import (
	"tableflip.dev/pages/pkg/auth"
	"tableflip.dev/pages/pkg/journal"
	"tableflip.dev/pages/pkg/store"
)

// deps bundles the collaborators every command needs.
type deps struct {
	cfg     store.Config
	client  *auth.Client
	gateway *journal.Gateway
}

func loadDeps() (*deps, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	client := auth.NewClient(cfg.BaseURL(), cfg.APIKey(), "")

	var st store.Storage
	if cfg.Backend() == store.BackendRemote {
		st = store.NewRemote(cfg.BaseURL(), cfg.APIKey(), client.Token)
	} else {
		st, err = store.NewLocal(cfg.BasePath())
		if err != nil {
			return nil, err
		}
	}

	return &deps{
		cfg:     cfg,
		client:  client,
		gateway: &journal.Gateway{Storage: st},
	}, nil
}

// userID resolves the journal owner: the signed-in principal, or the fixed
// local user when running purely against the local backend.
func (d *deps) userID() string {
	if id := d.client.CachedIdentity(); id != nil && id.ID != "" {
		return id.ID
	}
	return "local"
}
