// ABOUTME: Lifecycle context holding the shared external clients
// ABOUTME: Constructed once at startup, torn down exactly once on every exit path

package registry

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/careassist/care-gateway/internal/config"
	"github.com/careassist/care-gateway/internal/datastore"
)

// httpClientTimeout bounds every outbound provider call.
const httpClientTimeout = 30 * time.Second

// Lifecycle holds the two shared external clients for the duration of a
// server run: the backing data store client and the HTTP client used for
// provider APIs. Handlers receive it through dispatch injection and never
// construct their own client instances.
type Lifecycle struct {
	Store datastore.Store
	HTTP  *http.Client

	teardownOnce sync.Once
	logger       *slog.Logger
}

// NewLifecycle validates the configuration and constructs the shared
// clients: the data store client first, then the HTTP client. A constructor
// failure is fatal and aborts startup; there are no retries.
func NewLifecycle(cfg *config.Config, logger *slog.Logger) (*Lifecycle, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// Required keys are checked before any client exists
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var store datastore.Store
	var err error
	if cfg.Datastore.Path != "" {
		store, err = datastore.NewSQLiteStore(cfg.Datastore.Path)
	} else {
		store, err = datastore.NewRESTStore(cfg.Datastore.URL, cfg.Datastore.APIKey)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing datastore: %w", err)
	}

	return &Lifecycle{
		Store:  store,
		HTTP:   &http.Client{Timeout: httpClientTimeout},
		logger: logger,
	}, nil
}

// Teardown releases the shared clients. It is idempotent and safe to call
// from a defer regardless of how the run loop exited; only the first call
// has any effect. The data store client has no explicit close step in
// remote mode, so a nil error from Close is the common case.
func (l *Lifecycle) Teardown() {
	l.teardownOnce.Do(func() {
		if l.HTTP != nil {
			l.HTTP.CloseIdleConnections()
		}
		if l.Store != nil {
			if err := l.Store.Close(); err != nil {
				if l.logger != nil {
					l.logger.Warn("closing datastore", "error", err)
				}
				return
			}
		}
		if l.logger != nil {
			l.logger.Debug("lifecycle torn down")
		}
	})
}
