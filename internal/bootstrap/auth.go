package bootstrap

import (
	"log/slog"
	"net/http"

	"github.com/turnkeystaffing/bff-auth-go/config"
	"github.com/turnkeystaffing/bff-auth-go/internal/adapters/bff"
	"github.com/turnkeystaffing/bff-auth-go/internal/guard"
	"github.com/turnkeystaffing/bff-auth-go/internal/httpclient"
	"github.com/turnkeystaffing/bff-auth-go/internal/ports"
	"github.com/turnkeystaffing/bff-auth-go/internal/session"
)

// SessionConfig contains configuration for the auth session coordinator.
type SessionConfig struct {
	Config    config.AppConfig
	Navigator ports.Navigator
	// CurrentURL reports the current page location; optional.
	CurrentURL func() string
	// HTTPClient overrides the BFF client's transport; optional.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// SessionManager bundles the wired auth session coordinator: the BFF
// client, the session store built on it, and a navigation guard.
type SessionManager struct {
	Client *bff.Client
	Store  *session.Store
	Guard  *guard.Guard
}

// BuildSessionManager wires client, store, and guard from configuration.
// A missing base URL or client ID does not fail the build: the client's
// configuration guard surfaces the problem as auth state at call time,
// which is what keeps a misconfigured deployment from redirect-looping.
func BuildSessionManager(cfg SessionConfig) *SessionManager {
	client := bff.NewClient(bff.Config{
		BaseURL:           cfg.Config.Auth.BaseURL,
		ClientID:          cfg.Config.Auth.ClientID,
		TokenClientID:     cfg.Config.Auth.TokenClientID,
		AppOrigin:         cfg.Config.Auth.AppOrigin,
		HTTPClient:        cfg.HTTPClient,
		Timeout:           cfg.Config.HTTP.Timeout,
		Navigator:         cfg.Navigator,
		CurrentURL:        cfg.CurrentURL,
		Logger:            cfg.Logger,
		MaxErrorBodyBytes: cfg.Config.HTTP.MaxErrorBodyBytes,
	})

	store := session.NewStore(session.Options{
		Client: client,
		Logger: cfg.Logger,
	})

	g := guard.New(guard.Options{
		Store:  store,
		Client: client,
		Logger: cfg.Logger,
	})

	return &SessionManager{
		Client: client,
		Store:  store,
		Guard:  g,
	}
}

// NewGuard returns a fresh navigation guard with independent
// initialization state, for hosts that mount more than once.
func (m *SessionManager) NewGuard(logger *slog.Logger) *guard.Guard {
	return guard.New(guard.Options{
		Store:  m.Store,
		Client: m.Client,
		Logger: logger,
	})
}

// AttachProtectedClient attaches the auth interceptor pair to an HTTP
// client that talks to protected endpoints. Public clients should not be
// passed here.
func (m *SessionManager) AttachProtectedClient(client *http.Client, logger *slog.Logger, maxErrorBodyBytes int64) {
	store := m.Store
	httpclient.Attach(client, func() httpclient.Session { return store }, httpclient.Options{
		Logger:            logger,
		MaxErrorBodyBytes: maxErrorBodyBytes,
	})
}
