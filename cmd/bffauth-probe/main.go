// Command bffauth-probe exercises the auth session coordinator against a
// live BFF: it loads configuration from the environment, runs the initial
// session check, mints a token when authenticated, and prints the
// resulting session state. Useful for verifying a BFF deployment without
// a browser.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/turnkeystaffing/bff-auth-go/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "probing BFF",
		"base_url", cfg.Auth.BaseURL,
		"client_id", cfg.Auth.ClientID,
		"configured", cfg.Auth.IsConfigured(),
	)

	manager := bootstrap.BuildSessionManager(bootstrap.SessionConfig{
		Config:    cfg,
		Navigator: printNavigator{},
		Logger:    logger,
	})

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if err := manager.Store.Initialize(ctx); err != nil {
		logger.WarnContext(ctx, "session initialization failed", "error", err)
	}

	snap := manager.Store.Snapshot()
	logger.InfoContext(ctx, "session state",
		"authenticated", snap.IsAuthenticated,
		"token_expires_at", snap.TokenExpiresAt,
	)
	if snap.User != nil {
		logger.InfoContext(ctx, "session user",
			"user_id", snap.User.UserID,
			"session_id", snap.User.SessionID,
			"expires_at", snap.User.ExpiresAt,
		)
	}
	if claims := manager.Store.Claims(); claims != nil {
		logger.InfoContext(ctx, "token claims",
			"email", claims.Email,
			"user_id", claims.UserID,
			"roles", claims.Roles,
		)
	}
	if snap.Error != nil {
		logger.WarnContext(ctx, "auth error",
			"kind", snap.Error.Kind,
			"message", snap.Error.Message,
		)
	}
	return nil
}

// printNavigator stands in for browser navigation: a redirect the
// coordinator would perform is printed instead of followed.
type printNavigator struct{}

func (printNavigator) Navigate(url string) {
	fmt.Fprintf(os.Stdout, "login redirect: %s\n", url)
}
