package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlluizdevtech/linkhub/internal/api"
	"github.com/mlluizdevtech/linkhub/internal/auth"
	"github.com/mlluizdevtech/linkhub/internal/build"
	"github.com/mlluizdevtech/linkhub/internal/config"
	"github.com/mlluizdevtech/linkhub/internal/db"
	"github.com/mlluizdevtech/linkhub/internal/handler"
	"github.com/mlluizdevtech/linkhub/internal/links"
	"github.com/mlluizdevtech/linkhub/internal/ratelimit"
	"github.com/mlluizdevtech/linkhub/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			tokens, err := auth.NewTokenIssuer(cfg.JWT.Secret, auth.DefaultTokenLifetime)
			if err != nil {
				return err
			}

			// A nil interface, not a typed nil, when federated login is off.
			var google auth.IdentityExchanger
			if cfg.FederatedLogin() {
				gv, err := auth.NewGoogleVerifier(ctx, googleConfig(cfg))
				if err != nil {
					return err
				}
				google = gv
			}

			userStore := store.NewUserStore(database)
			linkStore := store.NewLinkStore(database)

			router := handler.NewRouter(handler.Deps{
				API: api.Deps{
					Auth:           auth.NewService(userStore, auth.NewHasher(auth.DefaultCost), tokens, google, logger),
					Tokens:         tokens,
					Links:          links.NewService(linkStore, logger),
					Limiter:        ratelimit.New(cfg.RateLimit.Max, cfg.RateLimit.Window),
					Logger:         logger,
					FederatedLogin: cfg.FederatedLogin(),
				},
				DB:         database,
				Logger:     logger,
				TrustProxy: cfg.HTTP.TrustProxy,
			})

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       2 * time.Minute,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening",
					slog.String("addr", cfg.HTTP.Addr),
					slog.String("version", build.Version),
					slog.Bool("google_login", cfg.FederatedLogin()),
					slog.Bool("google_code_flow", cfg.CodeExchange()),
				)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

// googleConfig leaves the code-exchange credentials empty unless both are
// set, so a half-configured code flow stays disabled.
func googleConfig(cfg *config.Config) auth.GoogleConfig {
	gc := auth.GoogleConfig{ClientID: cfg.Google.ClientID}
	if cfg.CodeExchange() {
		gc.ClientSecret = cfg.Google.ClientSecret
		gc.RedirectURL = cfg.Google.RedirectURL
	}
	return gc
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Log.Level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
