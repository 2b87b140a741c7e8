package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"

	"github.com/jonwraymond/breedfetch/auth"
	"github.com/jonwraymond/breedfetch/breed"
	"github.com/jonwraymond/breedfetch/health"
	"github.com/jonwraymond/breedfetch/internal/config"
)

// ServeCommandBuilder builds the serve command.
func ServeCommandBuilder(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP lookup service",
		Flags: append(NewCatalogFlags(cfg), &cli.StringFlag{
			Name:    "addr",
			Usage:   "listen address",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BREEDFETCH_ADDR")),
			Value:   cfg.Server.Addr,
		}),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg.Server.Addr = cmd.String("addr")

			st, err := prepare(ctx, cmd, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close(context.Background()) }()

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg.Server.Addr, newHandler(st))
		},
	}
}

func serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// newHandler routes the lookup API, health probes and, with the prometheus
// exporter, /metrics.
func newHandler(st *stack) http.Handler {
	protect := newAuthChain(st.cfg.Server.Auth)

	mux := http.NewServeMux()
	mux.Handle("GET /v1/breeds/{name}/sub-breeds", protect(subBreedsHandler(st.fetcher)))
	mux.Handle("GET /v1/stats", protect(statsHandler(st)))
	health.RegisterHandlers(mux, st.health)
	if st.registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(st.registry, promhttp.HandlerOpts{}))
	}
	return mux
}

// newAuthChain returns the middleware guarding /v1. Without configured
// credentials requests pass with the anonymous identity.
func newAuthChain(cfg config.AuthConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled() {
		return auth.Middleware(nil)
	}

	var auths []auth.Authenticator
	if len(cfg.APIKeys) > 0 {
		store := auth.NewMemoryAPIKeyStore()
		for _, k := range cfg.APIKeys {
			store.Add(k.Key, k.Principal, k.Scopes...)
		}
		auths = append(auths, auth.NewAPIKeyAuthenticator(cfg.APIKeyHeader, store))
	}
	if cfg.JWTSecret != "" {
		auths = append(auths, auth.NewJWTAuthenticator(auth.JWTConfig{
			Secret:   []byte(cfg.JWTSecret),
			Issuer:   cfg.Issuer,
			Audience: cfg.Audience,
		}))
	}

	authenticate := auth.Middleware(auth.NewCompositeAuthenticator(auths...))
	if cfg.RequiredScope == "" {
		return authenticate
	}
	requireScope := auth.RequireScope(cfg.RequiredScope)
	return func(next http.Handler) http.Handler {
		return authenticate(requireScope(next))
	}
}

// SubBreedsResponse is the body of a successful sub-breed lookup.
type SubBreedsResponse struct {
	Breed     string   `json:"breed"`
	SubBreeds []string `json:"sub_breeds"`
}

// ErrorResponse is the body of a failed lookup.
type ErrorResponse struct {
	Error string `json:"error"`
	Breed string `json:"breed,omitempty"`
}

// StatsResponse is the body of /v1/stats.
type StatsResponse struct {
	DelegateCalls int64 `json:"delegate_calls"`
	Entries       int   `json:"entries"`
}

func subBreedsHandler(f breed.Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		subs, err := f.SubBreeds(r.Context(), breed.NameOf(name))
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, SubBreedsResponse{Breed: name, SubBreeds: subs})
		case breed.IsNotFound(err):
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error(), Breed: name})
		default:
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Breed: name})
		}
	}
}

func statsHandler(st *stack) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, StatsResponse{
			DelegateCalls: st.cache.Calls(),
			Entries:       st.cache.Len(),
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
