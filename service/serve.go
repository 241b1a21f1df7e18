package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"conexa/app/backend"
	"conexa/app/community"
	"conexa/app/metrics"
	"conexa/app/middleware"
	"conexa/app/repositories"
	"conexa/app/routes"
	"conexa/app/services"
	"conexa/app/session"
)

const (
	shutdownTimeout = 5 * time.Second
	sweepInterval   = time.Minute
	limiterIdle     = 10 * time.Minute
)

// server is one listener of a serve run.
type server struct {
	name string
	srv  *http.Server
	ln   net.Listener
}

func (c *cli) serveCommand() *cobra.Command {
	var withBackend, seed bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web frontend",
		Long: `Runs the web frontend against the backend at web.backend_url.

With --with-backend the reference backend is started in the same process and
the frontend talks to it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serve(cmd.Context(), withBackend, seed)
		},
	}
	cmd.Flags().BoolVar(&withBackend, "with-backend", false, "also run the reference backend")
	cmd.Flags().BoolVar(&seed, "seed", false, "seed the embedded backend when it is empty")
	return cmd
}

func (c *cli) serve(ctx context.Context, withBackend, seed bool) error {
	cfg := c.cfg
	m := metrics.New()

	var servers []server
	if withBackend {
		store, handler, err := c.openBackend(m, seed)
		if err != nil {
			return err
		}
		defer store.Close()

		ln, err := net.Listen("tcp", cfg.Backend.Address)
		if err != nil {
			return fmt.Errorf("listen %s: %w", cfg.Backend.Address, err)
		}
		servers = append(servers, server{name: "backend", srv: newHTTPServer(handler), ln: ln})
		cfg.Web.BackendURL = "http://" + ln.Addr().String()
	}

	registry := community.NewRegistry()
	sessions := session.New(session.Options{
		Lifetime:    cfg.Session.Lifetime,
		IdleTimeout: cfg.Session.IdleTimeout,
		Secure:      cfg.Web.SecureCookies,
	}, registry)
	defer sessions.Close()

	limiter := middleware.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	web := routes.SetupWebRoutes(routes.Web{
		Backend:  backend.NewClient(cfg.Web.BackendURL, cfg.Web.BackendTimeout, m, c.logger),
		Sessions: sessions,
		Metrics:  m,
		Limiter:  limiter,
		Logger:   c.logger,
	})

	ln, err := net.Listen("tcp", cfg.Web.Address)
	if err != nil {
		for _, s := range servers {
			s.ln.Close()
		}
		return fmt.Errorf("listen %s: %w", cfg.Web.Address, err)
	}
	servers = append(servers, server{name: "web", srv: newHTTPServer(web), ln: ln})

	idle := cfg.Session.IdleTimeout
	if idle <= 0 {
		idle = cfg.Session.Lifetime
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return registry.Run(ctx, sweepInterval, idle)
	})
	g.Go(func() error {
		return sweepLimiter(ctx, limiter, sweepInterval, limiterIdle)
	})
	return c.run(ctx, g, servers)
}

// run serves every server until ctx is done, then shuts them down.
func (c *cli) run(ctx context.Context, g *errgroup.Group, servers []server) error {
	for _, s := range servers {
		s := s
		c.logger.Info("listening", zap.String("server", s.name), zap.String("addr", s.ln.Addr().String()))
		g.Go(func() error {
			if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("%s server: %w", s.name, err)
			}
			return nil
		})
	}
	if c.ready != nil {
		addrs := make(map[string]string, len(servers))
		for _, s := range servers {
			addrs[s.name] = s.ln.Addr().String()
		}
		c.ready(addrs)
	}

	g.Go(func() error {
		<-ctx.Done()
		c.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var errs []error
		for _, s := range servers {
			if err := s.srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("%s shutdown: %w", s.name, err))
			}
		}
		return errors.Join(errs...)
	})
	return g.Wait()
}

// openBackend opens the configured store and builds the reference backend
// handler on it.
func (c *cli) openBackend(m *metrics.Metrics, seed bool) (*repositories.Store, http.Handler, error) {
	cfg := c.cfg
	store, err := repositories.OpenStore(cfg.Backend.DBPath, c.logger)
	if err != nil {
		return nil, nil, err
	}
	svc := services.New(services.FromStore(store), cfg.Backend.TokenTTL)
	if seed {
		res, err := svc.Seed()
		if err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("seed: %w", err)
		}
		c.logger.Info("seeded backend",
			zap.Int("forums", res.Forums),
			zap.Int("users", res.Users),
			zap.Int("posts", res.Posts),
			zap.Int("listings", res.Listings))
	}
	return store, routes.SetupBackendRoutes(svc, m, cfg.Backend.AllowedOrigins, c.logger), nil
}

func newHTTPServer(h http.Handler) *http.Server {
	return &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}
}

func sweepLimiter(ctx context.Context, l *middleware.Limiter, interval, idle time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.Sweep(idle)
		}
	}
}
