package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glow/pkg/site"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		rebuild string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site and rebuild it on a schedule",
		Long: `Serve builds the site once and serves it over HTTP. With --rebuild, pages
are recompiled and the site rebuilt on the given cron schedule, e.g.
"0 6 * * *" for every morning at six.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Serve.Addr
			}
			if rebuild == "" {
				rebuild = cfg.Serve.Rebuild
			}

			builder := site.NewBuilder(logger)
			if _, err := builder.Build(cfg.DocsDir, cfg.SiteDir); err != nil {
				return err
			}

			if rebuild != "" {
				e, err := c.newEnv(ctx, cfg, false)
				if err != nil {
					return err
				}
				defer e.Close()

				r := newRebuilder(logger, func(ctx context.Context) error {
					if err := compileAll(ctx, logger, e); err != nil {
						return err
					}
					_, err := builder.Build(cfg.DocsDir, cfg.SiteDir)
					return err
				})
				if err := r.Schedule(ctx, rebuild); err != nil {
					return err
				}
				r.Start()
				defer r.Stop()
				printInfo("Rebuilding on schedule %s", StyleHighlight.Render(rebuild))
			}

			srv := &http.Server{
				Addr:         addr,
				Handler:      newSiteHandler(cfg.SiteDir),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  120 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			printSuccess("Serving %s", cfg.SiteDir)
			printKeyValue("Address", StyleLink.Render("http://"+addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server: %w", err)
			}
			return ctx.Err()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from project file, localhost:8000)")
	cmd.Flags().StringVar(&rebuild, "rebuild", "", "cron schedule for recompiling and rebuilding the site")

	return cmd
}

// newSiteHandler serves the built site from dir.
func newSiteHandler(dir string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Handle("/*", http.FileServer(http.Dir(dir)))

	return r
}

// =============================================================================
// Scheduled Rebuilds
// =============================================================================

// rebuilder runs a rebuild function on a cron schedule. Runs never
// overlap: a tick that fires while a rebuild is still running is skipped.
type rebuilder struct {
	cron    *cron.Cron
	logger  *log.Logger
	rebuild func(context.Context) error

	mu      sync.Mutex
	running bool
	runs    int
}

func newRebuilder(logger *log.Logger, fn func(context.Context) error) *rebuilder {
	return &rebuilder{
		cron:    cron.New(),
		logger:  logger,
		rebuild: fn,
	}
}

// Schedule registers the rebuild under a standard five-field cron
// expression. Rebuilds run with ctx.
func (r *rebuilder) Schedule(ctx context.Context, schedule string) error {
	if _, err := r.cron.AddFunc(schedule, func() { r.run(ctx) }); err != nil {
		return fmt.Errorf("invalid rebuild schedule %q: %w", schedule, err)
	}
	r.logger.Info("scheduled rebuild", "schedule", schedule)
	return nil
}

func (r *rebuilder) Start() { r.cron.Start() }

// Stop stops the scheduler and waits for a running rebuild to finish.
func (r *rebuilder) Stop() {
	<-r.cron.Stop().Done()
}

// run performs one rebuild unless another is in progress. It reports
// whether the rebuild ran.
func (r *rebuilder) run(ctx context.Context) bool {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		r.logger.Warn("previous rebuild still running, skipping")
		return false
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.runs++
		r.mu.Unlock()
	}()

	prog := newProgress(r.logger)
	if err := r.rebuild(ctx); err != nil {
		r.logger.Error("rebuild failed", "err", err)
		return true
	}
	prog.done("Rebuilt site")
	return true
}
