// Package cli implements the curio commands.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/glabrego/curio-cli/internal/app"
	"github.com/glabrego/curio-cli/internal/commons"
	"github.com/glabrego/curio-cli/internal/config"
	"github.com/glabrego/curio-cli/internal/imagecache"
	"github.com/glabrego/curio-cli/internal/logger"
	"github.com/glabrego/curio-cli/internal/preload"
	"github.com/glabrego/curio-cli/internal/resolve"
	"github.com/glabrego/curio-cli/internal/storage"
	"github.com/glabrego/curio-cli/internal/tui"
	"github.com/glabrego/curio-cli/internal/tui/view"
)

var dbPath string

// RootCmd runs the feed in the terminal UI.
var RootCmd = &cobra.Command{
	Use:   "curio",
	Short: "A terminal feed of curious things",
	Long:  "Swipe through short cards about curious places and objects. Images are resolved through Wikimedia Commons and cached locally.",
	Run:   runRoot,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $CURIO_DB_PATH or curio.db)")
}

func loadConfig() config.Config {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		exitErr("config", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg
}

// runtime is the wired application stack shared by every command.
type runtime struct {
	cfg       config.Config
	log       logger.Logger
	repo      *storage.Repository
	images    *imagecache.Store
	client    *commons.Client
	scheduler *preload.Scheduler
	service   *app.Service
	closeOnce sync.Once
}

// openRuntime builds the stack for cfg. A nil httpClient uses the package
// defaults of the Commons client and the prober.
func openRuntime(ctx context.Context, cfg config.Config, log logger.Logger, httpClient *http.Client) (*runtime, error) {
	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if err := repo.Init(ctx); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		log.Warn("storage is not writable, changes will not persist",
			logger.String("db_path", cfg.DBPath), logger.Error(err))
	}

	images, err := imagecache.Load(ctx, repo, log)
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("load image cache: %w", err)
	}

	client := commons.NewClient(cfg.CommonsAPIURL, httpClient, commons.Options{
		UserAgent:         cfg.UserAgent,
		RequestsPerSecond: cfg.APIRPS,
		Logger:            log,
	})
	prober := resolve.NewHTTPProber(httpClient, cfg.UserAgent)
	orch := resolve.NewOrchestrator(images, client, prober, log)
	scheduler := preload.NewScheduler(orch, images, cfg.PreloadConcurrency, log)
	service := app.NewService(repo, images, orch, scheduler, serviceOptions(cfg, log))

	return &runtime{
		cfg:       cfg,
		log:       log,
		repo:      repo,
		images:    images,
		client:    client,
		scheduler: scheduler,
		service:   service,
	}, nil
}

func serviceOptions(cfg config.Config, log logger.Logger) app.Options {
	return app.Options{PreloadWindow: cfg.PreloadWindow, Logger: log}
}

func (r *runtime) Close() {
	r.closeOnce.Do(func() {
		r.scheduler.Close()
		_ = r.repo.Close()
		_ = r.log.Sync()
	})
}

// fail closes the runtime, so preloads stop and logs are flushed, then exits.
func (r *runtime) fail(msg string, err error) {
	r.Close()
	exitErr(msg, err)
}

// exit closes the runtime and exits with code.
func (r *runtime) exit(code int) {
	r.Close()
	osExit(code)
}

// openCommand wires the stack for a non-interactive command; logs go to
// stderr.
func openCommand(ctx context.Context) *runtime {
	cfg := loadConfig()
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, OutputPaths: []string{"stderr"}})
	if err != nil {
		exitErr("logger", err)
	}
	rt, err := openRuntime(ctx, cfg, log, nil)
	if err != nil {
		exitErr("startup", err)
	}
	return rt
}

func runRoot(cmd *cobra.Command, args []string) {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		rt := openCommand(cmd.Context())
		defer rt.Close()
		if err := printFeed(cmd.Context(), os.Stdout, rt.service); err != nil {
			rt.fail("feed", err)
		}
		return
	}

	cfg := loadConfig()
	// The UI owns the terminal, so logs go to a file.
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, OutputPaths: []string{cfg.LogPath}})
	if err != nil {
		exitErr("logger", err)
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	rt, err := openRuntime(ctx, cfg, log, nil)
	cancel()
	if err != nil {
		exitErr("startup", err)
	}
	defer rt.Close()

	model := tui.NewModel(rt.service, resolve.NewGenerations())
	model.SetImageRenderer(view.PreviewRenderer{UserAgent: cfg.UserAgent}.Render)

	start := time.Now()
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		rt.fail("tui", err)
	}
	stats := rt.scheduler.Stats()
	log.Info("session ended",
		logger.Duration("duration", time.Since(start)),
		logger.Int("cached_images", rt.images.Len()),
		logger.Int("preload_resolved", int(stats.Resolved)),
		logger.Int("preload_failed", int(stats.Failed)))
}

var osExit = os.Exit

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	osExit(1)
}
