package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/mwantia/backup-explorer/cli/tui"
	"github.com/mwantia/backup-explorer/cmd"
	"github.com/mwantia/backup-explorer/cmd/builtin"
	"github.com/mwantia/backup-explorer/config"
	"github.com/mwantia/backup-explorer/explorer"
	"github.com/mwantia/backup-explorer/log"
	"github.com/mwantia/backup-explorer/metrics"
	"github.com/mwantia/backup-explorer/report"
	"github.com/mwantia/backup-explorer/scheduler"
	"github.com/mwantia/backup-explorer/store"
	"github.com/mwantia/backup-explorer/store/memory"
	"github.com/mwantia/backup-explorer/store/sqlite"
)

const defaultTuiLogFile = "backup-explorer.log"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code, err := run(ctx, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if code == 0 {
			code = 1
		}
	}
	os.Exit(code)
}

// run starts the TUI, or executes args as a single command when present.
func run(ctx context.Context, args []string) (int, error) {
	cfg, err := config.Load()
	if err != nil {
		return 1, err
	}

	oneShot := len(args) > 0

	logFile := cfg.LogFile
	if !oneShot && logFile == "" {
		logFile = defaultTuiLogFile
	}
	logger := log.NewLogger("backup-explorer", cfg.Level(), logFile, !oneShot)
	logger.JSON = cfg.LogJSON

	sched, err := scheduler.New(
		scheduler.WithContext(ctx),
		scheduler.WithQueueSize(cfg.QueueSize),
		scheduler.WithLogger(logger.Named("scheduler")),
	)
	if err != nil {
		return 1, err
	}
	if err := sched.Start(); err != nil {
		return 1, err
	}
	defer sched.Complete()

	var sink explorer.Sink
	var tuiSink *tui.Sink
	if oneShot {
		sink = newTextSink(os.Stderr)
	} else {
		tuiSink = tui.NewSink()
		sink = tuiSink
	}

	e, err := explorer.New(openStore(cfg, logger), sched, sink,
		explorer.WithMaxLoaded(cfg.MaxLoaded),
		explorer.WithPollInterval(cfg.PollInterval),
		explorer.WithLogger(logger.Named("explorer")),
	)
	if err != nil {
		return 1, err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := e.Close(closeCtx); err != nil {
			logger.Warn("Unable to close database: %v", err)
		}
	}()

	manager := cmd.NewManager(e)
	session := &builtin.Session{
		Log:       logger.Named("command"),
		Exporters: exporters(cfg, logger),
	}
	if err := manager.Register(builtin.Commands(session, manager)...); err != nil {
		return 1, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		if err := e.RunLazyLoader(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(gctx, cfg.MetricsAddr, logger.Named("metrics"))
		})
	}

	var code int
	if oneShot {
		code, err = runOnce(gctx, e, manager, cfg.Database, args)
	} else {
		err = runTui(gctx, g, e, manager, tuiSink, cfg.Database, logger)
	}

	cancel()
	if werr := g.Wait(); werr != nil && err == nil {
		err = werr
	}
	return code, err
}

func runOnce(ctx context.Context, e *explorer.Explorer, manager *cmd.Manager, database string, args []string) (int, error) {
	if database != "" {
		if err := e.LoadAll(ctx, database); err != nil {
			return 1, err
		}
	}
	return manager.Execute(ctx, os.Stdout, args...)
}

func runTui(ctx context.Context, g *errgroup.Group, e *explorer.Explorer, manager *cmd.Manager, sink *tui.Sink, database string, logger *log.Logger) error {
	model := tui.NewModel(ctx, e, manager, logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	sink.Attach(p)

	if database != "" {
		// Failures are published through the sink.
		g.Go(func() error {
			e.LoadAll(ctx, database)
			return nil
		})
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// openStore returns the in-memory demo store for the database name "demo".
func openStore(cfg *config.Config, logger *log.Logger) store.Database {
	if cfg.Database == demoDatabase {
		db := memory.NewMemoryDatabase()
		db.Register(demoDatabase, demoCatalog(time.Now()))
		return db
	}
	return sqlite.NewSQLiteDatabase(logger.Named("sqlite"))
}

func exporters(cfg *config.Config, logger *log.Logger) []report.Exporter {
	result := []report.Exporter{report.NewFileExporter(cfg.ExportDir)}

	if cfg.S3Enabled() {
		s3, err := report.NewS3Exporter(cfg.S3Endpoint, cfg.S3Bucket, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Prefix, cfg.S3UseSSL)
		if err != nil {
			logger.Warn("S3 export disabled: %v", err)
		} else {
			result = append(result, s3)
		}
	}

	if cfg.ConsulEnabled() {
		consul, err := report.NewConsulExporter(cfg.ConsulAddr, cfg.ConsulToken, cfg.ConsulPrefix)
		if err != nil {
			logger.Warn("Consul export disabled: %v", err)
		} else {
			result = append(result, consul)
		}
	}

	return result
}

func serveMetrics(ctx context.Context, addr string, logger *log.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Serving metrics on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
