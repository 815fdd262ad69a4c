// Package main is the entry point for the fsnoticed presenter daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/fsnotice/internal/audio"
	"github.com/jmylchreest/fsnotice/internal/config"
	"github.com/jmylchreest/fsnotice/internal/daemon"
	"github.com/jmylchreest/fsnotice/internal/dbus"
	"github.com/jmylchreest/fsnotice/internal/display"
	"github.com/jmylchreest/fsnotice/internal/store"
	"github.com/jmylchreest/fsnotice/internal/theme"
)

const (
	appID   = "io.github.jmylchreest.fsnoticed"
	appName = "fsnoticed"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/fsnotice/config.toml)")
	historyFile := flag.String("history-file", "", "Path to history file (default: ~/.local/share/fsnotice/history.jsonl)")
	flag.Parse()

	if *showVersion {
		fmt.Println(appName, "version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	path := *configPath
	if path == "" {
		path = config.ConfigPath()
	}
	historyPath := *historyFile
	if historyPath == "" {
		historyPath = config.HistoryPath()
	}

	os.Exit(run(path, historyPath, logger))
}

// run starts the GTK application and returns its exit status.
func run(configPath, historyPath string, logger *slog.Logger) int {
	logger.Info("starting fsnoticed", "version", version)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}

	app := adw.NewApplication(appID, 0)

	// Shared state between GTK main loop and signal handlers
	var (
		dbusServer    *dbus.Server
		presenter     *display.Presenter
		service       *daemon.Service
		themeLoader   *theme.Loader
		chime         *audio.Chime
		historyStore  *store.Store
		fileWatcher   *store.FileWatcher
		configWatcher *daemon.ConfigWatcher
		running       atomic.Bool
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopAll := func() {
		if chime != nil {
			chime.Stop()
		}
		if themeLoader != nil {
			themeLoader.StopHotReload()
		}
		if configWatcher != nil {
			configWatcher.Stop()
		}
		if fileWatcher != nil {
			_ = fileWatcher.Stop()
		}
		if presenter != nil {
			presenter.Close(dbus.CloseReasonClosed)
		}
		if dbusServer != nil {
			_ = dbusServer.Stop()
		}
		if historyStore != nil {
			_ = historyStore.Close()
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()

		glib.IdleAdd(func() {
			if running.Load() {
				app.Quit()
			}
		})
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		if err := config.EnsureDataDir(); err != nil {
			logger.Warn("failed to create data directory", "error", err)
		}
		persistence, err := store.NewJSONLPersistence(historyPath)
		if err != nil {
			logger.Error("failed to create persistence", "error", err)
			app.Quit()
			return
		}
		historyStore = store.NewStore(persistence)
		if err := historyStore.Hydrate(); err != nil {
			logger.Warn("failed to hydrate store", "error", err)
		}
		logger.Info("history store initialized", "path", historyPath, "count", historyStore.Count())

		// Pick up deletes and prunes made by the fsnotice CLI.
		fileWatcher, err = store.NewFileWatcher(historyStore, historyPath, logger)
		if err != nil {
			logger.Warn("failed to create history watcher", "error", err)
		} else if err := fileWatcher.Start(); err != nil {
			logger.Warn("failed to start history watcher", "error", err)
		}

		themeLoader = theme.NewLoader(config.ThemesDir(), logger)
		themeLoader.LoadTheme(cfg.Theme.Name)
		themeLoader.Apply(nil)
		if cfg.Theme.HotReload {
			themeLoader.StartHotReload(ctx)
		}

		chime = audio.NewChime(cfg, logger)
		if err := chime.Start(ctx); err != nil {
			logger.Warn("failed to start chime", "error", err)
		}

		presenter = display.NewPresenter(&app.Application, cfg, themeLoader, logger)
		dbusServer = dbus.NewServer(cfg, logger)

		service = daemon.NewService(cfg, presenter, func(fn func()) {
			glib.IdleAdd(fn)
		}, daemon.Options{
			History: historyStore,
			Chime:   chime,
			Emitter: dbusServer,
			Logger:  logger,
		})

		presenter.OnClose(service.HandleClosed)
		dbusServer.SetPresentHandler(service.Present)
		dbusServer.SetCloseHandler(service.Close)
		dbusServer.SetStateFunc(service.State)

		if err := dbusServer.Start(); err != nil {
			logger.Error("failed to start D-Bus server", "error", err)
			app.Quit()
			return
		}

		configWatcher = daemon.NewConfigWatcher(configPath, logger)
		configWatcher.SetReloadCallback(func(newConfig *config.Config) {
			glib.IdleAdd(func() {
				presenter.SetConfig(newConfig)
				dbusServer.UpdateConfig(newConfig)
				chime.UpdateConfig(newConfig)
				service.UpdateConfig(newConfig)

				if newConfig.Theme.Name != cfg.Theme.Name {
					themeLoader.LoadTheme(newConfig.Theme.Name)
					themeLoader.Apply(nil)
					logger.Info("theme changed", "theme", newConfig.Theme.Name)
				}

				cfg = newConfig
			})
		})
		configWatcher.SetErrorCallback(func(err error) {
			logger.Error("config reload rejected, keeping previous config", "error", err)
		})
		configWatcher.Start(ctx, cfg)

		logger.Info("fsnoticed ready", "dbus_name", dbus.BusName)

		// Create a hidden window to keep the application running
		// (GTK apps quit when all windows are closed)
		keepAliveWindow := gtk.NewWindow()
		keepAliveWindow.SetApplication(&app.Application)
		keepAliveWindow.SetDefaultSize(1, 1)
		keepAliveWindow.SetDecorated(false)
		keepAliveWindow.SetVisible(false)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		stopAll()
		running.Store(false)
	})

	status := app.Run([]string{os.Args[0]})
	cancel()

	if status != 0 {
		logger.Error("application exited with error", "status", status)
		return status
	}

	logger.Info("fsnoticed stopped")
	return 0
}

var _ daemon.Presenter = (*display.Presenter)(nil)
