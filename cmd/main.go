// Package main is the production entry point for the audio edge effects app.
//
// The app pins audio-reactive visualization strips to the edges of the
// primary display:
// - Event-driven communication (no callbacks)
// - Dependency injection for testability
// - Ports and adapters around the rendering engine
//
// Build:
//
//	go build -o build/edgefx ./cmd
//
// Run:
//
//	./build/edgefx -input song.mp3
package main

import (
	"flag"
	"log"
	"log/slog"
	"strings"

	"github.com/wailsapp/wails/v3/pkg/application"

	"github.com/marshmansf/audio-edge-effects-sub000/frontend"
	wailshost "github.com/marshmansf/audio-edge-effects-sub000/internal/adapter/windowhost/wails"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/app"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/effect"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/logger"
)

func main() {
	var (
		input     = flag.String("input", "", "audio file to analyze (wav, mp3, flac or ogg; empty runs a synthetic spectrum)")
		logLevel  = flag.String("log-level", "", "log level: debug, info, warn or error (default from EDGEFX_LOG_LEVEL)")
		logFormat = flag.String("log-format", "", "log format: text or json")
	)
	flag.Parse()

	// Create default configuration
	config := app.DefaultConfig()
	config.AudioInput = *input
	if *logFormat != "" {
		config.LogFormat = *logFormat
	}
	if *logLevel != "" {
		if err := config.LogLevel.UnmarshalText([]byte(*logLevel)); err != nil {
			log.Fatalf("Invalid log level %q: %v", *logLevel, err)
		}
	}

	// Create the Wails application serving the embedded overlay page
	wailsApp := application.New(application.Options{
		Name:        "Audio Edge Effects",
		Description: "Audio-reactive visualizations pinned to the screen edges",
		Assets: application.AssetOptions{
			Handler: application.BundledAssetFileServer(frontend.Assets),
		},
		Mac: application.MacOptions{
			// The app lives in the system tray; overlay windows come and go
			ApplicationShouldTerminateAfterLastWindowClosed: false,
		},
	})

	shellLog := logger.NewLogger(logger.Config{
		Level:  config.LogLevel,
		Format: config.LogFormat,
	})
	config.WindowHost = wailshost.NewHost(
		shellLog.With(slog.String("component", "windowhost")), wailsApp)

	// Create the engine with dependency injection
	engine, err := app.NewApplication(config)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Ensure a graceful shutdown (idempotent; the tray quit path calls it too)
	defer engine.Shutdown()

	setupTray(wailsApp, engine, shellLog)
	logNowPlaying(engine, shellLog)

	// Activate the saved edges; overlay windows created here are realized
	// once the event loop starts.
	if err := engine.Start(); err != nil {
		engine.Shutdown()
		log.Fatalf("Failed to start engine: %v", err)
	}

	// Run application (blocks until quit)
	if err := wailsApp.Run(); err != nil {
		shellLog.Error("application error", slog.Any("error", err))
	}
}

// setupTray builds the system tray menu: one checkbox per screen edge,
// radio groups for visualization mode and color scheme, and quit.
func setupTray(wailsApp *application.App, engine *app.Application, logger *slog.Logger) {
	tray := wailsApp.SystemTray.New()
	menu := wailsApp.NewMenu()
	sync := engine.Synchronizer()
	settings := sync.Settings()

	edgeItems := make(map[domain.Edge]*application.MenuItem, 4)
	for _, edge := range domain.Edges() {
		edge := edge
		item := menu.AddCheckbox(edgeLabel(edge), sync.EdgeActive(edge))
		item.OnClick(func(*application.Context) {
			if _, err := sync.Toggle(edge); err != nil {
				logger.Warn("toggle edge failed",
					slog.String("edge", string(edge)), slog.Any("error", err))
			}
			// Reconcile every checkbox: a refused toggle (last active edge,
			// missing screen) must not leave a stale checkmark.
			for e, it := range edgeItems {
				it.SetChecked(sync.EdgeActive(e))
			}
		})
		edgeItems[edge] = item
	}

	menu.AddSeparator()

	modeMenu := menu.AddSubmenu("Visualization")
	for _, info := range effect.Modes() {
		mode := info.Mode
		modeMenu.AddRadio(info.Name, mode == settings.Mode).OnClick(func(*application.Context) {
			if err := sync.SetMode(mode); err != nil {
				logger.Warn("set mode failed",
					slog.String("mode", string(mode)), slog.Any("error", err))
			}
		})
	}

	schemeMenu := menu.AddSubmenu("Color Scheme")
	for _, scheme := range domain.Schemes() {
		scheme := scheme
		schemeMenu.AddRadio(schemeLabel(scheme), scheme == settings.ColorScheme).OnClick(func(*application.Context) {
			if err := sync.SetColorScheme(scheme); err != nil {
				logger.Warn("set color scheme failed",
					slog.String("scheme", string(scheme)), slog.Any("error", err))
			}
		})
	}

	menu.AddSeparator()
	menu.Add("Quit").
		SetAccelerator("CmdOrCtrl+Q").
		OnClick(func(*application.Context) {
			engine.Shutdown()
			wailsApp.Quit()
		})

	tray.SetMenu(menu)
}

// logNowPlaying surfaces track metadata from the playback source.
func logNowPlaying(engine *app.Application, logger *slog.Logger) {
	engine.EventBus().Subscribe(domain.EventTrackChanged, func(event domain.Event) {
		e, ok := event.(domain.TrackChangedEvent)
		if !ok {
			return
		}
		logger.Info("now playing",
			slog.String("title", e.Track.Title),
			slog.String("artist", e.Track.Artist),
			slog.String("album", e.Track.Album))
	})
}

func edgeLabel(edge domain.Edge) string {
	switch edge {
	case domain.EdgeTop:
		return "Top Edge"
	case domain.EdgeBottom:
		return "Bottom Edge"
	case domain.EdgeLeft:
		return "Left Edge"
	case domain.EdgeRight:
		return "Right Edge"
	}
	return string(edge)
}

func schemeLabel(scheme domain.ColorScheme) string {
	s := string(scheme)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
