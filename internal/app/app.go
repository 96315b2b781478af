// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the engine lifecycle.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/marshmansf/audio-edge-effects-sub000/internal/adapter/audio/mock"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/adapter/audio/playback"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/adapter/eventbus"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/adapter/repository/jsonfile"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/adapter/repository/memory"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/adapter/windowhost/headless"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/logger"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/ports"
	"github.com/marshmansf/audio-edge-effects-sub000/internal/service"
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the engine lifecycle (startup, shutdown)
// - Providing a clean entry point for the shell
type Application struct {
	// Core dependencies
	logger *slog.Logger

	// Infrastructure
	eventBus     *eventbus.SyncEventBus
	settingsRepo ports.SettingsRepository
	audioSource  ports.AudioSource
	windowHost   ports.WindowHost

	// Services
	synchronizer *service.OverlaySynchronizer

	shutdownOnce sync.Once
}

// Config holds application configuration.
type Config struct {
	// AudioInput is the audio file the playback source analyzes. Empty
	// restores the input saved on a previous launch; without one the
	// scripted source free-runs a synthetic spectrum so the overlays stay
	// alive without any input.
	AudioInput string

	// SettingsPath overrides the settings file location (empty selects the
	// user config directory).
	SettingsPath string

	// UseMockAudio forces the scripted audio source (for testing).
	UseMockAudio bool

	// UseMemorySettings keeps settings in memory instead of on disk
	// (for testing).
	UseMemorySettings bool

	// WindowHost is the overlay window host. Nil selects the headless host;
	// the shell passes the Wails host.
	WindowHost ports.WindowHost

	// LogLevel controls logging verbosity
	LogLevel slog.Level

	// LogFormat is the log output format, "text" or "json"
	LogFormat string
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	loggerCfg := logger.DefaultConfig()
	return Config{
		LogLevel:  loggerCfg.Level,
		LogFormat: loggerCfg.Format,
	}
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(config Config) (*Application, error) {
	app := &Application{}

	// Step 1: Create logger
	app.logger = logger.NewLogger(logger.Config{
		Level:  config.LogLevel,
		Format: config.LogFormat,
	})
	app.logger.Info("initializing application",
		slog.String("version", GetVersionInfo().FullString()))

	// Step 2: Create an event bus
	app.eventBus = eventbus.NewSyncEventBus()
	app.eventBus.SetLogger(app.logger.With(slog.String("component", "eventbus")))

	// Step 3: Create the settings repository
	if config.UseMemorySettings {
		app.settingsRepo = memory.NewSettingsRepository()
	} else {
		repo, err := jsonfile.NewSettingsRepository(config.SettingsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create settings repository: %w", err)
		}
		app.logger.Info("settings repository created", slog.String("path", repo.Path()))
		app.settingsRepo = repo
	}

	// Step 4: Create the audio source
	input := config.AudioInput
	if input == "" && !config.UseMockAudio {
		saved, err := app.settingsRepo.LoadAudioInput()
		switch {
		case err != nil:
			app.logger.Warn("failed to load saved audio input", slog.Any("error", err))
		case saved != "":
			if _, statErr := os.Stat(saved); statErr != nil {
				app.logger.Info("saved audio input unavailable, ignoring",
					slog.String("input", saved))
			} else {
				app.logger.Info("restoring saved audio input", slog.String("input", saved))
				input = saved
			}
		}
	}

	if config.UseMockAudio || input == "" {
		if !config.UseMockAudio {
			app.logger.Info("no audio input configured, using synthetic source")
		}
		app.audioSource = mock.NewSource(0)
	} else {
		source, err := playback.NewSource(
			app.logger.With(slog.String("source", "playback")),
			app.eventBus,
			&ports.AudioSourceConfig{Input: input},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create audio source: %w", err)
		}
		app.audioSource = source

		// Remember an explicitly chosen input for the next launch.
		if config.AudioInput != "" {
			if err := app.settingsRepo.SaveAudioInput(config.AudioInput); err != nil {
				app.logger.Warn("failed to save audio input", slog.Any("error", err))
			}
		}
	}

	// Step 5: Create the window host
	app.windowHost = config.WindowHost
	if app.windowHost == nil {
		app.logger.Info("no window host provided, running headless")
		app.windowHost = headless.NewHost()
	}

	// Step 6: Create the synchronizer (with dependency injection)
	app.synchronizer = service.NewOverlaySynchronizer(
		app.logger.With(slog.String("service", "synchronizer")),
		app.windowHost,
		app.audioSource,
		app.settingsRepo,
		app.eventBus,
	)

	return app, nil
}

// Start begins audio analysis and activates the saved overlay edges.
// This is called from the shell after the application is created.
func (a *Application) Start() error {
	if err := a.audioSource.Start(); err != nil {
		return fmt.Errorf("failed to start audio source: %w", err)
	}
	a.logger.Info("audio source started", slog.String("source", a.audioSource.Describe()))

	if err := a.synchronizer.Start(); err != nil {
		return fmt.Errorf("failed to start synchronizer: %w", err)
	}

	a.logger.Info("all services initialized successfully")
	return nil
}

// Shutdown gracefully shuts down the application in reverse creation order.
// Safe to call more than once.
func (a *Application) Shutdown() {
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application")

		if a.synchronizer != nil {
			if err := a.synchronizer.Shutdown(); err != nil {
				a.logger.Warn("failed to shutdown synchronizer", slog.Any("error", err))
			}
		}

		if a.audioSource != nil {
			if err := a.audioSource.Stop(); err != nil {
				a.logger.Warn("failed to stop audio source", slog.Any("error", err))
			}
		}

		if a.eventBus != nil {
			if err := a.eventBus.Close(); err != nil {
				a.logger.Warn("failed to close event bus", slog.Any("error", err))
			}
		}

		a.logger.Info("application shutdown complete")
	})
}

// Synchronizer returns the overlay synchronizer for the shell.
func (a *Application) Synchronizer() *service.OverlaySynchronizer {
	return a.synchronizer
}

// EventBus returns the application event bus.
func (a *Application) EventBus() ports.EventBus {
	return a.eventBus
}

// AudioSource returns the active audio source.
func (a *Application) AudioSource() ports.AudioSource {
	return a.audioSource
}

// Logger returns the root logger.
func (a *Application) Logger() *slog.Logger {
	return a.logger
}
