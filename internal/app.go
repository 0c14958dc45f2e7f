// Package internal contains core application functionality
package internal

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"

	"surveytrace/internal/config"
	"surveytrace/internal/delivery"
	"surveytrace/internal/diagnostic"
	"surveytrace/internal/logging"
	"surveytrace/internal/telemetry"
	"surveytrace/internal/tracker"
)

// Application assembles the capture pipeline: delivery engine,
// diagnostic sinks, and the tracking controller handed to the survey
// UI.
type Application struct {
	Config     *config.Config
	Logger     *slog.Logger
	Engine     *delivery.Engine
	Controller *tracker.Controller
	Translator *telemetry.Translator
}

// NewApp creates an application for the survey being taken, using the
// environment configuration.
func NewApp(surveyID string) (*Application, error) {
	return NewAppWithConfig(config.GetConfig(), surveyID)
}

// NewAppWithConfig creates an application with the provided config.
func NewAppWithConfig(cfg *config.Config, surveyID string) (*Application, error) {
	logger := logging.NewLogger(cfg)
	translator := telemetry.NewTranslatorForLocale(cfg.Locale)
	sessionID := uuid.New()

	var opts []delivery.Option
	if cfg.IsDevelopment() {
		opts = append(opts, delivery.WithSink(
			diagnostic.NewConsoleSink(logger, translator, surveyID, sessionID.String())))
	}
	if cfg.ArchiveEnabled {
		if err := os.MkdirAll(cfg.StoragePath, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
		archive, err := diagnostic.OpenArchive(cfg.GetArchivePath(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open diagnostic archive: %w", err)
		}
		opts = append(opts, delivery.WithSink(archive))
	}

	// Without server logging the engine runs dry: diagnostic sinks
	// only, nothing on the wire.
	var submitter delivery.Submitter
	if cfg.ServerLogging {
		submitter = delivery.NewHTTPSubmitter(cfg.CollectorBaseURL, http.DefaultClient)
	}

	engine := delivery.NewEngine(submitter, logger, opts...)
	controller := tracker.NewController(engine, engine, logger,
		tracker.WithSurveyID(surveyID),
		tracker.WithSessionID(sessionID),
		tracker.WithTranslator(translator))

	return &Application{
		Config:     cfg,
		Logger:     logger,
		Engine:     engine,
		Controller: controller,
		Translator: translator,
	}, nil
}

// Shutdown ends the current question's session and waits for the
// queue to drain. Abrupt unload goes through Controller.Unload
// instead, which discards pending deliveries.
func (a *Application) Shutdown() {
	a.Controller.Deactivate()
	a.Engine.Wait()
}
