package main

import (
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/vbonduro/snapback/internal/config"
	"github.com/vbonduro/snapback/internal/logging"
	"github.com/vbonduro/snapback/internal/metrics"
	"github.com/vbonduro/snapback/internal/service"
	"github.com/vbonduro/snapback/internal/vision"
	claudevision "github.com/vbonduro/snapback/internal/vision/claude"
	moondreamvision "github.com/vbonduro/snapback/internal/vision/moondream"
	ollamavision "github.com/vbonduro/snapback/internal/vision/ollama"
	"github.com/vbonduro/snapback/internal/web"
	"github.com/vbonduro/snapback/internal/web/templates"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	if envErr != nil {
		logger.Warn("no .env file loaded, using process environment", "error", envErr)
	}

	if cfg.BackendFallback() {
		logger.Warn("unknown vision backend, falling back", "requested", cfg.RequestedBackend, "backend", cfg.VisionBackend)
	}

	model := newVisionModel(cfg, logger)
	m := metrics.New()
	svc := service.NewComplaintService(model, cfg.VisionBackend, m, logger)

	credentialEnv, _ := cfg.Credential()
	server := web.NewServer(svc, templates.FS, web.Options{
		CredentialEnv:  credentialEnv,
		MaxUploadBytes: cfg.MaxUploadMB << 20,
	}, m, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

// newVisionModel builds the configured backend. It returns nil when the
// backend's credential is missing; the server then starts with analysis
// disabled.
func newVisionModel(cfg *config.Config, logger *slog.Logger) vision.Model {
	if cfg.CredentialMissing() {
		name, _ := cfg.Credential()
		logger.Error("vision credential missing, analysis disabled", "backend", cfg.VisionBackend, "env", name)
		return nil
	}

	switch cfg.VisionBackend {
	case config.BackendClaude:
		logger.Info("using Claude vision backend", "model", cfg.ClaudeModel)
		return claudevision.NewClaudeModel(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	case config.BackendOllama:
		logger.Info("using Ollama vision backend", "host", cfg.OllamaHost, "model", cfg.OllamaModel)
		return ollamavision.NewOllamaModel(cfg.OllamaHost, cfg.OllamaModel)
	default:
		logger.Info("using Moondream vision backend", "url", cfg.MoondreamURL)
		return moondreamvision.NewMoondreamModel(cfg.MoondreamAPIKey, cfg.MoondreamURL)
	}
}
