package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/vbonduro/snapback/internal/domain"
	"github.com/vbonduro/snapback/internal/logging"
	"github.com/vbonduro/snapback/internal/vision"
)

// recorder is the subset of metrics.Metrics that ComplaintService requires.
type recorder interface {
	RecordAnalysis(backend, outcome string, d time.Duration)
	RecordQuery(backend, query, outcome string)
}

type ComplaintService struct {
	visionAPI vision.Model
	backend   string
	metrics   recorder
	logger    *slog.Logger
}

// NewComplaintService builds the analysis pipeline. visionAPI may be nil when
// the backend credential is missing; Analyze then fails without any network
// call.
func NewComplaintService(visionAPI vision.Model, backend string, metrics recorder, logger *slog.Logger) *ComplaintService {
	return &ComplaintService{
		visionAPI: visionAPI,
		backend:   backend,
		metrics:   metrics,
		logger:    logger,
	}
}

// Available reports whether a vision model is configured.
func (s *ComplaintService) Available() bool {
	return s.visionAPI != nil
}

func (s *ComplaintService) Backend() string {
	return s.backend
}

// Analyze runs the complaint through the vision model: encode the image once,
// ask the assessment query, parse it, then ask the observations query. A
// parse failure stops the pipeline before the observations query.
func (s *ComplaintService) Analyze(ctx context.Context, in domain.ComplaintInput) (*domain.Report, error) {
	start := time.Now()
	report, err := s.analyze(ctx, in)
	outcome := domain.KindOf(err)
	if s.metrics != nil {
		s.metrics.RecordAnalysis(s.backend, outcome, time.Since(start))
	}

	logger := s.logger.With("request_id", logging.RequestID(ctx), "backend", s.backend)
	if err != nil {
		logger.Error("complaint analysis failed", "kind", outcome, "error", err)
		return nil, err
	}
	logger.Info("complaint analysis complete",
		"severity", report.Assessment.Severity,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

func (s *ComplaintService) analyze(ctx context.Context, in domain.ComplaintInput) (*domain.Report, error) {
	if s.visionAPI == nil {
		return nil, domain.WrapError(domain.ErrMissingCredential, "analyze complaint", errors.New("vision backend is not configured"))
	}
	if len(in.Image) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "analyze complaint", errors.New("complaint image is required"))
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "analyze complaint", errors.New("complaint description is required"))
	}

	logger := s.logger.With("request_id", logging.RequestID(ctx), "backend", s.backend)
	logger.Info("complaint analysis started", "mime_type", in.MimeType, "bytes", len(in.Image))

	img, err := s.visionAPI.Encode(ctx, bytes.NewReader(in.Image), in.MimeType)
	if err != nil {
		return nil, err
	}

	raw, err := s.query(ctx, img, "assessment", vision.AssessmentPrompt(in.Description))
	if err != nil {
		return nil, err
	}
	assessment, err := vision.ParseAssessment(raw)
	if err != nil {
		logger.Debug("unparseable assessment answer", "answer", raw)
		return nil, err
	}

	observations, err := s.query(ctx, img, "observations", vision.ObservationPrompt(in.Description))
	if err != nil {
		return nil, err
	}

	return &domain.Report{
		Input:        in,
		Assessment:   *assessment,
		Observations: observations,
	}, nil
}

func (s *ComplaintService) query(ctx context.Context, img *vision.EncodedImage, name, prompt string) (string, error) {
	start := time.Now()
	answer, err := s.visionAPI.Query(ctx, img, prompt)
	if s.metrics != nil {
		s.metrics.RecordQuery(s.backend, name, domain.KindOf(err))
	}
	if err != nil {
		return "", err
	}
	s.logger.Debug("vision query complete",
		"request_id", logging.RequestID(ctx),
		"query", name,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return answer, nil
}
