package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/snapback/internal/domain"
	"github.com/vbonduro/snapback/internal/vision"
)

const validAssessment = `{"product_condition":"curdled","expiry_status":"expired","packaging_integrity":"intact","food_safety_concerns":"spoilage risk","severity":"high"}`

const observations = "Visible discoloration near the cap; a Blinkit delivery label is visible in the background."

// stubVision answers the assessment and observations prompts with canned
// text and counts calls.
type stubVision struct {
	assessment   string
	observations string
	queryErr     error

	mu       sync.Mutex
	encodes  int
	prompts  []string
	encoded  []*vision.EncodedImage
	lastData []byte
}

func (s *stubVision) Encode(_ context.Context, r io.Reader, mimeType string) (*vision.EncodedImage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.encodes++
	s.lastData = data
	return &vision.EncodedImage{MediaType: mimeType, Data: string(data)}, nil
}

func (s *stubVision) Query(_ context.Context, img *vision.EncodedImage, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	s.encoded = append(s.encoded, img)
	if s.queryErr != nil {
		return "", s.queryErr
	}
	if strings.Contains(prompt, "JSON") {
		return s.assessment, nil
	}
	return s.observations, nil
}

type stubRecorder struct {
	analyses []string
	queries  []string
}

func (r *stubRecorder) RecordAnalysis(backend, outcome string, _ time.Duration) {
	r.analyses = append(r.analyses, backend+"/"+outcome)
}

func (r *stubRecorder) RecordQuery(backend, query, outcome string) {
	r.queries = append(r.queries, backend+"/"+query+"/"+outcome)
}

func complaint() domain.ComplaintInput {
	return domain.ComplaintInput{
		Image:       []byte{0xFF, 0xD8, 0xFF, 0xE0},
		MimeType:    "image/jpeg",
		Filename:    "milk.jpg",
		Description: "Expired milk from Blinkit",
	}
}

func TestComplaintServiceAnalyze(t *testing.T) {
	vis := &stubVision{assessment: validAssessment, observations: observations}
	rec := &stubRecorder{}
	svc := NewComplaintService(vis, "moondream", rec, slog.Default())

	report, err := svc.Analyze(context.Background(), complaint())
	require.NoError(t, err)

	assert.Equal(t, "curdled", report.Assessment.ProductCondition)
	assert.Equal(t, "high", report.Assessment.Severity)
	assert.Equal(t, observations, report.Observations)
	assert.Equal(t, "Expired milk from Blinkit", report.Input.Description)

	assert.Equal(t, 1, vis.encodes, "image must be encoded once")
	require.Len(t, vis.prompts, 2)
	assert.Equal(t, vision.AssessmentPrompt("Expired milk from Blinkit"), vis.prompts[0])
	assert.Equal(t, vision.ObservationPrompt("Expired milk from Blinkit"), vis.prompts[1])
	assert.Same(t, vis.encoded[0], vis.encoded[1], "both queries must reuse the encoded image")
	assert.Equal(t, complaint().Image, vis.lastData)

	assert.Equal(t, []string{"moondream/ok"}, rec.analyses)
	assert.Equal(t, []string{"moondream/assessment/ok", "moondream/observations/ok"}, rec.queries)
}

func TestComplaintServiceMalformedAssessmentSkipsObservations(t *testing.T) {
	tests := []struct {
		name   string
		answer string
	}{
		{name: "not json", answer: "The milk looks bad."},
		{name: "missing key", answer: `{"product_condition":"curdled","expiry_status":"expired","packaging_integrity":"intact","food_safety_concerns":"spoilage risk"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vis := &stubVision{assessment: tt.answer, observations: observations}
			rec := &stubRecorder{}
			svc := NewComplaintService(vis, "moondream", rec, slog.Default())

			report, err := svc.Analyze(context.Background(), complaint())

			assert.Nil(t, report)
			require.Error(t, err)
			assert.True(t, domain.IsKind(err, domain.ErrParse))
			assert.NotContains(t, err.Error(), observations)
			assert.Len(t, vis.prompts, 1, "observations query must not run")
			assert.Equal(t, []string{"moondream/parse"}, rec.analyses)
		})
	}
}

func TestComplaintServiceQueryError(t *testing.T) {
	queryErr := domain.WrapError(domain.ErrNetwork, "moondream query", errors.New("connection refused"))
	vis := &stubVision{queryErr: queryErr}
	rec := &stubRecorder{}
	svc := NewComplaintService(vis, "moondream", rec, slog.Default())

	_, err := svc.Analyze(context.Background(), complaint())

	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrNetwork))
	assert.Equal(t, []string{"moondream/assessment/network"}, rec.queries)
	assert.Equal(t, []string{"moondream/network"}, rec.analyses)
}

func TestComplaintServiceWithoutModel(t *testing.T) {
	rec := &stubRecorder{}
	svc := NewComplaintService(nil, "moondream", rec, slog.Default())

	assert.False(t, svc.Available())
	_, err := svc.Analyze(context.Background(), complaint())

	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrMissingCredential))
	assert.Empty(t, rec.queries)
}

func TestComplaintServiceRequiresBothInputs(t *testing.T) {
	tests := []struct {
		name  string
		input domain.ComplaintInput
	}{
		{name: "no image", input: domain.ComplaintInput{Description: "Stale bread"}},
		{name: "no text", input: domain.ComplaintInput{Image: []byte{0xFF}}},
		{name: "blank text", input: domain.ComplaintInput{Image: []byte{0xFF}, Description: "  \n "}},
		{name: "nothing", input: domain.ComplaintInput{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vis := &stubVision{assessment: validAssessment, observations: observations}
			svc := NewComplaintService(vis, "moondream", nil, slog.Default())

			_, err := svc.Analyze(context.Background(), tt.input)

			require.Error(t, err)
			assert.True(t, domain.IsKind(err, domain.ErrInvalidInput))
			assert.Zero(t, vis.encodes)
			assert.Empty(t, vis.prompts)
		})
	}
}
