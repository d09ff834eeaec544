package web

import (
	"encoding/json"
	"net/http"

	"github.com/vbonduro/snapback/internal/domain"
	"github.com/vbonduro/snapback/internal/render"
)

type apiPost struct {
	Kind         string `json:"kind"`
	Text         string `json:"text"`
	ImageCaption string `json:"image_caption,omitempty"`
}

type apiAnalyzeResponse struct {
	Assessment   domain.Assessment `json:"assessment"`
	Observations string            `json:"observations"`
	Posts        []apiPost         `json:"posts"`
	Hashtags     []string          `json:"hashtags"`
	Thread       string            `json:"thread"`
}

type apiError struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// handleAPIAnalyze is the JSON form of handleAnalyze. It takes the same
// multipart form.
func (s *Server) handleAPIAnalyze(w http.ResponseWriter, r *http.Request) {
	if !s.service.Available() {
		s.writeJSON(w, http.StatusServiceUnavailable, apiError{
			Error: missingCredentialMessage(s.credentialEnv),
			Kind:  domain.KindOf(domain.ErrMissingCredential),
		})
		return
	}

	in, err := s.readComplaint(r)
	if err != nil {
		s.writeJSON(w, readStatus(err), apiError{Error: err.Error(), Kind: domain.KindOf(err)})
		return
	}

	report, err := s.service.Analyze(r.Context(), in)
	if err != nil {
		s.writeJSON(w, statusFor(err), apiError{Error: analysisErrorMessage(err), Kind: domain.KindOf(err)})
		return
	}

	thread := render.BuildThread(report)
	posts := make([]apiPost, 0, len(thread.Posts))
	for _, p := range thread.Posts {
		posts = append(posts, apiPost{Kind: string(p.Kind), Text: p.Body(), ImageCaption: p.ImageCaption})
	}

	s.writeJSON(w, http.StatusOK, apiAnalyzeResponse{
		Assessment:   report.Assessment,
		Observations: report.Observations,
		Posts:        posts,
		Hashtags:     thread.Hashtags,
		Thread:       thread.Text(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"backend":      s.service.Backend(),
		"vision_ready": s.service.Available(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write json failed", "error", err)
	}
}
