package web

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/vbonduro/snapback/internal/domain"
	"github.com/vbonduro/snapback/internal/render"
)

const defaultMaxUpload = 20 << 20 // 20 MB

// allowedExtensions maps the accepted upload extensions to their MIME type.
var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// acceptAttr is the file input's accept attribute.
const acceptAttr = ".jpg,.jpeg,.png"

// PageState is everything the page shows. Each request builds a fresh value;
// nothing is kept between requests.
type PageState struct {
	CredentialMissing bool
	CredentialEnv     string
	Accept            string

	Complaint   string
	ResultShown bool
	Thread      *render.Thread
	ImageURI    template.URL
	Error       string
}

func (s *Server) newPageState() PageState {
	return PageState{
		CredentialMissing: !s.service.Available(),
		CredentialEnv:     s.credentialEnv,
		Accept:            acceptAttr,
	}
}

func missingCredentialMessage(env string) string {
	if env == "" {
		return "API Key is missing. Please set it in the .env file."
	}
	return fmt.Sprintf("API Key is missing. Please set %s in the .env file.", env)
}

func analysisErrorMessage(err error) string {
	return "An error occurred during analysis: " + err.Error()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.renderIndex(w, http.StatusOK, s.newPageState()); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// handleAnalyze runs one analysis for the submitted form. HTMX requests get
// the results fragment (always 200 so htmx swaps it in); plain form posts get
// the whole page with a status matching the outcome.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	state := s.newPageState()

	status, err := s.runAnalysis(r, &state)
	if err != nil {
		state.Error = err.Error()
	}

	if r.Header.Get("HX-Request") == "true" {
		if err := s.renderPartial(w, "partials/results.html", state); err != nil {
			s.logger.Error("render partial failed", "error", err)
		}
		return
	}
	if err := s.renderIndex(w, status, state); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// runAnalysis fills state from the request and the analysis outcome. The
// returned error carries the user-facing message.
func (s *Server) runAnalysis(r *http.Request, state *PageState) (int, error) {
	if !s.service.Available() {
		return http.StatusServiceUnavailable, errors.New(missingCredentialMessage(s.credentialEnv))
	}

	in, err := s.readComplaint(r)
	state.Complaint = in.Description
	if err != nil {
		return readStatus(err), err
	}

	report, err := s.service.Analyze(r.Context(), in)
	if err != nil {
		return statusFor(err), errors.New(analysisErrorMessage(err))
	}

	thread := render.BuildThread(report)
	state.Thread = &thread
	state.ImageURI = imageDataURI(in)
	state.ResultShown = true
	return http.StatusOK, nil
}

// readComplaint extracts the image and complaint text from a multipart form.
// Only presence and file extension are checked.
func (s *Server) readComplaint(r *http.Request) (domain.ComplaintInput, error) {
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		return domain.ComplaintInput{}, invalidInput("failed to parse form")
	}

	in := domain.ComplaintInput{Description: r.FormValue("complaint")}

	file, header, err := r.FormFile("image")
	if err != nil {
		return in, invalidInput("complaint image required")
	}
	defer closeWithLog(file, "upload file", s.logger)

	if strings.TrimSpace(in.Description) == "" {
		return in, invalidInput("complaint description required")
	}

	extMIME, ok := allowedExtensions[strings.ToLower(filepath.Ext(header.Filename))]
	if !ok {
		return in, invalidInput("unsupported file type, use one of " + acceptAttr)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return in, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return in, invalidInput("complaint image required")
	}

	in.Image = data
	in.Filename = header.Filename
	in.MimeType = uploadMIME(data, extMIME)
	return in, nil
}

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
}

// uploadMIME prefers the sniffed type when it is one we accept, and falls
// back to the type implied by the extension.
func uploadMIME(data []byte, extMIME string) string {
	switch sniffed := http.DetectContentType(data); sniffed {
	case "image/jpeg", "image/png":
		return sniffed
	default:
		return extMIME
	}
}

func imageDataURI(in domain.ComplaintInput) template.URL {
	// Built from our own base64 output; html/template would otherwise reject data: URLs.
	return template.URL("data:" + in.MimeType + ";base64," + base64.StdEncoding.EncodeToString(in.Image))
}

// readStatus maps a readComplaint failure to an HTTP status. Only input
// problems are the client's fault.
func readStatus(err error) int {
	if domain.IsKind(err, domain.ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// statusFor maps a failure kind to an HTTP status for non-HTMX responses.
func statusFor(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrMissingCredential):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) renderIndex(w http.ResponseWriter, status int, state PageState) error {
	return s.renderPage(w, status, state,
		"base.html", "pages/index.html", "partials/results.html",
	)
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
