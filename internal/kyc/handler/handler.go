// Package handler exposes the submission pipeline over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kycgate/internal/facematch"
	"kycgate/internal/imagehash"
	"kycgate/internal/kyc/models"
	"kycgate/internal/kyc/service"
	dErrors "kycgate/pkg/domain-errors"
	"kycgate/pkg/platform/httputil"
	"kycgate/pkg/requestcontext"
)

// wireReasons maps domain rejection codes to the reason labels clients match
// on. Codes outside this map are not submission rejections.
var wireReasons = map[dErrors.Code]string{
	dErrors.CodeMissingField:      "MissingField",
	dErrors.CodeWrongDocumentType: "WrongDocumentType",
	dErrors.CodeDuplicateDocument: "DuplicateDocument",
}

type rejectionBody struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type internalErrorBody struct {
	Message string `json:"message"`
}

// Handler serves the KYC intake endpoints.
type Handler struct {
	service *service.Service
	matcher facematch.Matcher
	logger  *slog.Logger

	submitMiddleware []func(http.Handler) http.Handler
}

// Option configures the Handler.
type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// WithSubmitMiddleware applies extra middleware (rate limiting) to the submit
// route only.
func WithSubmitMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(h *Handler) { h.submitMiddleware = append(h.submitMiddleware, mw...) }
}

func WithFaceMatcher(m facematch.Matcher) Option {
	return func(h *Handler) { h.matcher = m }
}

func New(svc *service.Service, opts ...Option) *Handler {
	h := &Handler{
		service: svc,
		matcher: facematch.NewClientDelegated(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the KYC routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/kyc", func(r chi.Router) {
		r.With(h.submitMiddleware...).Post("/submit", h.Submit)
		r.Post("/match-faces", h.MatchFaces)
		r.Get("/records/{recordID}", h.GetRecord)
	})
}

// Submit accepts one full submission and returns the pipeline verdict:
// 201 with the new record identity, 400 with a typed rejection reason, or a
// generic 500.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "request body must be valid JSON"))
		return
	}

	result, err := h.service.Submit(r.Context(), req)
	if err != nil {
		h.writeVerdict(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, result)
}

// MatchFaces compares a document photo against a selfie.
func (h *Handler) MatchFaces(w http.ResponseWriter, r *http.Request) {
	var req models.MatchFacesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "request body must be valid JSON"))
		return
	}
	if req.PassportPhoto == "" || req.Selfie == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeMissingField, "passportPhoto and selfie are required"))
		return
	}

	photo, err := imagehash.DecodeDataURI(req.PassportPhoto)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "passportPhoto is not a decodable image payload"))
		return
	}
	selfie, err := imagehash.DecodeDataURI(req.Selfie)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "selfie is not a decodable image payload"))
		return
	}

	result, err := h.matcher.Match(r.Context(), photo, selfie)
	if err != nil {
		h.logError(r, "face match failed", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "face match failed"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// GetRecord returns the read-only view of one submission record.
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetRecord(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logError(r, "record lookup failed", err)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// writeVerdict renders a pipeline rejection in the submission wire format.
// Anything without a mapped reason is an internal failure.
func (h *Handler) writeVerdict(w http.ResponseWriter, r *http.Request, err error) {
	code := dErrors.CodeOf(err)
	if reason, ok := wireReasons[code]; ok {
		httputil.WriteJSON(w, http.StatusBadRequest, rejectionBody{
			Reason:  reason,
			Message: dErrors.MessageOf(err),
		})
		return
	}

	h.logError(r, "submission failed", err)
	httputil.WriteJSON(w, http.StatusInternalServerError, internalErrorBody{
		Message: "submission could not be processed",
	})
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg,
		"request_id", requestcontext.RequestID(r.Context()),
		"error", err.Error(),
	)
}
