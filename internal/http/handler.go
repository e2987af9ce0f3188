package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/davidbz/skill4green/internal/advisor"
	"github.com/davidbz/skill4green/internal/config"
	"github.com/davidbz/skill4green/internal/domain"
	"github.com/davidbz/skill4green/internal/observability"
)

const (
	defaultMaxItems   = 4
	minMaxItems       = 1
	maxMaxItems       = 8
	defaultExecutions = 1

	bytesPerMB = 1 << 20
)

// Handler handles HTTP requests.
type Handler struct {
	advisor        *advisor.Service
	verification   *domain.VerificationService
	generation     *domain.GenerationService
	maxUploadBytes int64
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(
	advisorService *advisor.Service,
	verification *domain.VerificationService,
	generation *domain.GenerationService,
	cfg *config.ServerConfig,
) *Handler {
	h := &Handler{
		advisor:        advisorService,
		verification:   verification,
		generation:     generation,
		maxUploadBytes: 20 * bytesPerMB,
	}
	if cfg != nil && cfg.MaxUploadMB > 0 {
		h.maxUploadBytes = cfg.MaxUploadMB * bytesPerMB
	}
	return h
}

type recommendationsBody struct {
	UserSummary *domain.UserSummary `json:"user_summary"`
	MaxItems    *int                `json:"max_items"`
}

type motivationBody struct {
	TaskCode   string   `json:"task_code"`
	Executions *int     `json:"executions"`
	Name       *string  `json:"name"`
	KWh        *float64 `json:"kwh"`
	CO2        *float64 `json:"co2"`
	Cost       *float64 `json:"cost"`
}

type healthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// HandleHealth reports liveness and the active model.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResponse{
		Status: "ok",
		Model:  h.generation.Model(),
	})
}

// HandleRecommendations suggests sustainability tasks for a user profile.
func (h *Handler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	h.recommend(w, r, false)
}

// HandleRefreshRecommendations suggests a new set of tasks for the same profile.
func (h *Handler) HandleRefreshRecommendations(w http.ResponseWriter, r *http.Request) {
	h.recommend(w, r, true)
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request, refresh bool) {
	ctx := r.Context()

	var body recommendationsBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	req, err := body.validate()
	if err != nil {
		writeError(w, r, err)
		return
	}

	observability.FromContext(ctx).Info("recommendations requested",
		observability.String("user_id", req.UserSummary.User.ID),
		observability.Int("max_items", req.MaxItems),
		observability.Bool("refresh", refresh),
	)

	writeJSON(w, r, http.StatusOK, h.advisor.Recommend(ctx, req, refresh))
}

// HandleMotivation computes a task's impact and returns a motivational message.
func (h *Handler) HandleMotivation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body motivationBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	req, err := body.validate()
	if err != nil {
		writeError(w, r, err)
		return
	}

	observability.FromContext(ctx).Info("motivation requested",
		observability.String("task_code", req.TaskCode),
		observability.Int("executions", req.Executions),
	)

	writeJSON(w, r, http.StatusOK, h.advisor.Motivate(ctx, req))
}

// HandleCompare scores a before/after pair with structural similarity only.
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	before, after, err := h.readImagePair(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.verification.Compare(r.Context(), before, after)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// HandleVerify decides whether a before/after pair shows a performed task.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	before, after, err := h.readImagePair(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.verification.Verify(r.Context(), before, after)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

func (b recommendationsBody) validate() (advisor.RecommendationRequest, error) {
	if b.UserSummary == nil {
		return advisor.RecommendationRequest{}, fmt.Errorf("%w: user_summary is required", domain.ErrValidation)
	}
	if b.UserSummary.User.ID == "" {
		return advisor.RecommendationRequest{}, fmt.Errorf("%w: user_summary.user.id is required", domain.ErrValidation)
	}

	maxItems := defaultMaxItems
	if b.MaxItems != nil {
		maxItems = *b.MaxItems
	}
	if maxItems < minMaxItems || maxItems > maxMaxItems {
		return advisor.RecommendationRequest{}, fmt.Errorf("%w: max_items must be between %d and %d",
			domain.ErrValidation, minMaxItems, maxMaxItems)
	}

	return advisor.RecommendationRequest{
		UserSummary: *b.UserSummary,
		MaxItems:    maxItems,
	}, nil
}

func (b motivationBody) validate() (advisor.MotivationRequest, error) {
	if b.TaskCode == "" {
		return advisor.MotivationRequest{}, fmt.Errorf("%w: task_code is required", domain.ErrValidation)
	}

	executions := defaultExecutions
	if b.Executions != nil {
		executions = *b.Executions
	}
	if executions < 1 {
		return advisor.MotivationRequest{}, fmt.Errorf("%w: executions must be at least 1", domain.ErrValidation)
	}

	req := advisor.MotivationRequest{
		TaskCode:   b.TaskCode,
		Executions: executions,
		KWh:        b.KWh,
		CO2:        b.CO2,
		Cost:       b.Cost,
	}
	if b.Name != nil {
		req.Name = *b.Name
	}

	return req, nil
}

// readImagePair reads the "before" and "after" multipart files.
func (h *Handler) readImagePair(w http.ResponseWriter, r *http.Request) ([]byte, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: expected multipart form with before and after files: %w",
			domain.ErrValidation, err)
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	before, err := readFormFile(r, "before")
	if err != nil {
		return nil, nil, err
	}

	after, err := readFormFile(r, "after")
	if err != nil {
		return nil, nil, err
	}

	return before, after, nil
}

func readFormFile(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("%w: %s file is required", domain.ErrValidation, field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file: %w", field, err)
	}

	return data, nil
}

func decodeJSON(r *http.Request, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: invalid request body: %w", domain.ErrValidation, err)
	}
	return nil
}

// statusFor maps request-level failures onto HTTP status codes.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidImage):
		return http.StatusBadRequest
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	logger := observability.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", observability.Error(err))
		writeJSON(w, r, status, errorResponse{Detail: "internal server error"})
		return
	}

	logger.Info("request rejected",
		observability.Int("status", status),
		observability.Error(err))
	writeJSON(w, r, status, errorResponse{Detail: err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Already written status, can't change it, just log.
		observability.FromContext(r.Context()).Error("failed to encode response", observability.Error(err))
	}
}
