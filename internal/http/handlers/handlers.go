package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/preston-bernstein/nba-improvement-service/internal/dataset"
	"github.com/preston-bernstein/nba-improvement-service/internal/domain/stats"
	"github.com/preston-bernstein/nba-improvement-service/internal/improvement"
	"github.com/preston-bernstein/nba-improvement-service/internal/logging"
	"github.com/preston-bernstein/nba-improvement-service/internal/predictor"
	"github.com/preston-bernstein/nba-improvement-service/internal/providers"
	"github.com/preston-bernstein/nba-improvement-service/internal/warmer"
)

// Predictor runs one improvement prediction.
type Predictor interface {
	Predict(ctx context.Context, req improvement.Request) (stats.ModelResult, error)
}

// Handler wires HTTP routes to the improvement service.
type Handler struct {
	predictor Predictor
	defaults  improvement.Request
	timeout   time.Duration
	logger    *slog.Logger
	statusFn  func() warmer.Status
	validate  *validator.Validate
}

// predictQuery holds the resolved /predict-improvement parameters.
type predictQuery struct {
	Season      int `query:"season" validate:"min=1980,max=2100"`
	PlayerCount int `query:"player_count" validate:"min=50,max=400"`
	TopN        int `query:"top_n" validate:"min=1,max=25"`
}

// NewHandler constructs a Handler. defaults fill omitted query params; a zero timeout
// leaves the request context untouched.
func NewHandler(p Predictor, defaults improvement.Request, timeout time.Duration, logger *slog.Logger, statusFn func() warmer.Status) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("query"); name != "" {
			return name
		}
		return f.Name
	})
	return &Handler{
		predictor: p,
		defaults:  defaults,
		timeout:   timeout,
		logger:    logger,
		statusFn:  statusFn,
		validate:  v,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports whether the warm cycle is healthy enough to take traffic.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// PredictImprovement trains on the requested season and returns the top predicted improvers.
func (h *Handler) PredictImprovement(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	q, err := h.parseQuery(r)
	if err != nil {
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), h.logger)
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.predictor.Predict(ctx, improvement.Request{
		Season:      q.Season,
		PlayerCount: q.PlayerCount,
		TopN:        q.TopN,
	})
	if err != nil {
		status, msg := statusForError(err)
		logging.Warn(logger, "predict improvement failed",
			logging.FieldSeason, q.Season,
			logging.FieldStatusCode, status,
			"err", err,
		)
		writeError(w, r, status, msg, h.logger)
		return
	}

	writeJSON(w, nethttp.StatusOK, stats.NewImprovementResponse(result), h.logger)
}

func (h *Handler) parseQuery(r *nethttp.Request) (predictQuery, error) {
	values := r.URL.Query()
	q := predictQuery{
		Season:      h.defaults.Season,
		PlayerCount: h.defaults.PlayerCount,
		TopN:        h.defaults.TopN,
	}
	params := []struct {
		name string
		dst  *int
	}{
		{"season", &q.Season},
		{"player_count", &q.PlayerCount},
		{"top_n", &q.TopN},
	}
	for _, p := range params {
		raw := strings.TrimSpace(values.Get(p.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return predictQuery{}, fmt.Errorf("invalid %s: must be an integer", p.name)
		}
		*p.dst = n
	}
	if err := h.validate.Struct(q); err != nil {
		return predictQuery{}, describeValidation(err)
	}
	return q, nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "min":
		return fmt.Errorf("invalid %s: must be >= %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Errorf("invalid %s: must be <= %s", fe.Field(), fe.Param())
	default:
		return fmt.Errorf("invalid %s", fe.Field())
	}
}

// statusForError maps pipeline failures onto HTTP status codes and client messages.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return nethttp.StatusGatewayTimeout, "request timed out"
	case errors.Is(err, context.Canceled):
		return nethttp.StatusServiceUnavailable, "request canceled"
	case errors.Is(err, providers.ErrUpstreamUnavailable),
		errors.Is(err, dataset.ErrDatasetUnavailable),
		errors.Is(err, predictor.ErrInsufficientData):
		return nethttp.StatusBadGateway, err.Error()
	default:
		return nethttp.StatusInternalServerError, "internal error"
	}
}

// NotFound answers unknown routes with the JSON error shape.
func (h *Handler) NotFound(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
}

// MethodNotAllowed answers known routes hit with an unsupported method.
func (h *Handler) MethodNotAllowed(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
}
