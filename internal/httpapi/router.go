// Package httpapi exposes the tool registry over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/pm-toolserver/internal/quality"
	"github.com/sells-group/pm-toolserver/internal/tools"
)

// maxBodyBytes bounds a tool call's argument payload.
const maxBodyBytes = 4 << 20

// Options configures the router.
type Options struct {
	Version        string
	RateLimitRPS   float64
	RateLimitBurst int
	AllowedOrigins []string
}

// ToolInfo is one entry of the tool listing.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error       string   `json:"error"`
	Type        string   `json:"validation_type,omitempty"`
	Field       string   `json:"field,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// NewRouter builds the HTTP handler for reg.
func NewRouter(reg *tools.Registry, opts Options) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": opts.Version})
	})

	r.Route("/v1/tools", func(r chi.Router) {
		if opts.RateLimitRPS > 0 {
			r.Use(rateLimit(rate.NewLimiter(rate.Limit(opts.RateLimitRPS), max(opts.RateLimitBurst, 1))))
		}
		r.Get("/", listTools(reg))
		r.Post("/{name}", callTool(reg))
	})
	return r
}

func listTools(reg *tools.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		out := make([]ToolInfo, 0, len(reg.Tools()))
		for _, t := range reg.Tools() {
			out = append(out, ToolInfo{Name: t.Name, Description: t.Description})
		}
		writeJSON(w, http.StatusOK, map[string]any{"tools": out})
	}
}

func callTool(reg *tools.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if _, ok := reg.Lookup(name); !ok {
			writeJSON(w, http.StatusNotFound, ErrorBody{Error: (&tools.UnknownToolError{Name: name}).Error()})
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSON(w, http.StatusRequestEntityTooLarge, ErrorBody{Error: "request body too large"})
				return
			}
			writeJSON(w, http.StatusBadRequest, ErrorBody{Error: "read request body: " + err.Error()})
			return
		}

		start := time.Now()
		resp, err := reg.Call(r.Context(), name, body)
		if err != nil {
			writeCallError(w, err)
			return
		}
		zap.L().Debug("http: tool call served",
			zap.String("tool", name),
			zap.String("request_id", resp.RequestID),
			zap.String("http_request_id", middleware.GetReqID(r.Context())),
			zap.Duration("elapsed", time.Since(start)),
		)
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeCallError(w http.ResponseWriter, err error) {
	if ve, ok := quality.AsValidationError(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorBody{
			Error:       ve.Message,
			Type:        string(ve.Type),
			Field:       ve.Field,
			Suggestions: ve.Suggestions,
		})
		return
	}
	var unknown *tools.UnknownToolError
	if errors.As(err, &unknown) {
		writeJSON(w, http.StatusNotFound, ErrorBody{Error: unknown.Error()})
		return
	}
	zap.L().Error("http: tool call failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, ErrorBody{Error: "internal error"})
}

func rateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				w.Header().Set("Retry-After", "1")
				writeJSON(w, http.StatusTooManyRequests, ErrorBody{Error: "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("http: encode response", zap.Error(err))
	}
}
