package http

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	schemachecker "github.com/bpkcongli/schema-checker"
	"github.com/bpkcongli/schema-checker/pkg/catalog"
	"github.com/bpkcongli/schema-checker/pkg/domain"
	"github.com/bpkcongli/schema-checker/pkg/ports"
	"github.com/bpkcongli/schema-checker/pkg/schema"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

//go:embed openapi.yaml
var rawSpec []byte

// DefaultMaxBodyBytes caps request bodies when WithMaxBodyBytes is not given.
const DefaultMaxBodyBytes = 1 << 20

// DefaultListLimit is the number of rejections returned when no limit is given.
const DefaultListLimit = 50

// Catalog defines the lookups the server needs from a set of named checkers.
type Catalog interface {
	Entry(name string) (*catalog.Entry, error)
	Entries() []*catalog.Entry
}

// CheckResult is the body of a check response.
type CheckResult struct {
	Valid       bool        `json:"valid"`
	Code        schema.Code `json:"code,omitempty"`
	Field       string      `json:"field,omitempty"`
	Message     string      `json:"message,omitempty"`
	RejectionID string      `json:"rejection_id,omitempty"`
}

// ErrorResponse is the body of every non-check error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server exposes a catalog of checkers over HTTP.
type Server struct {
	Catalog      Catalog
	Store        ports.RejectionStore
	MaxBodyBytes int64
	Logger       *slog.Logger
	Metrics      http.Handler

	spec *openapi3.T
}

// Option configures the Server.
type Option func(*Server)

// WithRejectionStore records every refused payload in store.
func WithRejectionStore(store ports.RejectionStore) Option {
	return func(s *Server) {
		s.Store = store
	}
}

// WithMaxBodyBytes caps the size of request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		s.MaxBodyBytes = n
	}
}

// WithLogger sets the server's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi spec: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}
	return doc, nil
}

func newServer(opts []Option) *Server {
	s := &Server{
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// NewHandler creates a new HTTP handler for the catalog.
func NewHandler(cat Catalog, opts ...Option) (http.Handler, error) {
	server := newServer(opts)
	server.Catalog = cat

	spec, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}
	server.spec = spec

	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, server.spec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/schemas", server.ListSchemas)
	r.Get("/schemas/{name}", server.GetSchema)
	r.Post("/schemas/{name}/check", server.CheckPayload)
	r.Get("/rejections", server.ListRejections)
	r.Get("/rejections/{id}", server.GetRejection)

	if server.Metrics != nil {
		r.Handle("/metrics", server.Metrics)
	}

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Schema Checker API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec != nil && s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "schemachecker-http",
		"version":     strings.TrimSpace(schemachecker.Version),
		"api_version": apiVersion,
	})
}

// ListSchemas handles the GET /schemas request.
func (s *Server) ListSchemas(w http.ResponseWriter, r *http.Request) {
	entries := s.Catalog.Entries()
	defs := make([]catalog.Definition, 0, len(entries))
	for _, e := range entries {
		defs = append(defs, e.Definition)
	}
	writeJSON(w, http.StatusOK, defs)
}

// GetSchema handles the GET /schemas/{name} request.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookup(w, chi.URLParam(r, "name"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, entry.Definition)
}

// CheckPayload handles the POST /schemas/{name}/check request.
func (s *Server) CheckPayload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	entry, ok := s.lookup(w, name)
	if !ok {
		return
	}

	payload, _, err := decodeBody(w, r, s.MaxBodyBytes)
	if err != nil {
		s.badBody(w, err)
		return
	}

	if err := entry.Checker.Check(payload); err != nil {
		s.reject(w, r, name, payload, err)
		return
	}

	writeJSON(w, http.StatusOK, CheckResult{Valid: true})
}

// ListRejections handles the GET /rejections request.
func (s *Server) ListRejections(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeError(w, http.StatusNotImplemented, "rejection log is not configured")
		return
	}

	limit := DefaultListLimit
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %v", err))
		return
	}
	if limit < 1 {
		writeError(w, http.StatusBadRequest, "limit must be positive")
		return
	}

	list, err := s.Store.List(r.Context(), limit)
	if err != nil {
		s.Logger.Error("ListRejections failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list rejections")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetRejection handles the GET /rejections/{id} request.
func (s *Server) GetRejection(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeError(w, http.StatusNotImplemented, "rejection log is not configured")
		return
	}

	rej, err := s.Store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrRejectionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.Logger.Error("GetRejection failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load rejection")
		return
	}
	writeJSON(w, http.StatusOK, rej)
}

func (s *Server) lookup(w http.ResponseWriter, name string) (*catalog.Entry, bool) {
	entry, err := s.Catalog.Entry(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return entry, true
}

func (s *Server) badBody(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
		return
	}
	s.Logger.Warn("Invalid request body", "error", err)
	writeError(w, http.StatusBadRequest, "Invalid request body")
}

// reject answers 422 and records the rejection when a store is configured.
func (s *Server) reject(w http.ResponseWriter, r *http.Request, name string, payload any, err error) {
	if schema.CodeOf(err) == "" {
		s.Logger.Error("Check failed unexpectedly", "schema", name, "error", err)
		writeError(w, http.StatusInternalServerError, "check failed")
		return
	}

	result := CheckResult{
		Code:    schema.CodeOf(err),
		Field:   schema.FieldOf(err),
		Message: err.Error(),
	}

	if s.Store != nil {
		p, _ := schemachecker.AsPayload(payload)
		rej := domain.NewRejection(name, p, err)
		if saveErr := s.Store.Save(r.Context(), rej); saveErr != nil {
			s.Logger.Error("Failed to record rejection", "schema", name, "error", saveErr)
		} else {
			result.RejectionID = rej.ID
		}
	}

	s.Logger.Info("Payload rejected", "schema", name, "code", result.Code, "field", result.Field)
	writeJSON(w, http.StatusUnprocessableEntity, result)
}

// -- Helpers --

// decodeBody reads the whole body and decodes it as a single JSON value with
// numbers kept as json.Number. An empty body decodes to nil.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64) (any, []byte, error) {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return nil, nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, data, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, nil, err
	}
	if dec.More() {
		return nil, nil, errors.New("unexpected data after JSON value")
	}
	return v, data, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
