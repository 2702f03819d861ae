// Package httpapi serves schema management and document validation
// over HTTP.
//
// Routes:
//
//	POST   /v1/validate            validate a document
//	GET    /v1/schemas             list stored schema names
//	PUT    /v1/schemas/{name}      store a schema (body is YAML source)
//	GET    /v1/schemas/{name}      fetch the stored source
//	DELETE /v1/schemas/{name}      remove a schema
//	GET    /v1/schemas/{name}/export  JSON Schema rendering
//	GET    /healthz                liveness probe
//	GET    /metrics                prometheus metrics
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oneconfig/oneconfig"
	"github.com/oneconfig/oneconfig/internal/logging"
	"github.com/oneconfig/oneconfig/pkg/adapters/jsondoc"
	"github.com/oneconfig/oneconfig/pkg/adapters/yamldoc"
	"github.com/oneconfig/oneconfig/pkg/export"
	"github.com/oneconfig/oneconfig/pkg/interp"
	"github.com/oneconfig/oneconfig/pkg/ports"
	"github.com/oneconfig/oneconfig/pkg/registry"
	"github.com/oneconfig/oneconfig/pkg/schema"
)

// maxBodyBytes caps request bodies. Schemas and config documents are
// small; anything near a megabyte is abuse, not configuration.
const maxBodyBytes = 1 << 20

// Server exposes a schema registry over HTTP.
type Server struct {
	registry *registry.Registry
	logger   *slog.Logger
	prom     *prometheus.Registry
	metrics  *metrics
}

// NewServer creates a server around the given registry. A nil logger
// disables logging.
func NewServer(reg *registry.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	prom := prometheus.NewRegistry()
	return &Server{
		registry: reg,
		logger:   logger,
		prom:     prom,
		metrics:  newMetrics(prom),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.prom, promhttp.HandlerOpts{}))
	r.Route("/v1", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Get("/schemas", s.handleListSchemas)
		r.Route("/schemas/{name}", func(r chi.Router) {
			r.Put("/", s.handleSaveSchema)
			r.Get("/", s.handleGetSchema)
			r.Delete("/", s.handleDeleteSchema)
			r.Get("/export", s.handleExportSchema)
		})
	})
	return r
}

type validateRequest struct {
	// Schema names a stored schema; SchemaSource carries one inline.
	// Exactly one of the two must be set.
	Schema       string `json:"schema,omitempty"`
	SchemaSource string `json:"schema_source,omitempty"`

	// Document is the raw text to validate, in the given format:
	// yaml (default), json, jsonc or toml.
	Document string `json:"document"`
	Format   string `json:"format,omitempty"`

	// Interpolate expands !ref scalars before validation.
	Interpolate bool `json:"interpolate,omitempty"`
}

type validateResponse struct {
	Valid      bool            `json:"valid"`
	Violations []schema.Record `json:"violations,omitempty"`
	Normalized json.RawMessage `json:"normalized,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.validations.WithLabelValues("error").Inc()
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	node, status, err := s.schemaFor(r, req)
	if err != nil {
		s.metrics.validations.WithLabelValues("error").Inc()
		s.writeError(w, status, err.Error())
		return
	}

	doc, err := oneconfig.DecodeDocument(req.Format, []byte(req.Document))
	if err != nil {
		s.metrics.validations.WithLabelValues("error").Inc()
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Interpolate {
		if doc, err = interp.Resolve(doc); err != nil {
			s.metrics.validations.WithLabelValues("error").Inc()
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	res := schema.Validate(node, doc)
	s.metrics.duration.Observe(time.Since(start).Seconds())

	if !res.Valid() {
		s.metrics.validations.WithLabelValues("invalid").Inc()
		s.metrics.violations.Add(float64(len(res.Violations)))
		s.logger.Debug("document rejected", "schema", req.Schema, "violations", len(res.Violations))
		s.writeJSON(w, http.StatusOK, validateResponse{Valid: false, Violations: res.Records()})
		return
	}

	normalized, err := jsondoc.Encode(res.Normalized)
	if err != nil {
		s.metrics.validations.WithLabelValues("error").Inc()
		s.writeError(w, http.StatusInternalServerError, "failed to encode normalized document")
		return
	}
	s.metrics.validations.WithLabelValues("valid").Inc()
	s.writeJSON(w, http.StatusOK, validateResponse{Valid: true, Normalized: normalized})
}

// schemaFor picks the rule tree for a validate request, from the
// registry or from an inline source.
func (s *Server) schemaFor(r *http.Request, req validateRequest) (schema.Node, int, error) {
	switch {
	case req.Schema != "" && req.SchemaSource != "":
		return nil, http.StatusBadRequest, errors.New("schema and schema_source are mutually exclusive")
	case req.Schema != "":
		node, err := s.registry.Schema(r.Context(), req.Schema)
		if errors.Is(err, ports.ErrSchemaNotFound) {
			return nil, http.StatusNotFound, fmt.Errorf("schema %q not found", req.Schema)
		}
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return node, 0, nil
	case req.SchemaSource != "":
		doc, err := yamldoc.Decode([]byte(req.SchemaSource))
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		node, err := schema.Compile(doc)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		return node, 0, nil
	default:
		return nil, http.StatusBadRequest, errors.New("schema or schema_source is required")
	}
}

func (s *Server) handleSaveSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	src, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	switch err := s.registry.Save(r.Context(), name, src); {
	case errors.Is(err, registry.ErrInvalidSchema):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		s.logger.Error("failed to save schema", "schema", name, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to save schema")
	default:
		s.logger.Info("schema saved", "schema", name, "bytes", len(src))
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleGetSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	src, err := s.registry.Source(r.Context(), name)
	if errors.Is(err, ports.ErrSchemaNotFound) {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("schema %q not found", name))
		return
	}
	if err != nil {
		s.logger.Error("failed to load schema", "schema", name, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load schema")
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(src)
}

func (s *Server) handleDeleteSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	err := s.registry.Delete(r.Context(), name)
	if errors.Is(err, ports.ErrSchemaNotFound) {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("schema %q not found", name))
		return
	}
	if err != nil {
		s.logger.Error("failed to delete schema", "schema", name, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to delete schema")
		return
	}
	s.logger.Info("schema deleted", "schema", name)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	node, err := s.registry.Schema(r.Context(), name)
	if errors.Is(err, ports.ErrSchemaNotFound) {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("schema %q not found", name))
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out, err := export.Generate(node)
	if err != nil {
		s.logger.Error("failed to export schema", "schema", name, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to export schema")
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	w.Write(out)
}

func (s *Server) handleListSchemas(w http.ResponseWriter, r *http.Request) {
	names, err := s.registry.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list schemas", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list schemas")
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"schemas": names})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
