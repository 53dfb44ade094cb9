// Package server exposes the handwriting pipeline over HTTP.
//
// Routes:
//
//	POST   /api/handwriting           synthesize; ?save=true stores the document
//	GET    /api/handwriting           list stored documents (?limit=N)
//	GET    /api/handwriting/{id}      fetch a document
//	GET    /api/handwriting/{id}/svg  fetch a document as SVG
//	DELETE /api/handwriting/{id}      delete a document
//	GET    /api/alphabet              characters the model can write
//	GET    /healthz                   liveness
//
// Errors are returned as JSON with the error code and, for line errors, the
// offending line index.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/penstroke/pkg/buildinfo"
	"github.com/matzehuels/penstroke/pkg/config"
	"github.com/matzehuels/penstroke/pkg/core/path"
	"github.com/matzehuels/penstroke/pkg/core/render/sink"
	"github.com/matzehuels/penstroke/pkg/errors"
	"github.com/matzehuels/penstroke/pkg/model"
	"github.com/matzehuels/penstroke/pkg/pipeline"
	"github.com/matzehuels/penstroke/pkg/store"
)

// Request limits.
const (
	MaxBodyBytes   = 1 << 20
	DefaultTimeout = 2 * time.Minute
)

// Server handles handwriting API requests.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	defaults config.Synthesis
	timeout  time.Duration
}

// Option configures a [Server].
type Option func(*Server)

// WithDefaults sets the synthesis defaults applied to requests that leave
// fields unset.
func WithDefaults(d config.Synthesis) Option {
	return func(s *Server) { s.defaults = d }
}

// WithTimeout bounds the time a synthesis request may take.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a server. A nil store disables document persistence; a nil
// logger uses the default logger.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:   runner,
		store:    st,
		logger:   logger,
		defaults: config.Default().Synthesis,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the HTTP handler for all endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/alphabet", s.handleAlphabet)
		r.Route("/handwriting", func(r chi.Router) {
			r.Post("/", s.handleCreate)
			r.Get("/", s.handleList)
			r.Get("/{id}", s.handleGet)
			r.Get("/{id}/svg", s.handleGetSVG)
			r.Delete("/{id}", s.handleDelete)
		})
	})
	return r
}

// --- Handlers ---

type handwritingResp struct {
	ID     string            `json:"id,omitempty"`
	Hash   string            `json:"hash"`
	Cached bool              `json:"cached"`
	Width  int               `json:"width"`
	Height int               `json:"height"`
	Paths  []path.Descriptor `json:"paths"`
	SVG    string            `json:"svg"`
}

type listResp struct {
	Documents []*store.Document `json:"documents"`
}

type alphabetResp struct {
	Alphabet      string `json:"alphabet"`
	MaxLineLength int    `json:"max_line_length"`
}

type errorResp struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	Line    *int        `json:"line,omitempty"`
}

type healthResp struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResp{Status: "ok", Build: buildinfo.Current()})
}

func (s *Server) handleAlphabet(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, alphabetResp{
		Alphabet:      strings.TrimPrefix(model.Alphabet, "\x00"),
		MaxLineLength: errors.MaxLineLength,
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	save := r.URL.Query().Get("save") == "true"
	if save && s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "document storage is disabled"))
		return
	}

	s.defaults.Apply(&opts)
	opts.Formats = []string{pipeline.FormatSVG}
	opts.Logger = s.logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	res, err := s.runner.Execute(ctx, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	svg := res.Artifacts[pipeline.FormatSVG]
	resp := handwritingResp{
		Hash:   res.Hash,
		Cached: res.CacheInfo.SynthesisHit,
		Width:  res.Synthesis.Canvas.Width,
		Height: res.Synthesis.Canvas.Height,
		Paths:  res.Synthesis.Paths,
		SVG:    string(svg),
	}
	if resp.Paths == nil {
		resp.Paths = []path.Descriptor{}
	}

	status := http.StatusOK
	if save {
		doc := store.NewDocument(opts.Lines, res.Synthesis, svg)
		if err := s.store.Save(r.Context(), doc); err != nil {
			s.writeError(w, err)
			return
		}
		resp.ID = doc.ID
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	docs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if docs == nil {
		docs = []*store.Document{}
	}
	writeJSON(w, http.StatusOK, listResp{Documents: docs})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleGetSVG(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	svg := []byte(doc.SVG)
	if len(svg) == 0 {
		svg = sink.RenderSVG(doc.Result())
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := store.ValidateID(id); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*store.Document, bool) {
	if !s.requireStore(w) {
		return nil, false
	}
	id := chi.URLParam(r, "id")
	if err := store.ValidateID(id); err != nil {
		s.writeError(w, err)
		return nil, false
	}
	doc, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return doc, true
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "document storage is disabled"))
		return false
	}
	return true
}

// --- Helpers ---

// StatusCode maps an error to the HTTP status it is reported with.
func StatusCode(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidLine,
		errors.ErrCodeInvalidFormat, errors.ErrCodeEmptyInput:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeDocumentNotFound:
		return http.StatusNotFound
	case errors.ErrCodeModelInvocation, errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := StatusCode(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	resp := errorResp{Code: code, Message: errors.UserMessage(err)}
	if line, ok := errors.LineOf(err); ok {
		resp.Line = &line
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
