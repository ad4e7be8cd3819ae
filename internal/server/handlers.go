package server

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/hoverfx/pkg/buildinfo"
	"github.com/matzehuels/hoverfx/pkg/errors"
	"github.com/matzehuels/hoverfx/pkg/figure"
	"github.com/matzehuels/hoverfx/pkg/fx"
	"github.com/matzehuels/hoverfx/pkg/pipeline"
	"github.com/matzehuels/hoverfx/pkg/session"
	"github.com/matzehuels/hoverfx/pkg/storage"
)

// hoverRequest is the body of POST /figures/{id}/hover.
type hoverRequest struct {
	Event   fx.Event `json:"event"`
	Subplot []string `json:"subplot,omitempty"`
	Session string   `json:"session,omitempty"`
}

// hoverResponse carries the hover result and the session to send back on
// the next request.
type hoverResponse struct {
	Session  string     `json:"session"`
	Revision string     `json:"revision"`
	Result   *fx.Result `json:"result"`
}

type unhoverRequest struct {
	Session string `json:"session"`
}

type unhoverResponse struct {
	Session string     `json:"session"`
	State   fx.Session `json:"state"`
}

type figureResponse struct {
	*storage.Record
	Figure *figure.Document `json:"figure"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// =============================================================================
// Figures
// =============================================================================

func (s *Server) handleListFigures(w http.ResponseWriter, r *http.Request) {
	recs, err := s.figures.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if recs == nil {
		recs = []storage.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// handleCreateFigure stores a figure. The body is JSON unless the content
// type names TOML or YAML.
func (s *Server) handleCreateFigure(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	doc, err := figure.Read(body, bodyFormat(r.Header.Get("Content-Type")))
	if err != nil {
		s.writeError(w, err)
		return
	}
	rec, err := s.figures.Put(r.Context(), doc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("figure stored", "id", rec.ID, "revision", rec.Revision)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetFigure(w http.ResponseWriter, r *http.Request) {
	rec, doc, err := s.loadFigure(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, figureResponse{Record: rec, Figure: doc})
}

func (s *Server) handleDeleteFigure(w http.ResponseWriter, r *http.Request) {
	if err := s.figures.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) loadFigure(ctx context.Context, id string) (*storage.Record, *figure.Document, error) {
	rec, err := s.figures.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	doc, err := rec.Document()
	if err != nil {
		return nil, nil, err
	}
	return rec, doc, nil
}

func bodyFormat(contentType string) figure.Format {
	mt, _, _ := mime.ParseMediaType(contentType)
	switch mt {
	case "application/toml":
		return figure.FormatTOML
	case "application/yaml", "application/x-yaml", "text/yaml":
		return figure.FormatYAML
	}
	return figure.FormatJSON
}

// =============================================================================
// Hover
// =============================================================================

// handleHover runs one hover cycle against the state of the request's
// session. A request without a session starts a new one.
func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	var req hoverRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	ctx := r.Context()
	rec, doc, err := s.loadFigure(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	snap, err := s.snapshot(ctx, req.Session, rec.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.runner.Execute(ctx, pipeline.Options{
		Figure:   doc,
		Revision: rec.Revision,
		Event:    req.Event,
		Subplots: req.Subplot,
		Format:   pipeline.FormatText,
		Session:  &snap.State,
		Logger:   s.logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	snap.Update(res.Session, s.sessionTTL())
	if err := s.sessions.Set(ctx, snap); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hoverResponse{Session: snap.ID, Revision: rec.Revision, Result: res.Hover})
}

// handleUnhover clears the hover state of a session.
func (s *Server) handleUnhover(w http.ResponseWriter, r *http.Request) {
	var req unhoverRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Session == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "session is required"))
		return
	}
	ctx := r.Context()
	_, doc, err := s.loadFigure(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	snap, err := s.sessions.Get(ctx, req.Session)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if snap == nil {
		s.writeError(w, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", req.Session))
		return
	}

	plot, err := figure.Build(doc, fx.WithLogger(s.logger), fx.WithScheduler(s.sched), fx.WithSession(snap.State))
	if err != nil {
		s.writeError(w, err)
		return
	}
	plot.Unhover(nil)

	snap.Update(plot.Session(), s.sessionTTL())
	if err := s.sessions.Set(ctx, snap); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unhoverResponse{Session: snap.ID, State: snap.State})
}

// handleHoverSVG renders the hover and spike layers for a pixel position.
// Responses are cached per figure revision.
func (s *Server) handleHoverSVG(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	evt := fx.Event{HoverMode: fx.Mode(q.Get("mode"))}
	var err error
	if evt.XPx, err = queryFloat(q.Get("x"), "x"); err != nil {
		s.writeError(w, err)
		return
	}
	if evt.YPx, err = queryFloat(q.Get("y"), "y"); err != nil {
		s.writeError(w, err)
		return
	}
	var subplots []string
	if v := q.Get("subplot"); v != "" {
		subplots = strings.Split(v, ",")
	}

	ctx := r.Context()
	rec, doc, err := s.loadFigure(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.runner.Execute(ctx, pipeline.Options{
		Figure:   doc,
		Revision: rec.Revision,
		Event:    evt,
		Subplots: subplots,
		Format:   pipeline.FormatSVG,
		TTL:      s.cacheTTL(),
		Logger:   s.logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if res.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Write(res.Artifact)
}

// snapshot loads session id, or starts a new one when id is empty, unknown
// or belongs to another figure.
func (s *Server) snapshot(ctx context.Context, id, figureID string) (*session.Snapshot, error) {
	if id != "" {
		snap, err := s.sessions.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if snap != nil && snap.FigureID == figureID {
			return snap, nil
		}
	}
	return session.New(id, figureID, s.sessionTTL()), nil
}

func queryFloat(v, name string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidCoordinates, "%s: %q is not a number", name, v)
	}
	return &f, nil
}

// =============================================================================
// Encoding
// =============================================================================

// decode reads a JSON body into v. An empty body leaves v unchanged.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil && err != io.EOF {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}

// statusFor maps error codes to HTTP statuses. Uncoded errors are internal.
func statusFor(err error) int {
	code := errors.GetCode(err)
	switch {
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case code == errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case code == "" || code == errors.ErrCodeInternal:
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}
