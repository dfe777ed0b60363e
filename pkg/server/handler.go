package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	errs "github.com/vango-dev/vdiff/internal/errors"
	"github.com/vango-dev/vdiff/pkg/snapshot"
	"github.com/vango-dev/vdiff/pkg/vdom"
)

// logRequests logs one line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		level := slog.LevelDebug
		if ww.Status() >= 500 {
			level = slog.LevelError
		}
		s.logger.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail writes a coded error as JSON.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err *errs.Error) {
	status := errs.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, err.FormatJSON())
}

// mount resolves the {id} path parameter to a live mount.
func (s *Server) mount(w http.ResponseWriter, r *http.Request) (*Mount, bool) {
	id := chi.URLParam(r, "id")
	m, ok := s.mounts.Get(id)
	if !ok {
		s.fail(w, r, errs.New(errs.CodeUnknownMount).WithSource("mounts/"+id))
		return nil, false
	}
	return m, true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "mounts": s.mounts.Len()})
}

func (s *Server) handleListMounts(w http.ResponseWriter, _ *http.Request) {
	list := s.mounts.List()
	out := make([]MountInfo, len(list))
	for i, m := range list {
		out[i] = m.Info()
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateMount creates a mount. With ?restore=true the mount's last
// exported snapshot is rendered into it.
func (s *Server) handleCreateMount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, created, err := s.mounts.Ensure(id)
	if err != nil {
		if errors.Is(err, errInvalidMountID) {
			s.fail(w, r, errs.New(errs.CodeBadRequest).WithSource("mounts/"+id).Wrap(err))
			return
		}
		s.fail(w, r, errs.Classify(err, errs.CodeHostFailed))
		return
	}
	if created {
		s.logger.Info("mount created", "mount", id)
	}

	if restore, _ := strconv.ParseBool(r.URL.Query().Get("restore")); restore {
		snap, err := s.store.Load(r.Context(), id)
		if err != nil {
			s.fail(w, r, snapshotError(id, err))
			return
		}
		tree, err := snap.Node()
		if err != nil {
			s.fail(w, r, errs.Classify(err, errs.CodeInvalidDocument).WithSource("snapshot/"+id))
			return
		}
		if _, err := m.Render(r.Context(), tree); err != nil {
			s.fail(w, r, errs.Classify(err, errs.CodeHostFailed).WithSource("mounts/"+id))
			return
		}
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, m.Info())
}

// handleRender decodes a JSON or YAML tree document, chosen by
// Content-Type, and renders it into the mount.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	m, ok := s.mount(w, r)
	if !ok {
		return
	}

	format := vdom.FormatJSON
	if ct := r.Header.Get("Content-Type"); ct != "" {
		f, err := vdom.ParseFormat(ct)
		if err != nil {
			s.fail(w, r, errs.Classify(err, errs.CodeUnknownFormat))
			return
		}
		format = f
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, int64(s.cfg.Limits.MaxPayload)))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, errs.New(errs.CodeBadRequest).
				WithDetail(fmt.Sprintf("The request body exceeds %d bytes.", tooLarge.Limit)))
			return
		}
		s.fail(w, r, errs.New(errs.CodeBadRequest).Wrap(err))
		return
	}

	tree, err := vdom.Decode(body, format)
	if err != nil {
		s.fail(w, r, errs.Classify(err, errs.CodeInvalidDocument))
		return
	}

	res, err := m.Render(r.Context(), tree)
	if err != nil {
		s.fail(w, r, errs.Classify(err, errs.CodeHostFailed).WithSource("mounts/"+m.ID()))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHTML(w http.ResponseWriter, r *http.Request) {
	m, ok := s.mount(w, r)
	if !ok {
		return
	}
	html, err := m.HTML()
	if err != nil {
		s.fail(w, r, errs.Classify(err, errs.CodeHostFailed))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

// handleTree returns the last rendered tree, as JSON or with
// ?format=yaml as YAML.
func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	m, ok := s.mount(w, r)
	if !ok {
		return
	}

	format := vdom.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := vdom.ParseFormat(q)
		if err != nil {
			s.fail(w, r, errs.Classify(err, errs.CodeUnknownFormat))
			return
		}
		format = f
	}

	data, err := vdom.Encode(m.Tree(), format)
	if err != nil {
		s.fail(w, r, errs.Classify(err, errs.CodeInvalidDocument))
		return
	}
	if format == vdom.FormatYAML {
		w.Header().Set("Content-Type", "application/yaml")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	_, _ = w.Write(data)
}

func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	m, ok := s.mount(w, r)
	if !ok {
		return
	}

	snap, err := m.Snapshot()
	if err == nil {
		err = s.store.Save(r.Context(), snap)
	}
	s.metrics.snapshots.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		s.fail(w, r, snapshotError(m.ID(), err))
		return
	}
	s.logger.Info("snapshot saved", "mount", m.ID(), "seq", snap.Seq)
	writeJSON(w, http.StatusCreated, snap)
}

// handleLoadSnapshot does not require a live mount, so snapshots survive
// restarts when the store is persistent.
func (s *Server) handleLoadSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.store.Load(r.Context(), id)
	if err != nil {
		s.fail(w, r, snapshotError(id, err))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, r, errs.New(errs.CodeSnapshotFailed).Wrap(err))
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

func snapshotError(id string, err error) *errs.Error {
	if errors.Is(err, snapshot.ErrNotFound) {
		return errs.New(errs.CodeNoSnapshot).WithSource("snapshot/" + id)
	}
	return errs.New(errs.CodeSnapshotFailed).WithSource("snapshot/" + id).Wrap(err)
}
