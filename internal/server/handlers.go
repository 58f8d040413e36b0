package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/dirchart/pkg/buildinfo"
	"github.com/matzehuels/dirchart/pkg/cache"
	"github.com/matzehuels/dirchart/pkg/errors"
	"github.com/matzehuels/dirchart/pkg/pipeline"
)

var contentTypes = map[string]string{
	pipeline.FormatPNG: "image/png",
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPDF: "application/pdf",
	pipeline.FormatDOT: "text/vnd.graphviz; charset=utf-8",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	_, data := s.current()
	w.Header().Set("Content-Type", "application/toml; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *Server) handleArtifact(vizType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := chi.URLParam(r, "format")
		opts := pipeline.Options{
			VizType:  vizType,
			Formats:  []string{format},
			Detailed: r.URL.Query().Get("detailed") == "1",
			Logger:   s.logger,
		}
		if raw := r.URL.Query().Get("dpi"); raw != "" {
			dpi, err := strconv.ParseFloat(raw, 64)
			if err != nil || dpi <= 0 || dpi > MaxDPI {
				s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "dpi must be a number in (0, %d], got %q", MaxDPI, raw))
				return
			}
			opts.DPI = dpi
		}

		d, _ := s.current()
		result, err := s.runner.Execute(r.Context(), d, opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		data := result.Artifacts[format]

		etag := fmt.Sprintf("%q", cache.Hash(data))
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "no-cache")
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", contentTypes[format])
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		_, _ = w.Write(data)
	}
}
