package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/umputun/sourcedeck/pkg/domain"
	"github.com/umputun/sourcedeck/pkg/sources"
	"github.com/umputun/sourcedeck/pkg/store"
)

// pageInfo describes a list page in the API
type pageInfo struct {
	Slug        string            `json:"slug"`
	Title       string            `json:"title"`
	StorageKey  string            `json:"storage_key"`
	SourceType  domain.SourceType `json:"source_type"`
	Count       int               `json:"count"`
	Unreadable  bool              `json:"unreadable,omitempty"`
	RequireFile bool              `json:"require_file,omitempty"`
	Generic     bool              `json:"generic,omitempty"`
}

// sourcesResponse is the list of a page
type sourcesResponse struct {
	Sources []domain.Source `json:"sources"`
	Count   int             `json:"count"`
	Warning string          `json:"warning,omitempty"`
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
		"storage": "ok",
	}
	if err := s.storage.Ping(ctx); err != nil {
		log.Printf("[WARN] storage ping failed: %v", err)
		status["status"] = "degraded"
		status["storage"] = err.Error()
	}
	renderJSON(w, r, http.StatusOK, status)
}

// pagesHandler lists all pages with record counts
func (s *Server) pagesHandler(w http.ResponseWriter, r *http.Request) {
	cards, err := s.pageCards(r.Context(), sources.Pages())
	if err != nil {
		log.Printf("[ERROR] failed to count sources: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	res := make([]pageInfo, 0, len(cards))
	for _, c := range cards {
		res = append(res, pageInfo{Slug: c.Page.Slug, Title: c.Page.Title, StorageKey: c.Page.StorageKey,
			SourceType: c.Page.Type, Count: c.Count, Unreadable: c.Unreadable,
			RequireFile: c.Page.RequireFile, Generic: c.Page.Generic})
	}
	renderJSON(w, r, http.StatusOK, res)
}

// listSourcesHandler returns the records of a page filtered by the q parameter
func (s *Server) listSourcesHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := apiPage(w, r)
	if !ok {
		return
	}
	list, err := s.sources.List(r.Context(), page, r.URL.Query().Get("q"))
	res := sourcesResponse{Sources: list, Count: len(list)}
	switch {
	case errors.Is(err, store.ErrUnreadable):
		log.Printf("[WARN] %v", err)
		res.Warning = "stored sources could not be read"
	case err != nil:
		log.Printf("[ERROR] failed to list %s: %v", page.Slug, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if res.Sources == nil {
		res.Sources = []domain.Source{}
	}
	renderJSON(w, r, http.StatusOK, res)
}

// getSourceHandler returns one record
func (s *Server) getSourceHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := apiPage(w, r)
	if !ok {
		return
	}
	src, err := s.sources.Get(r.Context(), page, r.PathValue("id"))
	if err != nil {
		renderSourceError(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, src)
}

// createSourceHandler adds a record, the source_type defaults to the page type
func (s *Server) createSourceHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := apiPage(w, r)
	if !ok {
		return
	}
	src, err := decodeSource(r, page)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	saved, err := s.sources.Add(r.Context(), page, src)
	if err != nil {
		renderSourceError(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusCreated, saved)
}

// updateSourceHandler replaces a record
func (s *Server) updateSourceHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := apiPage(w, r)
	if !ok {
		return
	}
	src, err := decodeSource(r, page)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	saved, err := s.sources.Update(r.Context(), page, r.PathValue("id"), src)
	if err != nil {
		renderSourceError(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, saved)
}

// deleteSourceHandler removes a record
func (s *Server) deleteSourceHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := apiPage(w, r)
	if !ok {
		return
	}
	if err := s.sources.Delete(r.Context(), page, r.PathValue("id")); err != nil {
		renderSourceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// apiPage resolves the slug path value, unknown slugs are answered with 404
func apiPage(w http.ResponseWriter, r *http.Request) (sources.Page, bool) {
	page, err := sources.Lookup(r.PathValue("slug"))
	if err != nil {
		renderError(w, r, err, http.StatusNotFound)
		return sources.Page{}, false
	}
	return page, true
}

// decodeSource reads a source envelope from the body and checks it belongs to the page
func decodeSource(r *http.Request, page sources.Page) (domain.Source, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return domain.Source{}, fmt.Errorf("read body: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return domain.Source{}, fmt.Errorf("invalid json: %w", err)
	}
	if _, ok := fields["source_type"]; !ok {
		fields["source_type"], _ = json.Marshal(page.Type)
		if body, err = json.Marshal(fields); err != nil {
			return domain.Source{}, fmt.Errorf("encode source: %w", err)
		}
	}

	var src domain.Source
	if err := json.Unmarshal(body, &src); err != nil {
		return domain.Source{}, fmt.Errorf("invalid source: %w", err)
	}
	if src.Type != page.Type {
		return domain.Source{}, fmt.Errorf("%s source can't be stored on page %s", src.Type, page.Slug)
	}
	return src, nil
}

// renderSourceError maps service errors to JSON responses, validation failures list missing fields
func renderSourceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		renderJSON(w, r, http.StatusUnprocessableEntity, map[string]any{"error": err.Error(), "missing": verr.Fields})
	case errors.Is(err, sources.ErrNotFound):
		renderError(w, r, err, http.StatusNotFound)
	case errors.Is(err, store.ErrUnreadable):
		renderError(w, r, err, http.StatusConflict)
	default:
		log.Printf("[ERROR] source operation failed: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
	}
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
