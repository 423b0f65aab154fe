package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"

	"github.com/umputun/sourcedeck/pkg/domain"
	"github.com/umputun/sourcedeck/pkg/feed"
	"github.com/umputun/sourcedeck/pkg/sources"
	"github.com/umputun/sourcedeck/pkg/store"
)

// importFeedsHandler adds rss sources from an uploaded OPML list or feed document.
// Feeds with an url already on the page are skipped.
func (s *Server) importFeedsHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := s.rssPage(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	if err := r.ParseMultipartForm(s.config.GetMaxUploadSize()); err != nil {
		s.renderNotice(w, http.StatusBadRequest, "Invalid upload", err)
		return
	}
	file, header, err := r.FormFile("subscriptions")
	if err != nil {
		s.renderNotice(w, http.StatusBadRequest, "Choose a subscription file to import", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.renderNotice(w, http.StatusBadRequest, "Failed to read upload", err)
		return
	}

	found, err := s.parser.ParseSubscriptions(data)
	switch {
	case errors.Is(err, feed.ErrNoSubscriptions):
		s.renderNotice(w, http.StatusUnprocessableEntity, "No feeds found in "+header.Filename, err)
		return
	case err != nil:
		s.renderNotice(w, http.StatusUnprocessableEntity, "Not an OPML or feed document: "+header.Filename, err)
		return
	}

	existing, err := s.sources.List(ctx, page, "")
	if err != nil && !errors.Is(err, store.ErrUnreadable) {
		s.renderNotice(w, http.StatusInternalServerError, "Failed to load sources", err)
		return
	}
	known := make(map[string]bool, len(existing))
	for _, src := range existing {
		known[feedURL(src)] = true
	}

	added, skipped := 0, 0
	for _, src := range found {
		if known[feedURL(src)] {
			skipped++
			continue
		}
		if _, err := s.sources.Add(ctx, page, src); err != nil {
			log.Printf("[WARN] failed to import feed %q: %v", feedURL(src), err)
			skipped++
			continue
		}
		known[feedURL(src)] = true
		added++
	}
	log.Printf("[INFO] imported %d feeds into %s from %s, skipped %d", added, page.Slug, header.Filename, skipped)

	w.Header().Set("HX-Trigger", eventSourcesChanged)
	s.renderFragment(w, http.StatusOK, "notice",
		noticeView{Message: fmt.Sprintf("Imported %d feeds, skipped %d", added, skipped), Level: "info"})
}

// exportFeedsHandler serves the rss sources of a page as an OPML subscription list
func (s *Server) exportFeedsHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := s.rssPage(w, r)
	if !ok {
		return
	}

	list, err := s.sources.List(r.Context(), page, "")
	if err != nil {
		log.Printf("[ERROR] failed to get sources for OPML: %v", err)
		http.Error(w, "Failed to generate OPML", http.StatusInternalServerError)
		return
	}

	opml, err := s.generator.GenerateOPML(page.Title, list)
	if err != nil {
		log.Printf("[ERROR] failed to generate OPML: %v", err)
		http.Error(w, "Failed to generate OPML", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/x-opml; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": page.Slug + ".opml"}))
	if _, err := w.Write([]byte(opml)); err != nil {
		log.Printf("[ERROR] failed to write OPML response: %v", err)
	}
}

// rssPage resolves the slug to a page holding rss sources
func (s *Server) rssPage(w http.ResponseWriter, r *http.Request) (sources.Page, bool) {
	page, ok := s.lookupPage(w, r)
	if !ok {
		return page, false
	}
	if page.Type != domain.SourceRSS {
		s.respondWithError(w, http.StatusNotFound, "Page has no feeds", nil)
		return page, false
	}
	return page, true
}

func feedURL(src domain.Source) string {
	if cfg, ok := src.Config.(*domain.RSSConfig); ok {
		return strings.TrimRight(strings.ToLower(cfg.URL), "/")
	}
	return ""
}
