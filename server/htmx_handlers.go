package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/umputun/sourcedeck/pkg/domain"
	"github.com/umputun/sourcedeck/pkg/form"
	"github.com/umputun/sourcedeck/pkg/sources"
	"github.com/umputun/sourcedeck/pkg/store"
)

const (
	// client event fired after a collection changed, list pages reload their rows on it
	eventSourcesChanged = "sources-changed"

	// name of the file input
	fileInput = "config.file"
)

var errInvalidForm = errors.New("invalid form data")

// dashboardData is rendered by dashboard.html
type dashboardData struct {
	ActivePage string
	Nav        []navItem
	Cards      []pageCard
	Custom     []pageCard
}

// sourcesPageData is rendered by sources.html
type sourcesPageData struct {
	ActivePage string
	Nav        []navItem
	Page       sources.Page
	Rows       rowsView
	CanImport  bool
}

// dashboardHandler shows one card per dedicated page and the generic collections with records
func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	cards, err := s.pageCards(r.Context(), sources.Pages())
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to load dashboard", err)
		return
	}

	data := dashboardData{Nav: navItems("")}
	for _, c := range cards {
		switch {
		case !c.Page.Generic:
			data.Cards = append(data.Cards, c)
		case c.Count > 0 || c.Unreadable:
			data.Custom = append(data.Custom, c)
		}
	}

	if err := s.renderPage(w, "dashboard.html", data); err != nil {
		log.Printf("[ERROR] failed to render dashboard: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// pageCards counts records of all pages concurrently. Unreadable collections are marked, not fatal.
func (s *Server) pageCards(ctx context.Context, pages []sources.Page) ([]pageCard, error) {
	res := make([]pageCard, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range pages {
		g.Go(func() error {
			count, err := s.sources.Count(gctx, p)
			switch {
			case errors.Is(err, store.ErrUnreadable):
				log.Printf("[WARN] %v", err)
				res[i] = pageCard{Page: p, Unreadable: true}
				return nil
			case err != nil:
				return fmt.Errorf("count %s: %w", p.Slug, err)
			}
			res[i] = pageCard{Page: p, Count: count}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// sourcesPageHandler renders a full list page
func (s *Server) sourcesPageHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := s.lookupPage(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	rows, err := s.listRows(r.Context(), page, query)
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to load sources", err)
		return
	}

	data := sourcesPageData{
		ActivePage: page.Slug,
		Nav:        navItems(page.Slug),
		Page:       page,
		Rows:       rows,
		CanImport:  page.Type == domain.SourceRSS,
	}
	if err := s.renderPage(w, "sources.html", data); err != nil {
		log.Printf("[ERROR] failed to render sources page: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// sourceRowsHandler re-renders table rows for search and after changes
func (s *Server) sourceRowsHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := s.lookupPage(w, r)
	if !ok {
		return
	}
	rows, err := s.listRows(r.Context(), page, r.URL.Query().Get("q"))
	if err != nil {
		s.renderNotice(w, http.StatusInternalServerError, "Failed to load sources", err)
		return
	}
	s.renderFragment(w, http.StatusOK, "source-rows", rows)
}

// listRows loads the filtered list, an unreadable collection shows as empty with a notice
func (s *Server) listRows(ctx context.Context, page sources.Page, query string) (rowsView, error) {
	list, err := s.sources.List(ctx, page, query)
	if err != nil && !errors.Is(err, store.ErrUnreadable) {
		return rowsView{}, err
	}
	rows := newRowsView(page, list, query)
	if err != nil {
		log.Printf("[WARN] %v", err)
		rows.Notice = &noticeView{Message: "Stored sources could not be read, showing an empty list", Level: "warning"}
	}
	return rows, nil
}

// newSourceFormHandler opens an empty add form of the page type
func (s *Server) newSourceFormHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := s.lookupPage(w, r)
	if !ok {
		return
	}
	s.renderFragment(w, http.StatusOK, "source-form", newFormView(page, form.New(page.Type, formOptions(page)...)))
}

// editSourceFormHandler opens the form pre-filled with a stored record
func (s *Server) editSourceFormHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := s.lookupPage(w, r)
	if !ok {
		return
	}
	src, err := s.sources.Get(r.Context(), page, r.PathValue("id"))
	if err != nil {
		s.respondWithSourceError(w, err)
		return
	}
	s.renderFragment(w, http.StatusOK, "source-form", newFormView(page, form.FromSource(src, formOptions(page)...)))
}

// checkSourceFormHandler re-evaluates required fields while the user types
func (s *Server) checkSourceFormHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := s.lookupPage(w, r)
	if !ok {
		return
	}
	if err := s.parseForm(r); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid form data", err)
		return
	}
	f, err := s.pageDraft(r, page, r.PostForm.Get("id"))
	if err != nil {
		s.respondWithSourceError(w, err)
		return
	}
	if _, err := s.attachUpload(r, f); err != nil {
		log.Printf("[DEBUG] upload rejected on check: %v", err)
	}
	s.renderFragment(w, http.StatusOK, "form-status", newStatusView(f))
}

// createSourceFormHandler adds a record from the modal form
func (s *Server) createSourceFormHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := s.lookupPage(w, r)
	if !ok {
		return
	}
	f, err := s.pageDraft(r, page, "")
	if err != nil {
		s.respondWithSourceError(w, err)
		return
	}
	s.submitForm(w, r, f, newFormView, func(ctx context.Context, src domain.Source) (domain.Source, error) {
		return s.sources.Add(ctx, page, src)
	})
}

// updateSourceFormHandler replaces a record from the modal form, the stored file is kept unless replaced
func (s *Server) updateSourceFormHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := s.lookupPage(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	f, err := s.pageDraft(r, page, id)
	if err != nil {
		s.respondWithSourceError(w, err)
		return
	}
	s.submitForm(w, r, f, newFormView, func(ctx context.Context, src domain.Source) (domain.Source, error) {
		return s.sources.Update(ctx, page, id, src)
	})
}

// deleteSourceRowHandler removes a record, the row is swapped with nothing
func (s *Server) deleteSourceRowHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := s.lookupPage(w, r)
	if !ok {
		return
	}
	err := s.sources.Delete(r.Context(), page, r.PathValue("id"))
	switch {
	case errors.Is(err, sources.ErrNotFound):
		s.renderNotice(w, http.StatusNotFound, "Source not found", err)
		return
	case err != nil:
		s.renderNotice(w, http.StatusInternalServerError, "Failed to delete source", err)
		return
	}
	w.Header().Set("HX-Trigger", eventSourcesChanged)
	w.WriteHeader(http.StatusOK)
}

// secretCellHandler toggles between the masked and the plain credential of a row
func (s *Server) secretCellHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := s.lookupPage(w, r)
	if !ok {
		return
	}
	if !page.ShowSecrets {
		http.NotFound(w, r)
		return
	}
	src, err := s.sources.Get(r.Context(), page, r.PathValue("id"))
	if err != nil {
		s.respondWithSourceError(w, err)
		return
	}
	s.renderFragment(w, http.StatusOK, "secret-cell", newRowView(page, src, r.URL.Query().Get("show") == "true"))
}

// fileHandler sends the attachment stored with a record
func (s *Server) fileHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := s.lookupPage(w, r)
	if !ok {
		return
	}
	src, err := s.sources.Get(r.Context(), page, r.PathValue("id"))
	if err != nil {
		s.respondWithSourceError(w, err)
		return
	}
	file := src.File()
	if file == nil || len(file.Data) == 0 {
		http.Error(w, "File not stored", http.StatusNotFound)
		return
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = file.DetectedType
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if _, err := w.Write(file.Data); err != nil {
		log.Printf("[WARN] failed to write file %s: %v", file.Name, err)
	}
}

// genericFormHandler renders the generic add form, query values keep inputs when the type changes
func (s *Server) genericFormHandler(w http.ResponseWriter, r *http.Request) {
	f := form.New(domain.SourceRSS)
	applyValues(f, r.URL.Query(), true)
	s.renderFragment(w, http.StatusOK, "generic-form", newGenericFormView(f))
}

// genericCheckHandler re-evaluates required fields of the generic form
func (s *Server) genericCheckHandler(w http.ResponseWriter, r *http.Request) {
	f, err := s.genericDraft(r)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid form data", err)
		return
	}
	if _, err := s.attachUpload(r, f); err != nil {
		log.Printf("[DEBUG] upload rejected on check: %v", err)
	}
	s.renderFragment(w, http.StatusOK, "form-status", newStatusView(f))
}

// genericCreateHandler stores a record under the collection of its selected type
func (s *Server) genericCreateHandler(w http.ResponseWriter, r *http.Request) {
	f, err := s.genericDraft(r)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid form data", err)
		return
	}
	view := func(_ sources.Page, f *form.Form) formView { return newGenericFormView(f) }
	s.submitForm(w, r, f, view, func(ctx context.Context, src domain.Source) (domain.Source, error) {
		return s.sources.Add(ctx, sources.GenericPage(src.Type), src)
	})
}

// submitForm attaches the upload and saves the draft. The form comes back with 422 while
// incomplete or rejected and with 500 when the write failed, inputs are kept in both cases.
func (s *Server) submitForm(w http.ResponseWriter, r *http.Request, f *form.Form,
	view func(sources.Page, *form.Form) formView, save func(context.Context, domain.Source) (domain.Source, error)) {
	page := sources.GenericPage(f.Type)
	if p, err := sources.Lookup(r.PathValue("slug")); err == nil {
		page = p
	}

	render := func(code int, msg string) {
		v := view(page, f)
		if msg != "" {
			v.Notice = &noticeView{Message: msg, Level: levelFor(code)}
		}
		s.renderFragment(w, code, v.templateName(), v)
	}

	var ferr *form.FileTypeError
	accepted, err := s.attachUpload(r, f)
	switch {
	case errors.As(err, &ferr):
		render(http.StatusUnprocessableEntity, ferr.Error())
		return
	case err != nil:
		s.respondWithError(w, http.StatusBadRequest, "Invalid file upload", err)
		return
	}

	saved, err := f.Submit(r.Context(), save)
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, form.ErrIncomplete), errors.As(err, &verr):
		render(http.StatusUnprocessableEntity, "Fill in all required fields")
		return
	case err != nil:
		log.Printf("[ERROR] failed to save source: %v", err)
		render(http.StatusInternalServerError, "Failed to save source, try again")
		return
	}

	log.Printf("[DEBUG] saved %s source %s, file uploaded: %v", saved.Type, saved.ID, accepted)
	// fired after the swap, so the reset form lands in the modal before it closes
	w.Header().Set("HX-Trigger-After-Swap", eventSourcesChanged)
	render(http.StatusOK, "")
}

// templateName returns the component rendering the form
func (v formView) templateName() string {
	if v.Generic {
		return "generic-form"
	}
	return "source-form"
}

// lookupPage resolves the slug path value, unknown slugs are answered with 404
func (s *Server) lookupPage(w http.ResponseWriter, r *http.Request) (sources.Page, bool) {
	page, err := sources.Lookup(r.PathValue("slug"))
	if err != nil {
		s.respondWithError(w, http.StatusNotFound, "Page not found", err)
		return sources.Page{}, false
	}
	return page, true
}

// respondWithSourceError maps service errors of a single record to responses
func (s *Server) respondWithSourceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sources.ErrNotFound):
		s.respondWithError(w, http.StatusNotFound, "Source not found", err)
	case errors.Is(err, store.ErrUnreadable):
		s.respondWithError(w, http.StatusConflict, "Stored sources could not be read", err)
	case errors.Is(err, errInvalidForm):
		s.respondWithError(w, http.StatusBadRequest, "Invalid form data", err)
	default:
		s.respondWithError(w, http.StatusInternalServerError, "Failed to load source", err)
	}
}

func formOptions(page sources.Page) []form.Option {
	if page.RequireFile {
		return []form.Option{form.WithRequiredFile()}
	}
	return nil
}

// pageDraft builds the draft of a list page form. With an id the stored record is the base,
// so inputs missing from the request and the stored file stay as they are.
func (s *Server) pageDraft(r *http.Request, page sources.Page, id string) (*form.Form, error) {
	if err := s.parseForm(r); err != nil {
		return nil, err
	}
	f := form.New(page.Type, formOptions(page)...)
	if id != "" {
		src, err := s.sources.Get(r.Context(), page, id)
		if err != nil {
			return nil, err
		}
		f = form.FromSource(src, formOptions(page)...)
	}
	applyValues(f, r.PostForm, false)
	return f, nil
}

// genericDraft builds the draft of the generic form, the type comes from the request
func (s *Server) genericDraft(r *http.Request) (*form.Form, error) {
	if err := s.parseForm(r); err != nil {
		return nil, err
	}
	f := form.New(domain.SourceRSS)
	applyValues(f, r.PostForm, true)
	return f, nil
}

// parseForm reads urlencoded and multipart bodies, uploads are limited by the configured size
func (s *Server) parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(s.config.GetMaxUploadSize()); err != nil {
			return fmt.Errorf("%w: %w", errInvalidForm, err)
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %w", errInvalidForm, err)
	}
	return nil
}

// applyValues copies name, config.* and secrets.* inputs into the draft.
// The type is applied first so type-dependent defaults see it.
func applyValues(f *form.Form, values map[string][]string, withType bool) {
	if v := values["source_type"]; withType && len(v) > 0 {
		f.Set(form.BucketTop, "source_type", v[0])
	}
	for key, v := range values {
		if len(v) == 0 || key == fileInput {
			continue
		}
		if key == "name" || strings.HasPrefix(key, "config.") || strings.HasPrefix(key, "secrets.") {
			f.SetPath(key, v[0])
		}
	}
}

// attachUpload moves the uploaded file into the draft, accepted is false when nothing was uploaded
func (s *Server) attachUpload(r *http.Request, f *form.Form) (accepted bool, err error) {
	if r.MultipartForm == nil {
		return false, nil
	}
	file, header, err := r.FormFile(fileInput)
	if errors.Is(err, http.ErrMissingFile) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return false, fmt.Errorf("read upload %s: %w", header.Filename, err)
	}
	u := form.Upload{Name: header.Filename, ContentType: header.Header.Get("Content-Type"), Data: data}
	if err := f.Attach(u); err != nil {
		return false, err
	}
	return true, nil
}
