package sources

import (
	"fmt"

	"github.com/umputun/sourcedeck/pkg/domain"
	"github.com/umputun/sourcedeck/pkg/store"
)

// Page is a list page managing one collection
type Page struct {
	Slug        string
	Title       string
	StorageKey  string
	Type        domain.SourceType
	Layout      store.Layout
	RequireFile bool // dedicated file pages don't save without an upload
	ShowSecrets bool // per-row toggle of the credential column
	Generic     bool // collection written by the generic add form
}

// CustomPrefix starts the slugs of generic-form collections
const CustomPrefix = "custom_"

// GenericKeyPrefix starts the storage keys of generic-form collections
const GenericKeyPrefix = "contentSources_"

// dedicated pages in dashboard order
var dedicated = []Page{
	{Slug: "pdf", Title: "PDF Management", StorageKey: "pdfFiles", Type: domain.SourcePDF,
		Layout:     store.LayoutPDFFiles, RequireFile: true},
	{Slug: "excel", Title: "Excel Management", StorageKey: "excelSources", Type: domain.SourceExcel,
		Layout: store.LayoutExcelFiles, RequireFile: true},
	{Slug: "google_sheets", Title: "Google Sheets Management", StorageKey: "googleSheetSources",
		Type:       domain.SourceGoogleSheets, Layout: store.LayoutSheets},
	{Slug: "reddit", Title: "Reddit Management", StorageKey: "redditSources", Type: domain.SourceReddit,
		Layout: store.LayoutEnvelope},
	{Slug: "api", Title: "API Management", StorageKey: "apiList", Type: domain.SourceNewsAPI,
		Layout: store.LayoutEnvelope, ShowSecrets: true},
	{Slug: "rss_feeds", Title: "RSS Feed Management", StorageKey: "rssFeeds", Type: domain.SourceRSS,
		Layout: store.LayoutEnvelope},
}

// GenericPage returns the page of generic-form records of type t
func GenericPage(t domain.SourceType) Page {
	return Page{
		Slug:       CustomPrefix + string(t),
		Title:      t.Title() + " Sources",
		StorageKey: GenericKeyPrefix + string(t),
		Type:       t,
		Layout:     store.LayoutEnvelope,
		Generic:    true,
	}
}

// Pages returns dedicated pages followed by generic-form pages
func Pages() []Page {
	res := make([]Page, 0, len(dedicated)+len(domain.SourceTypes))
	res = append(res, dedicated...)
	for _, t := range domain.SourceTypes {
		res = append(res, GenericPage(t))
	}
	return res
}

// Dedicated returns the dedicated pages only
func Dedicated() []Page {
	return append([]Page(nil), dedicated...)
}

// Lookup finds a page by slug
func Lookup(slug string) (Page, error) {
	for _, p := range Pages() {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Page{}, fmt.Errorf("%w: page %q", ErrNotFound, slug)
}

// FileURL returns the download path of a record's attachment
func (p Page) FileURL(id string) string {
	return "/content_source/" + p.Slug + "/" + id + "/file"
}

// Collection binds the page to its storage key
func (p Page) Collection(kv store.KV) *store.Collection {
	return store.NewCollection(kv, p.StorageKey, p.Layout, p.Type, store.WithFileURL(p.FileURL))
}
