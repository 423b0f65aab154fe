package server

import (
	"net/http"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/umputun/sourcedeck/pkg/domain"
	"github.com/umputun/sourcedeck/pkg/form"
	"github.com/umputun/sourcedeck/pkg/sources"
)

// view models passed to templates

type noticeView struct {
	Message string
	Level   string // info, warning or error
}

type navItem struct {
	Slug   string
	Title  string
	Active bool
}

type rowView struct {
	Page      sources.Page
	Source    domain.Source
	Summary   string
	FileName  string
	FileURL   string
	HasSecret bool
	Secret    string
	Shown     bool
}

type rowsView struct {
	Page   sources.Page
	Rows   []rowView
	Query  string
	Notice *noticeView
}

type fieldView struct {
	form.Field
	Value    string
	FileName string
	Missing  bool
}

type hiddenInput struct {
	Name  string
	Value string
}

type typeOption struct {
	Value    string
	Title    string
	Selected bool
}

type statusView struct {
	Missing   []string
	CanSubmit bool
	Label     string
}

type formView struct {
	Page     sources.Page
	Title    string
	ID       string
	Action   string
	Method   string // post or put
	CheckURL string
	Fields   []fieldView
	Hidden   []hiddenInput
	Types    []typeOption
	Status   statusView
	Notice   *noticeView
	Generic  bool
}

type pageCard struct {
	Page       sources.Page
	Count      int
	Unreadable bool
}

func levelFor(code int) string {
	switch {
	case code >= http.StatusInternalServerError:
		return "error"
	case code >= http.StatusBadRequest:
		return "warning"
	default:
		return "info"
	}
}

// maskSecret hides a credential, the length of the mask doesn't reveal the value length
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return strings.Repeat("•", 8)
}

func navItems(active string) []navItem {
	res := []navItem{{Slug: "", Title: "Dashboard", Active: active == ""}}
	for _, p := range sources.Dedicated() {
		res = append(res, navItem{Slug: p.Slug, Title: p.Title, Active: p.Slug == active})
	}
	return res
}

func newRowView(page sources.Page, src domain.Source, shown bool) rowView {
	res := rowView{Page: page, Source: src, Summary: src.Summary(), Shown: shown}
	if file := src.File(); file != nil {
		res.FileName = file.Name
		if len(file.Data) > 0 {
			res.FileURL = page.FileURL(src.ID)
		}
	}
	if page.ShowSecrets {
		cred := src.Credential()
		res.HasSecret = cred != ""
		res.Secret = maskSecret(cred)
		if shown {
			res.Secret = cred
		}
	}
	return res
}

func newRowsView(page sources.Page, list []domain.Source, query string) rowsView {
	res := rowsView{Page: page, Query: query, Rows: make([]rowView, 0, len(list))}
	for _, src := range list {
		res.Rows = append(res.Rows, newRowView(page, src, false))
	}
	return res
}

func newStatusView(f *form.Form) statusView {
	missing := f.Missing()
	res := statusView{Missing: missing, CanSubmit: len(missing) == 0, Label: "Save"}
	if f.ID != "" {
		res.Label = "Update"
	}
	return res
}

// newFormView prepares the modal of a list page
func newFormView(page sources.Page, f *form.Form) formView {
	res := formView{Page: page, ID: f.ID, Status: newStatusView(f)}
	base := "/content_source/" + page.Slug
	res.CheckURL = base + "/check"
	if f.ID == "" {
		res.Title, res.Action, res.Method = "Add "+page.Type.Title()+" Source", base, "post"
	} else {
		res.Title, res.Action, res.Method = "Edit "+page.Type.Title()+" Source", base+"/"+f.ID, "put"
	}
	res.Fields = fieldViews(f, res.Status.Missing)
	return res
}

// newGenericFormView prepares the generic add modal, values of other types are carried as hidden inputs
func newGenericFormView(f *form.Form) formView {
	page := sources.GenericPage(f.Type)
	res := formView{Page: page, Title: "Add Source", Action: "/content_source", Method: "post",
		CheckURL: "/content_source/check", Generic: true, Status: newStatusView(f)}
	res.Fields = fieldViews(f, res.Status.Missing)

	for _, t := range domain.SourceTypes {
		res.Types = append(res.Types, typeOption{Value: string(t), Title: t.Title(), Selected: t == f.Type})
	}

	visible := map[string]bool{}
	for _, fv := range res.Fields {
		visible[fv.Path()] = true
	}
	for _, bucket := range []struct {
		prefix string
		values map[string]string
	}{{"config.", f.Config}, {"secrets.", f.Secrets}} {
		for k, v := range bucket.values {
			if path := bucket.prefix + k; !visible[path] && v != "" {
				res.Hidden = append(res.Hidden, hiddenInput{Name: path, Value: v})
			}
		}
	}
	slices.SortFunc(res.Hidden, func(a, b hiddenInput) int { return strings.Compare(a.Name, b.Name) })
	return res
}

func fieldViews(f *form.Form, missing []string) []fieldView {
	fields := f.Fields()
	res := make([]fieldView, 0, len(fields))
	for _, fld := range fields {
		fv := fieldView{Field: fld, Value: f.Value(fld.Path()), Missing: slices.Contains(missing, fld.Path())}
		if fld.Kind == "file" && f.File != nil {
			fv.FileName = f.File.Name
		}
		res = append(res, fv)
	}
	return res
}

// shorten cuts long values shown in lists
func shorten(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit]) + "…"
}
