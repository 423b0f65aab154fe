package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/sourcedeck/pkg/domain"
	"github.com/umputun/sourcedeck/pkg/sources"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestServer_pagesHandler(t *testing.T) {
	srv, svc, _ := testServer(t)
	seed(t, svc, "rss_feeds", rssSource("Tech News", "https://example.com/feed.xml"))

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/api/v1/pages", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)

	var pages []pageInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pages))
	require.Len(t, pages, len(sources.Pages()))

	byslug := map[string]pageInfo{}
	for _, p := range pages {
		byslug[p.Slug] = p
	}
	assert.Equal(t, 1, byslug["rss_feeds"].Count)
	assert.Equal(t, "rssFeeds", byslug["rss_feeds"].StorageKey)
	assert.True(t, byslug["pdf"].RequireFile)
	assert.True(t, byslug["custom_rss"].Generic)
	assert.Equal(t, "contentSources_rss", byslug["custom_rss"].StorageKey)
}

func TestServer_listSourcesHandler(t *testing.T) {
	srv, svc, kv := testServer(t)
	seed(t, svc, "rss_feeds", rssSource("Tech News", "https://example.com/feed.xml"))
	seed(t, svc, "rss_feeds", rssSource("Go Blog", "https://go.dev/blog/feed.atom"))

	t.Run("filtered", func(t *testing.T) {
		w := serve(srv, httptest.NewRequest(http.MethodGet, "/api/v1/sources/rss_feeds?q=tech", http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)
		var res struct {
			Sources []domain.Source `json:"sources"`
			Count   int             `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, 1, res.Count)
		assert.Equal(t, "Tech News", res.Sources[0].Name)
	})

	t.Run("empty collection", func(t *testing.T) {
		w := serve(srv, httptest.NewRequest(http.MethodGet, "/api/v1/sources/reddit", http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"sources":[],"count":0}`, w.Body.String())
	})

	t.Run("unreadable collection", func(t *testing.T) {
		require.NoError(t, kv.SetValue(context.Background(), "excelSources", "]["))
		w := serve(srv, httptest.NewRequest(http.MethodGet, "/api/v1/sources/excel", http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"sources":[],"count":0,"warning":"stored sources could not be read"}`, w.Body.String())
	})

	t.Run("unknown page", func(t *testing.T) {
		w := serve(srv, httptest.NewRequest(http.MethodGet, "/api/v1/sources/ftp", http.NoBody))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), `"error"`)
	})
}

func TestServer_sourceCRUD(t *testing.T) {
	srv, svc, _ := testServer(t)

	// create
	w := serve(srv, jsonRequest(http.MethodPost, "/api/v1/sources/reddit",
		`{"name":"golang","config":{"subreddit":"golang","limit":3},"secrets":{"client_id":"i","client_secret":"s"}}`))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created domain.Source
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, domain.SourceReddit, created.Type)
	assert.Equal(t, &domain.RedditConfig{Subreddit: "golang", Limit: 3}, created.Config)

	// get
	w = serve(srv, httptest.NewRequest(http.MethodGet, "/api/v1/sources/reddit/"+created.ID, http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)
	var got domain.Source
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created, got)

	// update
	w = serve(srv, jsonRequest(http.MethodPut, "/api/v1/sources/reddit/"+created.ID,
		`{"name":"golang news","config":{"subreddit":"golang","limit":10},"secrets":{"client_id":"i","client_secret":"s2"}}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stored := list(t, svc, "reddit")
	require.Len(t, stored, 1)
	assert.Equal(t, created.ID, stored[0].ID)
	assert.Equal(t, "golang news", stored[0].Name)
	assert.Equal(t, "s2", stored[0].Credential())

	// delete
	w = serve(srv, httptest.NewRequest(http.MethodDelete, "/api/v1/sources/reddit/"+created.ID, http.NoBody))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, list(t, svc, "reddit"))

	w = serve(srv, httptest.NewRequest(http.MethodDelete, "/api/v1/sources/reddit/"+created.ID, http.NoBody))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(srv, httptest.NewRequest(http.MethodGet, "/api/v1/sources/reddit/"+created.ID, http.NoBody))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_createSourceHandler_errors(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		body    string
		code    int
		missing []string
	}{
		{name: "missing fields", slug: "reddit", body: `{"name":"","config":{"subreddit":""}}`,
			code: http.StatusUnprocessableEntity, missing: []string{"name", "config.subreddit", "secrets.client_id", "secrets.client_secret"}},
		{name: "pdf needs a file", slug: "pdf", body: `{"name":"doc","config":{"max_allowed_size":"10"}}`,
			code: http.StatusUnprocessableEntity, missing: []string{"config.file"}},
		{name: "type of another page", slug: "reddit", body: `{"name":"x","source_type":"rss","config":{"url":"u"}}`,
			code: http.StatusBadRequest},
		{name: "unknown type", slug: "custom_rss", body: `{"name":"x","source_type":"ftp","config":{}}`,
			code: http.StatusBadRequest},
		{name: "broken json", slug: "rss_feeds", body: `{"name":`, code: http.StatusBadRequest},
		{name: "unknown page", slug: "nope", body: `{}`, code: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, _, _ := testServer(t)
			w := serve(srv, jsonRequest(http.MethodPost, "/api/v1/sources/"+tc.slug, tc.body))
			require.Equal(t, tc.code, w.Code, w.Body.String())
			if tc.missing == nil {
				return
			}
			var res struct {
				Error   string   `json:"error"`
				Missing []string `json:"missing"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			assert.ElementsMatch(t, tc.missing, res.Missing)
			assert.NotEmpty(t, res.Error)
		})
	}
}
