package sources

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/sourcedeck/pkg/domain"
	"github.com/umputun/sourcedeck/pkg/store"
)

type failingKV struct {
	*store.Memory
	fail bool
}

func (f *failingKV) SetValue(ctx context.Context, key, value string) error {
	if f.fail {
		return errors.New("quota exceeded")
	}
	return f.Memory.SetValue(ctx, key, value)
}

func mustPage(t *testing.T, slug string) Page {
	t.Helper()
	p, err := Lookup(slug)
	require.NoError(t, err)
	return p
}

func rss(name, url string) domain.Source {
	return domain.Source{Name: name, Type: domain.SourceRSS, Config: &domain.RSSConfig{URL: url}}
}

func TestService_AddThenReload(t *testing.T) {
	kv := store.NewMemory()
	svc := NewService(kv)
	page := mustPage(t, "rss_feeds")
	ctx := context.Background()

	added, err := svc.Add(ctx, page, rss("Tech News", "https://example.com/feed.xml"))
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)

	// fresh service over the same storage sees exactly the added record
	list, err := NewService(kv).List(ctx, page, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, added, list[0])

	value, _, err := kv.GetValue(ctx, "rssFeeds")
	require.NoError(t, err)
	assert.JSONEq(t, fmt.Sprintf(`[{"id":%q,"name":"Tech News","source_type":"rss",
		"config":{"url":"https://example.com/feed.xml"},"secrets":{}}]`, added.ID), value)
}

func TestService_AddIncompleteLeavesStorage(t *testing.T) {
	ctx := context.Background()
	incomplete := map[string]domain.Source{
		"rss_feeds":     {Name: "x", Type: domain.SourceRSS, Config: &domain.RSSConfig{}},
		"api":           {Name: "x", Type: domain.SourceNewsAPI, Config: &domain.NewsAPIConfig{Endpoint: "e"}},
		"reddit":        {Name: "", Type: domain.SourceReddit, Config: &domain.RedditConfig{Subreddit: "go", Limit: 1}},
		"pdf":           {Name: "x", Type: domain.SourcePDF, Config: &domain.PDFConfig{MaxAllowedSize: "5"}},
		"excel":         {Name: "x", Type: domain.SourceExcel, Config: &domain.ExcelConfig{}},
		"google_sheets": {Name: "x", Type: domain.SourceGoogleSheets, Config: &domain.GoogleSheetsConfig{}},
		"custom_api":    {Name: "x", Type: domain.SourceAPI, Config: &domain.APIConfig{}},
	}
	for slug, src := range incomplete {
		t.Run(slug, func(t *testing.T) {
			kv := store.NewMemory()
			require.NoError(t, kv.SetValue(ctx, mustPage(t, slug).StorageKey, "[]"))
			svc := NewService(kv)

			_, err := svc.Add(ctx, mustPage(t, slug), src)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)

			value, _, _ := kv.GetValue(ctx, mustPage(t, slug).StorageKey)
			assert.Equal(t, "[]", value)
		})
	}
}

func TestService_AddWrongType(t *testing.T) {
	svc := NewService(store.NewMemory())
	_, err := svc.Add(context.Background(), mustPage(t, "reddit"), rss("n", "u"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't be stored on page reddit")
}

func TestService_UpdateReplacesOnlyTarget(t *testing.T) {
	kv := store.NewMemory()
	svc := NewService(kv)
	page := mustPage(t, "rss_feeds")
	ctx := context.Background()

	a, err := svc.Add(ctx, page, rss("alpha", "u1"))
	require.NoError(t, err)
	b, err := svc.Add(ctx, page, rss("beta", "u2"))
	require.NoError(t, err)
	c, err := svc.Add(ctx, page, rss("gamma", "u3"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, page, b.ID, rss("beta 2", "u2b"))
	require.NoError(t, err)
	assert.Equal(t, b.ID, updated.ID)

	list, err := svc.List(ctx, page, "")
	require.NoError(t, err)
	assert.Equal(t, []domain.Source{a, updated, c}, list)

	_, err = svc.Update(ctx, page, "missing", rss("x", "y"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_Delete(t *testing.T) {
	kv := store.NewMemory()
	svc := NewService(kv)
	page := mustPage(t, "api")
	ctx := context.Background()

	mk := func(name string) domain.Source {
		return domain.Source{Name: name, Type: domain.SourceNewsAPI,
			Config: &domain.NewsAPIConfig{Endpoint: "e"}, Secrets: &domain.APIKeySecrets{APIKey: "k"}}
	}
	a, err := svc.Add(ctx, page, mk("a"))
	require.NoError(t, err)
	b, err := svc.Add(ctx, page, mk("b"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, page, a.ID))
	list, err := svc.List(ctx, page, "")
	require.NoError(t, err)
	assert.Equal(t, []domain.Source{b}, list)

	// deleting the only record leaves an empty array, not an absent key
	require.NoError(t, svc.Delete(ctx, page, b.ID))
	value, found, err := kv.GetValue(ctx, "apiList")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", value)

	require.ErrorIs(t, svc.Delete(ctx, page, b.ID), ErrNotFound)
}

func TestService_ListSearch(t *testing.T) {
	kv := store.NewMemory()
	svc := NewService(kv)
	page := mustPage(t, "rss_feeds")
	ctx := context.Background()

	for _, n := range []string{"Tech News", "Sports", "BIG TECH", "Weather"} {
		_, err := svc.Add(ctx, page, rss(n, "https://tech.example.com"))
		require.NoError(t, err)
	}
	before, _, _ := kv.GetValue(ctx, "rssFeeds")

	list, err := svc.List(ctx, page, "tEcH")
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, s := range list {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Tech News", "BIG TECH"}, names)

	// matching is on names only
	list, err = svc.List(ctx, page, "example")
	require.NoError(t, err)
	assert.Empty(t, list)

	after, _, _ := kv.GetValue(ctx, "rssFeeds")
	assert.Equal(t, before, after, "search never writes")
}

func TestService_Unreadable(t *testing.T) {
	kv := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, kv.SetValue(ctx, "redditSources", "not json"))
	svc := NewService(kv)
	page := mustPage(t, "reddit")

	list, err := svc.List(ctx, page, "")
	require.ErrorIs(t, err, store.ErrUnreadable)
	assert.Empty(t, list)

	n, err := svc.Count(ctx, page)
	require.ErrorIs(t, err, store.ErrUnreadable)
	assert.Zero(t, n)

	// adding starts the collection over
	src := domain.Source{Name: "r", Type: domain.SourceReddit, Config: &domain.RedditConfig{Subreddit: "go", Limit: 1},
		Secrets: &domain.RedditSecrets{ClientID: "i", ClientSecret: "s"}}
	added, err := svc.Add(ctx, page, src)
	require.NoError(t, err)
	list, err = svc.List(ctx, page, "")
	require.NoError(t, err)
	assert.Equal(t, []domain.Source{added}, list)
}

func TestService_WriteFailure(t *testing.T) {
	kv := &failingKV{Memory: store.NewMemory()}
	svc := NewService(kv)
	page := mustPage(t, "rss_feeds")
	ctx := context.Background()

	a, err := svc.Add(ctx, page, rss("a", "u"))
	require.NoError(t, err)

	kv.fail = true
	_, err = svc.Add(ctx, page, rss("b", "u"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	require.Error(t, svc.Delete(ctx, page, a.ID))

	kv.fail = false
	list, err := svc.List(ctx, page, "")
	require.NoError(t, err)
	assert.Equal(t, []domain.Source{a}, list)
}

func TestService_RequireFile(t *testing.T) {
	svc := NewService(store.NewMemory())
	ctx := context.Background()
	_, err := svc.Add(ctx, mustPage(t, "pdf"), domain.Source{Name: "doc", Type: domain.SourcePDF,
		Config: &domain.PDFConfig{MaxAllowedSize: "5"}})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"config.file"}, verr.Fields)

	// generic pdf collection accepts a size limit alone
	_, err = svc.Add(ctx, mustPage(t, "custom_pdf"), domain.Source{Name: "doc", Type: domain.SourcePDF,
		Config: &domain.PDFConfig{MaxAllowedSize: "5"}})
	require.NoError(t, err)
}

func TestPages(t *testing.T) {
	pages := Pages()
	require.Len(t, pages, 6+len(domain.SourceTypes))
	assert.Equal(t, "pdf", pages[0].Slug)
	assert.Equal(t, "rss_feeds", pages[5].Slug)

	p, err := Lookup("custom_news_api")
	require.NoError(t, err)
	assert.Equal(t, "contentSources_news_api", p.StorageKey)
	assert.True(t, p.Generic)
	assert.False(t, p.ShowSecrets)

	api := mustPage(t, "api")
	assert.True(t, api.ShowSecrets)
	assert.Equal(t, domain.SourceNewsAPI, api.Type)
	assert.False(t, mustPage(t, "reddit").ShowSecrets, "secret toggle is on the api page only")

	_, err = Lookup("nope")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "/content_source/pdf/x1/file", mustPage(t, "pdf").FileURL("x1"))
}

// countingKV counts writes per key
type countingKV struct {
	*store.Memory
	writes int
}

func (c *countingKV) SetValue(ctx context.Context, key, value string) error {
	c.writes++
	return c.Memory.SetValue(ctx, key, value)
}

func TestService_LegacyRecords(t *testing.T) {
	ctx := context.Background()
	page := mustPage(t, "rss_feeds")
	legacy := `[{"name":"Old Feed","source_type":"rss","config":{"url":"https://old.example.com/rss"},"secrets":{}}]`

	t.Run("reads never write and a later add keeps everything", func(t *testing.T) {
		kv := &countingKV{Memory: store.NewMemory()}
		require.NoError(t, kv.Memory.SetValue(ctx, "rssFeeds", legacy))
		svc := NewService(kv)

		list, err := svc.List(ctx, page, "old")
		require.NoError(t, err)
		require.Len(t, list, 1)
		_, err = svc.Count(ctx, page)
		require.NoError(t, err)
		_, err = svc.Get(ctx, page, list[0].ID)
		require.NoError(t, err)
		assert.Zero(t, kv.writes)

		added, err := svc.Add(ctx, page, rss("Tech News", "https://example.com/feed.xml"))
		require.NoError(t, err)
		assert.Equal(t, 1, kv.writes)

		all, err := NewService(kv).List(ctx, page, "")
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, list[0].ID, all[0].ID, "derived id persisted by the add")
		assert.Equal(t, added.ID, all[1].ID)
	})

	t.Run("ids stay addressable while writes fail", func(t *testing.T) {
		kv := &failingKV{Memory: store.NewMemory(), fail: true}
		require.NoError(t, kv.Memory.SetValue(ctx, "rssFeeds", legacy))
		svc := NewService(kv)

		list, err := svc.List(ctx, page, "")
		require.NoError(t, err)
		require.Len(t, list, 1)
		src, err := svc.Get(ctx, page, list[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "Old Feed", src.Name)

		// once storage recovers the same id can be deleted
		kv.fail = false
		require.NoError(t, svc.Delete(ctx, page, list[0].ID))
		left, err := svc.List(ctx, page, "")
		require.NoError(t, err)
		assert.Empty(t, left)
	})
}
