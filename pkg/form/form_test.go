package form

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/sourcedeck/pkg/domain"
)

func TestForm_SetShallowMerge(t *testing.T) {
	f := New(domain.SourceNewsAPI)
	f.Set(BucketTop, "name", "headlines")
	f.Set(BucketConfig, "endpoint", "https://newsapi.org/v2")
	f.Set(BucketSecrets, "api_key", "k1")
	f.Set(BucketConfig, "params.categories", "tech")

	assert.Equal(t, "headlines", f.Name)
	assert.Equal(t, map[string]string{"endpoint": "https://newsapi.org/v2", "params.categories": "tech"}, f.Config)
	assert.Equal(t, map[string]string{"api_key": "k1"}, f.Secrets)

	// switching type keeps the buckets
	f.Set(BucketTop, "source_type", "api")
	assert.Equal(t, domain.SourceAPI, f.Type)
	assert.Equal(t, "k1", f.Secrets["api_key"])

	// unknown type is ignored
	f.Set(BucketTop, "source_type", "ftp")
	assert.Equal(t, domain.SourceAPI, f.Type)
}

func TestForm_SetPath(t *testing.T) {
	f := New(domain.SourceReddit)
	f.SetPath("name", "r/go")
	f.SetPath("config.subreddit", "golang")
	f.SetPath("secrets.client_id", "id")
	assert.Equal(t, "r/go", f.Value("name"))
	assert.Equal(t, "golang", f.Value("config.subreddit"))
	assert.Equal(t, "id", f.Value("secrets.client_id"))
	assert.Equal(t, "1", f.Value("config.limit"), "default limit shown")
	assert.Equal(t, "reddit", f.Value("source_type"))
}

func TestForm_NameKeptAsTyped(t *testing.T) {
	f := New(domain.SourceRSS)
	f.Set(BucketTop, "name", "Watch <tech> & news")
	f.Set(BucketConfig, "url", "https://example.com/feed.xml")
	assert.Equal(t, "Watch <tech> & news", f.Name)
	assert.Equal(t, "Watch <tech> & news", f.Source().Name)
}

func TestForm_Missing(t *testing.T) {
	tests := []struct {
		name    string
		form    func() *Form
		missing []string
	}{
		{name: "empty rss", form: func() *Form { return New(domain.SourceRSS) }, missing: []string{"name", "config.url"}},
		{name: "rss complete", form: func() *Form {
			f := New(domain.SourceRSS)
			f.SetPath("name", "n")
			f.SetPath("config.url", "u")
			return f
		}},
		{name: "whitespace url", form: func() *Form {
			f := New(domain.SourceRSS)
			f.SetPath("name", "n")
			f.SetPath("config.url", "   ")
			return f
		}, missing: []string{"config.url"}},
		{name: "reddit empty limit defaults", form: func() *Form {
			f := New(domain.SourceReddit)
			f.SetPath("name", "n")
			f.SetPath("config.subreddit", "go")
			f.SetPath("secrets.client_id", "i")
			f.SetPath("secrets.client_secret", "s")
			return f
		}},
		{name: "reddit bad limit", form: func() *Form {
			f := New(domain.SourceReddit)
			f.SetPath("name", "n")
			f.SetPath("config.subreddit", "go")
			f.SetPath("config.limit", "abc")
			f.SetPath("secrets.client_id", "i")
			f.SetPath("secrets.client_secret", "s")
			return f
		}, missing: []string{"config.limit"}},
		{name: "pdf page requires file", form: func() *Form {
			f := New(domain.SourcePDF, WithRequiredFile())
			f.SetPath("name", "n")
			f.SetPath("config.max_allowed_size", "10")
			return f
		}, missing: []string{"config.file"}},
		{name: "excel without file listed once", form: func() *Form {
			f := New(domain.SourceExcel, WithRequiredFile())
			f.SetPath("name", "n")
			return f
		}, missing: []string{"config.file"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := tc.form()
			assert.Equal(t, tc.missing, f.Missing())
			assert.Equal(t, len(tc.missing) == 0, f.CanSubmit())
		})
	}
}

func TestForm_Attach(t *testing.T) {
	t.Run("excel rejects text/plain and keeps previous file", func(t *testing.T) {
		f := New(domain.SourceExcel)
		require.NoError(t, f.Attach(Upload{Name: "a.xls", ContentType: "application/vnd.ms-excel", Data: []byte("data")}))
		prev := f.File

		err := f.Attach(Upload{Name: "notes.txt", ContentType: "text/plain", Data: []byte("hello")})
		require.Error(t, err)
		var ferr *FileTypeError
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, "text/plain", ferr.Got)
		assert.Contains(t, ferr.Error(), "application/vnd.ms-excel")
		assert.Same(t, prev, f.File)
	})

	t.Run("pdf accepted with sniffed type", func(t *testing.T) {
		f := New(domain.SourcePDF)
		data := []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n")
		require.NoError(t, f.Attach(Upload{Name: "doc.pdf", ContentType: "application/pdf", Data: data}))
		require.NotNil(t, f.File)
		assert.Equal(t, "doc.pdf", f.File.Name)
		assert.Equal(t, int64(len(data)), f.File.Size)
		assert.Equal(t, "application/pdf", f.File.DetectedType)
	})

	t.Run("rss takes no files", func(t *testing.T) {
		f := New(domain.SourceRSS)
		err := f.Attach(Upload{Name: "doc.pdf", ContentType: "application/pdf"})
		var ferr *FileTypeError
		require.ErrorAs(t, err, &ferr)
		assert.Empty(t, ferr.Expected)
		assert.Nil(t, f.File)
	})
}

func TestForm_Submit(t *testing.T) {
	t.Run("incomplete draft is not saved", func(t *testing.T) {
		f := New(domain.SourceRSS)
		f.SetPath("name", "Tech News")
		called := false
		_, err := f.Submit(context.Background(), func(_ context.Context, src domain.Source) (domain.Source, error) {
			called = true
			return src, nil
		})
		require.ErrorIs(t, err, ErrIncomplete)
		assert.Contains(t, err.Error(), "config.url")
		assert.False(t, called)
		assert.Equal(t, "Tech News", f.Name, "draft kept")
	})

	t.Run("rss scenario", func(t *testing.T) {
		f := New(domain.SourceRSS)
		f.SetPath("name", "Tech News")
		f.SetPath("config.url", "https://example.com/feed.xml")
		var got domain.Source
		saved, err := f.Submit(context.Background(), func(_ context.Context, src domain.Source) (domain.Source, error) {
			got = src
			src.ID = "new-id"
			return src, nil
		})
		require.NoError(t, err)
		assert.Equal(t, domain.Source{Name: "Tech News", Type: domain.SourceRSS,
			Config: &domain.RSSConfig{URL: "https://example.com/feed.xml"}}, got)
		assert.Equal(t, "new-id", saved.ID)

		// form is back to its empty state
		assert.Empty(t, f.Name)
		assert.Empty(t, f.Config)
		assert.Equal(t, domain.SourceRSS, f.Type)
	})

	t.Run("reddit scenario", func(t *testing.T) {
		f := New(domain.SourceReddit)
		f.SetPath("name", "r/tech watch")
		f.SetPath("config.subreddit", "technology")
		f.SetPath("config.limit", "5")
		f.SetPath("secrets.client_id", "abc")
		f.SetPath("secrets.client_secret", "xyz")
		saved, err := f.Submit(context.Background(), func(_ context.Context, src domain.Source) (domain.Source, error) {
			return src, nil
		})
		require.NoError(t, err)
		assert.Equal(t, &domain.RedditConfig{Subreddit: "technology", Limit: 5}, saved.Config)
		assert.Equal(t, &domain.RedditSecrets{ClientID: "abc", ClientSecret: "xyz"}, saved.Secrets)
	})

	t.Run("save error keeps draft", func(t *testing.T) {
		f := New(domain.SourceRSS)
		f.SetPath("name", "n")
		f.SetPath("config.url", "u")
		_, err := f.Submit(context.Background(), func(context.Context, domain.Source) (domain.Source, error) {
			return domain.Source{}, errors.New("disk full")
		})
		require.EqualError(t, err, "disk full")
		assert.Equal(t, "n", f.Name)
	})
}

func TestFromSource(t *testing.T) {
	src := domain.Source{ID: "id1", Name: "headlines", Type: domain.SourceNewsAPI,
		Config:  &domain.NewsAPIConfig{Endpoint: "e", Params: &domain.QueryParams{Categories: "tech"}},
		Secrets: &domain.APIKeySecrets{APIKey: "k"}}
	f := FromSource(src)
	assert.Equal(t, "id1", f.ID)
	assert.Equal(t, "tech", f.Value("config.params.categories"))
	assert.Equal(t, src, f.Source(), "draft rebuilds the same source")

	file := &domain.Attachment{Name: "a.xlsx", ContentType: "text/csv"}
	sheet := domain.Source{ID: "s", Name: "sheet", Type: domain.SourceGoogleSheets,
		Config: &domain.GoogleSheetsConfig{SheetID: "1x", File: file}}
	assert.Equal(t, sheet, FromSource(sheet).Source())
}

func TestFields(t *testing.T) {
	fields := Fields(domain.SourceReddit)
	paths := make([]string, 0, len(fields))
	for _, f := range fields {
		paths = append(paths, f.Path())
	}
	assert.Equal(t, []string{"name", "config.subreddit", "config.limit", "secrets.client_id", "secrets.client_secret"}, paths)

	pdf := New(domain.SourcePDF, WithRequiredFile()).Fields()
	assert.True(t, pdf[len(pdf)-1].Required)
	assert.False(t, Fields(domain.SourcePDF)[2].Required)
}
