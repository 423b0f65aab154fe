// Package form keeps the in-progress draft of a source while the add/edit modal is open.
// A draft is a bag of string inputs split in buckets, the typed source is built from it on demand.
package form

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/umputun/sourcedeck/pkg/domain"
)

// ErrIncomplete is returned by Submit while required inputs are empty
var ErrIncomplete = errors.New("form is incomplete")

// Bucket groups draft inputs the way they are nested in a stored record
type Bucket string

// draft buckets
const (
	BucketTop     Bucket = ""
	BucketConfig  Bucket = "config"
	BucketSecrets Bucket = "secrets"
)

// FileTypeError rejects an upload with a declared type outside the allow-list
type FileTypeError struct {
	Got      string
	Expected []string
}

func (e *FileTypeError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("file uploads are not accepted for this source, got %q", e.Got)
	}
	return fmt.Sprintf("invalid file type %q, expected %s", e.Got, strings.Join(e.Expected, " or "))
}

// Upload is a file picked in the form
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Form is a draft of one source
type Form struct {
	ID          string // set when editing a stored record
	Type        domain.SourceType
	Name        string
	Config      map[string]string
	Secrets     map[string]string
	File        *domain.Attachment
	defaultType domain.SourceType
	requireFile bool
}

// Option customizes a Form
type Option func(f *Form)

// WithRequiredFile makes an attached file mandatory regardless of the source type
func WithRequiredFile() Option {
	return func(f *Form) { f.requireFile = true }
}

// New makes an empty draft of type t
func New(t domain.SourceType, opts ...Option) *Form {
	res := &Form{Type: t, defaultType: t, Config: map[string]string{}, Secrets: map[string]string{}}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// FromSource makes a draft pre-filled from a stored source, for editing
func FromSource(src domain.Source, opts ...Option) *Form {
	res := New(src.Type, opts...)
	res.ID = src.ID
	res.Name = src.Name
	res.Config, res.Secrets = values(src)
	res.File = src.File()
	return res
}

// Set merges a single input into its bucket, other inputs stay as they are.
// Changing source_type keeps everything entered so far.
func (f *Form) Set(bucket Bucket, key, value string) {
	switch bucket {
	case BucketTop:
		switch key {
		case "name":
			f.Name = value
		case "source_type":
			if t, err := domain.ParseSourceType(value); err == nil {
				f.Type = t
			}
		}
	case BucketConfig:
		f.Config[key] = value
	case BucketSecrets:
		f.Secrets[key] = value
	}
}

// SetPath sets an input by its path, like "name", "config.url" or "secrets.api_key"
func (f *Form) SetPath(path, value string) {
	bucket, key, found := strings.Cut(path, ".")
	if !found {
		f.Set(BucketTop, path, value)
		return
	}
	f.Set(Bucket(bucket), key, value)
}

// Value returns the current input at path
func (f *Form) Value(path string) string {
	bucket, key, found := strings.Cut(path, ".")
	if !found {
		switch path {
		case "name":
			return f.Name
		case "source_type":
			return string(f.Type)
		}
		return ""
	}
	switch Bucket(bucket) {
	case BucketConfig:
		if key == "limit" && f.Type == domain.SourceReddit && f.Config[key] == "" {
			return strconv.Itoa(domain.DefaultRedditLimit)
		}
		return f.Config[key]
	case BucketSecrets:
		return f.Secrets[key]
	}
	return ""
}

// Attach checks the declared content type of an upload and keeps it as the draft's file.
// A rejected upload leaves the previous file in place.
func (f *Form) Attach(u Upload) error {
	if !f.Type.AcceptsFiles() || !domain.ContentTypeAllowed(f.Type, u.ContentType) {
		return &FileTypeError{Got: u.ContentType, Expected: domain.AllowedContentTypes(f.Type)}
	}
	f.File = newAttachment(u)
	return nil
}

// Source builds the typed source from the draft inputs
func (f *Form) Source() domain.Source {
	src := domain.NewSource(f.Type)
	src.ID = f.ID
	src.Name = f.Name
	cfg, str := f.Config, func(k string) string { return strings.TrimSpace(f.Config[k]) }

	switch c := src.Config.(type) {
	case *domain.RSSConfig:
		c.URL = str("url")
	case *domain.NewsAPIConfig:
		c.Endpoint = str("endpoint")
		c.Params = queryParams(cfg)
	case *domain.APIConfig:
		c.Endpoint = str("endpoint")
		c.Params = queryParams(cfg)
	case *domain.RedditConfig:
		c.Subreddit = str("subreddit")
		c.Limit = redditLimit(str("limit"))
	case *domain.PDFConfig:
		c.MaxAllowedSize = str("max_allowed_size")
		c.File = f.File
	case *domain.ExcelConfig:
		c.File = f.File
	case *domain.GoogleSheetsConfig:
		c.SheetID = str("sheetId")
		c.File = f.File
	}

	switch s := src.Secrets.(type) {
	case *domain.APIKeySecrets:
		s.APIKey = strings.TrimSpace(f.Secrets["api_key"])
	case *domain.RedditSecrets:
		s.ClientID = strings.TrimSpace(f.Secrets["client_id"])
		s.ClientSecret = strings.TrimSpace(f.Secrets["client_secret"])
	}
	return src
}

// Missing lists the paths of required inputs that are still empty
func (f *Form) Missing() []string {
	var res []string
	err := f.Source().Validate()
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		res = append(res, verr.Fields...)
	case err != nil:
		res = append(res, "source_type")
	}
	if f.requireFile && f.File == nil && !slices.Contains(res, "config.file") {
		res = append(res, "config.file")
	}
	return res
}

// CanSubmit reports whether the save action is enabled
func (f *Form) CanSubmit() bool {
	return len(f.Missing()) == 0
}

// Submit hands the built source to save. Incomplete drafts are rejected with ErrIncomplete
// and save is not called. After a successful save the draft resets to its empty state.
func (f *Form) Submit(ctx context.Context, save func(context.Context, domain.Source) (domain.Source, error)) (domain.Source, error) {
	if missing := f.Missing(); len(missing) > 0 {
		return domain.Source{}, fmt.Errorf("%w, missing %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	saved, err := save(ctx, f.Source())
	if err != nil {
		return domain.Source{}, err
	}
	f.Reset()
	return saved, nil
}

// Reset clears all inputs and goes back to the initial source type
func (f *Form) Reset() {
	f.ID, f.Name, f.File = "", "", nil
	f.Type = f.defaultType
	clear(f.Config)
	clear(f.Secrets)
}

// redditLimit converts the limit input, empty means the default
func redditLimit(s string) int {
	if s == "" {
		return domain.DefaultRedditLimit
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0 // reported as missing config.limit
	}
	return n
}

func queryParams(cfg map[string]string) *domain.QueryParams {
	categories := strings.TrimSpace(cfg["params.categories"])
	if categories == "" {
		return nil
	}
	return &domain.QueryParams{Categories: categories}
}

// values flattens a stored source back into draft inputs
func values(src domain.Source) (cfg, secrets map[string]string) {
	cfg, secrets = map[string]string{}, map[string]string{}
	switch c := src.Config.(type) {
	case *domain.RSSConfig:
		cfg["url"] = c.URL
	case *domain.NewsAPIConfig:
		cfg["endpoint"] = c.Endpoint
		if c.Params != nil {
			cfg["params.categories"] = c.Params.Categories
		}
	case *domain.APIConfig:
		cfg["endpoint"] = c.Endpoint
		if c.Params != nil {
			cfg["params.categories"] = c.Params.Categories
		}
	case *domain.RedditConfig:
		cfg["subreddit"] = c.Subreddit
		cfg["limit"] = strconv.Itoa(c.Limit)
	case *domain.PDFConfig:
		cfg["max_allowed_size"] = c.MaxAllowedSize
	case *domain.GoogleSheetsConfig:
		cfg["sheetId"] = c.SheetID
	}
	switch s := src.Secrets.(type) {
	case *domain.APIKeySecrets:
		secrets["api_key"] = s.APIKey
	case *domain.RedditSecrets:
		secrets["client_id"] = s.ClientID
		secrets["client_secret"] = s.ClientSecret
	}
	return cfg, secrets
}
