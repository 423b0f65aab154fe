package domain

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// SourceType selects which config and secrets variants a source carries
type SourceType string

// supported source types
const (
	SourceRSS          SourceType = "rss"
	SourceNewsAPI      SourceType = "news_api"
	SourceReddit       SourceType = "reddit"
	SourcePDF          SourceType = "pdf"
	SourceExcel        SourceType = "excel"
	SourceGoogleSheets SourceType = "google_sheets"
	SourceAPI          SourceType = "api"
)

// SourceTypes lists all supported types in display order
var SourceTypes = []SourceType{
	SourceRSS, SourceNewsAPI, SourceReddit, SourcePDF, SourceExcel, SourceGoogleSheets, SourceAPI,
}

var sourceTypeTitles = map[SourceType]string{
	SourceRSS:          "RSS",
	SourceNewsAPI:      "News API",
	SourceReddit:       "Reddit",
	SourcePDF:          "PDF",
	SourceExcel:        "Excel",
	SourceGoogleSheets: "Google Sheets",
	SourceAPI:          "API",
}

// ParseSourceType converts a tag into a known SourceType
func ParseSourceType(s string) (SourceType, error) {
	t := SourceType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown source type %q", s)
	}
	return t, nil
}

// Valid reports whether t is one of the supported types
func (t SourceType) Valid() bool {
	_, ok := sourceTypeTitles[t]
	return ok
}

// Title returns a human readable label
func (t SourceType) Title() string {
	if title, ok := sourceTypeTitles[t]; ok {
		return title
	}
	return string(t)
}

// HasSecrets reports whether sources of this type carry credentials
func (t SourceType) HasSecrets() bool {
	switch t {
	case SourceNewsAPI, SourceReddit, SourceAPI:
		return true
	default:
		return false
	}
}

// AcceptsFiles reports whether sources of this type may carry an uploaded file
func (t SourceType) AcceptsFiles() bool {
	return len(allowedContentTypes[t]) > 0
}

// Source is one user-configured reference to an external feed or document
type Source struct {
	ID      string
	Name    string
	Type    SourceType
	Config  Config
	Secrets Secrets
}

// NewID generates a stable identifier for a new source
func NewID() string {
	return uuid.NewString()
}

// legacyNamespace scopes ids derived for records stored without one
var legacyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("sourcedeck:legacy-id"))

// LegacyID derives the id of a record stored without one from its storage key and position.
// The same stored list always yields the same ids, so nothing has to be written back on read.
func LegacyID(key string, index int) string {
	return uuid.NewSHA1(legacyNamespace, []byte(key+"/"+strconv.Itoa(index))).String()
}

// NewSource makes an empty source of the given type with zero-value config and secrets
func NewSource(t SourceType) Source {
	return Source{Type: t, Config: NewConfig(t), Secrets: NewSecrets(t)}
}

// File returns the attachment carried by the source config, if any
func (s Source) File() *Attachment {
	switch c := s.Config.(type) {
	case *PDFConfig:
		return c.File
	case *ExcelConfig:
		return c.File
	case *GoogleSheetsConfig:
		return c.File
	default:
		return nil
	}
}

// Credential returns the primary secret value shown by the secret toggle
func (s Source) Credential() string {
	switch sec := s.Secrets.(type) {
	case *APIKeySecrets:
		return sec.APIKey
	case *RedditSecrets:
		return sec.ClientSecret
	default:
		return ""
	}
}

// Summary returns the short config description rendered in lists
func (s Source) Summary() string {
	switch c := s.Config.(type) {
	case *RSSConfig:
		return c.URL
	case *NewsAPIConfig:
		return c.Endpoint
	case *APIConfig:
		return c.Endpoint
	case *RedditConfig:
		return fmt.Sprintf("r/%s, limit %d", c.Subreddit, c.Limit)
	case *PDFConfig:
		if c.File != nil {
			return c.File.Name
		}
		if c.MaxAllowedSize != "" {
			return "max " + c.MaxAllowedSize + " MB"
		}
	case *ExcelConfig:
		if c.File != nil {
			return c.File.Name
		}
	case *GoogleSheetsConfig:
		return c.SheetID
	}
	return ""
}
