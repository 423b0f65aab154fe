package domain

// Config is the type-specific configuration of a source.
// Each source type has exactly one variant.
type Config interface {
	SourceType() SourceType
}

// Secrets holds credentials of network sources. Stored in clear text.
type Secrets interface {
	secrets()
}

// QueryParams are optional request parameters of API-style sources
type QueryParams struct {
	Categories string `json:"categories,omitempty"`
}

// RSSConfig describes an RSS or Atom feed
type RSSConfig struct {
	URL string `json:"url" validate:"required"`
}

// NewsAPIConfig describes a News API endpoint
type NewsAPIConfig struct {
	Endpoint string       `json:"endpoint" validate:"required"`
	Params   *QueryParams `json:"params,omitempty"`
}

// RedditConfig describes a subreddit listing
type RedditConfig struct {
	Subreddit string `json:"subreddit" validate:"required"`
	Limit     int    `json:"limit" validate:"min=1"`
}

// PDFConfig describes a PDF document source, either by size limit or by uploaded file
type PDFConfig struct {
	MaxAllowedSize string      `json:"max_allowed_size,omitempty" validate:"required_without=File"`
	File           *Attachment `json:"file,omitempty"`
}

// ExcelConfig describes an uploaded spreadsheet
type ExcelConfig struct {
	File *Attachment `json:"file,omitempty" validate:"required"`
}

// GoogleSheetsConfig describes a Google Sheets document
type GoogleSheetsConfig struct {
	SheetID string      `json:"sheetId" validate:"required"`
	File    *Attachment `json:"file,omitempty"`
}

// APIConfig describes a generic API endpoint
type APIConfig struct {
	Endpoint string       `json:"endpoint" validate:"required"`
	Params   *QueryParams `json:"params,omitempty"`
}

// APIKeySecrets holds a single API key, used by news_api and api sources
type APIKeySecrets struct {
	APIKey string `json:"api_key" validate:"required"`
}

// RedditSecrets holds reddit application credentials
type RedditSecrets struct {
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
}

// DefaultRedditLimit is used when no limit was given
const DefaultRedditLimit = 1

// SourceType implements Config
func (*RSSConfig) SourceType() SourceType { return SourceRSS }

// SourceType implements Config
func (*NewsAPIConfig) SourceType() SourceType { return SourceNewsAPI }

// SourceType implements Config
func (*RedditConfig) SourceType() SourceType { return SourceReddit }

// SourceType implements Config
func (*PDFConfig) SourceType() SourceType { return SourcePDF }

// SourceType implements Config
func (*ExcelConfig) SourceType() SourceType { return SourceExcel }

// SourceType implements Config
func (*GoogleSheetsConfig) SourceType() SourceType { return SourceGoogleSheets }

// SourceType implements Config
func (*APIConfig) SourceType() SourceType { return SourceAPI }

func (*APIKeySecrets) secrets() {}
func (*RedditSecrets) secrets() {}

// secretsFit reports whether s is the secrets variant expected by t
func secretsFit(t SourceType, s Secrets) bool {
	switch s.(type) {
	case *APIKeySecrets:
		return t == SourceNewsAPI || t == SourceAPI
	case *RedditSecrets:
		return t == SourceReddit
	default:
		return false
	}
}

// NewConfig returns the zero config variant for t, nil for unknown types
func NewConfig(t SourceType) Config {
	switch t {
	case SourceRSS:
		return &RSSConfig{}
	case SourceNewsAPI:
		return &NewsAPIConfig{}
	case SourceReddit:
		return &RedditConfig{Limit: DefaultRedditLimit}
	case SourcePDF:
		return &PDFConfig{}
	case SourceExcel:
		return &ExcelConfig{}
	case SourceGoogleSheets:
		return &GoogleSheetsConfig{}
	case SourceAPI:
		return &APIConfig{}
	default:
		return nil
	}
}

// NewSecrets returns the zero secrets variant for t, nil when t has no secrets
func NewSecrets(t SourceType) Secrets {
	switch t {
	case SourceNewsAPI, SourceAPI:
		return &APIKeySecrets{}
	case SourceReddit:
		return &RedditSecrets{}
	default:
		return nil
	}
}
