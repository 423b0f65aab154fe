package form

import (
	"github.com/gabriel-vasile/mimetype"

	"github.com/umputun/sourcedeck/pkg/domain"
)

// Field describes one visible input of the form
type Field struct {
	Bucket      Bucket
	Key         string
	Label       string
	Placeholder string
	Kind        string // text, number, secret or file
	Required    bool
}

// Path returns the input name, like "config.url"
func (f Field) Path() string {
	if f.Bucket == BucketTop {
		return f.Key
	}
	return string(f.Bucket) + "." + f.Key
}

var typeFields = map[domain.SourceType][]Field{
	domain.SourceRSS: {
		{Bucket: BucketConfig, Key: "url", Label: "Feed URL", Placeholder: "RSS Feed URL", Kind: "text", Required: true},
	},
	domain.SourceNewsAPI: {
		{Bucket: BucketConfig, Key: "endpoint", Label: "Endpoint", Placeholder: "API Endpoint", Kind: "text", Required: true},
		{Bucket: BucketConfig, Key: "params.categories", Label: "Categories", Placeholder: "Categories", Kind: "text"},
		{Bucket: BucketSecrets, Key: "api_key", Label: "API Key", Placeholder: "API Key", Kind: "secret", Required: true},
	},
	domain.SourceReddit: {
		{Bucket: BucketConfig, Key: "subreddit", Label: "Subreddit", Placeholder: "Subreddit Name", Kind: "text", Required: true},
		{Bucket: BucketConfig, Key: "limit", Label: "Limit", Placeholder: "Limit", Kind: "number", Required: true},
		{Bucket: BucketSecrets, Key: "client_id", Label: "Client ID", Placeholder: "Reddit Client ID", Kind: "secret", Required: true},
		{Bucket: BucketSecrets, Key: "client_secret", Label: "Client Secret", Placeholder: "Reddit Client Secret", Kind: "secret", Required: true},
	},
	domain.SourcePDF: {
		{Bucket: BucketConfig, Key: "max_allowed_size", Label: "Max Allowed Size (MB)", Placeholder: "Max Allowed Size (MB)", Kind: "text"},
		{Bucket: BucketConfig, Key: "file", Label: "PDF File", Kind: "file"},
	},
	domain.SourceExcel: {
		{Bucket: BucketConfig, Key: "file", Label: "Excel File", Kind: "file", Required: true},
	},
	domain.SourceGoogleSheets: {
		{Bucket: BucketConfig, Key: "sheetId", Label: "Sheet ID", Placeholder: "Google Sheet ID", Kind: "text", Required: true},
		{Bucket: BucketConfig, Key: "file", Label: "Sheet Export", Kind: "file"},
	},
	domain.SourceAPI: {
		{Bucket: BucketConfig, Key: "endpoint", Label: "Endpoint", Placeholder: "API Endpoint", Kind: "text", Required: true},
		{Bucket: BucketConfig, Key: "params.categories", Label: "Categories", Placeholder: "Categories", Kind: "text"},
		{Bucket: BucketSecrets, Key: "api_key", Label: "API Key", Placeholder: "API Key", Kind: "secret", Required: true},
	},
}

// Fields returns the inputs shown for type t, name first
func Fields(t domain.SourceType) []Field {
	res := []Field{{Bucket: BucketTop, Key: "name", Label: "Name", Placeholder: "Name", Kind: "text", Required: true}}
	return append(res, typeFields[t]...)
}

// Fields returns the inputs of the draft's current type.
// The file input turns required when the form demands a file.
func (f *Form) Fields() []Field {
	res := Fields(f.Type)
	if !f.requireFile {
		return res
	}
	for i := range res {
		if res[i].Kind == "file" {
			res[i].Required = true
		}
	}
	return res
}

func newAttachment(u Upload) *domain.Attachment {
	return &domain.Attachment{
		Name:         u.Name,
		ContentType:  u.ContentType,
		DetectedType: mimetype.Detect(u.Data).String(),
		Size:         int64(len(u.Data)),
		Data:         u.Data,
	}
}
