package domain

import (
	"mime"
	"slices"
	"strings"
)

// Attachment is an uploaded file persisted with its source.
// Data is kept in the record itself, so the file survives restarts.
type Attachment struct {
	Name         string `json:"name" validate:"required"`
	ContentType  string `json:"content_type"`
	DetectedType string `json:"detected_type,omitempty"`
	Size         int64  `json:"size"`
	Data         []byte `json:"data,omitempty"`
}

const (
	mimePDF         = "application/pdf"
	mimeXLS         = "application/vnd.ms-excel"
	mimeXLSX        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeCSV         = "text/csv"
	mimeGoogleSheet = "application/vnd.google-apps.spreadsheet"
)

var allowedContentTypes = map[SourceType][]string{
	SourcePDF:          {mimePDF},
	SourceExcel:        {mimeXLS, mimeXLSX},
	SourceGoogleSheets: {mimeGoogleSheet, mimeXLSX, mimeCSV},
}

// AllowedContentTypes returns the declared content types accepted for uploads of type t
func AllowedContentTypes(t SourceType) []string {
	return slices.Clone(allowedContentTypes[t])
}

// ContentTypeAllowed checks a declared content type against the allow-list of t.
// Media type parameters like charset are ignored.
func ContentTypeAllowed(t SourceType, contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(contentType)
	}
	return slices.Contains(allowedContentTypes[t], strings.ToLower(mediaType))
}
