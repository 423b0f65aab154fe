package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/umputun/sourcedeck/pkg/domain"
)

// Generator creates OPML subscription lists from rss sources
type Generator struct {
	baseURL string
	now     func() time.Time
}

// NewGenerator creates a new generator, baseURL identifies the exporting dashboard
func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}
}

// GenerateOPML creates an OPML document titled by title with one outline per rss source.
// Sources of other types are skipped.
func (g *Generator) GenerateOPML(title string, sources []domain.Source) (string, error) {
	outlines := make([]Outline, 0, len(sources))
	for _, src := range sources {
		cfg, ok := src.Config.(*domain.RSSConfig)
		if !ok || cfg.URL == "" {
			continue
		}
		outlines = append(outlines, Outline{
			Text:   src.Name,
			Title:  src.Name,
			Type:   "rss",
			XMLURL: cfg.URL,
		})
	}

	doc := OPML{
		Version: "2.0",
		Head:    Head{Title: title, DateCreated: g.now().Format(time.RFC1123Z), OwnerID: g.baseURL},
		Body:    Body{Outlines: outlines},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal OPML: %w", err)
	}

	return xml.Header + string(output), nil
}
