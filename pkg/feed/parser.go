package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/umputun/sourcedeck/pkg/domain"
)

// ErrNoSubscriptions is returned when an uploaded document yields no feed urls
var ErrNoSubscriptions = errors.New("no feed subscriptions found")

// Parser turns uploaded documents into rss sources. Nothing is fetched from the network.
type Parser struct {
	feeds  *gofeed.Parser
	policy *bluemonday.Policy
}

// NewParser creates a new document parser
func NewParser() *Parser {
	return &Parser{feeds: gofeed.NewParser(), policy: bluemonday.StrictPolicy()}
}

// ParseSubscriptions reads an OPML subscription list or a single RSS/Atom/JSON feed document.
// OPML gives one source per outline with an xmlUrl, nested folders included.
// A feed document gives one source named by the feed title.
func (p *Parser) ParseSubscriptions(data []byte) ([]domain.Source, error) {
	if res, ok := p.parseOPML(data); ok {
		if len(res) == 0 {
			return nil, ErrNoSubscriptions
		}
		return res, nil
	}

	feed, err := p.feeds.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	url := feed.FeedLink
	if url == "" {
		url = feed.Link
	}
	if url == "" {
		return nil, ErrNoSubscriptions
	}
	name := p.title(feed.Title)
	if name == "" {
		name = url
	}
	return []domain.Source{newRSS(name, url)}, nil
}

// parseOPML returns ok=false if data isn't an OPML document
func (p *Parser) parseOPML(data []byte) ([]domain.Source, bool) {
	var doc OPML
	if err := xml.Unmarshal(data, &doc); err != nil || doc.XMLName.Local != "opml" {
		return nil, false
	}
	res := []domain.Source{}
	var walk func(outlines []Outline)
	walk = func(outlines []Outline) {
		for _, o := range outlines {
			if url := strings.TrimSpace(o.XMLURL); url != "" {
				name := p.title(o.Title)
				if name == "" {
					name = p.title(o.Text)
				}
				if name == "" {
					name = url
				}
				res = append(res, newRSS(name, url))
			}
			walk(o.Outlines)
		}
	}
	walk(doc.Body.Outlines)
	return res, true
}

// title strips markup feed publishers put into titles
func (p *Parser) title(s string) string {
	return strings.TrimSpace(html.UnescapeString(p.policy.Sanitize(s)))
}

func newRSS(name, url string) domain.Source {
	return domain.Source{Name: name, Type: domain.SourceRSS, Config: &domain.RSSConfig{URL: url}}
}
