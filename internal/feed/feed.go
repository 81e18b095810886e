// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed renders graph subjects as an RSS 2.0 document.
package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/semagraph/internal/did"
	"github.com/pdiddy/semagraph/internal/graph"
	"github.com/pdiddy/semagraph/pkg/types"
)

// RSS is the document root.
type RSS struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel Channel  `xml:"channel"`
}

// Channel describes the feed and carries its items.
type Channel struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Items       []Item `xml:"item"`
}

// Item is one feed entry built from a graph subject.
type Item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        GUID   `xml:"guid"`
	Description string `xml:"description,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
}

// GUID wraps the item identifier; DIDs are not locator URLs.
type GUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// Build assembles the feed from the graph's subjects: newest first by
// swivt modification date, ties broken by label. Subjects without labels
// and blank nodes are skipped.
func Build(g *graph.Graph, cfg types.FeedConfig) RSS {
	maxItems := cfg.MaxItems
	if maxItems <= 0 {
		maxItems = 20
	}

	type candidate struct {
		item    Item
		modTime time.Time
	}

	var candidates []candidate
	for _, subject := range g.Subjects() {
		if !subject.IsIRI() {
			continue
		}
		label, ok := g.LabelOf(subject)
		if !ok {
			continue
		}

		it := Item{
			Title: label,
			Link:  itemLink(subject.Value, cfg.SiteLink),
			GUID:  GUID{IsPermaLink: false, Value: did.Mint(subject.Value)},
		}

		if desc := propertyValue(g, subject, "description"); desc != "" {
			it.Description = desc
		}

		var mod time.Time
		for _, o := range g.ObjectsFor(subject, types.NewIRI(types.SwivtModificationDate)) {
			if t, ok := parseDateTime(o.Value); ok {
				mod = t
				it.PubDate = t.Format(time.RFC1123Z)
				break
			}
		}

		candidates = append(candidates, candidate{item: it, modTime: mod})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if !candidates[i].modTime.Equal(candidates[j].modTime) {
			return candidates[i].modTime.After(candidates[j].modTime)
		}
		return candidates[i].item.Title < candidates[j].item.Title
	})

	if len(candidates) > maxItems {
		candidates = candidates[:maxItems]
	}

	items := make([]Item, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, c.item)
	}

	return RSS{
		Version: "2.0",
		Channel: Channel{
			Title:       cfg.Title,
			Link:        cfg.SiteLink,
			Description: cfg.Description,
			Items:       items,
		},
	}
}

// Write renders the feed as XML with a declaration header.
func Write(w io.Writer, doc RSS) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("writing feed: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("writing feed: %w", err)
	}
	return enc.Close()
}

// parseDateTime reads an xsd:dateTime value. Wiki exports usually omit the
// zone ("2015-03-10T09:46:04"); those parse as UTC.
func parseDateTime(value string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// itemLink keeps absolute http(s) subject IRIs and roots anything else at
// the site link.
func itemLink(subjectIRI, siteLink string) string {
	if strings.HasPrefix(subjectIRI, "http://") || strings.HasPrefix(subjectIRI, "https://") {
		return subjectIRI
	}
	return strings.TrimSuffix(siteLink, "/") + "/" + strings.TrimPrefix(subjectIRI, "/")
}

// propertyValue returns the first literal whose predicate cleans to name.
func propertyValue(g *graph.Graph, subject types.Term, name string) string {
	for _, t := range g.PredicateObjects(subject) {
		if !t.Object.IsLiteral() {
			continue
		}
		if g.Cleaner().PropertyName(t.Predicate.Value) == name {
			return t.Object.Value
		}
	}
	return ""
}
