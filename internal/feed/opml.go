package feed

import (
	"github.com/gilliek/go-opml/opml"
	"github.com/rotisserie/eris"
)

// Source is one feed from the OPML feed list.
type Source struct {
	Title string
	URL   string
}

// LoadSources parses an OPML file into an ordered list of RSS feed
// sources. Nested outline groups are walked depth-first; only outlines
// with type "rss" and a feed URL are kept.
func LoadSources(path string) ([]Source, error) {
	doc, err := opml.NewOPMLFromFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "opml: parse file")
	}

	var sources []Source
	collectOutlines(doc.Body.Outlines, &sources)
	return sources, nil
}

func collectOutlines(outlines []opml.Outline, sources *[]Source) {
	for _, o := range outlines {
		if o.Type == "rss" && o.XMLURL != "" {
			title := o.Title
			if title == "" {
				title = o.Text
			}
			*sources = append(*sources, Source{Title: title, URL: o.XMLURL})
		}
		collectOutlines(o.Outlines, sources)
	}
}
