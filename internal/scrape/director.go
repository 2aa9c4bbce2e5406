package scrape

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/cinescrape/cinedb/internal/domain"
)

// KnownFor scrapes a director's page for their poster and notable works.
// The page is cached under the director URL with the same contract as
// detail pages.
func (s *service) KnownFor(directorURL string) (string, []domain.KnownForEntry, error) {
	doc, err := s.document(directorURL)
	if err != nil {
		return "", nil, err
	}

	poster, ok := doc.Find("img#name_poster").First().Attr("src")
	if !ok {
		return "", nil, errors.Errorf("missing name poster on %s", directorURL)
	}

	titles := doc.Find("div#knownfor div.knownfor-title")
	if titles.Length() == 0 {
		return "", nil, errors.Errorf("missing known-for section on %s", directorURL)
	}

	var entries []domain.KnownForEntry
	titles.Each(func(_ int, title *goquery.Selection) {
		link := title.Find("div.knownfor_title_role a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		thumb, _ := title.Find("div.uc-add-wl-widget-container img").First().Attr("src")
		entries = append(entries, domain.KnownForEntry{
			Title:  strippedText(link),
			URL:    s.cfg.BaseURL + href,
			Poster: thumb,
		})
	})

	return poster, entries, nil
}
