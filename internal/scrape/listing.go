package scrape

import (
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cinescrape/cinedb/internal/domain"
)

// Discover maps the ranked-list page into ordered (title, URL) entries.
// The cache key is the absolute listing URL and the cached value is the
// derived entry list, returned verbatim on a hit with no re-parse.
func (s *service) Discover(listingPath string) ([]domain.ListingEntry, error) {
	listingURL := s.cfg.BaseURL + listingPath

	var entries []domain.ListingEntry
	if s.cache.GetInto(listingURL, &entries) {
		s.log.Info().Str("url", listingURL).Int("entries", len(entries)).Msg("using cached listing")
		return entries, nil
	}

	entries = []domain.ListingEntry{}
	status, body, err := s.fetcher.Fetch(listingURL)
	if err != nil || status != http.StatusOK {
		s.log.Warn().Err(err).Int("status", status).Str("url", listingURL).Msg("listing fetch failed, yielding empty result")
	} else {
		doc, perr := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
		if perr != nil {
			s.log.Warn().Err(perr).Str("url", listingURL).Msg("listing parse failed, yielding empty result")
		} else {
			entries = parseListing(doc, s.cfg.BaseURL)
		}
	}

	// The empty result of a failed fetch is cached too, matching the
	// store's historical behavior.
	if err := s.cache.Put(listingURL, entries); err != nil {
		return nil, err
	}

	s.log.Info().Str("url", listingURL).Int("entries", len(entries)).Msg("discovered listing")
	return entries, nil
}

func parseListing(doc *goquery.Document, baseURL string) []domain.ListingEntry {
	entries := []domain.ListingEntry{}
	doc.Find("tbody.lister-list td.titleColumn").Each(func(_ int, cell *goquery.Selection) {
		link := cell.Find("a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		entries = append(entries, domain.ListingEntry{
			Title: strings.Trim(link.Text(), " "),
			URL:   baseURL + href,
		})
	})
	return entries
}
