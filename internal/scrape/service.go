package scrape

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/cinescrape/cinedb/internal/cache"
	"github.com/cinescrape/cinedb/internal/domain"
)

// PageFetcher issues one network request per cache miss.
type PageFetcher interface {
	Fetch(url string) (status int, body []byte, err error)
}

type Service interface {
	// Discover returns the ranked-list entries in document order, which
	// is rank order. A non-success listing fetch yields an empty result,
	// not an error.
	Discover(listingPath string) ([]domain.ListingEntry, error)

	// Extract parses one detail page into a movie record. Any missing
	// expected element is an error for that record.
	Extract(detailURL string) (*domain.MovieRecord, error)

	// ExtractBatch extracts up to n records from entries, collecting
	// per-record outcomes. The caller decides whether a failure aborts
	// the batch.
	ExtractBatch(entries []domain.ListingEntry, n int) *BatchReport

	// KnownFor returns a director's poster and notable works.
	KnownFor(directorURL string) (string, []domain.KnownForEntry, error)
}

type service struct {
	log     zerolog.Logger
	cfg     *domain.Config
	cache   *cache.Store
	fetcher PageFetcher
}

func NewService(log zerolog.Logger, cfg *domain.Config, store *cache.Store, fetcher PageFetcher) Service {
	return &service{
		log:     log.With().Str("module", "scrape").Logger(),
		cfg:     cfg,
		cache:   store,
		fetcher: fetcher,
	}
}

// Result is the outcome of extracting a single listing entry.
type Result struct {
	Entry  domain.ListingEntry
	Record *domain.MovieRecord
	Err    error
}

// BatchReport collects per-record extraction outcomes.
type BatchReport struct {
	Results []Result
}

// Records returns the successfully extracted records in listing order.
func (b *BatchReport) Records() []domain.MovieRecord {
	records := make([]domain.MovieRecord, 0, len(b.Results))
	for _, r := range b.Results {
		if r.Err == nil && r.Record != nil {
			records = append(records, *r.Record)
		}
	}
	return records
}

// Failures returns the results that carry an error.
func (b *BatchReport) Failures() []Result {
	var failed []Result
	for _, r := range b.Results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// FirstErr returns the first failure in listing order, or nil.
func (b *BatchReport) FirstErr() error {
	for _, r := range b.Results {
		if r.Err != nil {
			return errors.Wrapf(r.Err, "failed to extract %q", r.Entry.Title)
		}
	}
	return nil
}

func (s *service) ExtractBatch(entries []domain.ListingEntry, n int) *BatchReport {
	limit := len(entries)
	if n < limit {
		limit = n
	}

	report := &BatchReport{Results: make([]Result, 0, limit)}
	for i, entry := range entries[:limit] {
		s.log.Info().Int("index", i+1).Int("total", limit).Str("title", entry.Title).Msg("extracting movie")

		record, err := s.Extract(entry.URL)
		report.Results = append(report.Results, Result{Entry: entry, Record: record, Err: err})
		if err != nil {
			s.log.Error().Err(err).Str("url", entry.URL).Msg("extraction failed")
		}
	}
	return report
}

// page returns the raw page text for url, fetching and caching on miss.
// Cached pages are never re-fetched.
func (s *service) page(url string) (string, error) {
	if text, ok := s.cache.GetString(url); ok {
		s.log.Debug().Str("url", url).Msg("using cache")
		return text, nil
	}

	_, body, err := s.fetcher.Fetch(url)
	if err != nil {
		return "", err
	}

	text := string(body)
	if err := s.cache.Put(url, text); err != nil {
		return "", err
	}
	return text, nil
}

func (s *service) document(url string) (*goquery.Document, error) {
	text, err := s.page(url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse page %s", url)
	}
	return doc, nil
}

// strippedText joins the trimmed text nodes under a selection, dropping
// inter-element whitespace so pipe-delimited lines split cleanly.
func strippedText(sel *goquery.Selection) string {
	var buf bytes.Buffer
	for _, node := range sel.Nodes {
		collectStripped(node, &buf)
	}
	return buf.String()
}

func collectStripped(node *html.Node, buf *bytes.Buffer) {
	if node.Type == html.TextNode {
		buf.WriteString(strings.TrimSpace(node.Data))
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectStripped(child, buf)
	}
}
