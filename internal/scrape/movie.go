package scrape

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/cinescrape/cinedb/internal/domain"
)

const topRatedMarker = "Top Rated Movies"

// Extract parses a detail page into a movie record. The cache key is the
// detail URL and the cached value is the raw page text, so parsing
// changes never require cache invalidation.
func (s *service) Extract(detailURL string) (*domain.MovieRecord, error) {
	doc, err := s.document(detailURL)
	if err != nil {
		return nil, err
	}

	record := &domain.MovieRecord{}

	heading := doc.Find("div.title_wrapper h1").First()
	if heading.Length() == 0 {
		return nil, errors.Errorf("missing title heading on %s", detailURL)
	}
	record.Title = strings.Trim(strings.SplitN(strippedText(heading), "(", 2)[0], " ")

	rank, err := parseRank(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "bad awards block on %s", detailURL)
	}
	record.Rank = rank

	if err := s.parseSubtext(doc, record); err != nil {
		return nil, errors.Wrapf(err, "bad subtext on %s", detailURL)
	}

	ratingEl := doc.Find(`span[itemprop="ratingValue"]`).First()
	if ratingEl.Length() == 0 {
		return nil, errors.Errorf("missing rating on %s", detailURL)
	}
	rating, err := strconv.ParseFloat(strippedText(ratingEl), 64)
	if err != nil {
		return nil, errors.Wrapf(err, "bad rating on %s", detailURL)
	}
	record.Rating = rating

	if err := s.parseCredits(doc, record); err != nil {
		return nil, errors.Wrapf(err, "bad credits on %s", detailURL)
	}

	// The poster is optional: it needs a second-level fetch of the media
	// viewer page, cached independently under its own URL.
	image, err := s.posterImage(doc)
	if err != nil {
		s.log.Warn().Err(err).Str("url", detailURL).Msg("failed to resolve poster image")
	}
	record.Image = image

	return record, nil
}

// parseRank accepts a rank only when the awards block's label starts with
// the top-rated marker; the rank is the numeric suffix after the last '#'.
func parseRank(doc *goquery.Document) (domain.Rank, error) {
	label := doc.Find("div.article.highlighted#titleAwardsRanks strong").First()
	if label.Length() == 0 {
		return domain.Rank{}, errors.New("missing awards block")
	}

	text := strippedText(label)
	if !strings.HasPrefix(text, topRatedMarker) {
		return domain.Unranked(), nil
	}

	parts := strings.Split(text, "#")
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return domain.Rank{}, errors.Wrapf(err, "bad rank in %q", text)
	}
	return domain.RankedAs(n), nil
}

// parseSubtext splits the pipe-delimited metadata line. Segment counts
// vary by movie: with fewer than four segments the genre is unrated, and
// the last three segments are always runtime, categories, and release.
func (s *service) parseSubtext(doc *goquery.Document, record *domain.MovieRecord) error {
	subtext := doc.Find("div.subtext").First()
	if subtext.Length() == 0 {
		return errors.New("missing subtext line")
	}

	segments := strings.Split(strippedText(subtext), "|")
	if len(segments) < 3 {
		return errors.Errorf("subtext has %d segments, need at least 3", len(segments))
	}

	if len(segments) <= 3 {
		record.Genre = domain.Unrated()
	} else {
		record.Genre = domain.KnownGenre(segments[len(segments)-4])
	}

	record.Runtime = ParseRuntime(segments[len(segments)-3])

	for _, c := range strings.Split(segments[len(segments)-2], ",") {
		record.Categories = append(record.Categories, strings.TrimSpace(c))
	}

	release := segments[len(segments)-1]
	dateText := strings.Trim(strings.Split(release, "(")[0], " ")
	date, err := ParseReleaseDate(dateText)
	if err != nil {
		return err
	}
	record.ReleaseDate = date

	countryParts := strings.Split(release, "(")
	record.ReleaseCountry = strings.Trim(countryParts[len(countryParts)-1], ")")
	return nil
}

// parseCredits reads the credited-person blocks: the first block's only
// link is the director (only the first credited director is kept), the
// third block's links are the stars minus the trailing full-cast link.
func (s *service) parseCredits(doc *goquery.Document, record *domain.MovieRecord) error {
	blocks := doc.Find("div.credit_summary_item")
	if blocks.Length() < 3 {
		return errors.Errorf("found %d credit blocks, need 3", blocks.Length())
	}

	directorLink := blocks.Eq(0).Find("a").First()
	href, ok := directorLink.Attr("href")
	if !ok {
		return errors.New("missing director link")
	}
	record.Director = domain.DirectorRef{
		Name: strippedText(directorLink),
		Link: s.cfg.BaseURL + href,
	}

	starLinks := blocks.Eq(2).Find("a")
	starLinks.Each(func(i int, link *goquery.Selection) {
		if i == starLinks.Length()-1 {
			// The final link is "See full cast & crew".
			return
		}
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		record.Stars = append(record.Stars, domain.Star{
			Name: strippedText(link),
			Link: s.cfg.BaseURL + href,
		})
	})

	return nil
}

// posterImage resolves the canonical poster URL via the media viewer page
// linked from the detail page's poster block.
func (s *service) posterImage(doc *goquery.Document) (string, error) {
	posterLink := doc.Find("div.poster a").First()
	href, ok := posterLink.Attr("href")
	if !ok {
		return "", nil
	}

	viewer, err := s.document(s.cfg.BaseURL + href)
	if err != nil {
		return "", err
	}

	image, ok := viewer.Find(`meta[property="og:image"]`).First().Attr("content")
	if !ok {
		return "", errors.New("viewer page has no og:image meta tag")
	}
	return image, nil
}
