package scrape

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinescrape/cinedb/internal/cache"
	"github.com/cinescrape/cinedb/internal/domain"
)

const testBase = "http://films.test"

const listingPage = `<html><body><table><tbody class="lister-list">
<tr><td class="titleColumn">1. <a href="/title/tt0111161/">The Shawshank Redemption</a> (1994)</td></tr>
<tr><td class="titleColumn">2. <a href="/title/tt0068646/">The Godfather</a> (1972)</td></tr>
<tr><td class="titleColumn">3. <a href="/title/tt0071562/">The Godfather: Part II</a> (1974)</td></tr>
</tbody></table></body></html>`

const detailPage = `<html><body>
<div class="title_wrapper"><h1>The Shawshank Redemption (1994)</h1></div>
<div class="article highlighted" id="titleAwardsRanks"><strong>Top Rated Movies #1</strong></div>
<div class="subtext">R <span>|</span> 2h 22min <span>|</span> <a>Crime</a>, <a>Drama</a> <span>|</span> <a>14 October 1994 (USA)</a></div>
<span itemprop="ratingValue">9.3</span>
<div class="credit_summary_item"><h4>Director:</h4><a href="/name/nm0001104/">Frank Darabont</a></div>
<div class="credit_summary_item"><h4>Writers:</h4><a href="/name/nm0000175/">Stephen King</a></div>
<div class="credit_summary_item"><h4>Stars:</h4><a href="/name/nm0000209/">Tim Robbins</a>, <a href="/name/nm0000151/">Morgan Freeman</a>, <a href="/title/tt0111161/fullcredits/">See full cast &amp; crew</a></div>
<div class="poster"><a href="/title/tt0111161/mediaviewer/rm10105600/"><img alt="poster"/></a></div>
</body></html>`

const viewerPage = `<html><head><meta property="og:image" content="https://img.films.test/shawshank.jpg"/></head><body></body></html>`

const directorPage = `<html><body>
<img id="name_poster" src="https://img.films.test/darabont.jpg"/>
<div id="knownfor">
<div class="knownfor-title"><div class="uc-add-wl-widget-container"><img src="https://img.films.test/mist.jpg"/></div><div class="knownfor_title_role"><a href="/title/tt0884328/">The Mist</a></div></div>
<div class="knownfor-title"><div class="uc-add-wl-widget-container"><img src="https://img.films.test/mile.jpg"/></div><div class="knownfor_title_role"><a href="/title/tt0120689/">The Green Mile</a></div></div>
</div>
</body></html>`

type stubFetcher struct {
	pages map[string]string
	calls map[string]int
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		pages: map[string]string{
			testBase + "/chart/top":         listingPage,
			testBase + "/title/tt0111161/":  detailPage,
			testBase + "/name/nm0001104/":   directorPage,
			testBase + "/title/tt0111161/mediaviewer/rm10105600/": viewerPage,
		},
		calls: map[string]int{},
	}
}

func (f *stubFetcher) Fetch(url string) (int, []byte, error) {
	f.calls[url]++
	body, ok := f.pages[url]
	if !ok {
		return http.StatusNotFound, nil, errors.Errorf("404 from %s", url)
	}
	return http.StatusOK, []byte(body), nil
}

func (f *stubFetcher) total() int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func newTestService(t *testing.T, fetcher PageFetcher) (Service, *cache.Store) {
	t.Helper()
	store := cache.Open(filepath.Join(t.TempDir(), "cache.json"), zerolog.Nop())
	cfg := &domain.Config{BaseURL: testBase}
	return NewService(zerolog.Nop(), cfg, store, fetcher), store
}

func TestDiscover_OrderedEntries(t *testing.T) {
	fetcher := newStubFetcher()
	svc, _ := newTestService(t, fetcher)

	entries, err := svc.Discover("/chart/top")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "The Shawshank Redemption", entries[0].Title)
	assert.Equal(t, testBase+"/title/tt0111161/", entries[0].URL)
	assert.Equal(t, "The Godfather", entries[1].Title)
	assert.Equal(t, "The Godfather: Part II", entries[2].Title)
}

func TestDiscover_CacheHitSkipsFetch(t *testing.T) {
	fetcher := newStubFetcher()
	svc, _ := newTestService(t, fetcher)

	first, err := svc.Discover("/chart/top")
	require.NoError(t, err)
	second, err := svc.Discover("/chart/top")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetcher.calls[testBase+"/chart/top"])
}

func TestDiscover_FetchFailureYieldsEmpty(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{}, calls: map[string]int{}}
	svc, _ := newTestService(t, fetcher)

	entries, err := svc.Discover("/chart/top")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExtract_FullRecord(t *testing.T) {
	fetcher := newStubFetcher()
	svc, _ := newTestService(t, fetcher)

	record, err := svc.Extract(testBase + "/title/tt0111161/")
	require.NoError(t, err)

	assert.Equal(t, "The Shawshank Redemption", record.Title)
	assert.Equal(t, domain.RankedAs(1), record.Rank)
	assert.Equal(t, domain.KnownGenre("R"), record.Genre)
	assert.Equal(t, 142, record.Runtime)
	assert.Equal(t, []string{"Crime", "Drama"}, record.Categories)
	assert.Equal(t, "1994-10-14", record.ReleaseDate)
	assert.Equal(t, "USA", record.ReleaseCountry)
	assert.Equal(t, 9.3, record.Rating)
	assert.Equal(t, domain.DirectorRef{Name: "Frank Darabont", Link: testBase + "/name/nm0001104/"}, record.Director)
	require.Len(t, record.Stars, 2)
	assert.Equal(t, "Tim Robbins", record.Stars[0].Name)
	assert.Equal(t, "Morgan Freeman", record.Stars[1].Name)
	assert.Equal(t, "https://img.films.test/shawshank.jpg", record.Image)
}

func TestExtract_CacheSuppressesRepeatFetch(t *testing.T) {
	fetcher := newStubFetcher()
	svc, _ := newTestService(t, fetcher)

	_, err := svc.Extract(testBase + "/title/tt0111161/")
	require.NoError(t, err)
	fetched := fetcher.total()

	_, err = svc.Extract(testBase + "/title/tt0111161/")
	require.NoError(t, err)
	assert.Equal(t, fetched, fetcher.total())
}

func TestExtract_RestartWithPopulatedCacheFetchesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	cfg := &domain.Config{BaseURL: testBase}

	warm := newStubFetcher()
	store := cache.Open(path, zerolog.Nop())
	svc := NewService(zerolog.Nop(), cfg, store, warm)
	_, err := svc.Extract(testBase + "/title/tt0111161/")
	require.NoError(t, err)
	require.NoError(t, store.Flush())

	cold := newStubFetcher()
	restarted := NewService(zerolog.Nop(), cfg, cache.Open(path, zerolog.Nop()), cold)
	record, err := restarted.Extract(testBase + "/title/tt0111161/")
	require.NoError(t, err)
	assert.Equal(t, "The Shawshank Redemption", record.Title)
	assert.Equal(t, 0, cold.total())
}

func TestExtract_UnrankedAndUnrated(t *testing.T) {
	page := `<html><body>
<div class="title_wrapper"><h1>Some Documentary (2003)</h1></div>
<div class="article highlighted" id="titleAwardsRanks"><strong>2 wins &amp; 1 nomination.</strong></div>
<div class="subtext">1h 30min <span>|</span> <a>Documentary</a> <span>|</span> <a>July 2003 (France)</a></div>
<span itemprop="ratingValue">7.1</span>
<div class="credit_summary_item"><h4>Director:</h4><a href="/name/nm0000001/">Jane Doe</a></div>
<div class="credit_summary_item"><h4>Writers:</h4><a href="/name/nm0000002/">John Roe</a></div>
<div class="credit_summary_item"><h4>Stars:</h4><a href="/name/nm0000003/">A Star</a>, <a href="/fullcredits/">See full cast &amp; crew</a></div>
</body></html>`

	fetcher := &stubFetcher{
		pages: map[string]string{testBase + "/title/tt0000001/": page},
		calls: map[string]int{},
	}
	svc, _ := newTestService(t, fetcher)

	record, err := svc.Extract(testBase + "/title/tt0000001/")
	require.NoError(t, err)

	assert.Equal(t, domain.Unranked(), record.Rank)
	assert.Equal(t, "N/A", record.Rank.String())
	assert.Equal(t, domain.Unrated(), record.Genre)
	assert.Equal(t, "No Rated", record.Genre.String())
	assert.Equal(t, 90, record.Runtime)
	assert.Equal(t, "2003-07", record.ReleaseDate)
	assert.Equal(t, "France", record.ReleaseCountry)
	assert.Empty(t, record.Image)
}

func TestExtract_MissingElementFails(t *testing.T) {
	page := `<html><body><div class="title_wrapper"><h1>Broken (2020)</h1></div></body></html>`
	fetcher := &stubFetcher{
		pages: map[string]string{testBase + "/title/tt0000002/": page},
		calls: map[string]int{},
	}
	svc, _ := newTestService(t, fetcher)

	_, err := svc.Extract(testBase + "/title/tt0000002/")
	require.Error(t, err)
}

func TestExtractBatch_TruncatesAndReports(t *testing.T) {
	fetcher := newStubFetcher()
	svc, _ := newTestService(t, fetcher)

	entries := []domain.ListingEntry{
		{Title: "The Shawshank Redemption", URL: testBase + "/title/tt0111161/"},
		{Title: "The Godfather", URL: testBase + "/title/tt0068646/"},
	}

	report := svc.ExtractBatch(entries, 1)
	require.Len(t, report.Results, 1)
	assert.NoError(t, report.FirstErr())
	assert.Len(t, report.Records(), 1)

	report = svc.ExtractBatch(entries, 5)
	require.Len(t, report.Results, 2)
	require.Error(t, report.FirstErr())
	assert.Len(t, report.Records(), 1)
	assert.Len(t, report.Failures(), 1)
	assert.Equal(t, "The Godfather", report.Failures()[0].Entry.Title)
}

func TestKnownFor(t *testing.T) {
	fetcher := newStubFetcher()
	svc, _ := newTestService(t, fetcher)

	poster, entries, err := svc.KnownFor(testBase + "/name/nm0001104/")
	require.NoError(t, err)

	assert.Equal(t, "https://img.films.test/darabont.jpg", poster)
	require.Len(t, entries, 2)
	assert.Equal(t, "The Mist", entries[0].Title)
	assert.Equal(t, testBase+"/title/tt0884328/", entries[0].URL)
	assert.Equal(t, "https://img.films.test/mist.jpg", entries[0].Poster)
	assert.Equal(t, "The Green Mile", entries[1].Title)
}
