package fetch

import (
	"net/url"

	"github.com/gocolly/colly"
	"github.com/gocolly/colly/extensions"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/cinescrape/cinedb/internal/domain"
)

// ErrBadStatus reports a non-success HTTP status. Callers that can degrade
// (the listing discoverer) branch on it with errors.Is.
var ErrBadStatus = errors.New("unexpected http status")

// Fetcher issues one network request per call. The pipeline routes every
// call through the cache store first, so Fetch only runs on cache misses.
type Fetcher struct {
	log zerolog.Logger
	cfg *domain.Config
}

func NewFetcher(log zerolog.Logger, cfg *domain.Config) *Fetcher {
	return &Fetcher{
		log: log.With().Str("module", "fetch").Logger(),
		cfg: cfg,
	}
}

// Fetch retrieves url and returns the HTTP status with the raw body.
// A non-2xx response yields the status, any body, and ErrBadStatus;
// transport failures (including timeouts) yield status 0.
func (f *Fetcher) Fetch(rawURL string) (int, []byte, error) {
	c := f.newCollector()

	var (
		status   int
		body     []byte
		fetchErr error
	)

	c.OnRequest(func(r *colly.Request) {
		f.log.Debug().Str("url", r.URL.String()).Msg("fetching")
	})

	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
			body = r.Body
		}
		fetchErr = err
	})

	if err := c.Visit(rawURL); err != nil && fetchErr == nil {
		fetchErr = err
	}

	if fetchErr != nil {
		if status != 0 {
			return status, body, errors.Wrapf(ErrBadStatus, "%d from %s", status, rawURL)
		}
		return 0, nil, errors.Wrapf(fetchErr, "failed to fetch %s", rawURL)
	}

	return status, body, nil
}

func (f *Fetcher) newCollector() *colly.Collector {
	opts := []func(*colly.Collector){
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	}
	if host := hostOf(f.cfg.BaseURL); host != "" {
		opts = append(opts, colly.AllowedDomains(host))
	}

	c := colly.NewCollector(opts...)

	if f.cfg.UserAgent != "" {
		c.UserAgent = f.cfg.UserAgent
	} else {
		extensions.RandomUserAgent(c)
	}

	c.SetRequestTimeout(f.cfg.RequestTimeout)

	if f.cfg.ScrapeDelay > 0 {
		c.Limit(&colly.LimitRule{
			DomainGlob: "*",
			Delay:      f.cfg.ScrapeDelay,
		})
	}

	return c
}

func hostOf(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
