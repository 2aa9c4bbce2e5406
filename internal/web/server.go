package web

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cinescrape/cinedb/internal/domain"
)

// Server is the read-only reporting front end. Every view is derived
// from the persistence layer's query contracts; nothing here mutates
// persisted state.
type Server struct {
	log   zerolog.Logger
	store domain.MovieStore
	topK  int
}

func NewServer(log zerolog.Logger, store domain.MovieStore, defaultTopK int) *Server {
	if defaultTopK <= 0 {
		defaultTopK = 50
	}
	return &Server{
		log:   log.With().Str("module", "web").Logger(),
		store: store,
		topK:  defaultTopK,
	}
}

func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.SetHTMLTemplate(pages)

	r.GET("/", s.index)
	r.GET("/movies/:id", s.movieDetail)
	r.GET("/decades", s.decades)
	r.GET("/directors", s.directors)

	api := r.Group("/api")
	{
		api.GET("/movies", s.apiMovies)
		api.GET("/movies/:id", s.apiMovie)
		api.GET("/decades", s.apiDecades)
		api.GET("/directors", s.apiDirectors)
	}

	return r
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info().Str("addr", addr).Msg("serving reporting front end")
	return s.Router().Run(addr)
}

func (s *Server) k(c *gin.Context) int {
	k, err := strconv.Atoi(c.DefaultQuery("k", strconv.Itoa(s.topK)))
	if err != nil || k < 1 {
		return s.topK
	}
	return k
}

func (s *Server) index(c *gin.Context) {
	k := s.k(c)
	rows, err := s.store.TopK(c.Request.Context(), k)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "index", gin.H{"K": k, "Movies": rows})
}

func (s *Server) movieDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "bad movie id")
		return
	}

	row, err := s.store.GetMovie(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if row == nil {
		c.String(http.StatusNotFound, "no such movie")
		return
	}
	c.HTML(http.StatusOK, "movie", row)
}

type decadeBar struct {
	domain.DecadeBucket
	Width int
}

func (s *Server) decades(c *gin.Context) {
	k := s.k(c)
	buckets, err := s.store.ReleaseDecadeHistogram(c.Request.Context(), k)
	if err != nil {
		s.fail(c, err)
		return
	}

	max := 1
	for _, b := range buckets {
		if b.Count > max {
			max = b.Count
		}
	}
	bars := make([]decadeBar, 0, len(buckets))
	for _, b := range buckets {
		bars = append(bars, decadeBar{DecadeBucket: b, Width: b.Count * 400 / max})
	}

	c.HTML(http.StatusOK, "decades", gin.H{"K": k, "Bars": bars})
}

func (s *Server) directors(c *gin.Context) {
	k := s.k(c)
	rows, err := s.store.PopularDirectors(c.Request.Context(), k)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "directors", gin.H{"K": k, "Directors": rows})
}

func (s *Server) apiMovies(c *gin.Context) {
	rows, err := s.store.TopK(c.Request.Context(), s.k(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) apiMovie(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad movie id"})
		return
	}

	row, err := s.store.GetMovie(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if row == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such movie"})
		return
	}
	c.JSON(http.StatusOK, row)
}

func (s *Server) apiDecades(c *gin.Context) {
	buckets, err := s.store.ReleaseDecadeHistogram(c.Request.Context(), s.k(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

func (s *Server) apiDirectors(c *gin.Context) {
	// The by-name grouping is the historical report; the by-link variant
	// keeps same-named directors apart.
	k := s.k(c)
	var (
		rows []domain.DirectorPopularity
		err  error
	)
	if c.Query("group") == "link" {
		rows, err = s.store.PopularDirectorsByLink(c.Request.Context(), k)
	} else {
		rows, err = s.store.PopularDirectors(c.Request.Context(), k)
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) fail(c *gin.Context, err error) {
	s.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("query failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

var pages = template.Must(template.New("").Parse(`
{{define "head"}}<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
td, th { border: 1px solid #999; padding: 4px 8px; text-align: left; }
.bar { background: #4472c4; height: 18px; display: inline-block; }
nav a { margin-right: 1em; }
</style>
<nav><a href="/">Top Movies</a><a href="/decades">Decades</a><a href="/directors">Directors</a></nav>{{end}}

{{define "index"}}<html><head><title>Top Movies</title></head><body>{{template "head"}}
<h1>Top {{.K}} Movies</h1>
<table><tr><th>Rank</th><th>Title</th><th>Rating</th><th>Length</th><th>Genre</th><th>Released</th><th>Country</th><th>Director</th></tr>
{{range .Movies}}<tr><td>{{.Rank}}</td><td><a href="/movies/{{.ID}}">{{.Title}}</a></td><td>{{.Rating}}</td><td>{{.Length}} min</td><td>{{.Genre}}</td><td>{{.ReleaseDate}}</td><td>{{.ReleaseCountry}}</td><td>{{.Director}}</td></tr>{{end}}
</table></body></html>{{end}}

{{define "movie"}}<html><head><title>{{.Title}}</title></head><body>{{template "head"}}
<h1>{{.Title}}</h1>
{{if .Image}}<img src="{{.Image}}" alt="poster" style="max-height:300px"/>{{end}}
<p>Rank: {{.Rank}} &nbsp; Rating: {{.Rating}}</p>
<p>{{.Genre}} | {{.Length}} min | {{.Category}} | {{.ReleaseDate}} | {{.ReleaseCountry}}</p>
<p>Director: <a href="{{.DirectorLink}}">{{.Director}}</a></p>
</body></html>{{end}}

{{define "decades"}}<html><head><title>Release Decades</title></head><body>{{template "head"}}
<h1>Release decades of the top {{.K}}</h1>
<table>{{range .Bars}}<tr><td>{{.Label}}</td><td>{{.Count}}</td><td style="width:420px"><span class="bar" style="width:{{.Width}}px"></span></td></tr>{{end}}</table>
</body></html>{{end}}

{{define "directors"}}<html><head><title>Popular Directors</title></head><body>{{template "head"}}
<h1>Most popular directors in the top {{.K}}</h1>
<table><tr><th>Director</th><th>Movies</th><th>Page</th></tr>
{{range .Directors}}<tr><td>{{.FullName}}</td><td>{{.Count}}</td><td><a href="{{.Link}}">{{.Link}}</a></td></tr>{{end}}
</table></body></html>{{end}}
`))
