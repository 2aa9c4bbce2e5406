package domain

import "strconv"

// Rank is a movie's position on the top-rated chart. Movies that carry no
// chart badge are unranked and stored with the "N/A" sentinel the store
// has always used, so they sort after every numeric rank.
type Rank struct {
	N      int  `json:"n,omitempty"`
	Ranked bool `json:"ranked"`
}

func RankedAs(n int) Rank {
	return Rank{N: n, Ranked: true}
}

func Unranked() Rank {
	return Rank{}
}

func (r Rank) String() string {
	if !r.Ranked {
		return "N/A"
	}
	return strconv.Itoa(r.N)
}

// StorageValue returns the value bound into the Movies.Rank column:
// the integer rank, or the "N/A" sentinel for unranked movies.
func (r Rank) StorageValue() any {
	if !r.Ranked {
		return "N/A"
	}
	return r.N
}

// Genre distinguishes a known genre from the unrated sentinel produced
// when a detail page's subtext line has too few segments.
type Genre struct {
	Name  string `json:"name,omitempty"`
	Rated bool   `json:"rated"`
}

func KnownGenre(name string) Genre {
	return Genre{Name: name, Rated: true}
}

func Unrated() Genre {
	return Genre{}
}

func (g Genre) String() string {
	if !g.Rated {
		return "No Rated"
	}
	return g.Name
}

// DirectorRef is a credited director. Link is the director's page URL and
// is the stable identity; names collide across distinct people.
type DirectorRef struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// Star is a credited cast member with a profile URL.
type Star struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// MovieRecord is the structured result of parsing one detail page.
// Records are built once per page and are immutable until persisted.
type MovieRecord struct {
	Title          string      `json:"title"`
	Rank           Rank        `json:"rank"`
	Categories     []string    `json:"categories"`
	Runtime        int         `json:"runtime"`
	Genre          Genre       `json:"genre"`
	ReleaseDate    string      `json:"releaseDate"`
	ReleaseCountry string      `json:"releaseCountry"`
	Rating         float64     `json:"rating"`
	Director       DirectorRef `json:"director"`
	Stars          []Star      `json:"stars,omitempty"`
	Image          string      `json:"image,omitempty"`
}

// ListingEntry is one row of the ranked-list page. The discoverer returns
// entries in document order, which is rank order; downstream truncation
// depends on that ordering.
type ListingEntry struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// KnownForEntry is one notable work on a director's page.
type KnownForEntry struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Poster string `json:"poster,omitempty"`
}
