package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/cinescrape/cinedb/internal/domain"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

// RenderTopK writes the ranked movie table.
func RenderTopK(out io.Writer, rows []domain.MovieRow) {
	t := newTable(out)
	t.AppendHeader(table.Row{"Rank", "Title", "Rating", "Length", "Genre", "Released", "Country", "Director"})

	for _, row := range rows {
		t.AppendRow(table.Row{
			row.Rank,
			row.Title,
			fmt.Sprintf("%.1f", row.Rating),
			fmt.Sprintf("%d min", row.Length),
			row.Genre,
			row.ReleaseDate,
			row.ReleaseCountry,
			row.Director,
		})
	}

	t.Render()
}

// RenderHistogram writes the decade distribution as horizontal bars.
func RenderHistogram(out io.Writer, buckets []domain.DecadeBucket) {
	t := newTable(out)
	t.AppendHeader(table.Row{"Decade", "Movies", ""})

	for _, b := range buckets {
		t.AppendRow(table.Row{b.Label, b.Count, strings.Repeat("#", b.Count)})
	}

	t.Render()
}

// RenderKnownFor writes a director's poster URL and notable works.
func RenderKnownFor(out io.Writer, poster string, entries []domain.KnownForEntry) {
	if poster != "" {
		fmt.Fprintf(out, "Poster: %s\n", poster)
	}

	t := newTable(out)
	t.AppendHeader(table.Row{"Known For", "Page", "Poster"})

	for _, e := range entries {
		t.AppendRow(table.Row{e.Title, e.URL, e.Poster})
	}

	t.Render()
}

// RenderDirectors writes the grouped popularity ranking.
func RenderDirectors(out io.Writer, rows []domain.DirectorPopularity) {
	t := newTable(out)
	t.AppendHeader(table.Row{"Director", "Movies", "Page"})

	for _, row := range rows {
		t.AppendRow(table.Row{row.FullName, row.Count, row.Link})
	}

	t.Render()
}
