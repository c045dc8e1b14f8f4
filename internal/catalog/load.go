package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/vmunix/reelbox/internal/csvstore"
	"github.com/vmunix/reelbox/internal/movie"
)

// Columns is the store header, in the order Save writes it. Loading accepts
// the columns in any order.
var Columns = []string{
	movie.TitleColumn,
	"year",
	"category",
	"director",
	"producer",
	"duration",
	"actors",
	movie.SynopsisColumn,
	"video_file",
	"normal_cover",
	"squared_cover",
}

// EnsureStore creates an empty store at path when no file exists there.
func EnsureStore(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat store: %w", err)
	}
	return NewBasic().Save(path)
}

// readStore parses every data row of path into a record and passes it to fn
// together with the stored synopsis. The record's provider is left empty.
func readStore(path string, fn func(rec *movie.Record, synopsis string)) error {
	var (
		h     csvstore.Header
		width int
	)
	err := csvstore.ReadFile(path, func(line int, row []string) error {
		if h == nil {
			var err error
			if h, err = csvstore.ParseHeader(row, Columns...); err != nil {
				return err
			}
			width = len(row)
			return nil
		}
		if len(row) != width {
			return &RowError{Line: line, Got: len(row), Want: width}
		}
		fn(parseRecord(h, row), h.Field(row, movie.SynopsisColumn))
		return nil
	})
	if err != nil {
		return fmt.Errorf("load catalog %s: %w", path, err)
	}
	if h == nil {
		return fmt.Errorf("load catalog %s: %w", path, &csvstore.ColumnError{Missing: Columns})
	}
	return nil
}

func parseRecord(h csvstore.Header, row []string) *movie.Record {
	rec := movie.New(h.Field(row, movie.TitleColumn), nil)
	rec.Year = atoi(h.Field(row, "year"))
	rec.Category = h.Field(row, "category")
	rec.Director = h.Field(row, "director")
	rec.Producer = h.Field(row, "producer")
	rec.Duration = max(0, atoi(h.Field(row, "duration")))
	rec.Actors = h.Field(row, "actors")
	rec.VideoFile = h.Field(row, "video_file")
	rec.Cover = movie.Cover{
		Normal: h.Field(row, "normal_cover"),
		Square: h.Field(row, "squared_cover"),
	}.WithDefaults()
	return rec
}

// atoi reads a leading integer, yielding 0 when there is none.
func atoi(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[end] == '-' || s[end] == '+')) {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
