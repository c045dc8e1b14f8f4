package library

import "github.com/vmunix/reelbox/internal/movie"

// Patch is a partial metadata update. Nil fields are left unchanged. The
// title and the synopsis are not part of a patch.
type Patch struct {
	Year      *int
	Category  *string
	Director  *string
	Producer  *string
	Actors    *string
	Duration  *int
	VideoFile *string
	Cover     *movie.Cover
}

// apply writes the set fields to rec and returns the names of those that
// changed.
func (p Patch) apply(rec *movie.Record) []string {
	var changed []string
	setInt := func(name string, dst *int, v *int) {
		if v != nil && *dst != *v {
			*dst = *v
			changed = append(changed, name)
		}
	}
	setString := func(name string, dst *string, v *string) {
		if v != nil && *dst != *v {
			*dst = *v
			changed = append(changed, name)
		}
	}

	setInt("year", &rec.Year, p.Year)
	setString("category", &rec.Category, p.Category)
	setString("director", &rec.Director, p.Director)
	setString("producer", &rec.Producer, p.Producer)
	setString("actors", &rec.Actors, p.Actors)
	setInt("duration", &rec.Duration, p.Duration)
	setString("video_file", &rec.VideoFile, p.VideoFile)
	if p.Cover != nil {
		if c := p.Cover.WithDefaults(); c != rec.Cover {
			rec.Cover = c
			changed = append(changed, "cover")
		}
	}
	return changed
}
