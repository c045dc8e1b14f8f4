// Package cover derives the normal and square poster images of a movie from
// a source picture.
package cover

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/vmunix/reelbox/internal/movie"
)

// Output geometry and encoding.
const (
	NormalWidth  = 240
	NormalHeight = 320
	SquareSize   = 240
	Quality      = 80
)

// ErrEmptyName indicates a name that sanitises to nothing.
var ErrEmptyName = errors.New("empty cover name")

// Generator writes cover derivatives into one directory.
type Generator struct {
	dir    string
	logger *slog.Logger
}

// NewGenerator returns a generator writing into dir.
func NewGenerator(dir string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{dir: dir, logger: logger.With("component", "cover")}
}

// Create decodes src and writes <name>.jpg (240x320) and <name>_square.jpg
// (240x240). On any failure the placeholder cover is returned along with the
// error, and no partial output is left behind.
func (g *Generator) Create(src, name string) (movie.Cover, error) {
	c, err := g.create(src, name)
	if err != nil {
		g.logger.Warn("cover generation failed", "source", src, "name", name, "error", err)
		return movie.DefaultCover(), err
	}
	g.logger.Debug("cover generated", "normal", c.Normal, "square", c.Square)
	return c, nil
}

func (g *Generator) create(src, name string) (movie.Cover, error) {
	base := SanitizeName(name)
	if base == "" {
		return movie.Cover{}, ErrEmptyName
	}
	normalPath := filepath.Join(g.dir, base+".jpg")
	squarePath := filepath.Join(g.dir, base+"_square.jpg")
	if err := ValidatePath(normalPath, g.dir); err != nil {
		return movie.Cover{}, err
	}

	img, err := decode(src)
	if err != nil {
		return movie.Cover{}, err
	}
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return movie.Cover{}, fmt.Errorf("create cover directory: %w", err)
	}

	if err := writeJPEG(normalPath, ResizeExact(img, NormalWidth, NormalHeight)); err != nil {
		return movie.Cover{}, err
	}
	if err := writeJPEG(squarePath, ResizeExact(img, SquareSize, SquareSize)); err != nil {
		_ = os.Remove(normalPath)
		return movie.Cover{}, err
	}
	return movie.Cover{Normal: normalPath, Square: squarePath}, nil
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cover source: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

func writeJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: Quality}); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ResizeExact scales src to width x height, ignoring its aspect ratio.
func ResizeExact(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
