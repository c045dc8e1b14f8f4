package cover

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrPathTraversal indicates a name that would escape the output directory.
var ErrPathTraversal = errors.New("path escapes output directory")

var (
	illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00]`)
	multiSpace   = regexp.MustCompile(`\s+`)
	multiDot     = regexp.MustCompile(`\.{2,}`)
)

// SanitizeName turns a movie title into a file name safe on common
// filesystems. Separators and reserved characters become spaces.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\x00", "")
	name = illegalChars.ReplaceAllString(name, " ")
	name = multiDot.ReplaceAllString(name, ".")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.Trim(name, " .")
}

// ValidatePath returns ErrPathTraversal unless path lies within root.
func ValidatePath(path, root string) error {
	cleanPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	cleanRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	if cleanPath == cleanRoot {
		return nil
	}
	if !strings.HasPrefix(cleanPath, strings.TrimSuffix(cleanRoot, string(filepath.Separator))+string(filepath.Separator)) {
		return ErrPathTraversal
	}
	return nil
}
