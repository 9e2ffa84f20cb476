package tagio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tagscout/internal/track"
)

// PathReader derives tags from the library path convention
// <library>/<artist>/<album>/<NN> <title>.<ext>. It never writes; SaveTags
// reports success without touching the file so accepted values survive in
// the session only.
type PathReader struct {
	titleCaser cases.Caser
}

// NewPathReader creates a path-convention tag reader.
func NewPathReader() *PathReader {
	return &PathReader{titleCaser: cases.Title(language.Und)}
}

// LoadTags infers artist, album, track number, and title from the path.
func (p *PathReader) LoadTags(_ context.Context, path string) (track.LocalTrack, error) {
	if strings.TrimSpace(path) == "" {
		return track.LocalTrack{}, errors.New("path must not be empty")
	}
	if _, err := os.Stat(path); err != nil {
		return track.LocalTrack{}, fmt.Errorf("stat %s: %w", path, err)
	}

	t := track.LocalTrack{Path: path}

	dir := filepath.Dir(path)
	t.Album = p.cleanComponent(filepath.Base(dir))
	t.Artist = p.cleanComponent(filepath.Base(filepath.Dir(dir)))

	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	number, title := splitTrackNumber(base)
	t.TrackNumber = number
	t.Title = p.cleanComponent(title)

	return t, nil
}

// SaveTags is a no-op persistence stub; a container backend replaces it.
func (p *PathReader) SaveTags(_ context.Context, _ track.LocalTrack, _ bool) (SaveResult, error) {
	return SaveResult{Saved: true}, nil
}

// cleanComponent turns a path segment into a displayable tag value:
// separators become spaces, the rest is title-cased.
func (p *PathReader) cleanComponent(segment string) string {
	var b strings.Builder
	prevSpace := false
	for _, r := range segment {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '&' || r == '\'':
			b.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				b.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	cleaned := strings.TrimSpace(b.String())
	if cleaned == "" {
		return ""
	}
	return p.titleCaser.String(cleaned)
}

// splitTrackNumber peels a leading track number ("01 Title", "01-Title",
// "01. Title") off a file name.
func splitTrackNumber(base string) (int, string) {
	trimmed := strings.TrimSpace(base)
	digits := 0
	for digits < len(trimmed) && trimmed[digits] >= '0' && trimmed[digits] <= '9' {
		digits++
	}
	if digits == 0 || digits > 3 {
		return 0, trimmed
	}
	number, err := strconv.Atoi(trimmed[:digits])
	if err != nil {
		return 0, trimmed
	}
	rest := strings.TrimLeft(trimmed[digits:], " .-_")
	if rest == "" {
		return number, trimmed
	}
	return number, rest
}
