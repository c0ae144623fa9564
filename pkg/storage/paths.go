package storage

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// Uploaded images are re-encoded to webp regardless of input format.
const imageExt = ".webp"

// sanitizeComponent makes a brewery or beer name safe as a single path
// element.
func sanitizeComponent(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		default:
			return r
		}
	}, strings.TrimSpace(name))

	cleaned = strings.Trim(cleaned, ".")
	if cleaned == "" {
		cleaned = "unnamed"
	}

	return cleaned
}

// ReviewPhotoPath is {brewery}/{beer}/{reviewID}-{position}.webp.
func ReviewPhotoPath(brewery, beer string, reviewID uint, position int) string {
	return path.Join(sanitizeComponent(brewery), sanitizeComponent(beer),
		fmt.Sprintf("%d-%d%s", reviewID, position, imageExt))
}

// BeerCoverPath is {brewery}/{beer}/{beer}-CoverImage-{timestamp}.webp.
func BeerCoverPath(brewery, beer string, now time.Time) string {
	cleanBeer := sanitizeComponent(beer)

	return path.Join(sanitizeComponent(brewery), cleanBeer,
		fmt.Sprintf("%s-CoverImage-%d%s", cleanBeer, now.UnixMilli(), imageExt))
}

// FlatImagePath is the flat {timestamp}.webp layout used for brewery
// covers and avatars. The convention differs from beer covers on
// purpose: it mirrors the layout existing rows already reference.
func FlatImagePath(now time.Time) string {
	return fmt.Sprintf("%d%s", now.UnixMilli(), imageExt)
}
