package domain

import "strings"

// ImageSize is a catalog image rendition
type ImageSize string

const (
	ImageW500     ImageSize = "w500"
	ImageW780     ImageSize = "w780"
	ImageW1280    ImageSize = "w1280"
	ImageOriginal ImageSize = "original"
)

// ImageURL composes base + "/" + size + path. An empty path yields "".
func ImageURL(base string, size ImageSize, path string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = ImageW500
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(base, "/") + "/" + string(size) + path
}
