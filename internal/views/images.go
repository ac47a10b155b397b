package views

import (
	"mobil_market/internal/domain" // Importing domain models
	"strings"                      // String manipulation
)

// ImageResolver turns stored image paths into loadable URLs.
// Uploaded files live on the backend; an embedded client must reach them
// there while a browser loads them from the page origin.
type ImageResolver struct {
	BackendURL string // e.g. http://127.0.0.1:5000
	Origin     string // page origin in a browser
	Native     bool   // running embedded
}

// Resolve rewrites one path
func (r ImageResolver) Resolve(path string) string {
	if !strings.HasPrefix(path, domain.UploadURLPrefix) {
		return path
	}
	host := r.Origin
	if r.Native {
		host = r.BackendURL
	}
	return strings.TrimRight(host, "/") + path
}

// URLs resolves every image of a product, in order
func (r ImageResolver) URLs(images domain.ProductImages) []string {
	urls := images.URLs()
	for i, u := range urls {
		urls[i] = r.Resolve(u)
	}
	return urls
}
