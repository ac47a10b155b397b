package domain

import (
	"database/sql/driver" // Column values
	"encoding/json"       // JSON encoding/decoding
	"fmt"                 // Error wrapping
	"strings"             // String manipulation
)

// UploadURLPrefix is the path under which uploaded product files are served.
const UploadURLPrefix = "/product_images"

// ProductImages is either a single image URL or an ordered list of URLs.
//
// The catalog stores both shapes in one text column: a bare URL, or a
// JSON-encoded array of URLs. The value is decoded once, when it crosses the
// JSON or database boundary, so consumers only ever see URLs().
type ProductImages struct {
	urls []string
	list bool
}

// SingleImage returns images holding exactly one URL.
func SingleImage(url string) ProductImages {
	if url == "" {
		return ProductImages{}
	}
	return ProductImages{urls: []string{url}}
}

// ImageList returns images holding the given URLs in order.
func ImageList(urls ...string) ProductImages {
	return ProductImages{urls: append([]string(nil), urls...), list: true}
}

// ParseProductImages decodes the stored form of a product image field.
// A value that looks like a JSON array but fails to decode is kept as a
// single opaque URL.
func ParseProductImages(raw string) ProductImages {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ProductImages{}
	}
	if strings.HasPrefix(trimmed, "[") {
		var urls []string
		if err := json.Unmarshal([]byte(trimmed), &urls); err == nil {
			return ImageList(urls...)
		}
	}
	return SingleImage(raw)
}

// IsList reports whether the images were given as a list.
func (p ProductImages) IsList() bool { return p.list }

// IsEmpty reports whether there is no image at all.
func (p ProductImages) IsEmpty() bool { return len(p.urls) == 0 }

// URLs returns a copy of the image URLs in order.
func (p ProductImages) URLs() []string {
	return append([]string(nil), p.urls...)
}

// Primary returns the first image URL or "".
func (p ProductImages) Primary() string {
	if len(p.urls) == 0 {
		return ""
	}
	return p.urls[0]
}

// String returns the stored form: the bare URL or a JSON array.
func (p ProductImages) String() string {
	if !p.list {
		return p.Primary()
	}
	urls := p.urls
	if urls == nil {
		urls = []string{}
	}
	b, _ := json.Marshal(urls)
	return string(b)
}

// MarshalJSON writes the stored form as a JSON string, which is what clients expect.
func (p ProductImages) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts either a string (bare URL or encoded array) or a JSON array.
func (p *ProductImages) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*p = ProductImages{}
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var urls []string
		if err := json.Unmarshal(data, &urls); err != nil {
			return fmt.Errorf("decode image list: %w", err)
		}
		*p = ImageList(urls...)
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	*p = ParseProductImages(raw)
	return nil
}

// Value implements driver.Valuer
func (p ProductImages) Value() (driver.Value, error) {
	return p.String(), nil
}

// Scan implements sql.Scanner
func (p *ProductImages) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = ProductImages{}
	case string:
		*p = ParseProductImages(v)
	case []byte:
		*p = ParseProductImages(string(v))
	default:
		return fmt.Errorf("unsupported image column type %T", src)
	}
	return nil
}
