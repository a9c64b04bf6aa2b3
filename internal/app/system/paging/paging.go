// Package paging parses page/per_page query parameters for list endpoints.
package paging

import (
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultSize is the page size when per_page is absent or invalid.
const DefaultSize = 20

// MaxSize caps per_page so one request cannot pull an unbounded list.
const MaxSize = 100

// Page is a 1-based page selection.
type Page struct {
	Number int
	Size   int
}

// Default returns the first page at the default size.
func Default() Page {
	return Page{Number: 1, Size: DefaultSize}
}

// FromRequest reads "page" and "per_page". Missing or invalid values fall
// back to defaults; per_page is clamped to MaxSize.
func FromRequest(r *http.Request) Page {
	p := Default()
	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && n >= 1 {
		p.Number = n
	}
	if s, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && s >= 1 {
		if s > MaxSize {
			s = MaxSize
		}
		p.Size = s
	}
	return p
}

// Skip returns the number of documents to skip for this page.
func (p Page) Skip() int64 {
	return int64(p.Number-1) * int64(p.Size)
}

// Limit returns the page size as int64 for Mongo Find options.
func (p Page) Limit() int64 {
	return int64(p.Size)
}

// Apply sets skip and limit on the given find options.
func (p Page) Apply(opts *options.FindOptions) *options.FindOptions {
	return opts.SetSkip(p.Skip()).SetLimit(p.Limit())
}
