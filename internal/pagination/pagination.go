// Package pagination slices ordered result sets into fixed-size pages.
package pagination

import "strconv"

// Paginator produces pages of a fixed size. The size is injected at
// construction (from config), not read from a package-level constant.
type Paginator struct {
	PageSize int
}

// New returns a Paginator with the given page size.
func New(pageSize int) Paginator {
	return Paginator{PageSize: pageSize}
}

// Page describes one page of an ordered result set. Offset and Limit are for
// the data layer; the exported fields feed navigation controls.
type Page struct {
	Number      int   `json:"page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`

	Offset int `json:"-"`
	Limit  int `json:"-"`
}

// Page resolves the requested page number against the total item count.
// It never fails: a request below 1 becomes page 1 and a request beyond the
// last page degrades to the last page. An empty result set is a single
// empty page.
func (p Paginator) Page(totalItems int64, requested int) Page {
	totalPages := int((totalItems + int64(p.PageSize) - 1) / int64(p.PageSize))
	if totalPages < 1 {
		totalPages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Page{
		Number:      number,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		HasNext:     number < totalPages,
		HasPrevious: number > 1,
		Offset:      (number - 1) * p.PageSize,
		Limit:       p.PageSize,
	}
}

// ParsePage interprets a raw ?page= query value. Absent or non-numeric
// values default to the first page.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
