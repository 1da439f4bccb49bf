package history

import (
	"strings"

	"github.com/yildizm/SentiDash/internal/common"
)

// DefaultPageSize is the number of records per history page
const DefaultPageSize = 10

// Criteria selects records. Zero fields match everything.
type Criteria struct {
	Sentiment common.Sentiment `json:"sentiment,omitempty"`
	Category  string           `json:"category,omitempty"`
}

// IsEmpty reports whether the criteria match every record
func (c Criteria) IsEmpty() bool {
	return c.Sentiment == "" && normalizeCategory(c.Category) == ""
}

// Matches reports whether r satisfies the criteria
func (c Criteria) Matches(r common.Record) bool {
	if c.Sentiment != "" && r.Sentiment != c.Sentiment {
		return false
	}
	if category := normalizeCategory(c.Category); category != "" && r.Category != category {
		return false
	}
	return true
}

// normalizeCategory maps the "all" choice of the category selector to no filter
func normalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if strings.EqualFold(category, "all") {
		return ""
	}
	return category
}

// Filter returns the records matching c, preserving order. It never
// modifies its input.
func Filter(records []common.Record, c Criteria) []common.Record {
	out := make([]common.Record, 0, len(records))
	for _, r := range records {
		if c.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Page is one page of a filtered view
type Page struct {
	Items      []common.Record `json:"items"`
	Number     int             `json:"number"`
	Size       int             `json:"size"`
	TotalPages int             `json:"total_pages"`
	TotalItems int             `json:"total_items"`
}

// HasNext reports whether a later page exists
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrev reports whether an earlier page exists
func (p Page) HasPrev() bool {
	return p.Number > 1
}

// TotalPages returns ceil(total/pageSize); a pageSize below 1 means DefaultPageSize
func TotalPages(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage bounds page to [1, max(1, totalPages)]
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate returns page number (1-based) of records. Out-of-range pages
// yield an empty Items slice with the requested number.
func Paginate(records []common.Record, number, pageSize int) Page {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	page := Page{
		Items:      []common.Record{},
		Number:     number,
		Size:       pageSize,
		TotalPages: TotalPages(len(records), pageSize),
		TotalItems: len(records),
	}
	if number < 1 {
		return page
	}

	start := (number - 1) * pageSize
	if start >= len(records) {
		return page
	}
	end := min(start+pageSize, len(records))
	page.Items = records[start:end]
	return page
}
