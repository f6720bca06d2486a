package common

import "math"

const MaxPageSize = 100

// Pagination is the page window requested by a caller.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize applies defaultLimit for missing values and clamps the limit.
func (p *Pagination) Normalize(defaultLimit int) {
	if p.Page < 1 {
		p.Page = 1
	}

	if p.Limit < 1 {
		p.Limit = defaultLimit
	}

	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Metadata describes a page of results.
type Metadata struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func NewMetadata(p Pagination, total int) Metadata {
	pages := 0
	if p.Limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}

	return Metadata{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: pages,
	}
}
