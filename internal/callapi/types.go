package callapi

import (
	"time"

	"github.com/theirongolddev/callboard/internal/model"
)

// Page is one window of the remote call log, already normalised.
type Page struct {
	Calls       []model.CallRecord
	Page        int
	Limit       int
	Total       int // server-reported total, or a lower bound when unknown
	HasMore     bool
	ParseErrors int
	FetchedAt   time.Time
}

// TotalPages returns the page count implied by Total and Limit.
func (p *Page) TotalPages() int {
	if p.Limit < 1 || p.Total < 1 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// pageMeta picks pagination metadata out of the response envelope. Servers
// report the total under different names.
type pageMeta struct {
	Total      *int `json:"total"`
	TotalCount *int `json:"total_count"`
	Count      *int `json:"count"`
	HasMore    bool `json:"has_more"`
}

func (m pageMeta) total() (int, bool) {
	for _, v := range []*int{m.Total, m.TotalCount, m.Count} {
		if v != nil {
			return *v, true
		}
	}
	return 0, false
}
