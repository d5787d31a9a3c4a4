package atomexapi

import (
	"fmt"
	"net/url"
	"strconv"
)

// MaxListLimit is the largest page the backend serves
const MaxListLimit = 1000

// ListParams filters and pages order and swap listings
type ListParams struct {
	Symbol  string
	Limit   int // 0 means the backend default
	Offset  int
	SortAsc bool
}

func (p *ListParams) validate() error {
	if p.Limit < 0 || p.Limit > MaxListLimit {
		return fmt.Errorf("limit must be between 0 and %d, got %d", MaxListLimit, p.Limit)
	}
	if p.Offset < 0 {
		return fmt.Errorf("offset must be non-negative, got %d", p.Offset)
	}
	return nil
}

func (p *ListParams) apply(u *url.URL) {
	q := u.Query()
	if p.Symbol != "" {
		q.Set("symbols", p.Symbol)
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}
	if p.SortAsc {
		q.Set("sortAsc", "true")
	}
	u.RawQuery = q.Encode()
}
