package domain

// PaginationParams is a page request for list queries. Page is 1-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset converts the page to a row offset for LIMIT/OFFSET queries.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
