// Package service holds the business rules of the platform. Each service owns
// a unit-of-work factory and opens one transactional scope per operation;
// repositories are only ever reached through that scope. Rule violations are
// reported as typed apperr values, everything else bubbles up and is turned
// into a generic server error at the HTTP boundary.
package service

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// normalizePage clamps pagination parameters to sane bounds.
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
