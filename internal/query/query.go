// Package query implements the read-only projection over directory
// snapshots: sorting, pagination and search. All functions are pure; they
// never touch the store and tolerate arbitrary query strings, including ones
// full of quoting characters, because the directory is a map, not a query
// interpreter.
package query

import (
	"sort"
	"strings"

	"userdir-backend/internal/models"
)

// Sort keys and orders accepted by SortUsers.
const (
	SortByID        = "id"
	SortByUsername  = "username"
	SortByCreatedAt = "created_at"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Search fields accepted by Search.
const (
	FieldAll      = "all"
	FieldUsername = "username"
	FieldEmail    = "email"
)

// createdAtLayout is zero-padded and fixed-width so that lexicographic
// comparison of the formatted strings matches chronological order. The
// created_at sort key compares strings, not times; keep this coupling.
const createdAtLayout = "2006-01-02T15:04:05.000000000"

// SortUsers sorts the snapshot in place, stably, by the given key and order.
// Unknown keys fall back to id.
func SortUsers(users []*models.User, sortBy, order string) {
	desc := order == OrderDesc

	less := func(a, b *models.User) bool { return a.ID < b.ID }
	switch sortBy {
	case SortByUsername:
		less = func(a, b *models.User) bool { return a.Username < b.Username }
	case SortByCreatedAt:
		less = func(a, b *models.User) bool {
			return a.CreatedAt.Format(createdAtLayout) < b.CreatedAt.Format(createdAtLayout)
		}
	}

	sort.SliceStable(users, func(i, j int) bool {
		if desc {
			return less(users[j], users[i])
		}
		return less(users[i], users[j])
	})
}

// Paginate slices the snapshot to the page [offset, offset+limit+1). The
// upper bound admits one row beyond limit; clients depend on the resulting
// page shape, so adjacent pages overlap by one row at the boundary. Do not
// "fix" the bound without versioning the API. A negative limit yields an
// empty page.
func Paginate(users []*models.User, limit, offset int) []*models.User {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(users) {
		return []*models.User{}
	}
	end := offset + limit + 1
	if end < offset {
		end = offset
	}
	if end > len(users) {
		end = len(users)
	}
	return users[offset:end]
}

// Search filters the snapshot by q against the given field. Matching is
// per-field: username honors exact (raw equality against the stored,
// already-folded handle) and folds both sides for substring matches; email
// is always substring containment, with the pattern folded only when exact
// is false. Clients rely on the email asymmetry, so it stays.
func Search(users []*models.User, q, field string, exact bool) []*models.User {
	pattern := q
	if !exact {
		pattern = strings.ToLower(q)
	}

	results := []*models.User{}
	for _, u := range users {
		matched := false
		if field == FieldAll || field == FieldUsername {
			if exact {
				if u.Username == pattern {
					matched = true
				}
			} else if strings.Contains(strings.ToLower(u.Username), pattern) {
				matched = true
			}
		}
		if field == FieldAll || field == FieldEmail {
			if strings.Contains(u.Email, pattern) {
				matched = true
			}
		}
		if matched {
			results = append(results, u)
		}
	}
	return results
}

// ValidSortBy reports whether sortBy is an accepted sort key
func ValidSortBy(sortBy string) bool {
	return sortBy == SortByID || sortBy == SortByUsername || sortBy == SortByCreatedAt
}

// ValidOrder reports whether order is an accepted sort order
func ValidOrder(order string) bool {
	return order == OrderAsc || order == OrderDesc
}

// ValidField reports whether field is an accepted search field
func ValidField(field string) bool {
	return field == FieldAll || field == FieldUsername || field == FieldEmail
}
