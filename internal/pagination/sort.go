package pagination

import (
	"fmt"
	"strings"
)

// Sortable fields for transaction listings.
const (
	SortFieldDate   = "date"
	SortFieldAmount = "amount"
)

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// SortOption is a field:direction pair over a fixed field set.
type SortOption struct {
	Field     string
	Direction string
}

// DefaultSort is applied when no sort parameter is provided.
var DefaultSort = SortOption{Field: SortFieldDate, Direction: SortDesc}

// ParseSort parses a "field:direction" string. An empty string yields the
// default sort; anything malformed is an error.
func ParseSort(s string) (SortOption, error) {
	if s == "" {
		return DefaultSort, nil
	}

	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return SortOption{}, fmt.Errorf("invalid sort option %q", s)
	}

	field, direction := parts[0], parts[1]
	if field != SortFieldDate && field != SortFieldAmount {
		return SortOption{}, fmt.Errorf("unsupported sort field %q", field)
	}
	if direction != SortAsc && direction != SortDesc {
		return SortOption{}, fmt.Errorf("unsupported sort direction %q", direction)
	}

	return SortOption{Field: field, Direction: direction}, nil
}

// String returns the wire form "field:direction".
func (s SortOption) String() string {
	return s.Field + ":" + s.Direction
}

// Toggle returns the sort that results from clicking the given column header:
// clicking the active column flips its direction, clicking any other column
// selects it with the descending default.
func (s SortOption) Toggle(field string) SortOption {
	if s.Field == field {
		if s.Direction == SortAsc {
			return SortOption{Field: field, Direction: SortDesc}
		}
		return SortOption{Field: field, Direction: SortAsc}
	}
	return SortOption{Field: field, Direction: SortDesc}
}

// OrderClause returns the SQL ORDER BY expression for this sort. A secondary
// id ordering keeps pages stable when the sort field has duplicate values.
func (s SortOption) OrderClause() string {
	return fmt.Sprintf("%s %s, id %s", s.Field, strings.ToUpper(s.Direction), strings.ToUpper(s.Direction))
}
