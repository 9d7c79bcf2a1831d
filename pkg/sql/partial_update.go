package sql

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/windham/commodity-api/pkg/apperrors"
)

// PartialUpdate is the SET clause and positional values for an UPDATE that
// touches only the fields supplied by the caller.
type PartialUpdate struct {
	// SetClause looks like: "commodity_name"=$1, "variety"=$2
	SetClause string
	// Values[i] binds to placeholder $(i+1) in SetClause.
	Values []any
}

// NextParam returns the number of the first placeholder not used by SetClause,
// for the WHERE clause that follows it.
func (u *PartialUpdate) NextParam() int {
	return len(u.Values) + 1
}

// Args returns Values followed by any trailing WHERE arguments.
func (u *PartialUpdate) Args(where ...any) []any {
	args := make([]any, 0, len(u.Values)+len(where))
	args = append(args, u.Values...)
	return append(args, where...)
}

// BuildPartialUpdate translates a sparse map of logical field names to values
// into a SET clause. columns maps logical (camelCase) names to storage
// columns; a field missing from columns is used as the column name verbatim.
// Fields are emitted in sorted order so the clause is stable, and every column
// name is quoted as an identifier.
//
// Example:
//
//	u, _ := BuildPartialUpdate(
//	    map[string]any{"commodityName": "Pear", "variety": "Bosc"},
//	    map[string]string{"commodityName": "commodity_name"})
//	// u.SetClause == `"commodity_name"=$1, "variety"=$2`
//	// u.Values    == []any{"Pear", "Bosc"}
//
// Returns an ErrBadRequest if data is empty.
func BuildPartialUpdate(data map[string]any, columns map[string]string) (*PartialUpdate, error) {
	if len(data) == 0 {
		return nil, apperrors.BadRequestf("No data")
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	assignments := make([]string, 0, len(keys))
	values := make([]any, 0, len(keys))
	for i, key := range keys {
		column, ok := columns[key]
		if !ok {
			column = key
		}
		assignments = append(assignments, fmt.Sprintf("%s=$%d", pgx.Identifier{column}.Sanitize(), i+1))
		values = append(values, data[key])
	}

	return &PartialUpdate{
		SetClause: strings.Join(assignments, ", "),
		Values:    values,
	}, nil
}
