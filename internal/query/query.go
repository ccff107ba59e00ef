// Package query implements the read pipeline over an in-memory extent:
// filter, then sort, then paginate. Every function returns a new slice and
// leaves its input untouched.
package query

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"leaguestore/pkg/domain"
)

// DefaultLimit is the page size used when a request names none.
const DefaultLimit = 10

// Params carries the read-path options of a query call.
type Params struct {
	// Filter maps column names to expected values. Equality or substring
	// containment is chosen per column; unknown columns and empty values are
	// ignored.
	Filter map[string]string
	// Fold maps column names to values compared case-insensitively for
	// equality, regardless of the column's match mode.
	Fold map[string]string
	// Sort is "FIELD" or "FIELD:asc|desc".
	Sort string
	// Page is 1-based; values below 1 select the first page.
	Page int
	// Limit is the page size; nil or negative means DefaultLimit, 0 selects nothing.
	Limit *int
}

// IntPtr is a convenience for building Params literals.
func IntPtr(v int) *int { return &v }

// Run applies Filter, Sort and Paginate in that order.
func Run[R any](schema *domain.Schema[R], extent []R, p Params) ([]R, error) {
	out := Filter(schema, extent, p.Filter)
	out = FilterFold(schema, out, p.Fold)
	out, err := Sort(schema, out, p.Sort)
	if err != nil {
		return nil, err
	}
	return Paginate(out, p.Page, p.Limit), nil
}

// Filter keeps the records satisfying every predicate.
func Filter[R any](schema *domain.Schema[R], extent []R, filter map[string]string) []R {
	type pred struct {
		col   domain.Column[R]
		value string
	}
	var preds []pred
	for name, value := range filter {
		if value == "" {
			continue
		}
		if c, ok := schema.Column(name); ok {
			preds = append(preds, pred{col: c, value: value})
		}
	}
	out := make([]R, 0, len(extent))
	for i := range extent {
		rec := extent[i]
		keep := true
		for _, p := range preds {
			if !matches(p.col.Match, *p.col.Ref(&rec), p.value) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, rec)
		}
	}
	return out
}

// FilterFold keeps the records whose named columns equal the values under
// Unicode case folding.
func FilterFold[R any](schema *domain.Schema[R], extent []R, fold map[string]string) []R {
	out := make([]R, 0, len(extent))
	for i := range extent {
		rec := extent[i]
		keep := true
		for name, value := range fold {
			c, ok := schema.Column(name)
			if !ok || value == "" {
				continue
			}
			if !strings.EqualFold(*c.Ref(&rec), value) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, rec)
		}
	}
	return out
}

func matches(mode domain.MatchMode, cell, want string) bool {
	if mode == domain.MatchContains {
		return strings.Contains(cell, want)
	}
	return cell == want
}

// ParseSort splits a "FIELD:dir" specifier. desc reports a descending order.
func ParseSort(expr string) (field string, desc bool, err error) {
	field, dir, _ := strings.Cut(strings.TrimSpace(expr), ":")
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
		return strings.TrimSpace(field), false, nil
	case "desc":
		return strings.TrimSpace(field), true, nil
	default:
		return "", false, errBadDirection(dir)
	}
}

// Sort orders the extent by one column. Ties keep their input order. An
// empty or unknown field returns the records in their input order.
func Sort[R any](schema *domain.Schema[R], extent []R, expr string) ([]R, error) {
	out := make([]R, len(extent))
	copy(out, extent)
	field, desc, err := ParseSort(expr)
	if err != nil {
		return nil, domain.ValidationError{Entity: schema.Entity, Fields: []domain.FieldError{{Field: "sort", Reason: err.Error()}}}
	}
	col, ok := schema.Column(field)
	if !ok {
		return out, nil
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := *col.Ref(&out[i]), *col.Ref(&out[j])
		return less(col.Type, a, b, desc)
	})
	return out, nil
}

// less orders numeric columns by value with unparsable cells after every
// parsable one, whatever the direction; text and dates compare bytewise.
func less(t domain.ValueType, a, b string, desc bool) bool {
	if t == domain.TypeNumber {
		fa, okA := parseNumber(a)
		fb, okB := parseNumber(b)
		switch {
		case okA && okB:
			if desc {
				return fa > fb
			}
			return fa < fb
		case okA:
			return true
		case okB:
			return false
		}
	}
	if desc {
		return a > b
	}
	return a < b
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Paginate returns the slice [(page-1)*limit, (page-1)*limit+limit) clipped
// to the extent. Out-of-range pages are empty.
func Paginate[R any](extent []R, page int, limit *int) []R {
	size := DefaultLimit
	if limit != nil && *limit >= 0 {
		size = *limit
	}
	if page < 1 {
		page = 1
	}
	if size == 0 || page-1 > len(extent)/size {
		return []R{}
	}
	start := (page - 1) * size
	end := start + size
	if end > len(extent) {
		end = len(extent)
	}
	out := make([]R, end-start)
	copy(out, extent[start:end])
	return out
}

type errBadDirection string

func (e errBadDirection) Error() string {
	return "direction " + strconv.Quote(string(e)) + " must be asc or desc"
}
