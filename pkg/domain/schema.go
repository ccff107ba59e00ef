package domain

// ValueType is the natural type of a column, used for ordering.
type ValueType int

const (
	// TypeText compares lexicographically.
	TypeText ValueType = iota
	// TypeNumber compares numerically when both sides parse as numbers.
	TypeNumber
	// TypeDate holds YYYY-MM-DD values; lexicographic order is chronological.
	TypeDate
)

// MatchMode selects how a filter predicate is applied to a column.
type MatchMode int

const (
	// MatchEqual requires the cell to equal the predicate value.
	MatchEqual MatchMode = iota
	// MatchContains requires the cell to contain the predicate value (case-sensitive).
	MatchContains
)

// Format is a value format enforced on writes.
type Format int

const (
	// FormatAny accepts any value.
	FormatAny Format = iota
	// FormatInteger requires a base-10 integer when the value is non-empty.
	FormatInteger
	// FormatDate requires YYYY-MM-DD when the value is non-empty.
	FormatDate
)

// Column describes one field of a record kind R.
type Column[R any] struct {
	Name   string
	Type   ValueType
	Match  MatchMode
	Format Format
	// Ref returns the address of the field inside r.
	Ref func(r *R) *string
}

// Schema is the fixed, ordered column set of a record kind together with the
// rules the mutation pipeline applies to it.
type Schema[R any] struct {
	Entity   EntityType
	Identity string
	Columns  []Column[R]
	// Required columns must be non-empty on create (and on replace, except
	// for the identity which is pinned by the request).
	Required []string
	// Protected columns may not appear in an update or replace body.
	Protected []string

	index map[string]int
}

// NewSchema builds a schema and indexes its columns by name.
func NewSchema[R any](entity EntityType, identity string, columns []Column[R], required, protected []string) *Schema[R] {
	s := &Schema[R]{
		Entity:    entity,
		Identity:  identity,
		Columns:   columns,
		Required:  required,
		Protected: protected,
		index:     make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		s.index[c.Name] = i
	}
	if _, ok := s.index[identity]; !ok {
		panic("domain: identity column " + identity + " missing from " + string(entity) + " schema")
	}
	return s
}

// Header returns the canonical column names in file order.
func (s *Schema[R]) Header() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Name
	}
	return out
}

// Column looks up a column by name.
func (s *Schema[R]) Column(name string) (Column[R], bool) {
	i, ok := s.index[name]
	if !ok {
		return Column[R]{}, false
	}
	return s.Columns[i], true
}

// Has reports whether name is a column of the schema.
func (s *Schema[R]) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// IsProtected reports whether name may not be changed by an update.
func (s *Schema[R]) IsProtected(name string) bool {
	for _, p := range s.Protected {
		if p == name {
			return true
		}
	}
	return false
}

// Value returns the value of column name in r.
func (s *Schema[R]) Value(r R, name string) (string, bool) {
	c, ok := s.Column(name)
	if !ok {
		return "", false
	}
	return *c.Ref(&r), true
}

// Set assigns value to column name in r. It reports false for unknown columns.
func (s *Schema[R]) Set(r *R, name, value string) bool {
	c, ok := s.Column(name)
	if !ok {
		return false
	}
	*c.Ref(r) = value
	return true
}

// ID returns the identity value of r.
func (s *Schema[R]) ID(r R) string {
	v, _ := s.Value(r, s.Identity)
	return v
}

// Row returns the values of r in canonical column order.
func (s *Schema[R]) Row(r R) []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = *c.Ref(&r)
	}
	return out
}

// Fields returns r as a bag holding every column.
func (s *Schema[R]) Fields(r R) Fields {
	out := make(Fields, len(s.Columns))
	for _, c := range s.Columns {
		out[c.Name] = *c.Ref(&r)
	}
	return out
}

// FromFields builds a record from a bag. Unknown keys are skipped; callers
// validate the bag first.
func (s *Schema[R]) FromFields(f Fields) R {
	var r R
	for name, v := range f {
		s.Set(&r, name, v)
	}
	return r
}
