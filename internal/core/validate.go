package core

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"leaguestore/pkg/domain"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

const (
	reasonRequired  = "required"
	reasonUnknown   = "unknown field"
	reasonProtected = "cannot be changed"
	reasonDate      = "must be a date in YYYY-MM-DD format"
	reasonInteger   = "must be an integer"
	reasonPadded    = "must not have leading or trailing spaces"
)

// validate runs the checks that need no extent: unknown fields, protected
// fields, required fields and value formats. An empty id is reported for
// every operation except create.
func validate[R any](schema *domain.Schema[R], op domain.Operation, id string, body domain.Fields) error {
	var errs []domain.FieldError
	if op != domain.OpCreate && strings.TrimSpace(id) == "" {
		errs = append(errs, domain.FieldError{Field: schema.Identity, Reason: reasonRequired})
	}

	var unknown []string
	for name := range body {
		if !schema.Has(name) {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		errs = append(errs, domain.FieldError{Field: name, Reason: reasonUnknown})
	}

	for _, c := range schema.Columns {
		value, present := body[c.Name]
		switch {
		case present && op != domain.OpCreate && schema.IsProtected(c.Name):
			errs = append(errs, domain.FieldError{Field: c.Name, Reason: reasonProtected})
			continue
		case present && op != domain.OpCreate && c.Name == schema.Identity:
			// pinned to the request identity
			continue
		}
		if needsValue(schema, op, c.Name, present) && strings.TrimSpace(value) == "" {
			errs = append(errs, domain.FieldError{Field: c.Name, Reason: reasonRequired})
			continue
		}
		if c.Name == schema.Identity && value != strings.TrimSpace(value) {
			errs = append(errs, domain.FieldError{Field: c.Name, Reason: reasonPadded})
			continue
		}
		if reason := checkFormat(c.Format, value); reason != "" {
			errs = append(errs, domain.FieldError{Field: c.Name, Reason: reason})
		}
	}

	if len(errs) > 0 {
		return domain.ValidationError{Entity: schema.Entity, Fields: errs}
	}
	return nil
}

// needsValue reports whether column name must carry a non-empty value.
// Create and replace require every required column (the identity is pinned
// on replace); a merge may not blank a required column it supplies.
func needsValue[R any](schema *domain.Schema[R], op domain.Operation, name string, present bool) bool {
	if !isRequired(schema, name) {
		return false
	}
	switch op {
	case domain.OpCreate:
		return true
	case domain.OpReplace:
		return name != schema.Identity
	case domain.OpUpdate:
		return present
	default:
		return false
	}
}

func isRequired[R any](schema *domain.Schema[R], name string) bool {
	for _, r := range schema.Required {
		if r == name {
			return true
		}
	}
	return false
}

// checkFormat matches the value exactly as it will be stored, so padded or
// non-canonical spellings are refused rather than kept.
func checkFormat(f domain.Format, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	switch f {
	case domain.FormatDate:
		if !datePattern.MatchString(value) {
			return reasonDate
		}
	case domain.FormatInteger:
		if _, err := strconv.Atoi(value); err != nil {
			return reasonInteger
		}
	}
	return ""
}
