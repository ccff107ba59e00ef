package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"leaguestore/pkg/domain"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error  string              `json:"error"`
	Kind   domain.Kind         `json:"kind,omitempty"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	body := errorBody{Error: err.Error(), Kind: kind}
	var ve domain.ValidationError
	if errors.As(err, &ve) {
		body.Fields = ve.Fields
	}
	if kind == domain.KindInternal {
		body.Error = "internal error"
	}
	writeJSON(w, statusFor(kind), body)
}

// decodeFields reads a JSON object body into column values. Numbers and
// booleans are accepted and kept in their textual form; null clears a field.
func decodeFields(r *http.Request) (domain.Fields, error) {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, domain.ValidationError{Fields: []domain.FieldError{{Field: "body", Reason: "must be a JSON object"}}}
	}
	out := make(domain.Fields, len(raw))
	var bad []domain.FieldError
	for name, v := range raw {
		switch val := v.(type) {
		case nil:
			out[name] = ""
		case string:
			out[name] = val
		case json.Number:
			out[name] = val.String()
		case bool:
			out[name] = fmt.Sprint(val)
		default:
			bad = append(bad, domain.FieldError{Field: name, Reason: "must be a scalar value"})
		}
	}
	if len(bad) > 0 {
		return nil, domain.ValidationError{Fields: bad}
	}
	return out, nil
}
