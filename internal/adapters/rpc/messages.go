package rpc

import "leaguestore/internal/query"

// GetRequest names one record.
type GetRequest struct {
	ID string `json:"id"`
}

// ListRequest carries the query pipeline parameters.
type ListRequest struct {
	Filter map[string]string `json:"filter,omitempty"`
	Fold   map[string]string `json:"fold,omitempty"`
	Sort   string            `json:"sort,omitempty"`
	Page   int               `json:"page,omitempty"`
	Limit  *int              `json:"limit,omitempty"`
}

func (r *ListRequest) params() query.Params {
	return query.Params{Filter: r.Filter, Fold: r.Fold, Sort: r.Sort, Page: r.Page, Limit: r.Limit}
}

// ListResponse holds one page of records.
type ListResponse[R any] struct {
	Records []R `json:"records"`
}

// WriteRequest carries column values for Add, Update and Replace. ID is
// ignored by Add.
type WriteRequest struct {
	ID     string            `json:"id,omitempty"`
	Fields map[string]string `json:"fields"`
}

// RecordResponse holds the record a call read or changed.
type RecordResponse[R any] struct {
	Record R `json:"record"`
}
