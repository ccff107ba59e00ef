package rest

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"leaguestore/internal/core"
	"leaguestore/internal/query"
	"leaguestore/pkg/domain"
)

type link struct {
	Href   string `json:"href"`
	Method string `json:"method"`
}

type links map[string]link

// entityRoutes describes how one collection is exposed: its path segment,
// the singular and plural labels used in payload keys and headers, and the
// legacy list parameter the collection answers with 404 when nothing matches.
type entityRoutes[R any] struct {
	path     string
	singular string
	plural   string
	col      *core.Collection[R]
	legacy   func(url.Values, *query.Params) bool
}

func teamRoutes(col *core.Collection[domain.Team]) entityRoutes[domain.Team] {
	return entityRoutes[domain.Team]{
		path: "teams", singular: "Team", plural: "Teams", col: col,
		legacy: func(v url.Values, p *query.Params) bool {
			city := v.Get("city")
			if city == "" {
				return false
			}
			p.Fold[domain.ColCity] = city
			return true
		},
	}
}

func playerRoutes(col *core.Collection[domain.Player]) entityRoutes[domain.Player] {
	return entityRoutes[domain.Player]{
		path: "players", singular: "Player", plural: "Players", col: col,
		legacy: func(v url.Values, p *query.Params) bool {
			teamID := v.Get("team_id")
			if teamID == "" {
				return false
			}
			p.Filter[domain.ColTeamID] = teamID
			return true
		},
	}
}

func gameRoutes(col *core.Collection[domain.Game]) entityRoutes[domain.Game] {
	return entityRoutes[domain.Game]{path: "games", singular: "Game", plural: "Games", col: col}
}

func registerEntity[R any](s *Server, e entityRoutes[R]) {
	base := "/api/" + e.path
	s.mux.HandleFunc("GET "+base, e.list)
	s.mux.HandleFunc("GET "+base+"/{id}", e.get)
	s.mux.HandleFunc("POST "+base+"/add", e.create)
	s.mux.HandleFunc("PATCH "+base+"/update/{id}", e.mutate(domain.OpUpdate, "Partial Update"))
	s.mux.HandleFunc("PUT "+base+"/update/{id}", e.mutate(domain.OpReplace, "Full Update"))
	s.mux.HandleFunc("DELETE "+base+"/delete/{id}", e.remove)
}

func (e entityRoutes[R]) base() string { return "/api/" + e.path }

func (e entityRoutes[R]) key() string { return strings.ToLower(e.singular) }

func (e entityRoutes[R]) allLink() (string, link) {
	return "all" + e.plural, link{Href: e.base(), Method: http.MethodGet}
}

func (e entityRoutes[R]) recordLinks(id string) links {
	name, all := e.allLink()
	return links{
		"self":   {Href: e.base() + "/" + id, Method: http.MethodGet},
		"update": {Href: e.base() + "/update/" + id, Method: http.MethodPatch},
		"delete": {Href: e.base() + "/delete/" + id, Method: http.MethodDelete},
		name:     all,
	}
}

func (e entityRoutes[R]) list(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	params, legacy, err := parseParams(r.URL.Query(), e.legacy)
	if err != nil {
		writeError(w, err)
		return
	}
	records, err := e.col.Query(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	if legacy && len(records) == 0 {
		writeMessage(w, http.StatusNotFound, fmt.Sprintf("no %s match the request", strings.ToLower(e.plural)))
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (e entityRoutes[R]) get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	id := r.PathValue("id")
	rec, err := e.col.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{e.key(): rec, "_links": e.recordLinks(id)})
}

func (e entityRoutes[R]) create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Resource-Created", e.singular)
	body, err := decodeFields(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := e.col.Mutate(r.Context(), core.MutateRequest{Operation: domain.OpCreate, Body: body})
	if err != nil {
		writeError(w, err)
		return
	}
	id := e.col.Schema().ID(rec)
	name, all := e.allLink()
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": e.singular + " created",
		e.key():   rec,
		"_links":  links{"self": {Href: e.base() + "/" + id, Method: http.MethodGet}, name: all},
	})
}

func (e entityRoutes[R]) mutate(op domain.Operation, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Action", e.singular+" "+action)
		id := r.PathValue("id")
		body, err := decodeFields(r)
		if err != nil {
			writeError(w, err)
			return
		}
		rec, err := e.col.Mutate(r.Context(), core.MutateRequest{Operation: op, ID: id, Body: body})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":              e.singular + " updated",
			"updated" + e.singular: rec,
			"_links":               e.recordLinks(id),
		})
	}
}

func (e entityRoutes[R]) remove(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Action", e.singular+" Deletion")
	w.Header().Set("Request-Type", http.MethodDelete)
	id := r.PathValue("id")
	rec, err := e.col.Mutate(r.Context(), core.MutateRequest{Operation: domain.OpDelete, ID: id})
	if err != nil {
		w.Header().Set("Operation-Status", "Failed")
		if domain.KindOf(err) == domain.KindNotFound {
			w.Header().Set("Resource-Status", "Not Found")
		}
		writeError(w, err)
		return
	}
	w.Header().Set("Operation-Status", "Success")
	w.Header().Set("Resource-Status", "Deleted")
	name, all := e.allLink()
	next := links{name: all}
	next["add"+e.singular] = link{Href: e.base() + "/add", Method: http.MethodPost}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":              fmt.Sprintf("%s %s deleted", e.singular, id),
		"deleted" + e.singular: rec,
		"_links":               next,
	})
}

// parseParams reads filter.FIELD, sort, page and limit. legacy, when set,
// maps the collection's historical list parameter and reports whether it
// was present.
func parseParams(v url.Values, legacy func(url.Values, *query.Params) bool) (query.Params, bool, error) {
	p := query.Params{Filter: map[string]string{}, Fold: map[string]string{}, Sort: v.Get("sort")}
	for name, values := range v {
		if field, ok := strings.CutPrefix(name, "filter."); ok && len(values) > 0 {
			p.Filter[field] = values[0]
		}
	}
	var fields []domain.FieldError
	if raw := v.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fields = append(fields, domain.FieldError{Field: "page", Reason: "must be an integer"})
		}
		p.Page = n
	}
	if raw := v.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fields = append(fields, domain.FieldError{Field: "limit", Reason: "must be an integer"})
		}
		p.Limit = query.IntPtr(n)
	}
	if len(fields) > 0 {
		return p, false, domain.ValidationError{Fields: fields}
	}
	used := false
	if legacy != nil {
		used = legacy(v, &p)
	}
	return p, used, nil
}
