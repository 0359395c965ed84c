package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"vitrine/content"
	"vitrine/docstore"
)

const maxPageSize = 100

// parseQuery lê sort, order, q, category, tag, limit e offset.
func parseQuery(v url.Values) (content.Query, error) {
	q := content.Query{
		SortBy: strings.TrimSpace(v.Get("sort")),
		Filter: docstore.Filter{Search: strings.TrimSpace(v.Get("q"))},
	}

	switch strings.ToLower(v.Get("order")) {
	case "", "asc":
	case "desc":
		q.Desc = true
	default:
		return q, invalidParam("order", "must be asc or desc")
	}

	eq := map[string]string{}
	if c := strings.TrimSpace(v.Get("category")); c != "" {
		eq["category"] = c
	}
	if t := strings.TrimSpace(v.Get("tag")); t != "" {
		eq["tags"] = t
	}
	if len(eq) > 0 {
		q.Filter.Equals = eq
	}

	var err error
	if q.Limit, err = intParam(v, "limit", 0, maxPageSize); err != nil {
		return q, err
	}
	if q.Offset, err = intParam(v, "offset", 0, -1); err != nil {
		return q, err
	}
	return q, nil
}

func intParam(v url.Values, name string, lo, hi int) (int, error) {
	raw := strings.TrimSpace(v.Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo {
		return 0, invalidParam(name, "must be a non-negative integer")
	}
	if hi > 0 && n > hi {
		return 0, invalidParam(name, "must be at most "+strconv.Itoa(hi))
	}
	return n, nil
}

func invalidParam(name, msg string) error {
	return &content.ValidationError{
		Message: "invalid query parameter",
		Fields:  map[string]string{name: msg},
	}
}

func (s *Server) collection(w http.ResponseWriter, r *http.Request) (content.Collection, bool) {
	col, err := s.catalog.Collection(chi.URLParam(r, "collection"))
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return col, true
}

func (s *Server) list(w http.ResponseWriter, r *http.Request, public bool) {
	col, ok := s.collection(w, r)
	if !ok {
		return
	}
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	page, err := col.List(r.Context(), q, public)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handlePublicList(w http.ResponseWriter, r *http.Request) { s.list(w, r, true) }
func (s *Server) handleAdminList(w http.ResponseWriter, r *http.Request)  { s.list(w, r, false) }

func (s *Server) handlePublicGet(w http.ResponseWriter, r *http.Request) {
	col, ok := s.collection(w, r)
	if !ok {
		return
	}
	item, err := col.Get(r.Context(), chi.URLParam(r, "idOrSlug"), true)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleAdminGet(w http.ResponseWriter, r *http.Request) {
	col, ok := s.collection(w, r)
	if !ok {
		return
	}
	item, err := col.Get(r.Context(), chi.URLParam(r, "id"), false)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleAdminCreate(w http.ResponseWriter, r *http.Request) {
	col, ok := s.collection(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r, s.opts.MaxJSONBytes)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	item, err := col.Create(r.Context(), body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// handleAdminUpdate atende PUT e PATCH: os campos enviados sobrescrevem o
// registro atual e o resultado é validado de novo.
func (s *Server) handleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	col, ok := s.collection(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r, s.opts.MaxJSONBytes)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	item, err := col.Update(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	col, ok := s.collection(w, r)
	if !ok {
		return
	}
	if err := col.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
