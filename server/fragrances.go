package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rushteam/scentkit/core"
	"github.com/rushteam/scentkit/filter"
)

const (
	defaultBrowseLimit = 20
	maxBrowseLimit     = 100
)

// GET /api/fragrances?gender=&min_rating=&brand=&limit=&offset=
// 结果按评分降序（同分按 ID 升序），total 是过滤后分页前的数量。
func (s *Server) handleListFragrances(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultBrowseLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	minRating, hasMin, err := queryFloat(r, "min_rating")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if limit <= 0 {
		limit = defaultBrowseLimit
	}
	if limit > maxBrowseLimit {
		limit = maxBrowseLimit
	}
	if offset < 0 {
		offset = 0
	}

	q := r.URL.Query()
	filters := []filter.Filter{
		&filter.GenderFilter{Gender: strings.TrimSpace(q.Get("gender"))},
		&filter.BrandFilter{Brand: strings.TrimSpace(q.Get("brand"))},
	}
	if hasMin {
		filters = append(filters, &filter.MinRatingFilter{MinRating: minRating})
	}

	all := s.catalog.TopRated(s.catalog.Len())
	matched := filter.Apply(r.Context(), nil, all, filters...)

	page := []*core.Item{}
	if offset < len(matched) {
		end := min(offset+limit, len(matched))
		page = matched[offset:end]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":      len(matched),
		"offset":     offset,
		"limit":      limit,
		"fragrances": page,
	})
}

// GET /api/fragrances/{fragranceID}
func (s *Server) handleGetFragrance(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(chi.URLParam(r, "fragranceID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	it, ok := s.catalog.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: fmt.Sprintf("Fragrance with ID %d not found", id)})
		return
	}
	writeJSON(w, http.StatusOK, it)
}
