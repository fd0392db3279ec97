package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rushteam/scentkit/core"
	"github.com/rushteam/scentkit/metrics"
	"github.com/rushteam/scentkit/recommend"
)

const msgNoRecommendations = "No recommendations found. Try exploring more fragrances!"

type recommendationsBody struct {
	Recommendations []*core.Item           `json:"recommendations"`
	Type            recommend.ResponseType `json:"type,omitempty"`
	Count           int                    `json:"count"`
	Total           int                    `json:"total,omitempty"`
	Page            int                    `json:"page,omitempty"`
	PerPage         int                    `json:"per_page,omitempty"`
	Message         string                 `json:"message,omitempty"`
}

func pageBody(page *core.RankedPage, typ recommend.ResponseType) recommendationsBody {
	items := page.Items
	if items == nil {
		items = []*core.Item{}
	}
	return recommendationsBody{
		Recommendations: items,
		Type:            typ,
		Count:           len(items),
		Total:           page.Total,
		Page:            page.Page,
		PerPage:         page.PerPage,
	}
}

// rankRequest 解析分页参数；per_page 缺省时取配置的默认值，显式传入的值交给引擎钳制。
func (s *Server) rankRequest(r *http.Request) (core.RankRequest, error) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		return core.RankRequest{}, err
	}
	perPage, err := queryInt(r, "per_page", s.engine.RankConfig().DefaultPerPage)
	if err != nil {
		return core.RankRequest{}, err
	}
	return core.RankRequest{
		UserID:  userID(r),
		Title:   strings.TrimSpace(r.URL.Query().Get("title")),
		Page:    page,
		PerPage: perPage,
	}, nil
}

// GET /api/recommendations?title=&page=&per_page=
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	req, err := s.rankRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := s.engine.Rank(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	typ := recommend.Classify(page)
	metrics.RankRequests.WithLabelValues(string(typ)).Inc()
	body := pageBody(page, typ)
	if len(page.Items) == 0 {
		body.Message = msgNoRecommendations
	}
	writeJSON(w, http.StatusOK, body)
}

// GET /api/recommendations/personalized?page=&per_page=
func (s *Server) handlePersonalized(w http.ResponseWriter, r *http.Request) {
	req, err := s.rankRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := s.engine.Personalized(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	metrics.RankRequests.WithLabelValues(string(recommend.TypePersonalized)).Inc()
	writeJSON(w, http.StatusOK, pageBody(page, recommend.TypePersonalized))
}

// GET /api/recommendations/similar?name=
func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "name is required"})
		return
	}

	items, err := s.engine.Similar(r.Context(), name)
	if errors.Is(err, core.ErrItemNotFound) {
		writeJSON(w, http.StatusNotFound, recommendationsBody{
			Recommendations: []*core.Item{},
			Message:         "Fragrance not found",
		})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	metrics.RankRequests.WithLabelValues(string(recommend.TypeSimilar)).Inc()
	writeJSON(w, http.StatusOK, recommendationsBody{
		Recommendations: items,
		Type:            recommend.TypeSimilar,
		Count:           len(items),
	})
}
