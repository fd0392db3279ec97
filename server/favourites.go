package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rushteam/scentkit/core"
)

// FragranceID 用指针区分缺省与 0，目录 id 可以从 0 开始。
type addFavouriteRequest struct {
	FragranceID *int64 `json:"fragrance_id" validate:"required"`
}

type favouriteEntry struct {
	FavoriteID int64      `json:"favorite_id"`
	DateAdded  time.Time  `json:"date_added"`
	Fragrance  *core.Item `json:"fragrance"`
}

// POST /api/favourites：新增返回 201，已存在返回 200
func (s *Server) handleAddFavourite(w http.ResponseWriter, r *http.Request) {
	var req addFavouriteRequest
	if err := s.decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Fragrance ID is required"})
		return
	}
	itemID := *req.FragranceID
	if _, ok := s.catalog.Get(itemID); !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: fmt.Sprintf("Fragrance with ID %d not found", itemID)})
		return
	}

	fav, created, err := s.favs.AddFavorite(r.Context(), userID(r), itemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !created {
		writeJSON(w, http.StatusOK, map[string]any{
			"message":     "Fragrance is already in favorites",
			"favorite_id": fav.ID,
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "Added to favorites",
		"favorite_id": fav.ID,
	})
}

// GET /api/favourites：按加入顺序返回，目录中已不存在的物品跳过
func (s *Server) handleListFavourites(w http.ResponseWriter, r *http.Request) {
	favs, err := s.favs.Favorites(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]favouriteEntry, 0, len(favs))
	for _, f := range favs {
		it, ok := s.catalog.Get(f.ItemID)
		if !ok {
			continue
		}
		out = append(out, favouriteEntry{FavoriteID: f.ID, DateAdded: f.CreatedAt, Fragrance: it})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":      len(out),
		"favourites": out,
	})
}

// DELETE /api/favourites/{favouriteID}
func (s *Server) handleRemoveFavourite(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(chi.URLParam(r, "favouriteID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	err = s.favs.RemoveFavorite(r.Context(), userID(r), id)
	if errors.Is(err, core.ErrFavoriteNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Favorite not found"})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Removed from favorites"})
}

// GET /api/favourites/check/{fragranceID}
func (s *Server) handleCheckFavourite(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(chi.URLParam(r, "fragranceID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	fav, err := s.favs.GetFavorite(r.Context(), userID(r), id)
	if errors.Is(err, core.ErrFavoriteNotFound) {
		writeJSON(w, http.StatusOK, map[string]any{"is_favorite": false})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"is_favorite": true,
		"favorite_id": fav.ID,
	})
}
