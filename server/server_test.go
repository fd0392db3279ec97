package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/scentkit/core"
	"github.com/rushteam/scentkit/index"
	"github.com/rushteam/scentkit/quiz"
	"github.com/rushteam/scentkit/recommend"
	"github.com/rushteam/scentkit/store"
)

func testHandler(t *testing.T) http.Handler {
	t.Helper()
	catalog := core.NewCatalog([]*core.Item{
		{ID: 1, Name: "Light Blue", Brand: "Dolce&Gabbana", Gender: "for women", RatingValue: 4.1, MainAccords: []string{"Citrus", "Fresh"}},
		{ID: 2, Name: "Acqua di Gio", Brand: "Giorgio Armani", Gender: "for men", RatingValue: 4.3, MainAccords: []string{"Aquatic", "Fresh"}},
		{ID: 3, Name: "Light Blue Eau Intense", Brand: "Dolce&Gabbana", Gender: "for women", RatingValue: 4.0, MainAccords: []string{"Citrus"}},
		{ID: 4, Name: "Sauvage", Brand: "Dior", Gender: "for men", RatingValue: 3.9, MainAccords: []string{"Spicy", "Fresh"}},
		{ID: 5, Name: "Bleu de Chanel", Brand: "Chanel", Gender: "for men", RatingValue: 4.4, MainAccords: []string{"Woody"}},
		{ID: 6, Name: "Black Opium", Brand: "YSL", Gender: "for women", RatingValue: 4.2, MainAccords: []string{"Vanilla", "Sweet"}},
	})
	ix, err := index.New(catalog, index.FromRows(6, map[int]map[int]float64{
		0: {1: 0.5, 2: 0.9, 4: 0.5},
		1: {0: 0.5, 4: 0.3},
		2: {0: 0.9},
		4: {0: 0.5, 1: 0.3},
	}))
	require.NoError(t, err)

	kv := store.NewMemoryStore()
	t.Cleanup(func() { _ = kv.Close() })
	users := store.NewUserStore(kv)

	engine := recommend.New(ix, recommend.WithUserStore(users))
	return New(engine, quiz.NewService(users, engine), users).Handler()
}

func do(t *testing.T, h http.Handler, method, path, user string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req.Header.Set(HeaderUserID, user)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func names(t *testing.T, v any) []string {
	t.Helper()
	list, ok := v.([]any)
	require.True(t, ok, "expected list, got %T", v)
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.(map[string]any)["name"].(string))
	}
	return out
}

func TestRecommendations(t *testing.T) {
	h := testHandler(t)

	code, body := do(t, h, http.MethodGet, "/api/recommendations", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "hybrid", body["type"])
	assert.Equal(t, float64(5), body["count"])
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(5), body["per_page"])
	assert.Equal(t, []string{"Bleu de Chanel", "Acqua di Gio", "Black Opium", "Light Blue", "Light Blue Eau Intense"},
		names(t, body["recommendations"]))

	code, body = do(t, h, http.MethodGet, "/api/recommendations?title=light%20blue&per_page=2", "u1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "content-based", body["type"])
	assert.Equal(t, []string{"Light Blue Eau Intense", "Acqua di Gio"}, names(t, body["recommendations"]))
	assert.Equal(t, float64(3), body["total"])

	code, body = do(t, h, http.MethodGet, "/api/recommendations?per_page=5&page=9", "u1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, msgNoRecommendations, body["message"])
	assert.Empty(t, body["recommendations"])

	// 显式 per_page=0 钳制为 1，不回退到默认值
	code, body = do(t, h, http.MethodGet, "/api/recommendations?per_page=0", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, float64(1), body["per_page"])
	assert.Equal(t, []string{"Bleu de Chanel"}, names(t, body["recommendations"]))

	code, _ = do(t, h, http.MethodGet, "/api/recommendations?page=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSimilar(t *testing.T) {
	h := testHandler(t)

	code, body := do(t, h, http.MethodGet, "/api/recommendations/similar?name=Light%20Blue%20for%20women", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "similar", body["type"])
	assert.Equal(t, float64(3), body["count"])
	assert.Equal(t, []string{"Light Blue Eau Intense", "Acqua di Gio", "Bleu de Chanel"}, names(t, body["recommendations"]))

	code, body = do(t, h, http.MethodGet, "/api/recommendations/similar?name=nonexistent-xyz", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Fragrance not found", body["message"])
	assert.Empty(t, body["recommendations"])

	code, _ = do(t, h, http.MethodGet, "/api/recommendations/similar", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPersonalized(t *testing.T) {
	h := testHandler(t)

	code, _ := do(t, h, http.MethodGet, "/api/recommendations/personalized", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := do(t, h, http.MethodGet, "/api/recommendations/personalized?per_page=2", "u1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "personalized", body["type"])
	assert.Equal(t, []string{"Bleu de Chanel", "Acqua di Gio"}, names(t, body["recommendations"]))
}

func TestQuizFlow(t *testing.T) {
	h := testHandler(t)

	code, body := do(t, h, http.MethodPost, "/api/quiz/submit", "u1", map[string]any{
		"answers": map[string]any{"vibe": "Fresh and clean"},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "quiz not started", body["error"])

	code, _ = do(t, h, http.MethodPost, "/api/quiz/start", "u1", map[string]any{"experience_level": "Expert"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = do(t, h, http.MethodPost, "/api/quiz/start", "u1", map[string]any{"experience_level": "Beginner"})
	require.Equal(t, http.StatusOK, code)
	qs, ok := body["questions"].([]any)
	require.True(t, ok)
	assert.Len(t, qs, 5)
	assert.Equal(t, "vibe", qs[0].(map[string]any)["id"])

	code, _ = do(t, h, http.MethodPost, "/api/quiz/submit", "u1", map[string]any{"answers": map[string]any{}})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = do(t, h, http.MethodPost, "/api/quiz/submit", "u1", map[string]any{
		"answers": map[string]any{"vibe": "Fresh and clean", "gender": "for men"},
	})
	require.Equal(t, http.StatusOK, code)
	// for men 且评分 >= 3.5，Fresh 命中一个 accord
	assert.Equal(t, []string{"Acqua di Gio", "Sauvage"}, names(t, body["recommendations"]))
	assert.Equal(t, "hybrid", body["type"])

	code, body = do(t, h, http.MethodPost, "/api/quiz", "u2", map[string]any{
		"preferences": map[string]any{"experience_level": "Intermediate", "note": "Vanilla"},
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"Black Opium"}, names(t, body["recommendations"]))
}

func TestFavourites(t *testing.T) {
	h := testHandler(t)

	code, _ := do(t, h, http.MethodGet, "/api/favourites", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := do(t, h, http.MethodPost, "/api/favourites", "u1", map[string]any{"fragrance_id": 5})
	require.Equal(t, http.StatusCreated, code)
	favID := body["favorite_id"].(float64)

	code, body = do(t, h, http.MethodPost, "/api/favourites", "u1", map[string]any{"fragrance_id": 5})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, favID, body["favorite_id"])

	code, _ = do(t, h, http.MethodPost, "/api/favourites", "u1", map[string]any{"fragrance_id": 999})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, h, http.MethodPost, "/api/favourites", "u1", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = do(t, h, http.MethodGet, "/api/favourites", "u1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])

	code, body = do(t, h, http.MethodGet, "/api/favourites/check/5", "u1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["is_favorite"])

	code, body = do(t, h, http.MethodGet, "/api/favourites/check/5", "u2", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["is_favorite"])

	code, _ = do(t, h, http.MethodDelete, "/api/favourites/5", "u1", nil)
	assert.Equal(t, http.StatusOK, code)
	code, body = do(t, h, http.MethodDelete, "/api/favourites/5", "u1", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Favorite not found", body["error"])
}

func TestFragrances(t *testing.T) {
	h := testHandler(t)

	code, body := do(t, h, http.MethodGet, "/api/fragrances?gender=for%20men&limit=2", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(3), body["total"])
	assert.Equal(t, float64(2), body["limit"])
	assert.Equal(t, []string{"Bleu de Chanel", "Acqua di Gio"}, names(t, body["fragrances"]))

	code, body = do(t, h, http.MethodGet, "/api/fragrances?brand=dolce&min_rating=4.05", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"Light Blue"}, names(t, body["fragrances"]))

	code, body = do(t, h, http.MethodGet, "/api/fragrances?offset=10", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(6), body["total"])
	assert.Empty(t, body["fragrances"])

	code, _ = do(t, h, http.MethodGet, "/api/fragrances?min_rating=high", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = do(t, h, http.MethodGet, "/api/fragrances/4", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Sauvage", body["name"])

	code, _ = do(t, h, http.MethodGet, "/api/fragrances/42", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := testHandler(t)

	code, body := do(t, h, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(6), body["fragrances"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "scentkit_")
}

func TestFavourites_ZeroID(t *testing.T) {
	catalog := core.NewCatalog([]*core.Item{
		{ID: 0, Name: "Aventus", Brand: "Creed", Gender: "for men", RatingValue: 4.3},
		{ID: 1, Name: "Green Irish Tweed", Brand: "Creed", Gender: "for men", RatingValue: 4.2},
	})
	ix, err := index.New(catalog, index.FromRows(2, map[int]map[int]float64{
		0: {1: 0.6},
		1: {0: 0.6},
	}))
	require.NoError(t, err)
	kv := store.NewMemoryStore()
	t.Cleanup(func() { _ = kv.Close() })
	users := store.NewUserStore(kv)
	engine := recommend.New(ix, recommend.WithUserStore(users))
	h := New(engine, quiz.NewService(users, engine), users).Handler()

	code, _ := do(t, h, http.MethodPost, "/api/favourites", "u1", map[string]any{"fragrance_id": 0})
	require.Equal(t, http.StatusCreated, code)

	code, body := do(t, h, http.MethodGet, "/api/favourites/check/0", "u1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["is_favorite"])

	// 收藏的 0 号物品作为收藏信号的种子
	code, body = do(t, h, http.MethodGet, "/api/recommendations", "u1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"Green Irish Tweed"}, names(t, body["recommendations"]))

	code, _ = do(t, h, http.MethodPost, "/api/favourites", "u1", map[string]any{"fragrance_id": nil})
	assert.Equal(t, http.StatusBadRequest, code)
}
