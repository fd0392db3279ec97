// Package server 是 scentkit 的 HTTP 接口（chi 路由）。
//
// 用户身份取自 X-User-ID 请求头，鉴权本身不在本服务内。
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rushteam/scentkit/core"
	"github.com/rushteam/scentkit/quiz"
	"github.com/rushteam/scentkit/recommend"
)

// HeaderUserID 携带调用方用户 ID 的请求头
const HeaderUserID = "X-User-ID"

type Server struct {
	engine   *recommend.Engine
	quiz     *quiz.Service
	favs     core.FavoritesStore
	catalog  *core.Catalog
	validate *validator.Validate
	logger   zerolog.Logger
	metrics  bool
}

type Option func(*Server)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithoutMetrics 不注册 /metrics 路由。
func WithoutMetrics() Option {
	return func(s *Server) { s.metrics = false }
}

func New(engine *recommend.Engine, quizSvc *quiz.Service, favs core.FavoritesStore, opts ...Option) *Server {
	s := &Server{
		engine:   engine,
		quiz:     quizSvc,
		favs:     favs,
		catalog:  engine.Catalog(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   zerolog.Nop(),
		metrics:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "http").Logger()
	return s
}

// Handler 构建路由。
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "fragrances": s.catalog.Len()})
	})
	if s.metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/", s.handleRecommendations)
			r.Get("/similar", s.handleSimilar)
			r.With(requireUser).Get("/personalized", s.handlePersonalized)
		})

		r.Route("/quiz", func(r chi.Router) {
			r.Use(requireUser)
			r.Post("/", s.handleQuizReplace)
			r.Post("/start", s.handleQuizStart)
			r.Post("/submit", s.handleQuizSubmit)
		})

		r.Route("/favourites", func(r chi.Router) {
			r.Use(requireUser)
			r.Post("/", s.handleAddFavourite)
			r.Get("/", s.handleListFavourites)
			r.Delete("/{favouriteID}", s.handleRemoveFavourite)
			r.Get("/check/{fragranceID}", s.handleCheckFavourite)
		})

		r.Get("/fragrances", s.handleListFragrances)
		r.Get("/fragrances/{fragranceID}", s.handleGetFragrance)
	})
	return r
}
