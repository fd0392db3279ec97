package server

import (
	"net/http"

	"github.com/rushteam/scentkit/quiz"
	"github.com/rushteam/scentkit/recommend"
)

type quizStartRequest struct {
	ExperienceLevel string `json:"experience_level" validate:"required,oneof=Beginner Intermediate Advanced"`
}

type quizSubmitRequest struct {
	Answers map[string]any `json:"answers" validate:"required,min=1"`
}

type quizReplaceRequest struct {
	Preferences map[string]any `json:"preferences" validate:"required,min=1"`
}

// POST /api/quiz/start
func (s *Server) handleQuizStart(w http.ResponseWriter, r *http.Request) {
	var req quizStartRequest
	if err := s.decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Valid experience level is required"})
		return
	}
	questions, err := s.quiz.Start(r.Context(), userID(r), req.ExperienceLevel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if questions == nil {
		questions = []quiz.Question{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

// POST /api/quiz/submit
func (s *Server) handleQuizSubmit(w http.ResponseWriter, r *http.Request) {
	var req quizSubmitRequest
	if err := s.decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Answers are required"})
		return
	}
	page, err := s.quiz.Submit(r.Context(), userID(r), req.Answers)
	if err != nil {
		writeError(w, r, err)
		return
	}
	body := pageBody(page, recommend.Classify(page))
	body.Message = "Recommendations based on your preferences"
	writeJSON(w, http.StatusOK, body)
}

// POST /api/quiz 用完整偏好覆盖用户记录
func (s *Server) handleQuizReplace(w http.ResponseWriter, r *http.Request) {
	var req quizReplaceRequest
	if err := s.decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid quiz data format"})
		return
	}
	page, err := s.quiz.Replace(r.Context(), userID(r), req.Preferences)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageBody(page, recommend.Classify(page)))
}
