package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"quiz-portal/internal/domain"
	"quiz-portal/internal/identity"
	"quiz-portal/internal/infra/gateway"
)

// bearerToken pulls the principal's token out of the guard-evaluated auth
// state. Guarded routes always have one; the error path covers direct calls
// in tests or misconfigured routers.
func bearerToken(r *http.Request) (string, error) {
	state, ok := identity.StateFrom(r.Context())
	if !ok || state.Principal == nil || state.Principal.Token == "" {
		return "", domain.ErrNoToken
	}
	return state.Principal.Token, nil
}

func (s *Server) handleUserHome(w http.ResponseWriter, r *http.Request) {
	state, _ := identity.StateFrom(r.Context())
	email := ""
	if state.Principal != nil {
		email = state.Principal.Email
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"dashboard": "user",
		"email":     email,
	})
}

func (s *Server) handleAdminHome(w http.ResponseWriter, r *http.Request) {
	state, _ := identity.StateFrom(r.Context())
	email := ""
	if state.Principal != nil {
		email = state.Principal.Email
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"dashboard": "admin",
		"email":     email,
	})
}

func (s *Server) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	token, err := bearerToken(r)
	if err != nil {
		writeError(w, s.logger, "user.listQuizzes", err)
		return
	}
	quizzes, err := s.catalog.ListQuizzes(r.Context(), token)
	if err != nil {
		writeError(w, s.logger, "user.listQuizzes", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"quizzes": quizzes})
}

func (s *Server) handleQuizQuestions(w http.ResponseWriter, r *http.Request) {
	token, err := bearerToken(r)
	if err != nil {
		writeError(w, s.logger, "user.quizQuestions", err)
		return
	}
	quizID := mux.Vars(r)["quizID"]
	questions, err := s.catalog.QuizQuestions(r.Context(), token, quizID)
	if err != nil {
		writeError(w, s.logger, "user.quizQuestions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

type submitQuizRequest struct {
	Answers map[string]string `json:"answers"`
}

func (s *Server) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	token, err := bearerToken(r)
	if err != nil {
		writeError(w, s.logger, "user.submitQuiz", err)
		return
	}
	var req submitQuizRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid request body"})
		return
	}
	if len(req.Answers) == 0 {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "answers are required"})
		return
	}
	quizID := mux.Vars(r)["quizID"]
	result, err := s.attempts.SubmitQuiz(r.Context(), token, quizID, req.Answers)
	if err != nil {
		writeError(w, s.logger, "user.submitQuiz", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMyScores(w http.ResponseWriter, r *http.Request) {
	token, err := bearerToken(r)
	if err != nil {
		writeError(w, s.logger, "user.scores", err)
		return
	}
	scores, err := s.attempts.MyScores(r.Context(), token)
	if err != nil {
		writeError(w, s.logger, "user.scores", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"scores": scores})
}

func (s *Server) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	token, err := bearerToken(r)
	if err != nil {
		writeError(w, s.logger, "admin.addQuestion", err)
		return
	}
	var payload gateway.QuestionPayload
	if err := decodeBody(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid request body"})
		return
	}
	if err := payload.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: err.Error()})
		return
	}
	if err := s.admin.AddQuestion(r.Context(), token, payload); err != nil {
		writeError(w, s.logger, "admin.addQuestion", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "question added"})
}

func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	token, err := bearerToken(r)
	if err != nil {
		writeError(w, s.logger, "admin.createQuiz", err)
		return
	}
	var payload gateway.QuizPayload
	if err := decodeBody(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid request body"})
		return
	}
	if err := payload.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: err.Error()})
		return
	}
	if err := s.admin.CreateQuiz(r.Context(), token, payload); err != nil {
		writeError(w, s.logger, "admin.createQuiz", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "quiz created"})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	token, err := bearerToken(r)
	if err != nil {
		writeError(w, s.logger, "admin.users", err)
		return
	}
	users, err := s.admin.ListUsers(r.Context(), token)
	if err != nil {
		writeError(w, s.logger, "admin.users", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (s *Server) handleAllScores(w http.ResponseWriter, r *http.Request) {
	token, err := bearerToken(r)
	if err != nil {
		writeError(w, s.logger, "admin.scores", err)
		return
	}
	scores, err := s.admin.AllScores(r.Context(), token)
	if err != nil {
		writeError(w, s.logger, "admin.scores", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"scores": scores})
}
