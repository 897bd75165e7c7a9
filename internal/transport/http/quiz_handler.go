package http

import (
	"net/http"

	"quiz-portal/internal/app"
)

type startRequest struct {
	Name string `json:"name"`
}

type answerRequest struct {
	QuestionID string `json:"question_id"`
	Option     string `json:"option"`
}

type navigateRequest struct {
	// To jumps to an explicit page index; Step moves relative to the current
	// page. To wins when both are present.
	To   *int `json:"to,omitempty"`
	Step int  `json:"step,omitempty"`
}

type viewModeRequest struct {
	Mode app.ViewMode `json:"mode"`
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	writeJSON(w, http.StatusOK, s.quiz.Snapshot(sid))
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	var req startRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid request body"})
		return
	}
	snap, err := s.quiz.Start(r.Context(), sid, req.Name)
	if err != nil {
		writeError(w, s.logger, "quiz.start", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	var req answerRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid request body"})
		return
	}
	snap, err := s.quiz.Answer(r.Context(), sid, req.QuestionID, req.Option)
	if err != nil {
		writeError(w, s.logger, "quiz.answer", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	var req navigateRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid request body"})
		return
	}

	var (
		snap app.Snapshot
		err  error
	)
	if req.To != nil {
		snap, err = s.quiz.Navigate(r.Context(), sid, *req.To)
	} else {
		snap, err = s.quiz.Step(r.Context(), sid, req.Step)
	}
	if err != nil {
		writeError(w, s.logger, "quiz.navigate", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleViewMode(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	var req viewModeRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid request body"})
		return
	}
	snap, err := s.quiz.SetViewMode(r.Context(), sid, req.Mode)
	if err != nil {
		writeError(w, s.logger, "quiz.view", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	snap, err := s.quiz.Submit(r.Context(), sid)
	if err != nil {
		writeError(w, s.logger, "quiz.submit", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	snap, err := s.quiz.Restart(r.Context(), sid)
	if err != nil {
		writeError(w, s.logger, "quiz.restart", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
