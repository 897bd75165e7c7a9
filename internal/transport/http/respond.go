package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"quiz-portal/internal/domain"
)

type errorPayload struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps the error taxonomy onto status codes: validation errors are
// 400s caught before any network call, in-flight conflicts are 409, gateway
// failures surface as 502 and leave prior state intact.
func writeError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrIncompleteAnswers),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrOptionNotFound),
		errors.Is(err, domain.ErrSessionActive),
		errors.Is(err, domain.ErrNoActiveSession):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrTransitionInFlight):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNoToken):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNoQuestions),
		errors.Is(err, domain.ErrGateway):
		status = http.StatusBadGateway
	}

	if status >= 500 {
		logger.Error("request failed", zap.String("op", op), zap.Error(err))
	} else {
		logger.Debug("request rejected", zap.String("op", op), zap.Error(err))
	}
	writeJSON(w, status, errorPayload{Error: err.Error()})
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
