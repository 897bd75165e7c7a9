package http

import (
	"context"

	"quiz-portal/internal/domain"
	"quiz-portal/internal/infra/gateway"
)

// CatalogGateway is the slice of the remote API the user dashboard reads.
type CatalogGateway interface {
	ListQuizzes(ctx context.Context, token string) ([]domain.Quiz, error)
	QuizQuestions(ctx context.Context, token, quizID string) ([]domain.Question, error)
}

// AttemptGateway covers authenticated quiz submission and score history.
type AttemptGateway interface {
	SubmitQuiz(ctx context.Context, token, quizID string, answers map[string]string) (domain.Result, error)
	MyScores(ctx context.Context, token string) ([]domain.ScoreRecord, error)
}

// AdminGateway covers the admin dashboard operations.
type AdminGateway interface {
	AddQuestion(ctx context.Context, token string, payload gateway.QuestionPayload) error
	CreateQuiz(ctx context.Context, token string, payload gateway.QuizPayload) error
	ListUsers(ctx context.Context, token string) ([]domain.User, error)
	AllScores(ctx context.Context, token string) ([]domain.ScoreRecord, error)
}
