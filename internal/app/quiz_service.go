package app

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"quiz-portal/internal/domain"
)

// SessionRepository abstracts how quiz sessions are stored per browser
// session (in-memory, Redis, etc). Save is called after every mutation;
// stores without persistence may treat it as a no-op.
type SessionRepository interface {
	GetOrCreate(sid string) *Session
	Get(sid string) (*Session, bool)
	Save(ctx context.Context, sid string, session *Session) error
	Delete(sid string)
}

// QuestionGateway is the slice of the remote quiz API the anonymous quiz flow
// consumes.
type QuestionGateway interface {
	FetchQuestions(ctx context.Context) ([]domain.Question, error)
	SubmitAnswers(ctx context.Context, name string, answers map[string]string) (domain.Result, error)
}

// QuizService drives the quiz session state machine. Each browser session
// owns exactly one quiz session; the service looks it up by sid and applies
// transitions.
type QuizService struct {
	sessions SessionRepository
	gateway  QuestionGateway
	logger   *zap.Logger
}

func NewQuizService(sessions SessionRepository, gateway QuestionGateway, logger *zap.Logger) *QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizService{sessions: sessions, gateway: gateway, logger: logger}
}

// Start validates the participant name, fetches the question set and enters
// the in-progress phase. An empty name never reaches the network; an empty
// fetched set fails the transition and the session stays in welcome.
func (s *QuizService) Start(ctx context.Context, sid, name string) (Snapshot, error) {
	session := s.sessions.GetOrCreate(sid)
	if err := session.beginFetch(strings.TrimSpace(name)); err != nil {
		return session.Snapshot(), err
	}
	questions, err := s.gateway.FetchQuestions(ctx)
	if err := session.completeFetch(questions, err); err != nil {
		return session.Snapshot(), err
	}
	s.persist(ctx, sid, session)
	return session.Snapshot(), nil
}

// Answer records a selection for a question.
func (s *QuizService) Answer(ctx context.Context, sid, questionID, option string) (Snapshot, error) {
	session := s.sessions.GetOrCreate(sid)
	if err := session.SelectAnswer(questionID, option); err != nil {
		return session.Snapshot(), err
	}
	s.persist(ctx, sid, session)
	return session.Snapshot(), nil
}

// Navigate jumps to an explicit page index (clamped).
func (s *QuizService) Navigate(ctx context.Context, sid string, to int) (Snapshot, error) {
	session := s.sessions.GetOrCreate(sid)
	if err := session.Navigate(to); err != nil {
		return session.Snapshot(), err
	}
	s.persist(ctx, sid, session)
	return session.Snapshot(), nil
}

// Step moves one page forward or backward (clamped).
func (s *QuizService) Step(ctx context.Context, sid string, delta int) (Snapshot, error) {
	session := s.sessions.GetOrCreate(sid)
	if err := session.Step(delta); err != nil {
		return session.Snapshot(), err
	}
	s.persist(ctx, sid, session)
	return session.Snapshot(), nil
}

// SetViewMode switches between the vertical and horizontal layouts without
// touching recorded answers.
func (s *QuizService) SetViewMode(ctx context.Context, sid string, mode ViewMode) (Snapshot, error) {
	session := s.sessions.GetOrCreate(sid)
	if err := session.SetViewMode(mode); err != nil {
		return session.Snapshot(), err
	}
	s.persist(ctx, sid, session)
	return session.Snapshot(), nil
}

// Submit sends the answer map to the backend once the completeness gate is
// satisfied. On gateway failure the session stays in progress and no partial
// result is recorded.
func (s *QuizService) Submit(ctx context.Context, sid string) (Snapshot, error) {
	session := s.sessions.GetOrCreate(sid)
	name, answers, err := session.beginSubmit()
	if err != nil {
		return session.Snapshot(), err
	}
	result, err := s.gateway.SubmitAnswers(ctx, name, answers)
	if err := session.completeSubmit(result, err); err != nil {
		return session.Snapshot(), err
	}
	s.persist(ctx, sid, session)
	return session.Snapshot(), nil
}

// Restart discards the attempt unconditionally and returns to welcome.
func (s *QuizService) Restart(ctx context.Context, sid string) (Snapshot, error) {
	session := s.sessions.GetOrCreate(sid)
	if err := session.Restart(); err != nil {
		return session.Snapshot(), err
	}
	s.persist(ctx, sid, session)
	return session.Snapshot(), nil
}

// persist saves the session state. Failures never fail the operation; the
// in-memory session stays authoritative, so they are logged and carried on.
func (s *QuizService) persist(ctx context.Context, sid string, session *Session) {
	if err := s.sessions.Save(ctx, sid, session); err != nil {
		s.logger.Warn("session save failed", zap.String("sid", sid), zap.Error(err))
	}
}

// Snapshot returns the current state of the session.
func (s *QuizService) Snapshot(sid string) Snapshot {
	return s.sessions.GetOrCreate(sid).Snapshot()
}

// Subscribe streams snapshots for the session after every mutation. The
// caller must invoke the cancel function.
func (s *QuizService) Subscribe(sid string) (<-chan Snapshot, func()) {
	return s.sessions.GetOrCreate(sid).Subscribe()
}
