package domain

import "errors"

var (
	// ErrNameRequired is returned when a participant tries to start a quiz
	// without a (trimmed) non-empty name. No network call is made.
	ErrNameRequired = errors.New("participant name is required")
	// ErrNoQuestions indicates the fetched question set was empty; the
	// session stays in the welcome phase.
	ErrNoQuestions = errors.New("no questions available")
	// ErrQuestionNotFound indicates a submitted question ID is not part of
	// the current question set.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates a selection does not reference any option
	// of the question.
	ErrOptionNotFound = errors.New("option not found")
	// ErrIncompleteAnswers is returned when submission is attempted before
	// every question has a recorded answer.
	ErrIncompleteAnswers = errors.New("not all questions answered")
	// ErrSessionActive is returned when a start is attempted while a session
	// is already in progress or completed.
	ErrSessionActive = errors.New("quiz session already active")
	// ErrNoActiveSession is returned for answer/navigate/submit operations
	// outside an in-progress session.
	ErrNoActiveSession = errors.New("no quiz session in progress")
	// ErrTransitionInFlight rejects a second transition of the same kind
	// while a fetch or submit is outstanding.
	ErrTransitionInFlight = errors.New("another transition is in flight")
	// ErrGateway wraps failures talking to the remote quiz API.
	ErrGateway = errors.New("quiz gateway request failed")
	// ErrNoToken is returned when an authenticated gateway call is attempted
	// without a bearer token.
	ErrNoToken = errors.New("no authentication token")
)
