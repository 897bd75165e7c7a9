package app

import (
	"sync"

	"quiz-portal/internal/domain"
)

// Phase is the single tagged state of a quiz session. There are no separate
// loading or error flags; impossible combinations cannot be expressed.
type Phase string

const (
	PhaseWelcome       Phase = "welcome"
	PhaseLoadingFetch  Phase = "loading_fetch"
	PhaseInProgress    Phase = "in_progress"
	PhaseLoadingSubmit Phase = "loading_submit"
	PhaseCompleted     Phase = "completed"
)

// ViewMode selects the two supported layouts: vertical renders the whole
// question set as one page, horizontal pages one question at a time.
type ViewMode string

const (
	ViewVertical   ViewMode = "vertical"
	ViewHorizontal ViewMode = "horizontal"
)

// Snapshot is a read-only view of a session, safe to hand to transports.
type Snapshot struct {
	Phase     Phase             `json:"phase"`
	Name      string            `json:"participant_name"`
	ViewMode  ViewMode          `json:"view_mode"`
	Position  int               `json:"current_position"`
	PageCount int               `json:"page_count"`
	Questions []domain.Question `json:"questions,omitempty"`
	Answers   map[string]string `json:"answers"`
	Answered  int               `json:"answered"`
	Total     int               `json:"total"`
	Progress  float64           `json:"progress"`
	CanSubmit bool              `json:"can_submit"`
	Result    *domain.Result    `json:"result,omitempty"`
}

// SessionState is the serializable form of a session, used by stores that
// persist sessions across portal restarts. Loading phases are transient and
// never persisted; they collapse back to their origin phase.
type SessionState struct {
	Phase     Phase             `json:"phase"`
	Name      string            `json:"participant_name"`
	ViewMode  ViewMode          `json:"view_mode"`
	Position  int               `json:"current_position"`
	Questions []domain.Question `json:"questions"`
	Answers   map[string]string `json:"answers"`
	Result    *domain.Result    `json:"result,omitempty"`
}

// Session owns one quiz attempt: the fixed question set, the mutable answer
// map, paging position and the eventual result. One browser session owns
// exactly one Session; transitions are serialized by the mutex and the
// loading phases block duplicate concurrent fetches/submits.
type Session struct {
	mu          sync.RWMutex
	phase       Phase
	name        string
	viewMode    ViewMode
	position    int
	questions   []domain.Question
	answers     map[string]string
	result      *domain.Result
	subscribers map[chan Snapshot]struct{}
}

func NewSession() *Session {
	return &Session{
		phase:       PhaseWelcome,
		viewMode:    ViewVertical,
		answers:     make(map[string]string),
		subscribers: make(map[chan Snapshot]struct{}),
	}
}

// beginFetch validates the participant name and moves Welcome -> LoadingFetch.
// It fails fast, before any network call, on an empty name.
func (s *Session) beginFetch(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseLoadingFetch, PhaseLoadingSubmit:
		return domain.ErrTransitionInFlight
	case PhaseInProgress, PhaseCompleted:
		return domain.ErrSessionActive
	}
	if name == "" {
		return domain.ErrNameRequired
	}
	s.name = name
	s.phase = PhaseLoadingFetch
	s.broadcastLocked()
	return nil
}

// completeFetch finishes the start transition. An error or an empty question
// set returns the session to Welcome; success resets answers and position and
// enters InProgress.
func (s *Session) completeFetch(questions []domain.Question, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil && len(questions) == 0 {
		err = domain.ErrNoQuestions
	}
	if err != nil {
		s.phase = PhaseWelcome
		s.broadcastLocked()
		return err
	}
	s.questions = questions
	s.answers = make(map[string]string)
	s.position = 0
	s.result = nil
	s.phase = PhaseInProgress
	s.broadcastLocked()
	return nil
}

// SelectAnswer records or overwrites the selection for a question. Changing a
// prior answer replaces it; no history is kept.
func (s *Session) SelectAnswer(questionID, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseInProgress {
		return domain.ErrNoActiveSession
	}
	question, ok := s.findQuestionLocked(questionID)
	if !ok {
		return domain.ErrQuestionNotFound
	}
	if !question.HasOption(option) {
		return domain.ErrOptionNotFound
	}
	s.answers[questionID] = option
	s.broadcastLocked()
	return nil
}

// Navigate moves the page position to the given index, clamped to
// [0, pageCount-1]. Out-of-range targets clamp rather than error.
func (s *Session) Navigate(to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseInProgress {
		return domain.ErrNoActiveSession
	}
	s.position = clamp(to, 0, s.pageCountLocked()-1)
	s.broadcastLocked()
	return nil
}

// Step moves the position forward or backward relative to the current page.
func (s *Session) Step(delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseInProgress {
		return domain.ErrNoActiveSession
	}
	s.position = clamp(s.position+delta, 0, s.pageCountLocked()-1)
	s.broadcastLocked()
	return nil
}

// SetViewMode switches layouts. The answer map is untouched; only the page
// position is re-clamped to the new page count.
func (s *Session) SetViewMode(mode ViewMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mode != ViewVertical && mode != ViewHorizontal {
		return domain.ErrOptionNotFound
	}
	if s.phase != PhaseInProgress {
		return domain.ErrNoActiveSession
	}
	s.viewMode = mode
	s.position = clamp(s.position, 0, s.pageCountLocked()-1)
	s.broadcastLocked()
	return nil
}

// beginSubmit enforces the completeness gate and moves InProgress ->
// LoadingSubmit, returning the inputs the gateway call needs.
func (s *Session) beginSubmit() (name string, answers map[string]string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseLoadingFetch, PhaseLoadingSubmit:
		return "", nil, domain.ErrTransitionInFlight
	case PhaseInProgress:
	default:
		return "", nil, domain.ErrNoActiveSession
	}
	if !s.completeLocked() {
		return "", nil, domain.ErrIncompleteAnswers
	}
	s.phase = PhaseLoadingSubmit
	s.broadcastLocked()

	copied := make(map[string]string, len(s.answers))
	for id, option := range s.answers {
		copied[id] = option
	}
	return s.name, copied, nil
}

// completeSubmit records the result exactly once, or restores InProgress on
// failure so no partial transition is observable.
func (s *Session) completeSubmit(result domain.Result, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.phase = PhaseInProgress
		s.broadcastLocked()
		return err
	}
	s.result = &result
	s.phase = PhaseCompleted
	s.broadcastLocked()
	return nil
}

// Restart discards the whole attempt and returns to the welcome phase. It is
// rejected only while a fetch or submit is outstanding.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseLoadingFetch, PhaseLoadingSubmit:
		return domain.ErrTransitionInFlight
	}
	s.name = ""
	s.questions = nil
	s.answers = make(map[string]string)
	s.result = nil
	s.position = 0
	s.viewMode = ViewVertical
	s.phase = PhaseWelcome
	s.broadcastLocked()
	return nil
}

// Snapshot returns a consistent view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel that receives a snapshot after every mutation.
// The caller must invoke the cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// State exports the persistable session state. In-flight loading phases
// collapse to the phase the transition started from.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	phase := s.phase
	switch phase {
	case PhaseLoadingFetch:
		phase = PhaseWelcome
	case PhaseLoadingSubmit:
		phase = PhaseInProgress
	}
	answers := make(map[string]string, len(s.answers))
	for id, option := range s.answers {
		answers[id] = option
	}
	return SessionState{
		Phase:     phase,
		Name:      s.name,
		ViewMode:  s.viewMode,
		Position:  s.position,
		Questions: s.questions,
		Answers:   answers,
		Result:    s.result,
	}
}

// RestoreSession rebuilds a session from persisted state.
func RestoreSession(state SessionState) *Session {
	session := NewSession()
	if state.Phase != "" {
		session.phase = state.Phase
	}
	session.name = state.Name
	if state.ViewMode != "" {
		session.viewMode = state.ViewMode
	}
	session.questions = state.Questions
	if state.Answers != nil {
		session.answers = state.Answers
	}
	session.result = state.Result
	session.position = clamp(state.Position, 0, session.pageCountLocked()-1)
	return session
}

func (s *Session) snapshotLocked() Snapshot {
	answers := make(map[string]string, len(s.answers))
	for id, option := range s.answers {
		answers[id] = option
	}
	return Snapshot{
		Phase:     s.phase,
		Name:      s.name,
		ViewMode:  s.viewMode,
		Position:  s.position,
		PageCount: s.pageCountLocked(),
		Questions: s.questions,
		Answers:   answers,
		Answered:  len(s.answers),
		Total:     len(s.questions),
		Progress:  s.progressLocked(),
		CanSubmit: s.phase == PhaseInProgress && s.completeLocked(),
		Result:    s.result,
	}
}

func (s *Session) broadcastLocked() {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the stale snapshot so a slow consumer never blocks a
			// transition; the latest one wins.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// completeLocked is the completeness gate: every question ID must have an
// entry in the answer map.
func (s *Session) completeLocked() bool {
	if len(s.questions) == 0 {
		return false
	}
	for _, q := range s.questions {
		if _, ok := s.answers[q.ID]; !ok {
			return false
		}
	}
	return true
}

func (s *Session) progressLocked() float64 {
	if len(s.questions) == 0 {
		return 0
	}
	return 100 * float64(len(s.answers)) / float64(len(s.questions))
}

func (s *Session) pageCountLocked() int {
	if s.viewMode == ViewHorizontal {
		if n := len(s.questions); n > 0 {
			return n
		}
	}
	return 1
}

func (s *Session) findQuestionLocked(questionID string) (domain.Question, bool) {
	for _, q := range s.questions {
		if q.ID == questionID {
			return q, true
		}
	}
	return domain.Question{}, false
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
