package domain

// AuthStatus reflects where the identity integration currently stands for a
// browser session.
type AuthStatus string

const (
	AuthUnauthenticated AuthStatus = "unauthenticated"
	AuthLoading         AuthStatus = "loading"
	AuthAuthenticated   AuthStatus = "authenticated"
	AuthError           AuthStatus = "error"
)

// Role is the coarse authorization level derived from a principal's groups.
type Role string

const (
	// RoleNone doubles as "no role requirement" when passed to the guard.
	RoleNone  Role = "none"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Principal is the authenticated identity as supplied by the identity
// provider. The portal only reads it; all mutation happens through the
// sign-in/sign-out flow.
type Principal struct {
	Subject string   `json:"subject"`
	Email   string   `json:"email"`
	Groups  []string `json:"groups"`
	// Token is the opaque bearer token attached to gateway calls.
	Token string `json:"-"`
}

// Option is a single answer choice. Sources that deliver options as a plain
// ordered list use the text itself as the key; keyed sources use short keys
// like "A".."D".
type Option struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Question models one multiple-choice question. CorrectAnswer is only set in
// admin-authored contexts and must reference an existing option key.
type Question struct {
	ID            string   `json:"question_id"`
	Text          string   `json:"question_text"`
	Options       []Option `json:"options"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
}

// HasOption reports whether the given selection references one of the
// question's options.
func (q Question) HasOption(key string) bool {
	for _, opt := range q.Options {
		if opt.Key == key {
			return true
		}
	}
	return false
}

// Result is the backend-computed outcome of one submitted attempt.
type Result struct {
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Message    string  `json:"message"`
	Percentage float64 `json:"percentage"`
	Passed     bool    `json:"passed"`
}

// NewResult derives the percentage and pass flag from a raw score. A zero
// total is treated as one to keep the percentage defined.
func NewResult(score, total int, message string) Result {
	divisor := total
	if divisor < 1 {
		divisor = 1
	}
	pct := 100 * float64(score) / float64(divisor)
	return Result{
		Score:      score,
		Total:      total,
		Message:    message,
		Percentage: pct,
		Passed:     pct >= 50,
	}
}

// Quiz is a catalog entry describing a quiz a participant may start. It is
// distinct from a live quiz session.
type Quiz struct {
	ID         string `json:"quiz_id"`
	Topic      string `json:"topic"`
	Duration   int    `json:"duration"`
	TotalMarks int    `json:"total_marks"`
}

// ScoreRecord is one historical attempt as reported by the backend.
type ScoreRecord struct {
	UserEmail   string  `json:"user_email,omitempty"`
	QuizID      string  `json:"quiz_id"`
	Score       int     `json:"score"`
	Total       int     `json:"total"`
	Percentage  float64 `json:"percentage"`
	SubmittedAt string  `json:"submitted_at,omitempty"`
}

// User is a directory entry from the admin user listing.
type User struct {
	ID        string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}
