package gateway

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"quiz-portal/internal/domain"
)

// flexID tolerates both ID shapes the backend produces: JSON strings
// ("question_id":"q7") and bare numbers ("question_id":1).
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number, got %s", data)
	}
	*f = flexID(n.String())
	return nil
}

// rawQuestion tolerates the two option shapes the backend produces: a plain
// ordered list of option strings, or a short-key ("A".."D") map.
type rawQuestion struct {
	ID            flexID          `json:"question_id"`
	Text          string          `json:"question_text"`
	Options       json.RawMessage `json:"options"`
	CorrectAnswer string          `json:"correct_answer"`
}

func (rq rawQuestion) normalize() domain.Question {
	q := domain.Question{
		ID:            string(rq.ID),
		Text:          rq.Text,
		CorrectAnswer: rq.CorrectAnswer,
	}

	var list []string
	if err := json.Unmarshal(rq.Options, &list); err == nil {
		for _, text := range list {
			q.Options = append(q.Options, domain.Option{Key: text, Text: text})
		}
		return q
	}

	var keyed map[string]string
	if err := json.Unmarshal(rq.Options, &keyed); err == nil {
		keys := make([]string, 0, len(keyed))
		for key := range keyed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			q.Options = append(q.Options, domain.Option{Key: key, Text: keyed[key]})
		}
	}
	return q
}

// rawScore maps the backend's inconsistent score records (total_marks vs
// total, submitted_at vs date, percentage sometimes missing) onto the
// canonical record once.
type rawScore struct {
	UserEmail   string      `json:"user_email"`
	Email       string      `json:"email"`
	QuizID      string      `json:"quiz_id"`
	Topic       string      `json:"topic"`
	Score       json.Number `json:"score"`
	TotalMarks  json.Number `json:"total_marks"`
	Total       json.Number `json:"total"`
	Percentage  json.Number `json:"percentage"`
	SubmittedAt string      `json:"submitted_at"`
	Date        string      `json:"date"`
}

func (rs rawScore) normalize() domain.ScoreRecord {
	record := domain.ScoreRecord{
		UserEmail:   firstNonEmpty(rs.UserEmail, rs.Email),
		QuizID:      firstNonEmpty(rs.QuizID, rs.Topic),
		Score:       asInt(rs.Score),
		Total:       asInt(rs.TotalMarks, rs.Total),
		SubmittedAt: firstNonEmpty(rs.SubmittedAt, rs.Date),
	}
	if pct, err := rs.Percentage.Float64(); err == nil && pct > 0 {
		record.Percentage = pct
	} else if record.Total > 0 {
		record.Percentage = 100 * float64(record.Score) / float64(record.Total)
	}
	return record
}

type rawUser struct {
	UserID    string `json:"user_id"`
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

func (ru rawUser) normalize() domain.User {
	role := ru.Role
	if role == "" {
		role = "User"
	}
	return domain.User{
		ID:        firstNonEmpty(ru.UserID, ru.ID),
		Email:     ru.Email,
		Role:      role,
		CreatedAt: ru.CreatedAt,
	}
}

// normalizeResult maps a submit reply onto a Result. Some deployments omit
// the total; fall back to the submitted answer count when they do.
func normalizeResult(raw []byte, fallbackTotal int) (domain.Result, error) {
	payload, err := unwrapEnvelope(raw)
	if err != nil {
		return domain.Result{}, fmt.Errorf("%w: submit: %v", domain.ErrGateway, err)
	}
	var body struct {
		Score      json.Number `json:"score"`
		Total      json.Number `json:"total"`
		TotalMarks json.Number `json:"total_marks"`
		Message    string      `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return domain.Result{}, fmt.Errorf("%w: submit: decode: %v", domain.ErrGateway, err)
	}
	total := asInt(body.TotalMarks, body.Total)
	if total == 0 {
		total = fallbackTotal
	}
	return domain.NewResult(asInt(body.Score), total, body.Message), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// asInt returns the first number that parses as a non-zero integer, or zero.
func asInt(numbers ...json.Number) int {
	for _, n := range numbers {
		if n == "" {
			continue
		}
		if v, err := strconv.Atoi(n.String()); err == nil && v != 0 {
			return v
		}
		if f, err := n.Float64(); err == nil && f != 0 {
			return int(f)
		}
	}
	return 0
}
