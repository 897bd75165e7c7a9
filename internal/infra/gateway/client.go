// Package gateway is the HTTP client for the remote quiz API. It is also the
// normalization boundary: every duck-typed backend shape is mapped onto the
// canonical domain types here, once, so nothing downstream guesses at
// fallback field names.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"quiz-portal/internal/domain"
)

// Config points the client at one API deployment. The anonymous endpoints
// authenticate with an API key header, the rest with bearer tokens.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks JSON to the quiz backend.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

// FetchQuestions loads the anonymous question set. The backend may answer
// with a bare object or with an API-gateway envelope whose body is a JSON
// string; both are handled here.
func (c *Client) FetchQuestions(ctx context.Context) ([]domain.Question, error) {
	raw, err := c.do(ctx, http.MethodGet, "/getQuestions", "", nil)
	if err != nil {
		return nil, err
	}
	payload, err := unwrapEnvelope(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: getQuestions: %v", domain.ErrGateway, err)
	}
	var body struct {
		Questions []rawQuestion `json:"questions"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("%w: getQuestions: decode: %v", domain.ErrGateway, err)
	}
	questions := make([]domain.Question, 0, len(body.Questions))
	for _, rq := range body.Questions {
		questions = append(questions, rq.normalize())
	}
	return questions, nil
}

// SubmitAnswers posts the anonymous attempt and normalizes the score reply.
func (c *Client) SubmitAnswers(ctx context.Context, name string, answers map[string]string) (domain.Result, error) {
	payload := map[string]interface{}{
		"user_name": name,
		"answers":   answers,
	}
	raw, err := c.do(ctx, http.MethodPost, "/submitQuiz", "", payload)
	if err != nil {
		return domain.Result{}, err
	}
	return normalizeResult(raw, len(answers))
}

// ListQuizzes returns the quiz catalog for the signed-in user.
func (c *Client) ListQuizzes(ctx context.Context, token string) ([]domain.Quiz, error) {
	raw, err := c.do(ctx, http.MethodGet, "/user/listQuizzes", token, nil)
	if err != nil {
		return nil, err
	}
	var body struct {
		Quizzes []domain.Quiz `json:"quizzes"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%w: listQuizzes: decode: %v", domain.ErrGateway, err)
	}
	return body.Quizzes, nil
}

// QuizQuestions fetches the question set of one catalog quiz.
func (c *Client) QuizQuestions(ctx context.Context, token, quizID string) ([]domain.Question, error) {
	path := "/user/getQuizQuestions?quiz_id=" + url.QueryEscape(quizID)
	raw, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	var body struct {
		Questions []rawQuestion `json:"questions"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%w: getQuizQuestions: decode: %v", domain.ErrGateway, err)
	}
	questions := make([]domain.Question, 0, len(body.Questions))
	for _, rq := range body.Questions {
		questions = append(questions, rq.normalize())
	}
	return questions, nil
}

// SubmitQuiz posts an authenticated attempt for a catalog quiz.
func (c *Client) SubmitQuiz(ctx context.Context, token, quizID string, answers map[string]string) (domain.Result, error) {
	payload := map[string]interface{}{
		"quiz_id": quizID,
		"answers": answers,
	}
	raw, err := c.do(ctx, http.MethodPost, "/user/submitQuiz", token, payload)
	if err != nil {
		return domain.Result{}, err
	}
	return normalizeResult(raw, 0)
}

// MyScores returns the caller's attempt history.
func (c *Client) MyScores(ctx context.Context, token string) ([]domain.ScoreRecord, error) {
	return c.scores(ctx, "/user/viewScore", token)
}

// AllScores returns every user's attempt history (admin only).
func (c *Client) AllScores(ctx context.Context, token string) ([]domain.ScoreRecord, error) {
	return c.scores(ctx, "/admin/viewScores", token)
}

// ListUsers returns the user directory (admin only).
func (c *Client) ListUsers(ctx context.Context, token string) ([]domain.User, error) {
	raw, err := c.do(ctx, http.MethodGet, "/admin/viewUsers", token, nil)
	if err != nil {
		return nil, err
	}
	var body struct {
		Users []rawUser `json:"users"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%w: viewUsers: decode: %v", domain.ErrGateway, err)
	}
	users := make([]domain.User, 0, len(body.Users))
	for _, ru := range body.Users {
		users = append(users, ru.normalize())
	}
	return users, nil
}

// AddQuestion stores a new admin-authored question.
func (c *Client) AddQuestion(ctx context.Context, token string, payload QuestionPayload) error {
	if err := payload.Validate(); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodPost, "/admin/addQuestion", token, payload)
	return err
}

// CreateQuiz composes a catalog quiz from existing question IDs.
func (c *Client) CreateQuiz(ctx context.Context, token string, payload QuizPayload) error {
	if err := payload.Validate(); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodPost, "/admin/createQuiz", token, payload)
	return err
}

func (c *Client) scores(ctx context.Context, path, token string) ([]domain.ScoreRecord, error) {
	raw, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	var body struct {
		Scores []rawScore `json:"scores"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%w: %s: decode: %v", domain.ErrGateway, path, err)
	}
	records := make([]domain.ScoreRecord, 0, len(body.Scores))
	for _, rs := range body.Scores {
		records = append(records, rs.normalize())
	}
	return records, nil
}

// do shapes one request, attaching either the API key (anonymous calls) or
// the bearer token, and returns the raw response body for 2xx answers.
func (c *Client) do(ctx context.Context, method, path, token string, payload interface{}) ([]byte, error) {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else if c.cfg.APIKey != "" {
		req.Header.Set("x-api-key", c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrGateway, method, path, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("%w: %s %s: read body: %v", domain.ErrGateway, method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s %s: status %d", domain.ErrGateway, method, path, resp.StatusCode)
	}
	return buf.Bytes(), nil
}

// unwrapEnvelope peels off the API-gateway proxy envelope ({"body": "<json>"})
// when present; plain responses pass through unchanged.
func unwrapEnvelope(raw []byte) ([]byte, error) {
	var env struct {
		Body json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Body) == 0 {
		return raw, nil
	}
	// body may itself be a JSON-encoded string
	var inner string
	if err := json.Unmarshal(env.Body, &inner); err == nil {
		return []byte(inner), nil
	}
	return env.Body, nil
}
