package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"quiz-portal/internal/domain"
)

func TestFetchQuestionsUnwrapsEnvelope(t *testing.T) {
	inner := `{"questions":[{"question_id":1,"question_text":"What is 2 + 2?","options":["3","4"]}]}`
	envelope, _ := json.Marshal(map[string]string{"body": inner})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/getQuestions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "secret" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("anonymous call must not carry a bearer token")
		}
		w.Write(envelope)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})
	questions, err := client.FetchQuestions(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected one question, got %d", len(questions))
	}
	q := questions[0]
	if q.ID != "1" || q.Text != "What is 2 + 2?" {
		t.Fatalf("unexpected question: %+v", q)
	}
	if len(q.Options) != 2 || q.Options[0].Key != "3" || q.Options[1].Key != "4" {
		t.Fatalf("list options must key by their text: %+v", q.Options)
	}
}

func TestFetchQuestionsPlainResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"questions":[{"question_id":"q7","question_text":"Pick one","options":{"B":"Second","A":"First"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	questions, err := client.FetchQuestions(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	opts := questions[0].Options
	if len(opts) != 2 {
		t.Fatalf("expected two options, got %d", len(opts))
	}
	// Keyed options come back sorted by key.
	if opts[0].Key != "A" || opts[0].Text != "First" || opts[1].Key != "B" || opts[1].Text != "Second" {
		t.Fatalf("unexpected keyed options: %+v", opts)
	}
}

func TestFetchQuestionsIDShapes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"questions":[
			{"question_id":"q7","question_text":"String id","options":["a"]},
			{"question_id":7,"question_text":"Numeric id","options":["a"]}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	questions, err := client.FetchQuestions(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected two questions, got %d", len(questions))
	}
	if questions[0].ID != "q7" {
		t.Fatalf("string id mangled: %q", questions[0].ID)
	}
	if questions[1].ID != "7" {
		t.Fatalf("numeric id mangled: %q", questions[1].ID)
	}
}

func TestFetchQuestionsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	if _, err := client.FetchQuestions(context.Background()); !errors.Is(err, domain.ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}
}

func TestSubmitAnswersNormalizesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			UserName string            `json:"user_name"`
			Answers  map[string]string `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.UserName != "Alice" || body.Answers["1"] != "4" {
			t.Errorf("unexpected request body: %+v", body)
		}
		w.Write([]byte(`{"score":1,"message":"Keep practicing"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	result, err := client.SubmitAnswers(context.Background(), "Alice", map[string]string{"1": "4", "2": "Paris"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	// total missing in the reply: falls back to the answer count.
	if result.Score != 1 || result.Total != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Percentage != 50 || !result.Passed {
		t.Fatalf("expected 50%% passed, got %+v", result)
	}
}

func TestSubmitQuizSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok123" {
			t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("x-api-key") != "" {
			t.Errorf("authenticated call must not fall back to the api key")
		}
		w.Write([]byte(`{"score":4,"total_marks":5,"message":"ok"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})
	result, err := client.SubmitQuiz(context.Background(), "tok123", "quiz-1", map[string]string{"1": "a"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 4 || result.Total != 5 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestScoresFieldFallbacks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"scores":[
			{"user_email":"a@x.io","quiz_id":"quiz-1","score":3,"total_marks":5,"submitted_at":"2024-01-01"},
			{"email":"b@x.io","topic":"History","score":2,"total":4,"date":"2024-02-02"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	records, err := client.MyScores(context.Background(), "tok")
	if err != nil {
		t.Fatalf("scores: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected two records, got %d", len(records))
	}

	first := records[0]
	if first.UserEmail != "a@x.io" || first.QuizID != "quiz-1" || first.Total != 5 || first.SubmittedAt != "2024-01-01" {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.Percentage != 60 {
		t.Fatalf("expected computed percentage 60, got %v", first.Percentage)
	}

	second := records[1]
	if second.UserEmail != "b@x.io" || second.QuizID != "History" || second.Total != 4 || second.SubmittedAt != "2024-02-02" {
		t.Fatalf("fallback fields not applied: %+v", second)
	}
	if second.Percentage != 50 {
		t.Fatalf("expected computed percentage 50, got %v", second.Percentage)
	}
}

func TestListUsersDefaultsRole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"users":[{"user_id":"u1","email":"a@x.io"},{"id":"u2","email":"b@x.io","role":"Admin"}]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	users, err := client.ListUsers(context.Background(), "tok")
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if users[0].ID != "u1" || users[0].Role != "User" {
		t.Fatalf("missing role must default to User: %+v", users[0])
	}
	if users[1].ID != "u2" || users[1].Role != "Admin" {
		t.Fatalf("unexpected second user: %+v", users[1])
	}
}

func TestAddQuestionValidatesBeforeSending(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	bad := QuestionPayload{
		QuestionID:    "q9",
		QuestionText:  "Pick one",
		Options:       map[string]string{"A": "First"},
		CorrectAnswer: "B",
	}
	if err := client.AddQuestion(context.Background(), "tok", bad); err == nil {
		t.Fatalf("expected validation error for dangling correct_answer")
	}
	if called {
		t.Fatalf("invalid payload must never reach the backend")
	}
}

func TestUnwrapEnvelopePassthrough(t *testing.T) {
	plain := []byte(`{"questions":[]}`)
	out, err := unwrapEnvelope(plain)
	if err != nil {
		t.Fatalf("unwrap: %v", err)
	}
	if string(out) != string(plain) {
		t.Fatalf("plain payloads must pass through unchanged, got %s", out)
	}

	// body carrying a raw object instead of an encoded string
	out, err = unwrapEnvelope([]byte(`{"body":{"score":1}}`))
	if err != nil {
		t.Fatalf("unwrap object body: %v", err)
	}
	if string(out) != `{"score":1}` {
		t.Fatalf("unexpected unwrapped body: %s", out)
	}
}
