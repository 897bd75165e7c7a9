package http

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quiz-portal/internal/app"
	"quiz-portal/internal/domain"
)

func dialQuizWS(t *testing.T, p *portal) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(p.ts.URL, "http") + "/ws/quiz"

	// Reuse the portal's session cookie so the socket joins the same session
	// the REST calls mutate.
	header := http.Header{}
	for _, c := range p.client.Jar.Cookies(mustParseURL(t, p.ts.URL)) {
		header.Add("Cookie", c.Name+"="+c.Value)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url %q: %v", raw, err)
	}
	return u
}

func readOutbound(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read ws message: %v", err)
	}
	return msg.Type, msg.Payload
}

func TestWebSocketAnswerFlow(t *testing.T) {
	questions := &stubQuestionGateway{
		questions: []domain.Question{
			{ID: "1", Text: "What is 2 + 2?", Options: []domain.Option{{Key: "4", Text: "4"}}},
		},
	}
	p := newPortal(t, questions)

	// Establish the session over REST first so the cookie exists.
	resp := p.post(t, "/quiz/start", startRequest{Name: "Alice"})
	resp.Body.Close()

	conn := dialQuizWS(t, p)

	// Initial snapshot arrives immediately on subscribe.
	typ, payload := readOutbound(t, conn)
	if typ != "session" {
		t.Fatalf("expected session message, got %q", typ)
	}
	var snap app.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Phase != app.PhaseInProgress {
		t.Fatalf("expected in-progress snapshot, got %v", snap.Phase)
	}

	// Answering over the socket broadcasts the updated snapshot back.
	answer, _ := json.Marshal(answerRequest{QuestionID: "1", Option: "4"})
	if err := conn.WriteJSON(inboundMessage{Type: "answer", Payload: answer}); err != nil {
		t.Fatalf("write answer: %v", err)
	}

	typ, payload = readOutbound(t, conn)
	if typ != "session" {
		t.Fatalf("expected session update, got %q", typ)
	}
	if err := json.Unmarshal(payload, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Answered != 1 || !snap.CanSubmit {
		t.Fatalf("answer over ws not reflected: %+v", snap)
	}
}

func TestSendOutboundGivesUpWhenWriterExits(t *testing.T) {
	send := make(chan outboundMessage, 1)
	writerDone := make(chan struct{})

	if !sendOutbound(send, outboundMessage{Type: "session"}, writerDone) {
		t.Fatalf("send into a free buffer must succeed")
	}

	// Buffer is full and the writer has exited: the send must return false
	// instead of blocking forever.
	close(writerDone)
	done := make(chan bool, 1)
	go func() {
		done <- sendOutbound(send, outboundMessage{Type: "session"}, writerDone)
	}()
	select {
	case ok := <-done:
		if ok {
			t.Fatalf("send must report failure once the writer exited")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("send blocked after writer exit")
	}
}

func TestWebSocketRejectsUnknownMessage(t *testing.T) {
	p := newPortal(t, &stubQuestionGateway{})

	resp := p.get(t, "/quiz")
	resp.Body.Close()

	conn := dialQuizWS(t, p)
	readOutbound(t, conn) // initial snapshot

	if err := conn.WriteJSON(inboundMessage{Type: "bogus"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	typ, payload := readOutbound(t, conn)
	if typ != "error" {
		t.Fatalf("expected error message, got %q", typ)
	}
	var wsErr wsErrorPayload
	if err := json.Unmarshal(payload, &wsErr); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if wsErr.Message == "" {
		t.Fatalf("error payload must carry a message")
	}
}
