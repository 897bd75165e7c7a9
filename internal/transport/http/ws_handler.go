package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type wsErrorPayload struct {
	Message string `json:"message"`
}

// handleQuizWS streams session snapshots over a websocket so a client can
// mirror progress live. It also accepts answer and navigate messages inbound,
// feeding the same state machine the REST handlers use.
func (s *Server) handleQuizWS(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := s.quiz.Subscribe(sid)
	defer cancel()

	send := make(chan outboundMessage, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer goroutine so snapshot broadcasts and reply messages never
	// interleave on the connection.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				s.logger.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage{Type: "session", Payload: snap}:
				case <-closeSignals:
					return
				case <-writerDone:
					return
				}
			case <-closeSignals:
				return
			case <-writerDone:
				return
			}
		}
	}()

read:
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerRequest
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				if !sendOutbound(send, outboundMessage{Type: "error", Payload: wsErrorPayload{Message: "invalid answer payload"}}, writerDone) {
					break read
				}
				continue
			}
			if _, err := s.quiz.Answer(r.Context(), sid, payload.QuestionID, payload.Option); err != nil {
				if !sendOutbound(send, outboundMessage{Type: "error", Payload: wsErrorPayload{Message: err.Error()}}, writerDone) {
					break read
				}
			}
		case "navigate":
			var payload navigateRequest
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				if !sendOutbound(send, outboundMessage{Type: "error", Payload: wsErrorPayload{Message: "invalid navigate payload"}}, writerDone) {
					break read
				}
				continue
			}
			var err error
			if payload.To != nil {
				_, err = s.quiz.Navigate(r.Context(), sid, *payload.To)
			} else {
				_, err = s.quiz.Step(r.Context(), sid, payload.Step)
			}
			if err != nil {
				if !sendOutbound(send, outboundMessage{Type: "error", Payload: wsErrorPayload{Message: err.Error()}}, writerDone) {
					break read
				}
			}
		default:
			if !sendOutbound(send, outboundMessage{Type: "error", Payload: wsErrorPayload{Message: "unsupported message type"}}, writerDone) {
				break read
			}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// sendOutbound queues a message for the writer goroutine, giving up instead
// of blocking once the writer has exited.
func sendOutbound(send chan<- outboundMessage, msg outboundMessage, writerDone <-chan struct{}) bool {
	select {
	case send <- msg:
		return true
	case <-writerDone:
		return false
	}
}
