package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/entangled/event"
)

const (
	writeWait    = 10 * time.Second
	replyBacklog = 8
)

// commandRequest is an inbound websocket frame
type commandRequest struct {
	Command string `json:"command"`
}

// handleEvents streams session events; clients may also send {"command": "..."} frames
// The first frame is a snapshot of the session
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub := sess.relay.subscribe()
	defer sess.relay.unsubscribe(sub)

	if err := s.write(conn, Message{Type: "snapshot", Payload: s.view(sess, sess.snapshot())}); err != nil {
		return
	}

	replies := make(chan Message, replyBacklog)
	done := make(chan struct{})
	go s.readCommands(conn, sess, replies, done)

	for {
		select {
		case msg, ok := <-sub:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "game closed"),
					time.Now().Add(writeWait))
				return
			}
			if err := s.write(conn, msg); err != nil {
				return
			}
		case msg := <-replies:
			if err := s.write(conn, msg); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (s *Server) write(conn *websocket.Conn, msg Message) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

// readCommands applies inbound commands until the connection fails; only errors are answered directly
func (s *Server) readCommands(conn *websocket.Conn, sess *session, replies chan<- Message, done chan<- struct{}) {
	defer close(done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var req commandRequest
		t := event.EventNone
		if err = json.Unmarshal(data, &req); err == nil {
			t, err = parseCommand(req.Command)
		}
		if err == nil {
			_, err = sess.command(t)
		}
		if err != nil {
			select {
			case replies <- Message{Type: "error", Payload: err.Error()}:
			default:
			}
		}
	}
}
