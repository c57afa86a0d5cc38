package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"questboard/internal/app"
	"questboard/internal/domain"
)

// WSHandler streams the leaderboard to town square screens.
type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type boardPayload struct {
	Category string `json:"category"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets. The client picks a board
// with ?board= (scholar by default) and may switch with a "board" message;
// after every change to the game it receives the change and the fresh board.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	category := domain.CategoryScholar
	if raw := r.URL.Query().Get("board"); raw != "" {
		c, err := domain.ParseCategory(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		category = c
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	changes, cancel := h.service.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	boards := make(chan domain.Category, 1)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Only the writer goroutine touches conn for writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				// unblock the reader loop
				_ = conn.Close()
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		current := category
		push := func(extra *domain.Change) bool {
			if extra != nil {
				select {
				case send <- outboundMessage[any]{Type: "change", Payload: *extra}:
				case <-closeSignals:
					return false
				case <-writerDone:
					return false
				}
			}
			board, err := h.service.Leaderboard(current)
			if err != nil {
				return true
			}
			select {
			case send <- outboundMessage[any]{Type: "leaderboard", Payload: board}:
				return true
			case <-closeSignals:
				return false
			case <-writerDone:
				return false
			}
		}

		if !push(nil) {
			return
		}
		for {
			select {
			case change, ok := <-changes:
				if !ok {
					return
				}
				if !push(&change) {
					return
				}
			case c := <-boards:
				current = c
				if !push(nil) {
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	reply := func(message string) bool {
		return enqueue(send, writerDone, outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}})
	}

read:
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "board":
			var payload boardPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				if !reply("invalid board payload") {
					break read
				}
				continue
			}
			c, err := domain.ParseCategory(payload.Category)
			if err != nil {
				if !reply(err.Error()) {
					break read
				}
				continue
			}
			// keep only the latest requested board
			select {
			case <-boards:
			default:
			}
			boards <- c
		default:
			if !reply("unsupported message type") {
				break read
			}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// enqueue hands msg to the writer. It reports false once the writer has
// stopped, so callers never block on a dead connection.
func enqueue(send chan<- outboundMessage[any], writerDone <-chan struct{}, msg outboundMessage[any]) bool {
	select {
	case send <- msg:
		return true
	case <-writerDone:
		return false
	}
}
