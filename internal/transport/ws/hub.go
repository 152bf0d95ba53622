package ws

import (
	"encoding/json"
	"log"
)

// Hub manages all active WebSocket clients and routes events to them.
type Hub struct {
	// clients maps username → client.
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	deliver    chan *directMsg
}

type directMsg struct {
	username string
	data     []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan *directMsg, 256),
	}
}

// Run starts the Hub's main event loop. Call this in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if old, ok := h.clients[client.username]; ok {
				close(old.send)
				close(old.done)
			}
			h.clients[client.username] = client
			log.Printf("ws hub: %s connected (%d total)", client.username, len(h.clients))

		case client := <-h.unregister:
			// A reconnect may have already replaced this client.
			if h.clients[client.username] == client {
				delete(h.clients, client.username)
				close(client.send)
				close(client.done)
				log.Printf("ws hub: %s disconnected (%d total)", client.username, len(h.clients))
			}

		case msg := <-h.deliver:
			client, ok := h.clients[msg.username]
			if !ok {
				continue
			}
			select {
			case client.send <- msg.data:
			default:
				// Client buffer full - disconnect
				delete(h.clients, client.username)
				close(client.send)
				close(client.done)
			}
		}
	}
}

// SendToUser sends an event to a specific user's connection, if any.
func (h *Hub) SendToUser(username string, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	h.deliver <- &directMsg{username: username, data: data}
}
