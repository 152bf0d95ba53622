package ws

import (
	"log"

	"github.com/vedran77/courier/internal/domain"
)

// HubNotifier implements service.Notifier using the WebSocket Hub. New
// messages are pushed to the recipient; read receipts go back to the sender.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyNewMessage(msg *domain.Message) {
	evt, err := NewEvent(EventTypeMessageNew, MessagePayload{Message: *msg})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.SendToUser(msg.ToUsername, evt)
}

func (n *HubNotifier) NotifyMessageRead(msg *domain.Message) {
	evt, err := NewEvent(EventTypeMessageRead, MessagePayload{Message: *msg})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.SendToUser(msg.FromUsername, evt)
}
