package whatsapp

import (
	"encoding/json"
	"io"
	"net/url"
	"strings"

	"github.com/torrico/rollcall/internal/contact"
)

// EventKind classifies a decoded webhook notification.
type EventKind string

const (
	// EventReply is an inbound message classified as a yes/no answer.
	EventReply EventKind = "reply"
	// EventUnclassified is inbound free text that is not a yes/no answer.
	EventUnclassified EventKind = "unclassified"
	// EventStatus is a delivery status update for a sent message.
	EventStatus EventKind = "status"
)

// Event is one flattened webhook notification.
type Event struct {
	Kind      EventKind
	Phone     string // sender wa_id, digits only
	Response  string // contact.ResponseYes or contact.ResponseNo for EventReply
	ButtonID  string // btn_si, btn_no, or empty for free text
	Text      string // raw inbound text
	MessageID string
	Status    string // sent, delivered, read, failed for EventStatus
	Timestamp string
}

// Webhook envelope: entry[] -> changes[] -> value -> messages[]/statuses[].
type webhookEnvelope struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []inboundMessage `json:"messages"`
				Statuses []inboundStatus  `json:"statuses"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type inboundMessage struct {
	From      string `json:"from"`
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Text      struct {
		Body string `json:"body"`
	} `json:"text"`
	Interactive struct {
		ButtonReply struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply"`
	} `json:"interactive"`
}

type inboundStatus struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	RecipientID string `json:"recipient_id"`
	Timestamp   string `json:"timestamp"`
}

// VerifyChallenge handles the subscription handshake. Meta sends a GET
// with hub.mode, hub.verify_token and hub.challenge; the challenge is
// echoed back only when the token matches.
func VerifyChallenge(q url.Values, verifyToken string) (string, bool) {
	if q.Get("hub.mode") != "subscribe" || q.Get("hub.verify_token") != verifyToken {
		return "", false
	}
	return q.Get("hub.challenge"), true
}

// DecodeEvents parses a webhook POST body into flat events. Message
// types other than interactive and text are dropped.
func DecodeEvents(r io.Reader) ([]Event, error) {
	var env webhookEnvelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, err
	}

	var events []Event
	for _, entry := range env.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if ev, ok := decodeMessage(msg); ok {
					events = append(events, ev)
				}
			}
			for _, st := range change.Value.Statuses {
				events = append(events, Event{
					Kind:      EventStatus,
					Phone:     st.RecipientID,
					MessageID: st.ID,
					Status:    st.Status,
					Timestamp: st.Timestamp,
				})
			}
		}
	}
	return events, nil
}

func decodeMessage(msg inboundMessage) (Event, bool) {
	ev := Event{
		Phone:     msg.From,
		MessageID: msg.ID,
		Timestamp: msg.Timestamp,
	}

	switch msg.Type {
	case "interactive":
		ev.ButtonID = msg.Interactive.ButtonReply.ID
		ev.Text = msg.Interactive.ButtonReply.Title
	case "text":
		ev.Text = msg.Text.Body
	default:
		return Event{}, false
	}

	if answer, ok := classify(ev.ButtonID, ev.Text); ok {
		ev.Kind = EventReply
		ev.Response = answer
	} else {
		ev.Kind = EventUnclassified
	}
	return ev, true
}

// classify maps a button id or free text to a canonical answer. Button
// ids win; free text accepts the common yes/no spellings with and
// without the accent.
func classify(buttonID, text string) (string, bool) {
	switch buttonID {
	case "btn_si":
		return contact.ResponseYes, true
	case "btn_no":
		return contact.ResponseNo, true
	}

	switch strings.ToLower(strings.TrimSpace(text)) {
	case "si", "sí", "yes", "y":
		return contact.ResponseYes, true
	case "no", "n":
		return contact.ResponseNo, true
	}
	return "", false
}
