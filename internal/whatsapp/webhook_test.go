package whatsapp

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torrico/rollcall/internal/contact"
)

const buttonReplyBody = `{
  "entry": [{
    "changes": [{
      "value": {
        "messages": [{
          "from": "573001234567",
          "id": "wamid.REPLY1",
          "timestamp": "1712345678",
          "type": "interactive",
          "interactive": {"button_reply": {"id": "btn_si", "title": "Sí confirmo ✅"}}
        }]
      }
    }]
  }]
}`

const statusBody = `{
  "entry": [{
    "changes": [{
      "value": {
        "statuses": [{
          "id": "wamid.SENT1",
          "status": "delivered",
          "recipient_id": "573001234567",
          "timestamp": "1712345678"
        }]
      }
    }]
  }]
}`

func textMessageBody(text string) string {
	return `{"entry":[{"changes":[{"value":{"messages":[{"from":"573001234567","id":"wamid.T1","type":"text","text":{"body":"` + text + `"}}]}}]}]}`
}

func TestDecodeEvents_ButtonReply(t *testing.T) {
	events, err := DecodeEvents(strings.NewReader(buttonReplyBody))
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, EventReply, ev.Kind)
	assert.Equal(t, "573001234567", ev.Phone)
	assert.Equal(t, contact.ResponseYes, ev.Response)
	assert.Equal(t, "btn_si", ev.ButtonID)
	assert.Equal(t, "wamid.REPLY1", ev.MessageID)
}

func TestDecodeEvents_FreeText(t *testing.T) {
	tests := []struct {
		text     string
		kind     EventKind
		response string
	}{
		{"Sí", EventReply, contact.ResponseYes},
		{"si", EventReply, contact.ResponseYes},
		{"SI", EventReply, contact.ResponseYes},
		{"yes", EventReply, contact.ResponseYes},
		{"y", EventReply, contact.ResponseYes},
		{"No", EventReply, contact.ResponseNo},
		{"n", EventReply, contact.ResponseNo},
		{"  no  ", EventReply, contact.ResponseNo},
		{"tal vez", EventUnclassified, ""},
		{"gracias", EventUnclassified, ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			events, err := DecodeEvents(strings.NewReader(textMessageBody(tt.text)))
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.Equal(t, tt.kind, events[0].Kind)
			assert.Equal(t, tt.response, events[0].Response)
		})
	}
}

func TestDecodeEvents_StatusUpdate(t *testing.T) {
	events, err := DecodeEvents(strings.NewReader(statusBody))
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, EventStatus, ev.Kind)
	assert.Equal(t, "delivered", ev.Status)
	assert.Equal(t, "wamid.SENT1", ev.MessageID)
	assert.Equal(t, "573001234567", ev.Phone)
}

func TestDecodeEvents_IgnoresOtherMessageTypes(t *testing.T) {
	body := `{"entry":[{"changes":[{"value":{"messages":[{"from":"573001234567","type":"image"}]}}]}]}`
	events, err := DecodeEvents(strings.NewReader(body))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDecodeEvents_EmptyEnvelope(t *testing.T) {
	events, err := DecodeEvents(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestVerifyChallenge(t *testing.T) {
	q := url.Values{}
	q.Set("hub.mode", "subscribe")
	q.Set("hub.verify_token", "secreto")
	q.Set("hub.challenge", "12345")

	challenge, ok := VerifyChallenge(q, "secreto")
	require.True(t, ok)
	assert.Equal(t, "12345", challenge)

	_, ok = VerifyChallenge(q, "otro")
	assert.False(t, ok)

	q.Set("hub.mode", "unsubscribe")
	_, ok = VerifyChallenge(q, "secreto")
	assert.False(t, ok)
}
