package whatsapp

import (
	"encoding/json"

	"github.com/torrico/rollcall/internal/message"
)

// Graph API payload shapes. Only the fields the campaign uses are
// modeled; see the Cloud API messages reference for the full set.

type textPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	RecipientType    string   `json:"recipient_type"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type interactivePayload struct {
	MessagingProduct string          `json:"messaging_product"`
	RecipientType    string          `json:"recipient_type"`
	To               string          `json:"to"`
	Type             string          `json:"type"`
	Interactive      interactiveBody `json:"interactive"`
}

type interactiveBody struct {
	Type   string            `json:"type"`
	Body   interactiveText   `json:"body"`
	Action interactiveAction `json:"action"`
}

type interactiveText struct {
	Text string `json:"text"`
}

type interactiveAction struct {
	Buttons []replyButton `json:"buttons"`
}

type replyButton struct {
	Type  string      `json:"type"`
	Reply buttonReply `json:"reply"`
}

type buttonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type templatePayload struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Template         templateBody `json:"template"`
}

type templateBody struct {
	Name       string              `json:"name"`
	Language   templateLanguage    `json:"language"`
	Components []templateComponent `json:"components"`
}

type templateLanguage struct {
	Code string `json:"code"`
}

type templateComponent struct {
	Type       string              `json:"type"`
	Parameters []templateParameter `json:"parameters"`
}

type templateParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func buildTextPayload(to, body string) ([]byte, error) {
	return json.Marshal(textPayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             textBody{PreviewURL: false, Body: body},
	})
}

func buildInteractivePayload(to, body string, buttons []message.Button) ([]byte, error) {
	p := interactivePayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive: interactiveBody{
			Type: "button",
			Body: interactiveText{Text: body},
		},
	}
	for _, b := range buttons {
		p.Interactive.Action.Buttons = append(p.Interactive.Action.Buttons, replyButton{
			Type:  "reply",
			Reply: buttonReply{ID: b.ID, Title: b.Title},
		})
	}
	return json.Marshal(p)
}

func buildTemplatePayload(to, name, language string, params []string) ([]byte, error) {
	p := templatePayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "template",
		Template: templateBody{
			Name:       name,
			Language:   templateLanguage{Code: language},
			Components: []templateComponent{},
		},
	}
	if len(params) > 0 {
		comp := templateComponent{Type: "body"}
		for _, v := range params {
			comp.Parameters = append(comp.Parameters, templateParameter{Type: "text", Text: v})
		}
		p.Template.Components = append(p.Template.Components, comp)
	}
	return json.Marshal(p)
}
