// Package whatsapp talks to the WhatsApp Cloud API.
//
// The client builds Graph API payloads for text, interactive-button and
// pre-approved template messages and returns the provider message id on
// acceptance. The webhook side decodes inbound notifications into flat
// events: a classified yes/no reply, an unclassified free-text message,
// or a delivery status update.
package whatsapp
