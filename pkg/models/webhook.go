package models

import "strings"

// WebhookEvent represents the incoming JSON payload from the Evolution API.
// Unknown fields are ignored by encoding/json, which matches the gateway's
// habit of adding fields between versions.
type WebhookEvent struct {
	Event    string     `json:"event"`
	Instance string     `json:"instance"`
	Sender   string     `json:"sender,omitempty"`
	Data     *EventData `json:"data,omitempty"`
}

type EventData struct {
	Key      *MessageKey   `json:"key,omitempty"`
	PushName string        `json:"pushName,omitempty"`
	Message  *EventMessage `json:"message,omitempty"`
	// Base64 carries inline media when the gateway is configured to embed it.
	Base64   string `json:"base64,omitempty"`
	MimeType string `json:"mimetype,omitempty"`
}

type MessageKey struct {
	RemoteJid string `json:"remoteJid"`
	FromMe    bool   `json:"fromMe"`
	ID        string `json:"id"`
}

// EventMessage is the union of message shapes the gateway delivers. Exactly
// one of the pointers is set for a well-formed event.
type EventMessage struct {
	Conversation    string           `json:"conversation,omitempty"`
	ExtendedText    *ExtendedText    `json:"extendedTextMessage,omitempty"`
	Image           *MediaMessage    `json:"imageMessage,omitempty"`
	Audio           *MediaMessage    `json:"audioMessage,omitempty"`
	Voice           *MediaMessage    `json:"voiceMessage,omitempty"`
	Document        *DocumentMessage `json:"documentMessage,omitempty"`
	Sticker         *MediaMessage    `json:"stickerMessage,omitempty"`
	ListResponse    *ListResponse    `json:"listResponseMessage,omitempty"`
	ButtonsResponse *ButtonsResponse `json:"buttonsResponseMessage,omitempty"`
}

type ExtendedText struct {
	Text string `json:"text"`
}

type MediaMessage struct {
	URL      string `json:"url,omitempty"`
	MimeType string `json:"mimetype,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

type DocumentMessage struct {
	URL      string `json:"url,omitempty"`
	MimeType string `json:"mimetype,omitempty"`
	Caption  string `json:"caption,omitempty"`
	FileName string `json:"fileName,omitempty"`
}

type ListResponse struct {
	Title             string             `json:"title,omitempty"`
	SingleSelectReply *SingleSelectReply `json:"singleSelectReply,omitempty"`
}

type SingleSelectReply struct {
	SelectedRowID string `json:"selectedRowId"`
}

type ButtonsResponse struct {
	SelectedButtonID string `json:"selectedButtonId"`
}

// --- Accessors ---

// IsGroupChat reports whether the message came from a group jid.
func (w *WebhookEvent) IsGroupChat() bool {
	return w.Data != nil && w.Data.Key != nil && strings.HasSuffix(w.Data.Key.RemoteJid, "@g.us")
}

func (w *WebhookEvent) HasImage() bool {
	return w.Data != nil && w.Data.Message != nil && w.Data.Message.Image != nil
}

// HasAudio covers both names the gateway uses for voice notes.
func (w *WebhookEvent) HasAudio() bool {
	return w.Data != nil && w.Data.Message != nil &&
		(w.Data.Message.Audio != nil || w.Data.Message.Voice != nil)
}

func (w *WebhookEvent) HasDocument() bool {
	return w.Data != nil && w.Data.Message != nil && w.Data.Message.Document != nil
}

func (w *WebhookEvent) HasSticker() bool {
	return w.Data != nil && w.Data.Message != nil && w.Data.Message.Sticker != nil
}

// MessageText extracts the best textual content of the event: plain text,
// extended text, an image caption, or the identifier of a tapped list row or
// button. Returns "" when the event carries no text at all.
func (w *WebhookEvent) MessageText() string {
	if w.Data == nil || w.Data.Message == nil {
		return ""
	}
	m := w.Data.Message
	if m.Conversation != "" {
		return m.Conversation
	}
	if m.ExtendedText != nil && m.ExtendedText.Text != "" {
		return m.ExtendedText.Text
	}
	if m.Image != nil && m.Image.Caption != "" {
		return m.Image.Caption
	}
	if m.ListResponse != nil && m.ListResponse.SingleSelectReply != nil {
		return m.ListResponse.SingleSelectReply.SelectedRowID
	}
	if m.ButtonsResponse != nil {
		return m.ButtonsResponse.SelectedButtonID
	}
	return ""
}

// PhoneNumber returns the sender address with the jid suffix stripped, or ""
// when the key is missing.
func (w *WebhookEvent) PhoneNumber() string {
	if w.Data == nil || w.Data.Key == nil {
		return ""
	}
	return strings.TrimSuffix(w.Data.Key.RemoteJid, "@s.whatsapp.net")
}

// MessageID returns the gateway's unique message identifier, or "".
func (w *WebhookEvent) MessageID() string {
	if w.Data == nil || w.Data.Key == nil {
		return ""
	}
	return w.Data.Key.ID
}

// MimeType returns the media mime type of whichever media slot is filled.
func (w *WebhookEvent) MimeType() string {
	if w.Data == nil {
		return ""
	}
	if w.Data.MimeType != "" {
		return w.Data.MimeType
	}
	if w.Data.Message == nil {
		return ""
	}
	m := w.Data.Message
	switch {
	case m.Image != nil:
		return m.Image.MimeType
	case m.Audio != nil:
		return m.Audio.MimeType
	case m.Voice != nil:
		return m.Voice.MimeType
	case m.Document != nil:
		return m.Document.MimeType
	}
	return ""
}
