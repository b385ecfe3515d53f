package models

// MessageType identifies a message exchanged with the clipping subsystem.
type MessageType string

const (
	MessageClipRequest MessageType = "CLIP_REQUEST"
	MessageClipData    MessageType = "CLIP_DATA"
	MessageClipError   MessageType = "CLIP_ERROR"
)

// Message is the envelope for requests and replies. Only the fields that
// belong to Type are set.
type Message struct {
	Type     MessageType `json:"type"`
	ClipType ClipKind    `json:"clipType,omitempty"`
	Data     *ClipResult `json:"data,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// NewClipData wraps a result in a CLIP_DATA reply.
func NewClipData(result *ClipResult) Message {
	return Message{Type: MessageClipData, Data: result}
}

// NewClipError wraps a failure in a CLIP_ERROR reply.
func NewClipError(msg string) Message {
	return Message{Type: MessageClipError, Error: msg}
}
