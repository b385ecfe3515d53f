package messaging

import (
	"fmt"

	"github.com/dtnitsch/web-clipper/models"
)

// Notification is what the UI shows the user after a clip.
type Notification struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Notify turns a reply into a user-facing notification.
func Notify(reply models.Message) Notification {
	switch reply.Type {
	case models.MessageClipData:
		if reply.Data == nil {
			return Notification{Success: false, Message: GenericFailure}
		}
		if reply.Data.Content == "" {
			return Notification{Success: true, Message: "Nothing to clip: the selection is empty"}
		}
		title := reply.Data.Title
		if title == "" {
			title = reply.Data.URL
		}
		if title == "" {
			return Notification{Success: true, Message: "Clip saved"}
		}
		return Notification{Success: true, Message: fmt.Sprintf("Clipped %q", title)}
	case models.MessageClipError:
		msg := reply.Error
		if msg == "" {
			msg = GenericFailure
		}
		return Notification{Success: false, Message: msg}
	default:
		return Notification{Success: false, Message: fmt.Sprintf("unexpected reply: %s", reply.Type)}
	}
}
