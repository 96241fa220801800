package notify

import (
	"encoding/json"
)

// Default payload assets. The receiver applies the same defaults when a
// payload omits them, so both ends agree on the wire contract.
const (
	DefaultIcon  = "/icons/askbox-192.png"
	DefaultBadge = "/icons/askbox-badge-72.png"
	DefaultTag   = "default"
)

// Payload is the push wire format shared with the client receiver. It is
// the only structured data a notification carries; URL is what a click
// navigates to.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
	Badge string `json:"badge,omitempty"`
	URL   string `json:"url"`
	Tag   string `json:"tag,omitempty"`
}

// Encode serializes the payload for the push relay
func (p Payload) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// Event is a domain occurrence the dispatcher turns into notifications
type Event interface {
	// TargetUserID is the single user whose devices should be notified;
	// empty means nobody (reported as NoSubscribers, not an error)
	TargetUserID() string

	// Payload builds the notification content for the target. It must only
	// contain information the target is entitled to see.
	Payload() Payload
}

// NewQuestion notifies a recipient that a question landed in their inbox.
// Preview carries the question text; SuppressPreview is the caller's
// opaque visibility policy and is honored without interpretation. The
// payload never names a sender: even for attributed questions the inbox
// view is where attribution belongs, not a lock-screen banner that
// bystanders can read.
type NewQuestion struct {
	QuestionID      string
	RecipientID     string
	Preview         string
	SuppressPreview bool
}

// TargetUserID implements Event
func (e NewQuestion) TargetUserID() string { return e.RecipientID }

// Payload implements Event
func (e NewQuestion) Payload() Payload {
	body := e.Preview
	if e.SuppressPreview {
		body = ""
	}
	return Payload{
		Title: "New question",
		Body:  body,
		Icon:  DefaultIcon,
		Badge: DefaultBadge,
		URL:   "/inbox",
		Tag:   "new-question",
	}
}

// NewAnswer notifies the original asker that their question was answered.
// The asker always learns their own question was answered - anonymity
// governs the recipient's view of the sender, never the asker's knowledge
// of having asked. AskerID is empty when the question had no stored
// sender, in which case there is nobody to notify.
type NewAnswer struct {
	QuestionID      string
	AskerID         string
	WasAnonymous    bool
	Preview         string
	SuppressPreview bool
}

// TargetUserID implements Event
func (e NewAnswer) TargetUserID() string { return e.AskerID }

// Payload implements Event
func (e NewAnswer) Payload() Payload {
	body := e.Preview
	if e.SuppressPreview {
		body = ""
	}
	return Payload{
		Title: "Your question was answered",
		Body:  body,
		Icon:  DefaultIcon,
		Badge: DefaultBadge,
		URL:   "/q/" + e.QuestionID,
		Tag:   "question-answered",
	}
}
