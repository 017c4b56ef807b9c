package notification

// Payload is the notification shown on the device. Field names follow
// the browser Notification options so the service worker can pass the
// decoded payload straight through to showNotification.
type Payload struct {
	Title              string   `json:"title"`
	Body               string   `json:"body"`
	Icon               string   `json:"icon,omitempty"`
	Badge              string   `json:"badge,omitempty"`
	Tag                string   `json:"tag,omitempty"`
	RequireInteraction bool     `json:"requireInteraction"`
	Actions            []Action `json:"actions,omitempty"`
	Data               Data     `json:"data"`
}

// Action describes a button rendered on the notification.
type Action struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// Data is the payload's data block. CallURL points back at this server's
// /call page, which performs the tel: redirect when the notification is
// tapped.
type Data struct {
	CallURL     string `json:"url"`
	PhoneNumber string `json:"phoneNumber"`
}

// NewCallAlert builds the payload for an inbound call-alert event. The
// tag makes newer alerts replace older ones instead of stacking, and
// requireInteraction keeps the notification on screen until the
// salesperson acts on it.
func NewCallAlert(phoneNumber, callURL string) *Payload {
	return &Payload{
		Title:              "Call task",
		Body:               "Tap to call " + phoneNumber,
		Icon:               "/icons/icon-192.png",
		Badge:              "/icons/badge-72.png",
		Tag:                "call-alert",
		RequireInteraction: true,
		Actions: []Action{
			{Action: "call", Title: "Call now"},
		},
		Data: Data{
			CallURL:     callURL,
			PhoneNumber: phoneNumber,
		},
	}
}
