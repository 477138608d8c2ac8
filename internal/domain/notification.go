package domain

// NotificationKind names why a message was sent. It labels logs and metrics.
type NotificationKind string

const (
	NotifyWelcome       NotificationKind = "welcome"
	NotifyStatus        NotificationKind = "status_change"
	NotifyCompletion    NotificationKind = "completion"
	NotifyLeadAdmin     NotificationKind = "lead_admin"
	NotifyLeadAck       NotificationKind = "lead_ack"
	NotifyPasswordReset NotificationKind = "password_reset"
)

// Message is one outbound transactional email.
type Message struct {
	Kind    NotificationKind
	To      string
	Subject string
	Text    string
	HTML    string
}

// NotificationStats is a snapshot of delivery outcomes since start.
type NotificationStats struct {
	Sent   map[NotificationKind]int64 `json:"sent"`
	Failed map[NotificationKind]int64 `json:"failed"`
}
