package core

// Severity of a notification shown to the user.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a transient message for the notification surface.
type Notification struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Code     string   `json:"code,omitempty"`
}

// Success builds a success notification.
func Success(msg string) Notification {
	return Notification{Severity: SeveritySuccess, Message: msg}
}

// Warning builds a warning notification.
func Warning(msg string) Notification {
	return Notification{Severity: SeverityWarning, Message: msg}
}

// Failure builds an error notification from err using its user message.
func Failure(err error) Notification {
	msg := MapError(err)
	return Notification{
		Severity: SeverityError,
		Message:  FormatUserError(err),
		Code:     msg.Code,
	}
}
