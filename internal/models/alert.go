// internal/models/alert.go
package models

// AlertNotice is what the notification sink sends for a community alert.
type AlertNotice struct {
	Level     Level    `json:"level"`
	Message   string   `json:"message"`
	Channels  []string `json:"channels"`
	Immediate []string `json:"immediate"`
	Delayed   []string `json:"delayed"`
}

// Alertable is implemented by reports that should notify the community.
type Alertable interface {
	AlertNotice() (AlertNotice, bool)
}
