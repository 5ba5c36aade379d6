package messages

import "time"

type StatusChanged struct {
	HomeworkID     string    `json:"homework_id"`
	HomeworkName   string    `json:"homework_name"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Verdict        string    `json:"verdict"`
	ChangedAt      time.Time `json:"changed_at"`
}
