package queue

import (
	"context"
	"encoding/json"
)

// Message types understood by the worker.
const (
	TypeAttendance = "attendance"
	TypeEmail      = "email"
)

// AttendanceJob is a detached attendance write queued by the face-match flow.
// The UI-visible match result is already final when this is published; the
// worker is the error channel for the write.
type AttendanceJob struct {
	SubjectID   string `json:"subjectId"`
	SubjectName string `json:"subjectName"`
	Class       string `json:"class,omitempty"`
	Role        string `json:"role"`
	Confidence  int    `json:"confidence"`
}

// EmailJob is a queued outbound email.
type EmailJob struct {
	Caller  string `json:"caller"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Type    string `json:"type,omitempty"`
}

// PublishJSON marshals a job and publishes it under the given type.
func PublishJSON(ctx context.Context, q Queue, msgType string, job any) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.Publish(ctx, Message{Type: msgType, Body: body})
}
