// Package mailer implements the email notification trigger. Callers must be
// signed in; validation failures surface as kind-tagged errors and transport
// failures are collapsed to a generic internal error.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

// Kind classifies trigger failures for the caller.
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindInvalidArgument Kind = "invalid-argument"
	KindInternal        Kind = "internal"
)

// Error is a kind-tagged failure.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf extracts the kind from an error, defaulting to internal.
func KindOf(err error) Kind {
	var me *Error
	if errors.As(err, &me) {
		return me.Kind
	}
	return KindInternal
}

// Message is one outbound email request.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Type    string `json:"type,omitempty"`
}

// Result mirrors the trigger's success payload.
type Result struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Type      string `json:"type,omitempty"`
	MessageID string `json:"messageId"`
}

// Transport delivers a rendered message.
type Transport interface {
	Deliver(ctx context.Context, from, fromName string, msg Message) error
}

// Service validates and sends email.
type Service struct {
	transport Transport
	from      string
	fromName  string
}

// NewService wires a service with the configured sender identity.
func NewService(transport Transport, from, fromName string) *Service {
	return &Service{transport: transport, from: from, fromName: fromName}
}

// Send validates the caller and message, then delivers. caller is the
// authenticated subject; an empty caller means the request was not signed in.
func (s *Service) Send(ctx context.Context, caller string, msg Message) (Result, error) {
	if caller == "" {
		return Result{}, &Error{Kind: KindUnauthenticated, Message: "user must be authenticated"}
	}
	if msg.To == "" || msg.Subject == "" || msg.HTML == "" {
		return Result{}, &Error{Kind: KindInvalidArgument, Message: "missing required fields: to, subject, html"}
	}
	if _, err := mail.ParseAddress(msg.To); err != nil {
		return Result{}, &Error{Kind: KindInvalidArgument, Message: "invalid recipient address"}
	}

	if err := s.transport.Deliver(ctx, s.from, s.fromName, msg); err != nil {
		// The underlying cause stays server-side.
		return Result{}, &Error{Kind: KindInternal, Message: "failed to send email", cause: err}
	}

	return Result{
		Success:   true,
		Message:   fmt.Sprintf("Email sent to %s", msg.To),
		Type:      msg.Type,
		MessageID: uuid.NewString(),
	}, nil
}

// WelcomeStudent builds the enrollment notification for a new student.
func WelcomeStudent(schoolName, firstName, lastName, rollNo, class, section string) Message {
	name := strings.TrimSpace(firstName + " " + lastName)
	html := fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
  <h2 style="color:#A982D9">Welcome to %s!</h2>
  <p>Dear %s,</p>
  <p>Your enrollment is complete. Here are your details:</p>
  <ul>
    <li><strong>Roll Number:</strong> %s</li>
    <li><strong>Class:</strong> %s - %s</li>
  </ul>
  <p>Attendance is tracked automatically; reports are available from the school office.</p>
  <p style="color:#999;font-size:12px">%s</p>
</div>`, schoolName, name, rollNo, class, section, schoolName)
	return Message{
		Subject: fmt.Sprintf("Welcome to %s! - Roll Number: %s", schoolName, rollNo),
		HTML:    html,
		Type:    "student",
	}
}

// WelcomeTeacher builds the onboarding notification for a new teacher.
func WelcomeTeacher(schoolName, firstName, lastName, teacherID, subject string) Message {
	name := strings.TrimSpace(firstName + " " + lastName)
	html := fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
  <h2 style="color:#A982D9">Welcome to %s!</h2>
  <p>Dear %s,</p>
  <p>Your staff profile has been created.</p>
  <ul>
    <li><strong>Teacher ID:</strong> %s</li>
    <li><strong>Subject:</strong> %s</li>
  </ul>
  <p style="color:#999;font-size:12px">%s</p>
</div>`, schoolName, name, teacherID, subject, schoolName)
	return Message{
		Subject: fmt.Sprintf("Welcome to %s!", schoolName),
		HTML:    html,
		Type:    "teacher",
	}
}
