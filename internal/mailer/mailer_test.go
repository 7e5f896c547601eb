package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMessage() Message {
	return Message{To: "parent@example.com", Subject: "Welcome", HTML: "<p>hi</p>", Type: "student"}
}

func TestSendRequiresAuthenticatedCaller(t *testing.T) {
	svc := NewService(NewConsoleTransport(), "no-reply@insight.local", "Insight")

	_, err := svc.Send(context.Background(), "", validMessage())
	require.Error(t, err)
	assert.Equal(t, KindUnauthenticated, KindOf(err))
}

func TestSendValidatesFields(t *testing.T) {
	svc := NewService(NewConsoleTransport(), "no-reply@insight.local", "Insight")

	tests := []struct {
		name string
		msg  Message
	}{
		{name: "missing to", msg: Message{Subject: "s", HTML: "h"}},
		{name: "missing subject", msg: Message{To: "a@b.com", HTML: "h"}},
		{name: "missing html", msg: Message{To: "a@b.com", Subject: "s"}},
		{name: "bad address", msg: Message{To: "not-an-address", Subject: "s", HTML: "h"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Send(context.Background(), "admin@insight.local", tt.msg)
			require.Error(t, err)
			assert.Equal(t, KindInvalidArgument, KindOf(err))
		})
	}
}

func TestSendTransportFailureIsObscured(t *testing.T) {
	transport := NewConsoleTransport()
	transport.Fail = errors.New("smtp: 550 relay denied for secret-internal-host")
	svc := NewService(transport, "no-reply@insight.local", "Insight")

	_, err := svc.Send(context.Background(), "admin@insight.local", validMessage())
	require.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))
	// The caller-visible message never leaks the transport detail.
	assert.NotContains(t, err.Error(), "secret-internal-host")
	// The cause stays reachable for server-side logging.
	assert.ErrorContains(t, errors.Unwrap(err.(*Error)), "relay denied")
}

func TestSendSuccess(t *testing.T) {
	transport := NewConsoleTransport()
	svc := NewService(transport, "no-reply@insight.local", "Insight")

	result, err := svc.Send(context.Background(), "admin@insight.local", validMessage())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "Email sent to parent@example.com", result.Message)
	assert.Equal(t, "student", result.Type)
	assert.NotEmpty(t, result.MessageID)

	sent := transport.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "parent@example.com", sent[0].To)
}

func TestKindOfDefaultsToInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestWelcomeBuilders(t *testing.T) {
	st := WelcomeStudent("Insight", "Asha", "Rao", "1DS21CS001", "10", "A")
	assert.Equal(t, "student", st.Type)
	assert.Contains(t, st.Subject, "1DS21CS001")
	assert.Contains(t, st.HTML, "Asha Rao")
	assert.Contains(t, st.HTML, "10 - A")

	te := WelcomeTeacher("Insight", "R", "Iyer", "T-07", "Physics")
	assert.Equal(t, "teacher", te.Type)
	assert.Contains(t, te.HTML, "T-07")
	assert.Contains(t, te.HTML, "Physics")
}
