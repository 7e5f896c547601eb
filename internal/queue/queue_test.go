package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeRoundTrip(t *testing.T) {
	msg := Message{Type: TypeAttendance, Body: []byte(`{"subjectId":"s|1"}`)}
	got := deserialize(serialize(msg))
	assert.Equal(t, msg.Type, got.Type)
	assert.Equal(t, msg.Body, got.Body, "body may contain the separator byte")
}

func TestDeserializeWithoutType(t *testing.T) {
	got := deserialize("no-separator-here")
	assert.Empty(t, got.Type)
	assert.Equal(t, []byte("no-separator-here"), got.Body)
}

func TestInMemoryPublishConsume(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	q := NewInMemory(4)
	require.NoError(t, PublishJSON(ctx, q, TypeEmail, EmailJob{To: "a@b.com", Subject: "s"}))

	msgs, err := q.Consume(ctx)
	require.NoError(t, err)

	select {
	case msg := <-msgs:
		assert.Equal(t, TypeEmail, msg.Type)
		var job EmailJob
		require.NoError(t, json.Unmarshal(msg.Body, &job))
		assert.Equal(t, "a@b.com", job.To)
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}

func TestInMemoryPublishBlockedByCancel(t *testing.T) {
	q := NewInMemory(1)
	ctx := context.Background()
	require.NoError(t, q.Publish(ctx, Message{Type: "x"}))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err := q.Publish(cancelled, Message{Type: "y"})
	assert.ErrorIs(t, err, context.Canceled)
}
