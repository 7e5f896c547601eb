package facematch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insight/internal/faceclient"
	"insight/internal/people"
	"insight/internal/queue"
)

type fakeCamera struct {
	openErr  error
	frame    string
	frameErr error
	opened   bool
	closed   bool
}

func (f *fakeCamera) Open(ctx context.Context) error {
	if f.openErr != nil {
		return f.openErr
	}
	f.opened = true
	return nil
}

func (f *fakeCamera) Frame(ctx context.Context) (string, error) {
	return f.frame, f.frameErr
}

func (f *fakeCamera) Close() error {
	f.closed = true
	return nil
}

type fakeRecognizer struct {
	res       *faceclient.RecognizeResult
	err       error
	healthErr error
}

func (f *fakeRecognizer) Recognize(ctx context.Context, image string, enrolled map[string]string) (*faceclient.RecognizeResult, error) {
	return f.res, f.err
}

func (f *fakeRecognizer) Health(ctx context.Context) error { return f.healthErr }

type fakeResolver struct {
	identity people.Identity
	err      error
	called   bool
}

func (f *fakeResolver) Resolve(ctx context.Context, id string) (people.Identity, error) {
	f.called = true
	return f.identity, f.err
}

type fakeGallery struct {
	faces map[string]string
	err   error
}

func (f *fakeGallery) EnrolledFaces(ctx context.Context) (map[string]string, error) {
	return f.faces, f.err
}

type captureQueue struct {
	msgs []queue.Message
	err  error
}

func (q *captureQueue) Publish(ctx context.Context, msg queue.Message) error {
	if q.err != nil {
		return q.err
	}
	q.msgs = append(q.msgs, msg)
	return nil
}

func (q *captureQueue) Consume(ctx context.Context) (<-chan queue.Message, error) {
	ch := make(chan queue.Message)
	close(ch)
	return ch, nil
}

func newTestSession(cam *fakeCamera, rec *fakeRecognizer, res *fakeResolver, q queue.Queue) *Session {
	return NewSession(cam, rec, res, &fakeGallery{faces: map[string]string{"1DS21CS001": "img"}}, q)
}

func TestMatchPublishesAttendanceJob(t *testing.T) {
	cam := &fakeCamera{frame: "frame-data"}
	rec := &fakeRecognizer{res: &faceclient.RecognizeResult{USN: "1DS21CS001", Confidence: 0.87}}
	res := &fakeResolver{identity: people.Identity{ID: "1DS21CS001", Name: "Asha Rao", Class: "10-A", Role: people.RoleStudent}}
	q := &captureQueue{}
	s := newTestSession(cam, rec, res, q)

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, StateCameraActive, s.State())

	result, err := s.CaptureAndRecognize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeMatched, result.Outcome)
	assert.Equal(t, 87, result.Confidence)
	assert.Equal(t, "Asha Rao", result.Identity.Name)
	assert.Equal(t, StateIdle, s.State(), "machine returns to idle after the attempt")
	assert.True(t, cam.closed, "camera released after the attempt")

	require.Len(t, q.msgs, 1)
	assert.Equal(t, queue.TypeAttendance, q.msgs[0].Type)
	var job queue.AttendanceJob
	require.NoError(t, json.Unmarshal(q.msgs[0].Body, &job))
	assert.Equal(t, "1DS21CS001", job.SubjectID)
	assert.Equal(t, 87, job.Confidence)
	assert.Equal(t, "student", job.Role)
}

func TestNoFaceIsUnmatchedWithoutLookup(t *testing.T) {
	cam := &fakeCamera{frame: "frame-data"}
	rec := &fakeRecognizer{res: &faceclient.RecognizeResult{USN: faceclient.NoFaceDetected}}
	res := &fakeResolver{}
	q := &captureQueue{}
	s := newTestSession(cam, rec, res, q)

	require.NoError(t, s.Start(context.Background()))
	result, err := s.CaptureAndRecognize(context.Background())
	require.NoError(t, err, "no face is a valid outcome, not an error")

	assert.Equal(t, OutcomeUnmatched, result.Outcome)
	assert.Equal(t, 0, result.Confidence)
	assert.False(t, res.called, "sentinel must not trigger an identity lookup")
	assert.Empty(t, q.msgs, "nothing is written for an unmatched attempt")
	assert.True(t, cam.closed)
}

func TestUnknownIdentifierIsUnmatched(t *testing.T) {
	cam := &fakeCamera{frame: "frame-data"}
	rec := &fakeRecognizer{res: &faceclient.RecognizeResult{USN: "ghost", Confidence: 0.9}}
	res := &fakeResolver{err: people.ErrNotFound}
	q := &captureQueue{}
	s := newTestSession(cam, rec, res, q)

	require.NoError(t, s.Start(context.Background()))
	result, err := s.CaptureAndRecognize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeUnmatched, result.Outcome)
	assert.Empty(t, q.msgs)
}

func TestCameraDeniedReturnsToIdleWithOneShotError(t *testing.T) {
	cam := &fakeCamera{openErr: errors.New("NotAllowedError")}
	s := newTestSession(cam, &fakeRecognizer{}, &fakeResolver{}, &captureQueue{})

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCameraDenied)
	assert.Equal(t, StateIdle, s.State(), "denial recovers to idle, not failed")

	// The user-facing error surfaces exactly once.
	assert.Error(t, s.ConsumeError())
	assert.NoError(t, s.ConsumeError())

	// A retry is allowed after denial.
	cam.openErr = nil
	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, StateCameraActive, s.State())
}

func TestRecognizerFailureReleasesCamera(t *testing.T) {
	cam := &fakeCamera{frame: "frame-data"}
	rec := &fakeRecognizer{err: errors.New("timeout")}
	s := newTestSession(cam, rec, &fakeResolver{}, &captureQueue{})

	require.NoError(t, s.Start(context.Background()))
	result, err := s.CaptureAndRecognize(context.Background())

	require.Error(t, err)
	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.True(t, cam.closed, "camera released on the failure path too")
	assert.Equal(t, StateIdle, s.State())
}

func TestPublishFailureDoesNotRevokeMatch(t *testing.T) {
	cam := &fakeCamera{frame: "frame-data"}
	rec := &fakeRecognizer{res: &faceclient.RecognizeResult{USN: "1DS21CS001", Confidence: 0.91}}
	res := &fakeResolver{identity: people.Identity{ID: "1DS21CS001", Name: "Asha Rao", Role: people.RoleStudent}}
	q := &captureQueue{err: errors.New("redis down")}
	s := newTestSession(cam, rec, res, q)

	require.NoError(t, s.Start(context.Background()))
	result, err := s.CaptureAndRecognize(context.Background())

	require.NoError(t, err, "the UI-visible result is already final")
	assert.Equal(t, OutcomeMatched, result.Outcome)
}

func TestStopReleasesCamera(t *testing.T) {
	cam := &fakeCamera{frame: "frame-data"}
	s := newTestSession(cam, &fakeRecognizer{}, &fakeResolver{}, &captureQueue{})

	require.NoError(t, s.Start(context.Background()))
	s.Stop()

	assert.True(t, cam.closed)
	assert.Equal(t, StateIdle, s.State())
}

func TestCaptureRequiresActiveCamera(t *testing.T) {
	s := newTestSession(&fakeCamera{}, &fakeRecognizer{}, &fakeResolver{}, &captureQueue{})
	_, err := s.CaptureAndRecognize(context.Background())
	require.Error(t, err)
}

func TestHealthWarningIsAdvisory(t *testing.T) {
	cam := &fakeCamera{frame: "frame-data"}
	rec := &fakeRecognizer{
		res:       &faceclient.RecognizeResult{USN: faceclient.NoFaceDetected},
		healthErr: errors.New("connection refused"),
	}
	s := newTestSession(cam, rec, &fakeResolver{}, &captureQueue{})

	warning := s.HealthWarning(context.Background())
	assert.NotEmpty(t, warning)

	// Capture stays permitted despite the warning.
	require.NoError(t, s.Start(context.Background()))
	_, err := s.CaptureAndRecognize(context.Background())
	require.NoError(t, err)
}
