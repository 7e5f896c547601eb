// Package facematch drives the capture-and-recognize attendance flow: acquire
// the camera, grab one still frame, submit it with the enrolled gallery to the
// recognizer, resolve the returned identifier to a person, and queue the
// attendance write.
package facematch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"insight/internal/faceclient"
	"insight/internal/people"
	"insight/internal/queue"
)

// State of a session. Transitions:
// Idle → CameraRequested → CameraActive → Capturing → AwaitingRecognition →
// Matched|Unmatched|Failed → Idle.
type State int

const (
	StateIdle State = iota
	StateCameraRequested
	StateCameraActive
	StateCapturing
	StateAwaitingRecognition
	StateMatched
	StateUnmatched
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCameraRequested:
		return "camera_requested"
	case StateCameraActive:
		return "camera_active"
	case StateCapturing:
		return "capturing"
	case StateAwaitingRecognition:
		return "awaiting_recognition"
	case StateMatched:
		return "matched"
	case StateUnmatched:
		return "unmatched"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// ErrCameraDenied marks a refused media permission. Recoverable: the user can
// retry after granting access.
var ErrCameraDenied = errors.New("camera permission denied")

// FrameSource is the camera abstraction. Open may fail with a permission
// error; Close must be safe to call on every exit path.
type FrameSource interface {
	Open(ctx context.Context) error
	// Frame returns the current frame as a base64 JPEG still. Synchronous;
	// no network involved.
	Frame(ctx context.Context) (string, error)
	Close() error
}

// Recognizer is the subset of the face service client the session needs.
type Recognizer interface {
	Recognize(ctx context.Context, image string, enrolledFaces map[string]string) (*faceclient.RecognizeResult, error)
	Health(ctx context.Context) error
}

// Resolver maps a recognizer identifier to a person record.
type Resolver interface {
	Resolve(ctx context.Context, id string) (people.Identity, error)
}

// Gallery loads the enrolled reference images, keyed by identifier.
type Gallery interface {
	EnrolledFaces(ctx context.Context) (map[string]string, error)
}

// Outcome of a recognition attempt.
type Outcome int

const (
	OutcomeMatched Outcome = iota
	OutcomeUnmatched
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeUnmatched:
		return "unmatched"
	}
	return "failed"
}

// Result is what the UI shows after an attempt.
type Result struct {
	Outcome    Outcome         `json:"outcome"`
	Identity   people.Identity `json:"identity,omitempty"`
	Confidence int             `json:"confidence"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Session is one camera-to-attendance interaction. Not safe for concurrent
// use by multiple goroutines beyond the internal locking; a session belongs
// to one kiosk/browser interaction at a time.
type Session struct {
	camera     FrameSource
	recognizer Recognizer
	resolver   Resolver
	gallery    Gallery
	jobs       queue.Queue
	now        func() time.Time

	mu         sync.Mutex
	state      State
	cameraOpen bool
	pendingErr error
}

// NewSession wires a session.
func NewSession(camera FrameSource, recognizer Recognizer, resolver Resolver, gallery Gallery, jobs queue.Queue) *Session {
	return &Session{
		camera:     camera,
		recognizer: recognizer,
		resolver:   resolver,
		gallery:    gallery,
		jobs:       jobs,
		now:        time.Now,
	}
}

// WithClock overrides the clock, for tests.
func (s *Session) WithClock(now func() time.Time) *Session {
	s.now = now
	return s
}

// State returns the current machine state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ConsumeError returns the pending user-facing error exactly once; later
// calls return nil until a new failure occurs. This keeps a denied camera
// from re-alerting on every render.
func (s *Session) ConsumeError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.pendingErr
	s.pendingErr = nil
	return err
}

// HealthWarning probes the recognizer before an attempt. The warning is
// advisory: capture stays permitted either way.
func (s *Session) HealthWarning(ctx context.Context) string {
	if err := s.recognizer.Health(ctx); err != nil {
		return fmt.Sprintf("face service unavailable: %v", err)
	}
	return ""
}

// Start acquires the camera. On permission denial the machine returns to Idle
// with ErrCameraDenied queued as the one-shot user-facing error.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return fmt.Errorf("cannot start from state %s", s.state)
	}
	s.state = StateCameraRequested
	s.mu.Unlock()

	err := s.camera.Open(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateIdle
		s.pendingErr = fmt.Errorf("%w: %v", ErrCameraDenied, err)
		return s.pendingErr
	}
	s.cameraOpen = true
	s.state = StateCameraActive
	return nil
}

// CaptureAndRecognize grabs one frame, runs it past the recognizer and
// resolves the identity. The camera is released on every exit path and the
// machine ends back at Idle. On a match, the attendance write is published to
// the job queue fire-and-forget: a publish failure is logged and counted but
// does not revoke the match.
func (s *Session) CaptureAndRecognize(ctx context.Context) (Result, error) {
	s.mu.Lock()
	if s.state != StateCameraActive {
		s.mu.Unlock()
		return Result{}, fmt.Errorf("cannot capture from state %s", s.state)
	}
	s.state = StateCapturing
	s.mu.Unlock()

	defer s.teardown()

	frame, err := s.camera.Frame(ctx)
	if err != nil {
		return s.fail(fmt.Errorf("capture frame: %w", err))
	}

	s.setState(StateAwaitingRecognition)

	enrolled, err := s.gallery.EnrolledFaces(ctx)
	if err != nil {
		return s.fail(fmt.Errorf("load enrolled faces: %w", err))
	}

	res, err := s.recognizer.Recognize(ctx, frame, enrolled)
	if err != nil {
		return s.fail(fmt.Errorf("recognize: %w", err))
	}

	// "No face detected" is a valid outcome, not a retryable failure. No
	// identity lookup happens.
	if res.NoFace() {
		s.setState(StateUnmatched)
		recognitionsTotal.WithLabelValues("unmatched").Inc()
		return Result{Outcome: OutcomeUnmatched, Confidence: 0, Timestamp: s.now()}, nil
	}

	identity, err := s.resolver.Resolve(ctx, res.USN)
	if err != nil {
		if errors.Is(err, people.ErrNotFound) {
			s.setState(StateUnmatched)
			recognitionsTotal.WithLabelValues("unmatched").Inc()
			return Result{Outcome: OutcomeUnmatched, Confidence: 0, Timestamp: s.now()}, nil
		}
		return s.fail(fmt.Errorf("resolve identity: %w", err))
	}

	confidence := int(res.Confidence*100 + 0.5)
	s.setState(StateMatched)
	recognitionsTotal.WithLabelValues("matched").Inc()

	job := queue.AttendanceJob{
		SubjectID:   identity.ID,
		SubjectName: identity.Name,
		Class:       identity.Class,
		Role:        string(identity.Role),
		Confidence:  confidence,
	}
	if err := queue.PublishJSON(ctx, s.jobs, queue.TypeAttendance, job); err != nil {
		log.Printf("attendance write publish failed for %s: %v", identity.ID, err)
		writePublishFailures.Inc()
	}

	return Result{
		Outcome:    OutcomeMatched,
		Identity:   identity,
		Confidence: confidence,
		Timestamp:  s.now(),
	}, nil
}

// Stop releases the camera and returns to Idle. Safe to call at any point;
// an in-flight recognition reply is discarded because the machine has moved on.
func (s *Session) Stop() {
	s.teardown()
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Session) fail(err error) (Result, error) {
	s.setState(StateFailed)
	recognitionsTotal.WithLabelValues("failed").Inc()
	s.mu.Lock()
	s.pendingErr = err
	s.mu.Unlock()
	return Result{Outcome: OutcomeFailed, Timestamp: s.now()}, err
}

func (s *Session) teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cameraOpen {
		if err := s.camera.Close(); err != nil {
			log.Printf("camera close failed: %v", err)
		}
		s.cameraOpen = false
	}
	s.state = StateIdle
}
