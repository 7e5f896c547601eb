package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrAlreadyMarked is returned when a subject already has a record for the day.
var ErrAlreadyMarked = errors.New("attendance already marked for today")

// Service coordinates attendance reads, writes and aggregation.
type Service struct {
	repo *Repository
	now  func() time.Time
}

// NewService creates a service backed by a repository.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock overrides the clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// List proxies filtered reads.
func (s *Service) List(ctx context.Context, f Filter) ([]Record, error) {
	return s.repo.List(ctx, f)
}

// Add validates and inserts a manually entered record.
func (s *Service) Add(ctx context.Context, rec Record) (Record, error) {
	if rec.SubjectID == "" {
		return Record{}, errors.New("subject id required")
	}
	if !rec.Status.Valid() {
		return Record{}, fmt.Errorf("invalid status %q", rec.Status)
	}
	if rec.Date.IsZero() {
		rec.Date = NewDate(s.now())
	}
	return s.repo.Insert(ctx, rec)
}

// Update rewrites a record's mutable fields.
func (s *Service) Update(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		return errors.New("record id required")
	}
	if !rec.Status.Valid() {
		return fmt.Errorf("invalid status %q", rec.Status)
	}
	return s.repo.Update(ctx, rec)
}

// Delete removes a record by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Stats fetches everything and folds it into the derived chart shapes.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	records, err := s.repo.List(ctx, Filter{Limit: 10000})
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(records), nil
}

// DailySummary folds one day's records.
func (s *Service) DailySummary(ctx context.Context, day Date) (Summary, error) {
	t := day.Time
	records, err := s.repo.List(ctx, Filter{Date: &t})
	if err != nil {
		return Summary{}, err
	}
	return Summarize(records), nil
}

// ClassSummary folds one class's records.
func (s *Service) ClassSummary(ctx context.Context, class string) (Summary, error) {
	records, err := s.repo.List(ctx, Filter{Class: class})
	if err != nil {
		return Summary{}, err
	}
	return Summarize(records), nil
}

// PersonSummary folds one person's records.
func (s *Service) PersonSummary(ctx context.Context, subjectID string) (Summary, error) {
	records, err := s.repo.List(ctx, Filter{SubjectID: subjectID})
	if err != nil {
		return Summary{}, err
	}
	return Summarize(records), nil
}

// MarkRecognized records a Present entry for a person identified by the face
// recognizer. At most one record per subject per calendar day; a duplicate
// returns ErrAlreadyMarked.
func (s *Service) MarkRecognized(ctx context.Context, subjectID, subjectName, class string, confidence int) (Record, error) {
	if subjectID == "" {
		return Record{}, errors.New("subject id required")
	}
	now := s.now()
	today := NewDate(now)

	exists, err := s.repo.ExistsForDay(ctx, subjectID, today)
	if err != nil {
		return Record{}, err
	}
	if exists {
		return Record{}, ErrAlreadyMarked
	}

	rec := Record{
		SubjectID:   subjectID,
		SubjectName: subjectName,
		Class:       class,
		Date:        today,
		Status:      StatusPresent,
		Time:        now.Format("03:04:05 PM"),
		Confidence:  &confidence,
		Method:      "Face Recognition",
		Remarks:     fmt.Sprintf("Face recognized with %d%% confidence", confidence),
	}
	return s.repo.Insert(ctx, rec)
}
