package facematch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"insight/internal/faceclient"
)

// FaceStore persists enrolled reference images in the face_data table.
type FaceStore struct {
	db *sql.DB
}

// NewFaceStore creates the store.
func NewFaceStore(db *sql.DB) *FaceStore {
	return &FaceStore{db: db}
}

// EnrolledFaces returns every enrolled image keyed by identifier.
func (s *FaceStore) EnrolledFaces(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT usn, image FROM face_data`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	faces := make(map[string]string)
	for rows.Next() {
		var usn, image string
		if err := rows.Scan(&usn, &image); err != nil {
			return nil, err
		}
		faces[usn] = image
	}
	return faces, rows.Err()
}

// Save upserts a reference image for an identifier.
func (s *FaceStore) Save(ctx context.Context, usn, role, image string) error {
	if usn == "" || image == "" {
		return errors.New("usn and image required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO face_data (usn, role, image)
		VALUES ($1, $2, $3)
		ON CONFLICT (usn) DO UPDATE SET image = EXCLUDED.image, role = EXCLUDED.role
	`, usn, role, image)
	return err
}

// Enroller registers reference images with both the recognizer and the local
// gallery, so later recognition requests can ship the full enrolled set.
type Enroller struct {
	client *faceclient.Client
	store  *FaceStore
}

// NewEnroller wires an enroller.
func NewEnroller(client *faceclient.Client, store *FaceStore) *Enroller {
	return &Enroller{client: client, store: store}
}

// Enroll submits the image to the recognizer and persists the normalized face
// crop it returns (falling back to the original image when the service
// returns none).
func (e *Enroller) Enroll(ctx context.Context, usn, role, image string) error {
	res, err := e.client.Enroll(ctx, usn, image)
	if err != nil {
		return fmt.Errorf("enroll face: %w", err)
	}
	stored := res.FaceBase64
	if stored == "" {
		stored = image
	}
	return e.store.Save(ctx, usn, role, stored)
}

// StillFrame adapts a single browser-submitted frame to the FrameSource
// interface; the media stream itself lives on the client, so Open always
// succeeds and Close is a no-op.
type StillFrame struct {
	Image string
}

// Open is a no-op for a pre-captured frame.
func (f *StillFrame) Open(ctx context.Context) error { return nil }

// Frame returns the submitted still.
func (f *StillFrame) Frame(ctx context.Context) (string, error) {
	if f.Image == "" {
		return "", errors.New("empty frame")
	}
	return f.Image, nil
}

// Close is a no-op for a pre-captured frame.
func (f *StillFrame) Close() error { return nil }
