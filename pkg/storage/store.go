// Package storage owns the upload directory. Images are staged first
// and only moved to their final path once the database row referencing
// them is committed, so a failed transaction never leaves a live file
// behind.
package storage

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	stagingDir   = ".staging"
	maxDimension = 1600
	webpQuality  = 85
	dirMode      = 0o755
)

type Store struct {
	root   string
	logger *zap.Logger
}

func NewStore(root string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, stagingDir), dirMode); err != nil {
		return nil, fmt.Errorf("creating upload root: %w", err)
	}

	return &Store{root: root, logger: logger}, nil
}

// Staged is an upload written to the staging area and not yet visible
// at its final path.
type Staged struct {
	store       *Store
	stagingPath string
	finalRel    string
}

// FinalPath is the upload-root-relative path the file will occupy after
// Promote. This is the value persisted in the database.
func (s *Staged) FinalPath() string {
	return s.finalRel
}

// SetFinalPath assigns the final location after staging. Review photos
// need this: their path contains the review id, which only exists once
// the database row is inserted.
func (s *Staged) SetFinalPath(rel string) {
	s.finalRel = rel
}

// StageImage decodes the upload, bounds its dimensions, re-encodes it
// as webp and writes it under the staging directory keyed by a random
// name. The final location is recorded but not yet created.
func (s *Store) StageImage(reader io.Reader, finalRel string) (*Staged, error) {
	img, err := imaging.Decode(reader, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img = bound(img)

	stagingPath := filepath.Join(s.root, stagingDir, uuid.NewString()+imageExt)

	file, err := os.Create(stagingPath)
	if err != nil {
		return nil, fmt.Errorf("creating staged file: %w", err)
	}

	if err = webp.Encode(file, img, &webp.Options{Quality: webpQuality}); err != nil {
		err = multierr.Append(err, file.Close())
		err = multierr.Append(err, os.Remove(stagingPath))

		return nil, fmt.Errorf("encoding webp: %w", err)
	}

	if err = file.Close(); err != nil {
		return nil, multierr.Append(err, os.Remove(stagingPath))
	}

	return &Staged{store: s, stagingPath: stagingPath, finalRel: finalRel}, nil
}

// Promote moves the staged file to its final path. Rename is atomic on
// the same filesystem, so readers never observe a partial file.
func (s *Staged) Promote() error {
	finalPath := filepath.Join(s.store.root, filepath.FromSlash(s.finalRel))

	if err := os.MkdirAll(filepath.Dir(finalPath), dirMode); err != nil {
		return err
	}

	return os.Rename(s.stagingPath, finalPath)
}

// Discard removes the staged file after a failed transaction.
func (s *Staged) Discard() error {
	err := os.Remove(s.stagingPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// PromoteAll promotes staged uploads in order, undoing nothing on
// failure: the database rows are already committed at this point, so a
// missing file is logged and surfaced rather than rolled back.
func PromoteAll(staged []*Staged) error {
	var errs error

	for _, upload := range staged {
		errs = multierr.Append(errs, upload.Promote())
	}

	return errs
}

// DiscardAll removes every staged upload, collecting errors so one
// failure does not strand the rest.
func DiscardAll(staged []*Staged) error {
	var errs error

	for _, upload := range staged {
		errs = multierr.Append(errs, upload.Discard())
	}

	return errs
}

// Remove deletes a committed file by its stored relative path. A file
// already gone is not an error: the row is the source of truth.
func (s *Store) Remove(rel string) error {
	if rel == "" {
		return nil
	}

	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// RemoveAll deletes the given stored paths, logging but not failing on
// individual errors. Used on review deletion where the database rows
// are already gone.
func (s *Store) RemoveAll(rels []string) {
	for _, rel := range rels {
		if err := s.Remove(rel); err != nil {
			s.logger.Warn("failed to remove file", zap.String("path", rel), zap.Error(err))
		}
	}
}

func bound(img image.Image) image.Image {
	size := img.Bounds().Size()
	if size.X <= maxDimension && size.Y <= maxDimension {
		return img
	}

	return imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
}
