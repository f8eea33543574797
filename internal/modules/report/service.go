// README: Report service validates submissions, stores evidence and persists reports.
package report

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fairride/internal/types"
)

const (
	MaxPhotoBytes    = 10 << 20
	maxDescription   = 2000
	maxCustomType    = 60
	defaultListLimit = 50
)

type Repository interface {
	Create(ctx context.Context, r *Report) error
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]Report, error)
}

type Service struct {
	store  Repository
	photos PhotoStore
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewService(store Repository, photos PhotoStore, log logrus.FieldLogger) *Service {
	return &Service{store: store, photos: photos, log: log, now: time.Now}
}

// Submit validates and saves a report. An attached photo is uploaded first;
// a failed upload aborts the submission.
func (s *Service) Submit(ctx context.Context, sub Submission) (Report, error) {
	label, err := validate(sub)
	if err != nil {
		return Report{}, err
	}

	id := types.ID(uuid.NewString())
	photoURL := strings.TrimSpace(sub.PhotoURL)
	var uploaded string
	if sub.Photo != nil {
		if s.photos == nil {
			return Report{}, fmt.Errorf("%w: photo storage not configured", ErrPhoto)
		}
		key := photoKey(sub.OwnerID, id, sub.Photo.Filename)
		url, err := s.photos.Upload(ctx, key, sub.Photo.ContentType, sub.Photo.Body)
		if err != nil {
			s.log.WithError(err).WithField("report_id", id).Error("upload report photo")
			return Report{}, fmt.Errorf("%w: %w", ErrPhoto, err)
		}
		photoURL, uploaded = url, key
	}

	r := &Report{
		ID:          id,
		OwnerID:     sub.OwnerID,
		Type:        label,
		MTOPID:      strings.TrimSpace(sub.MTOPID),
		Description: strings.TrimSpace(sub.Description),
		PhotoURL:    photoURL,
		Location:    sub.Location,
		TripID:      sub.TripID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Create(ctx, r); err != nil {
		if uploaded != "" {
			s.discardPhoto(ctx, uploaded)
		}
		return Report{}, err
	}

	s.log.WithFields(logrus.Fields{
		"report_id": id,
		"owner_id":  sub.OwnerID,
		"mtop_id":   r.MTOPID,
		"type":      label,
	}).Info("report submitted")
	return *r, nil
}

// discardPhoto removes an upload whose report was never saved. The request
// context may already be done, so deletion runs detached from its cancellation.
func (s *Service) discardPhoto(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.photos.Delete(ctx, key); err != nil {
		s.log.WithError(err).WithField("photo_key", key).Error("orphaned report photo")
	}
}

func (s *Service) List(ctx context.Context, ownerID string) ([]Report, error) {
	return s.store.ListByOwner(ctx, ownerID, defaultListLimit)
}

// validate returns the stored type label: the fixed type name, or the
// rider's own wording for TypeOthers.
func validate(sub Submission) (string, error) {
	if strings.TrimSpace(sub.OwnerID) == "" {
		return "", fmt.Errorf("%w: owner is required", ErrValidation)
	}
	if strings.TrimSpace(sub.MTOPID) == "" {
		return "", fmt.Errorf("%w: mtop id is required", ErrValidation)
	}
	desc := strings.TrimSpace(sub.Description)
	if desc == "" {
		return "", fmt.Errorf("%w: description is required", ErrValidation)
	}
	if len(desc) > maxDescription {
		return "", fmt.Errorf("%w: description too long", ErrValidation)
	}
	if sub.Location != nil && !sub.Location.Valid() {
		return "", fmt.Errorf("%w: invalid location", ErrValidation)
	}
	if p := sub.Photo; p != nil {
		if p.Size > MaxPhotoBytes {
			return "", fmt.Errorf("%w: photo exceeds %d bytes", ErrValidation, MaxPhotoBytes)
		}
		if !strings.HasPrefix(p.ContentType, "image/") {
			return "", fmt.Errorf("%w: photo must be an image", ErrValidation)
		}
	}

	switch sub.Type {
	case "", TypeOvercharging:
		return string(TypeOvercharging), nil
	case TypeUnsafeDriving:
		return string(TypeUnsafeDriving), nil
	case TypeOthers:
		custom := strings.TrimSpace(sub.CustomType)
		if custom == "" {
			return "", fmt.Errorf("%w: describe the report type", ErrValidation)
		}
		if len(custom) > maxCustomType {
			return "", fmt.Errorf("%w: report type too long", ErrValidation)
		}
		return custom, nil
	default:
		return "", fmt.Errorf("%w: unknown report type %q", ErrValidation, sub.Type)
	}
}

func photoKey(ownerID string, id types.ID, filename string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(filename, " ", "_")))
	return fmt.Sprintf("reports/%s/%s%s", ownerID, id, ext)
}
