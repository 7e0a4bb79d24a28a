package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/jobdesk/backend/internal/models"
)

// Counter is a named monotonically increasing sequence.
type Counter struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value int64  `gorm:"not null;default:0"`
}

// Marker records that a one-time action has happened.
type Marker struct {
	Name  string `gorm:"primaryKey;size:64"`
	SetAt time.Time
}

// RequestRepository provides persistence access for job requests in Postgres.
type RequestRepository struct {
	db *gorm.DB
}

// NewRequestRepository constructs a repository using the provided gorm DB.
func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Migrate creates or updates the tables the repository uses.
func (r *RequestRepository) Migrate(ctx context.Context) error {
	return errors.WithStack(r.db.WithContext(ctx).AutoMigrate(&models.Request{}, &Counter{}, &Marker{}))
}

// List returns all requests, newest first.
func (r *RequestRepository) List(ctx context.Context) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.WithContext(ctx).Order("seq desc").Find(&requests).Error
	return requests, errors.WithStack(err)
}

// Get returns the request by reference.
func (r *RequestRepository) Get(ctx context.Context, ref string) (*models.Request, error) {
	var req models.Request
	if err := r.db.WithContext(ctx).First(&req, "reference = ?", ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.WithStack(err)
	}
	return &req, nil
}

// Insert persists a new request.
func (r *RequestRepository) Insert(ctx context.Context, req *models.Request) error {
	err := r.db.WithContext(ctx).Create(req).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Wrapf(ErrConflict, "insert %s", req.Reference)
	}
	return errors.WithStack(err)
}

// Mutate locks the row, applies fn and saves the result in one transaction.
// Nothing is written when fn returns an error.
func (r *RequestRepository) Mutate(ctx context.Context, ref string, fn func(*models.Request) error) (*models.Request, error) {
	var out models.Request
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Request
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, "reference = ?", ref).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return errors.WithStack(err)
		}
		if err := fn(&current); err != nil {
			return err
		}
		if err := tx.Save(&current).Error; err != nil {
			return errors.WithStack(err)
		}
		out = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// NextSequence increments the reference counter and returns the new value.
func (r *RequestRepository) NextSequence(ctx context.Context) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&Counter{Name: ReferenceCounter}).Error; err != nil {
			return errors.WithStack(err)
		}
		return errors.WithStack(tx.Raw(
			"UPDATE counters SET value = value + 1 WHERE name = ? RETURNING value", ReferenceCounter,
		).Scan(&value).Error)
	})
	return value, err
}

// Marker reports whether the named marker has been set.
func (r *RequestRepository) Marker(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Marker{}).Where("name = ?", name).Count(&count).Error
	return count > 0, errors.WithStack(err)
}

// SetMarker sets the named marker; setting it twice is a no-op.
func (r *RequestRepository) SetMarker(ctx context.Context, name string) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Marker{Name: name, SetAt: time.Now().UTC()}).Error
	return errors.WithStack(err)
}
