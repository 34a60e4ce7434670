package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sakaylink/internal/domain"
	"sakaylink/internal/models"
)

// LocationRepository persists the role-partitioned presence records. Upserts
// are merge writes: only the named columns are assigned on conflict, so a
// position write never clobbers the discoverability flag and vice versa.
type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) Get(ctx context.Context, uid, role string) (*models.UserLocation, error) {
	var loc models.UserLocation
	err := r.db.WithContext(ctx).Where("uid = ? AND role = ?", uid, role).First(&loc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *LocationRepository) UpsertPosition(ctx context.Context, uid, role string, lat, lng float64, at time.Time) error {
	loc := &models.UserLocation{
		UID:         uid,
		Role:        role,
		Latitude:    lat,
		Longitude:   lng,
		HasPosition: true,
		UpdatedAt:   at,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}, {Name: "role"}},
		DoUpdates: clause.AssignmentColumns([]string{"latitude", "longitude", "has_position", "updated_at"}),
	}).Create(loc).Error
}

func (r *LocationRepository) UpsertFlag(ctx context.Context, uid, role string, on bool, at time.Time) error {
	flagColumn := "is_available"
	if role == domain.RolePassenger {
		flagColumn = "is_visible"
	}
	loc := &models.UserLocation{
		UID:       uid,
		Role:      role,
		UpdatedAt: at,
	}
	if role == domain.RoleDriver {
		loc.IsAvailable = on
	} else {
		loc.IsVisible = on
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}, {Name: "role"}},
		DoUpdates: clause.AssignmentColumns([]string{flagColumn, "updated_at"}),
	}).Create(loc).Error
}

func (r *LocationRepository) ListDiscoverable(ctx context.Context, role string) ([]models.UserLocation, error) {
	flagColumn := "is_available"
	if role == domain.RolePassenger {
		flagColumn = "is_visible"
	}
	// Flag-only rows without a stored position are excluded; a zero-value
	// (0, 0) must never show up as a peer.
	var records []models.UserLocation
	err := r.db.WithContext(ctx).
		Where("role = ? AND "+flagColumn+" = ? AND has_position = ?", role, true, true).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *LocationRepository) Delete(ctx context.Context, uid, role string) error {
	return r.db.WithContext(ctx).
		Where("uid = ? AND role = ?", uid, role).
		Delete(&models.UserLocation{}).Error
}
