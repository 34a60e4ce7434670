package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sakaylink/internal/domain"
	"sakaylink/internal/models"
)

type DriverRepository struct {
	db *gorm.DB
}

func NewDriverRepository(db *gorm.DB) *DriverRepository {
	return &DriverRepository{db: db}
}

func (r *DriverRepository) Upsert(ctx context.Context, p *models.DriverProfile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// UpdateCredentialURLs merges uploaded document URLs into the driver's
// credentials, creating the profile row when missing. Only the columns for
// the documents actually uploaded are assigned.
func (r *DriverRepository) UpdateCredentialURLs(ctx context.Context, uid string, urls map[string]string) error {
	if len(urls) == 0 {
		return nil
	}
	profile := &models.DriverProfile{UID: uid}
	var columns []string
	if url, ok := urls[domain.DocumentDriverLicense]; ok {
		profile.Credentials.DriverLicenseURL = url
		columns = append(columns, "credential_driver_license_url")
	}
	if url, ok := urls[domain.DocumentBackgroundCheck]; ok {
		profile.Credentials.BackgroundCheckURL = url
		columns = append(columns, "credential_background_check_url")
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(profile).Error
}
