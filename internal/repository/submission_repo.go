package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"gorm.io/gorm"
)

// SubmissionFilter is a conjunction of optional criteria. Zero-valued fields are
// ignored; slice fields match any of their values.
type SubmissionFilter struct {
	Location    string
	Locations   []string
	MonthYear   string
	TemplateID  string
	TemplateIDs []string
	Status      string
	Statuses    []string
	SubmittedBy string
	Submitters  []string
	DateFrom    *time.Time
	DateTo      *time.Time
}

// SubmissionRepository defines data access for DataSubmission entities.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.DataSubmission) error
	GetByID(ctx context.Context, id string) (*model.DataSubmission, error)
	ListFiltered(ctx context.Context, filter SubmissionFilter) ([]model.DataSubmission, error)
	Update(ctx context.Context, submission *model.DataSubmission) error
	HardDelete(ctx context.Context, id string) error
	CountByLocationForMonth(ctx context.Context, monthYear string) (map[string]int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository returns a new instance of SubmissionRepository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *model.DataSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*model.DataSubmission, error) {
	var submission model.DataSubmission
	if err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func applyFilter(q *gorm.DB, filter SubmissionFilter) *gorm.DB {
	if filter.Location != "" {
		q = q.Where("service_location = ?", filter.Location)
	}
	if len(filter.Locations) > 0 {
		q = q.Where("service_location IN ?", filter.Locations)
	}
	if filter.MonthYear != "" {
		q = q.Where("month_year = ?", filter.MonthYear)
	}
	if filter.TemplateID != "" {
		q = q.Where("template_id = ?", filter.TemplateID)
	}
	if len(filter.TemplateIDs) > 0 {
		q = q.Where("template_id IN ?", filter.TemplateIDs)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if filter.SubmittedBy != "" {
		q = q.Where("submitted_by = ?", filter.SubmittedBy)
	}
	if len(filter.Submitters) > 0 {
		q = q.Where("submitted_by IN ?", filter.Submitters)
	}
	if filter.DateFrom != nil {
		q = q.Where("submitted_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("submitted_at <= ?", *filter.DateTo)
	}
	return q
}

func (r *submissionRepository) ListFiltered(ctx context.Context, filter SubmissionFilter) ([]model.DataSubmission, error) {
	var submissions []model.DataSubmission
	q := applyFilter(r.db.WithContext(ctx).Model(&model.DataSubmission{}), filter)
	err := q.Order("submitted_at DESC").Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) Update(ctx context.Context, submission *model.DataSubmission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *submissionRepository) HardDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.DataSubmission{}).Error
}

// CountByLocationForMonth groups submission counts by location for one period.
func (r *submissionRepository) CountByLocationForMonth(ctx context.Context, monthYear string) (map[string]int64, error) {
	var rows []struct {
		ServiceLocation string
		Count           int64
	}
	err := r.db.WithContext(ctx).Model(&model.DataSubmission{}).
		Select("service_location, COUNT(*) as count").
		Where("month_year = ?", monthYear).
		Group("service_location").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ServiceLocation] = row.Count
	}
	return counts, nil
}
