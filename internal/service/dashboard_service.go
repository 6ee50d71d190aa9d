package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
)

// --- DTOs ---

type LocationCount struct {
	Location string `json:"location"`
	Count    int64  `json:"count"`
}

type SubmissionsByLocation struct {
	MonthYear string          `json:"month_year"`
	Counts    []LocationCount `json:"counts"`
}

type MissingReports struct {
	MonthYear      string   `json:"month_year"`
	ReportDeadline string   `json:"report_deadline,omitempty"`
	Locations      []string `json:"locations"`
}

// DashboardService backs the overview widgets.
type DashboardService interface {
	SubmissionsByLocation(ctx context.Context, monthYear string) (*SubmissionsByLocation, error)
	MissingReports(ctx context.Context, monthYear string) (*MissingReports, error)
}

type dashboardService struct {
	submissions repository.SubmissionRepository
	locations   repository.LocationRepository
	settings    repository.SettingRepository
	now         func() time.Time
}

// NewDashboardService returns a new instance of DashboardService.
func NewDashboardService(
	submissions repository.SubmissionRepository,
	locations repository.LocationRepository,
	settings repository.SettingRepository,
) DashboardService {
	return &dashboardService{submissions: submissions, locations: locations, settings: settings, now: time.Now}
}

// defaultMonth falls back to the current "YYYY-MM" period.
func (s *dashboardService) defaultMonth(monthYear string) string {
	if monthYear != "" {
		return monthYear
	}
	return s.now().UTC().Format("2006-01")
}

// SubmissionsByLocation counts the period's submissions per active location,
// including zero counts so the chart shows every site.
func (s *dashboardService) SubmissionsByLocation(ctx context.Context, monthYear string) (*SubmissionsByLocation, error) {
	monthYear = s.defaultMonth(monthYear)

	counts, err := s.submissions.CountByLocationForMonth(ctx, monthYear)
	if err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}
	locations, err := s.locations.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	result := &SubmissionsByLocation{MonthYear: monthYear}
	for _, location := range locations {
		result.Counts = append(result.Counts, LocationCount{
			Location: location.Name,
			Count:    counts[location.Name],
		})
	}
	return result, nil
}

// MissingReports lists active locations with no submission for the period.
func (s *dashboardService) MissingReports(ctx context.Context, monthYear string) (*MissingReports, error) {
	monthYear = s.defaultMonth(monthYear)

	counts, err := s.submissions.CountByLocationForMonth(ctx, monthYear)
	if err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}
	locations, err := s.locations.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	result := &MissingReports{MonthYear: monthYear, Locations: []string{}}
	for _, location := range locations {
		if counts[location.Name] == 0 {
			result.Locations = append(result.Locations, location.Name)
		}
	}

	if setting, err := s.settings.Get(ctx, model.SettingReportDeadline); err == nil {
		result.ReportDeadline = setting.Value
	}
	return result, nil
}
