package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/shopspring/decimal"
)

// Group-by dimensions for generated statistics.
const (
	GroupByLocation    = "location"
	GroupByMonth       = "month"
	GroupByTemplate    = "template"
	GroupByStatus      = "status"
	GroupByUserRole    = "user_role"
	GroupByCustomField = "custom_field"
)

// Custom field analysis modes.
const (
	AnalysisFrequency = "frequency"
	AnalysisNumerical = "numerical"
	AnalysisTrend     = "trend"
)

// --- DTOs ---

// StatisticsFilters is a conjunction of optional criteria over submissions.
type StatisticsFilters struct {
	DateFrom    string   `json:"date_from"`
	DateTo      string   `json:"date_to"`
	Locations   []string `json:"locations"`
	Statuses    []string `json:"statuses"`
	TemplateIDs []string `json:"template_ids"`
	UserRoles   []string `json:"user_roles"`
}

type GenerateStatisticsRequest struct {
	Filters         StatisticsFilters `json:"filters"`
	GroupBy         string            `json:"group_by" binding:"required"`
	CustomFieldName string            `json:"custom_field_name"`
}

type CustomFieldStatisticsRequest struct {
	Filters      StatisticsFilters `json:"filters"`
	FieldName    string            `json:"field_name"`
	AnalysisType string            `json:"analysis_type" binding:"required,oneof=frequency numerical trend"`
}

type StatisticsGroup struct {
	Key              string         `json:"key"`
	Total            int            `json:"total"`
	StatusCounts     map[string]int `json:"status_counts"`
	UniqueSubmitters int            `json:"unique_submitters"`
}

type StatisticsSummary struct {
	TotalSubmissions int            `json:"total_submissions"`
	StatusCounts     map[string]int `json:"status_counts"`
	ApprovalRate     float64        `json:"approval_rate"`
}

type StatisticsResponse struct {
	GroupBy string            `json:"group_by"`
	Groups  []StatisticsGroup `json:"groups"`
	Summary StatisticsSummary `json:"summary"`
}

type SubmissionSample struct {
	ID              string `json:"id"`
	ServiceLocation string `json:"service_location"`
	MonthYear       string `json:"month_year"`
	Status          string `json:"status"`
}

type FrequencyBucket struct {
	Value      string             `json:"value"`
	Count      int                `json:"count"`
	Percentage float64            `json:"percentage"`
	Samples    []SubmissionSample `json:"samples"`
}

type NumericalStats struct {
	Count   int     `json:"count"`
	Sum     float64 `json:"sum"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	StdDev  float64 `json:"std_dev"`
}

type CustomFieldStatisticsResponse struct {
	FieldName    string                    `json:"field_name"`
	AnalysisType string                    `json:"analysis_type"`
	Frequency    []FrequencyBucket         `json:"frequency,omitempty"`
	Numerical    *NumericalStats           `json:"numerical,omitempty"`
	Trend        map[string]map[string]int `json:"trend,omitempty"`
}

type TemplateOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type StatisticsOptions struct {
	Locations []string         `json:"locations"`
	Templates []TemplateOption `json:"templates"`
	Statuses  []string         `json:"statuses"`
	UserRoles []string         `json:"user_roles"`
	GroupBy   []string         `json:"group_by"`
}

// StatisticsService aggregates submissions by user-supplied criteria.
type StatisticsService interface {
	Generate(ctx context.Context, actor Actor, req GenerateStatisticsRequest) (*StatisticsResponse, error)
	GenerateCustomField(ctx context.Context, actor Actor, req CustomFieldStatisticsRequest) (*CustomFieldStatisticsResponse, error)
	Options(ctx context.Context) (*StatisticsOptions, error)
	CustomFields(ctx context.Context, actor Actor) ([]string, error)
}

type statisticsService struct {
	submissions repository.SubmissionRepository
	users       repository.UserRepository
	templates   repository.TemplateRepository
	locations   repository.LocationRepository
	roles       repository.RoleRepository
}

// NewStatisticsService returns a new instance of StatisticsService.
func NewStatisticsService(
	submissions repository.SubmissionRepository,
	users repository.UserRepository,
	templates repository.TemplateRepository,
	locations repository.LocationRepository,
	roles repository.RoleRepository,
) StatisticsService {
	return &statisticsService{
		submissions: submissions,
		users:       users,
		templates:   templates,
		locations:   locations,
		roles:       roles,
	}
}

// parseFilterDate accepts "2006-01-02" or RFC3339.
func parseFilterDate(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, apperror.Newf(apperror.ErrBadRequest, "Invalid date '%s', expected YYYY-MM-DD", value)
	}
	return &t, nil
}

// fetchFiltered loads submissions matching the filters, applying the actor's
// location scope and the user-role filter (which needs a join against users).
func (s *statisticsService) fetchFiltered(ctx context.Context, actor Actor, filters StatisticsFilters) ([]model.DataSubmission, map[string]*model.User, error) {
	dateFrom, err := parseFilterDate(filters.DateFrom, false)
	if err != nil {
		return nil, nil, err
	}
	dateTo, err := parseFilterDate(filters.DateTo, true)
	if err != nil {
		return nil, nil, err
	}

	repoFilter := repository.SubmissionFilter{
		Locations:   filters.Locations,
		Statuses:    filters.Statuses,
		TemplateIDs: filters.TemplateIDs,
		DateFrom:    dateFrom,
		DateTo:      dateTo,
	}
	if actor.locationScoped() {
		repoFilter.Location = actor.AssignedLocation
	}

	submissions, err := s.submissions.ListFiltered(ctx, repoFilter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}

	// Resolve submitters once per distinct id.
	submitters := make(map[string]*model.User)
	for i := range submissions {
		id := submissions[i].SubmittedBy.String()
		if _, seen := submitters[id]; seen {
			continue
		}
		user, userErr := s.users.GetByID(ctx, id)
		if userErr != nil {
			submitters[id] = nil
			continue
		}
		submitters[id] = user
	}

	if len(filters.UserRoles) == 0 {
		return submissions, submitters, nil
	}

	wanted := make(map[string]bool, len(filters.UserRoles))
	for _, role := range filters.UserRoles {
		wanted[role] = true
	}
	filtered := submissions[:0]
	for i := range submissions {
		user := submitters[submissions[i].SubmittedBy.String()]
		if user != nil && wanted[user.Role] {
			filtered = append(filtered, submissions[i])
		}
	}
	return filtered, submitters, nil
}

// groupKey resolves the grouping dimension for one submission. ok is false when
// the submission carries no value for the dimension (custom field grouping).
func (s *statisticsService) groupKey(ctx context.Context, groupBy, customField string, submission *model.DataSubmission, submitters map[string]*model.User, templateNames map[string]string) (string, bool) {
	switch groupBy {
	case GroupByLocation:
		return submission.ServiceLocation, true
	case GroupByMonth:
		return submission.MonthYear, true
	case GroupByStatus:
		return submission.Status, true
	case GroupByTemplate:
		id := submission.TemplateID.String()
		if name, ok := templateNames[id]; ok {
			return name, true
		}
		name := id
		if template, err := s.templates.GetByID(ctx, id); err == nil {
			name = template.Name
		}
		templateNames[id] = name
		return name, true
	case GroupByUserRole:
		user := submitters[submission.SubmittedBy.String()]
		if user == nil {
			return "unknown", true
		}
		return user.Role, true
	case GroupByCustomField:
		formData := submission.FormData.Data()
		value, ok := formData[customField]
		if !ok || value == nil {
			return "", false
		}
		return fmt.Sprint(value), true
	}
	return "", false
}

// Generate builds grouped per-status counts over the filtered submissions plus
// an overall summary. Groups are sorted by total descending.
func (s *statisticsService) Generate(ctx context.Context, actor Actor, req GenerateStatisticsRequest) (*StatisticsResponse, error) {
	switch req.GroupBy {
	case GroupByLocation, GroupByMonth, GroupByTemplate, GroupByStatus, GroupByUserRole:
	case GroupByCustomField:
		if req.CustomFieldName == "" {
			return nil, apperror.BadRequest("custom_field_name is required when grouping by custom_field")
		}
	default:
		return nil, apperror.Newf(apperror.ErrBadRequest, "Unknown group_by '%s'", req.GroupBy)
	}

	submissions, submitters, err := s.fetchFiltered(ctx, actor, req.Filters)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		statusCounts map[string]int
		submitterIDs map[string]bool
		total        int
	}
	buckets := make(map[string]*bucket)
	templateNames := make(map[string]string)

	for i := range submissions {
		key, ok := s.groupKey(ctx, req.GroupBy, req.CustomFieldName, &submissions[i], submitters, templateNames)
		if !ok {
			continue
		}
		b := buckets[key]
		if b == nil {
			b = &bucket{
				statusCounts: zeroStatusCounts(),
				submitterIDs: make(map[string]bool),
			}
			buckets[key] = b
		}
		b.total++
		b.statusCounts[submissions[i].Status]++
		b.submitterIDs[submissions[i].SubmittedBy.String()] = true
	}

	groups := make([]StatisticsGroup, 0, len(buckets))
	for key, b := range buckets {
		groups = append(groups, StatisticsGroup{
			Key:              key,
			Total:            b.total,
			StatusCounts:     b.statusCounts,
			UniqueSubmitters: len(b.submitterIDs),
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Total != groups[j].Total {
			return groups[i].Total > groups[j].Total
		}
		return groups[i].Key < groups[j].Key
	})

	// The summary is derived from the groups so its counts always equal the
	// per-group sums, including when custom-field grouping skipped rows.
	summary := StatisticsSummary{StatusCounts: zeroStatusCounts()}
	for _, g := range groups {
		summary.TotalSubmissions += g.Total
		for status, count := range g.StatusCounts {
			summary.StatusCounts[status] += count
		}
	}
	if summary.TotalSubmissions > 0 {
		rate := float64(summary.StatusCounts[model.SubmissionApproved]) / float64(summary.TotalSubmissions)
		summary.ApprovalRate = math.Round(rate*100) / 100
	}

	return &StatisticsResponse{
		GroupBy: req.GroupBy,
		Groups:  groups,
		Summary: summary,
	}, nil
}

func zeroStatusCounts() map[string]int {
	counts := make(map[string]int, len(model.SubmissionStatuses))
	for _, status := range model.SubmissionStatuses {
		counts[status] = 0
	}
	return counts
}

// GenerateCustomField analyzes one named form_data field across the filtered
// submissions. Submissions that don't carry the field are ignored; no matches
// yields an empty result, not an error.
func (s *statisticsService) GenerateCustomField(ctx context.Context, actor Actor, req CustomFieldStatisticsRequest) (*CustomFieldStatisticsResponse, error) {
	if req.FieldName == "" {
		return nil, apperror.BadRequest("field_name is required")
	}

	submissions, _, err := s.fetchFiltered(ctx, actor, req.Filters)
	if err != nil {
		return nil, err
	}

	type fieldValue struct {
		submission *model.DataSubmission
		value      any
	}
	var values []fieldValue
	for i := range submissions {
		formData := submissions[i].FormData.Data()
		if v, ok := formData[req.FieldName]; ok && v != nil {
			values = append(values, fieldValue{submission: &submissions[i], value: v})
		}
	}

	resp := &CustomFieldStatisticsResponse{
		FieldName:    req.FieldName,
		AnalysisType: req.AnalysisType,
	}

	switch req.AnalysisType {
	case AnalysisFrequency:
		counts := make(map[string]int)
		samples := make(map[string][]SubmissionSample)
		for _, fv := range values {
			key := fmt.Sprint(fv.value)
			counts[key]++
			if len(samples[key]) < 5 {
				samples[key] = append(samples[key], SubmissionSample{
					ID:              fv.submission.ID.String(),
					ServiceLocation: fv.submission.ServiceLocation,
					MonthYear:       fv.submission.MonthYear,
					Status:          fv.submission.Status,
				})
			}
		}
		buckets := make([]FrequencyBucket, 0, len(counts))
		for value, count := range counts {
			percentage := float64(count) / float64(len(values)) * 100
			buckets = append(buckets, FrequencyBucket{
				Value:      value,
				Count:      count,
				Percentage: math.Round(percentage*100) / 100,
				Samples:    samples[value],
			})
		}
		sort.Slice(buckets, func(i, j int) bool {
			if buckets[i].Count != buckets[j].Count {
				return buckets[i].Count > buckets[j].Count
			}
			return buckets[i].Value < buckets[j].Value
		})
		resp.Frequency = buckets

	case AnalysisNumerical:
		var numbers []float64
		sum := decimal.Zero
		for _, fv := range values {
			d, ok := coerceDecimal(fv.value)
			if !ok {
				continue
			}
			f, _ := d.Float64()
			numbers = append(numbers, f)
			sum = sum.Add(d)
		}
		if len(numbers) == 0 {
			resp.Numerical = &NumericalStats{}
			break
		}
		stats := &NumericalStats{Count: len(numbers)}
		stats.Sum, _ = sum.Float64()
		avg := sum.Div(decimal.NewFromInt(int64(len(numbers))))
		stats.Average, _ = avg.Float64()
		stats.Min, stats.Max = numbers[0], numbers[0]
		for _, n := range numbers[1:] {
			if n < stats.Min {
				stats.Min = n
			}
			if n > stats.Max {
				stats.Max = n
			}
		}
		stats.StdDev = sampleStdDev(numbers, stats.Average)
		resp.Numerical = stats

	case AnalysisTrend:
		trend := make(map[string]map[string]int)
		for _, fv := range values {
			month := fv.submission.MonthYear
			if trend[month] == nil {
				trend[month] = make(map[string]int)
			}
			trend[month][fmt.Sprint(fv.value)]++
		}
		resp.Trend = trend

	default:
		return nil, apperror.Newf(apperror.ErrBadRequest, "Unknown analysis type '%s'", req.AnalysisType)
	}

	return resp, nil
}

// coerceDecimal converts a form value to a decimal where possible.
func coerceDecimal(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// sampleStdDev computes the sample standard deviation (n-1 denominator).
// Returns 0 for fewer than two values.
func sampleStdDev(numbers []float64, mean float64) float64 {
	if len(numbers) < 2 {
		return 0
	}
	var sumSquares float64
	for _, n := range numbers {
		diff := n - mean
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(numbers)-1))
}

// Options lists the valid filter values for building a statistics query.
func (s *statisticsService) Options(ctx context.Context) (*StatisticsOptions, error) {
	opts := &StatisticsOptions{
		Statuses: model.SubmissionStatuses,
		GroupBy: []string{
			GroupByLocation, GroupByMonth, GroupByTemplate,
			GroupByStatus, GroupByUserRole, GroupByCustomField,
		},
	}

	locations, err := s.locations.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	for _, location := range locations {
		opts.Locations = append(opts.Locations, location.Name)
	}

	templates, err := s.templates.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	for _, template := range templates {
		opts.Templates = append(opts.Templates, TemplateOption{ID: template.ID.String(), Name: template.Name})
	}

	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	for _, role := range roles {
		opts.UserRoles = append(opts.UserRoles, role.Name)
	}

	return opts, nil
}

// CustomFields returns the distinct form_data keys over submissions visible to
// the caller, sorted.
func (s *statisticsService) CustomFields(ctx context.Context, actor Actor) ([]string, error) {
	var filter repository.SubmissionFilter
	if actor.locationScoped() {
		filter.Location = actor.AssignedLocation
	}
	submissions, err := s.submissions.ListFiltered(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}

	seen := make(map[string]bool)
	for i := range submissions {
		for key := range submissions[i].FormData.Data() {
			seen[key] = true
		}
	}
	fields := make([]string, 0, len(seen))
	for key := range seen {
		fields = append(fields, key)
	}
	sort.Strings(fields)
	return fields, nil
}
