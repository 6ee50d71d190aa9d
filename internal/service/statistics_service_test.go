package service

import (
	"context"
	"math"
	"testing"

	"backend/internal/model"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type statsFixture struct {
	svc         *statisticsService
	submissions *fakeSubmissionRepo
	users       *fakeUserRepo
	templates   *fakeTemplateRepo
	locations   *fakeLocationRepo
	roles       *fakeRoleRepo
}

func newStatsFixture() *statsFixture {
	f := &statsFixture{
		submissions: &fakeSubmissionRepo{},
		users:       newFakeUserRepo(),
		templates:   newFakeTemplateRepo(),
		locations:   newFakeLocationRepo(),
		roles:       newFakeRoleRepo(),
	}
	f.svc = &statisticsService{
		submissions: f.submissions,
		users:       f.users,
		templates:   f.templates,
		locations:   f.locations,
		roles:       f.roles,
	}
	return f
}

func (f *statsFixture) addSubmission(location, monthYear, status string, submitter uuid.UUID, formData map[string]any) {
	f.submissions.add(model.DataSubmission{
		TemplateID:      uuid.New(),
		SubmittedBy:     submitter,
		ServiceLocation: location,
		MonthYear:       monthYear,
		Status:          status,
		FormData:        datatypes.NewJSONType(formData),
	})
}

func TestGenerateGroupByLocation(t *testing.T) {
	f := newStatsFixture()
	alice, bob := uuid.New(), uuid.New()
	f.addSubmission("North", "2026-07", model.SubmissionApproved, alice, nil)
	f.addSubmission("North", "2026-07", model.SubmissionSubmitted, bob, nil)
	f.addSubmission("North", "2026-08", model.SubmissionApproved, alice, nil)
	f.addSubmission("South", "2026-08", model.SubmissionRejected, bob, nil)

	resp, err := f.svc.Generate(context.Background(), adminActor(), GenerateStatisticsRequest{GroupBy: GroupByLocation})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(resp.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(resp.Groups))
	}
	// Sorted by total descending.
	if resp.Groups[0].Key != "North" || resp.Groups[0].Total != 3 {
		t.Errorf("groups[0] = %+v, want North/3", resp.Groups[0])
	}
	if resp.Groups[0].UniqueSubmitters != 2 {
		t.Errorf("UniqueSubmitters = %d, want 2", resp.Groups[0].UniqueSubmitters)
	}
	if resp.Groups[0].StatusCounts[model.SubmissionApproved] != 2 {
		t.Errorf("North approved = %d, want 2", resp.Groups[0].StatusCounts[model.SubmissionApproved])
	}

	// The summary always equals the sum over groups.
	total := 0
	for _, g := range resp.Groups {
		total += g.Total
	}
	if resp.Summary.TotalSubmissions != total {
		t.Errorf("summary total = %d, want %d", resp.Summary.TotalSubmissions, total)
	}
	// 2 approved of 4.
	if resp.Summary.ApprovalRate != 0.5 {
		t.Errorf("ApprovalRate = %v, want 0.5", resp.Summary.ApprovalRate)
	}
}

func TestGenerateEmptyResult(t *testing.T) {
	f := newStatsFixture()

	resp, err := f.svc.Generate(context.Background(), adminActor(), GenerateStatisticsRequest{GroupBy: GroupByStatus})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(resp.Groups) != 0 {
		t.Errorf("groups = %d, want 0", len(resp.Groups))
	}
	if resp.Summary.TotalSubmissions != 0 || resp.Summary.ApprovalRate != 0 {
		t.Errorf("summary = %+v, want zeros", resp.Summary)
	}
}

func TestGenerateUnknownGroupBy(t *testing.T) {
	f := newStatsFixture()
	_, err := f.svc.Generate(context.Background(), adminActor(), GenerateStatisticsRequest{GroupBy: "color"})
	if err == nil || apperror.MapErrorToStatus(err) != 400 {
		t.Fatalf("Generate() error = %v, want 400", err)
	}
}

func TestGenerateCustomFieldGroupingSkipsMissing(t *testing.T) {
	f := newStatsFixture()
	submitter := uuid.New()
	f.addSubmission("North", "2026-08", model.SubmissionApproved, submitter, map[string]any{"ward": "A"})
	f.addSubmission("North", "2026-08", model.SubmissionApproved, submitter, map[string]any{"ward": "A"})
	f.addSubmission("North", "2026-08", model.SubmissionSubmitted, submitter, map[string]any{"ward": "B"})
	f.addSubmission("North", "2026-08", model.SubmissionSubmitted, submitter, map[string]any{"other": 1.0})

	// Missing custom_field_name is rejected.
	_, err := f.svc.Generate(context.Background(), adminActor(), GenerateStatisticsRequest{GroupBy: GroupByCustomField})
	if err == nil || apperror.MapErrorToStatus(err) != 400 {
		t.Fatalf("Generate() error = %v, want 400", err)
	}

	resp, err := f.svc.Generate(context.Background(), adminActor(), GenerateStatisticsRequest{
		GroupBy: GroupByCustomField, CustomFieldName: "ward",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(resp.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(resp.Groups))
	}
	// The row without the field is excluded from groups and summary alike.
	if resp.Summary.TotalSubmissions != 3 {
		t.Errorf("summary total = %d, want 3", resp.Summary.TotalSubmissions)
	}
}

func TestGenerateScopedActor(t *testing.T) {
	f := newStatsFixture()
	submitter := uuid.New()
	f.addSubmission("North", "2026-08", model.SubmissionApproved, submitter, nil)
	f.addSubmission("South", "2026-08", model.SubmissionApproved, submitter, nil)

	resp, err := f.svc.Generate(context.Background(), entryActor("North"), GenerateStatisticsRequest{GroupBy: GroupByLocation})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Summary.TotalSubmissions != 1 || len(resp.Groups) != 1 || resp.Groups[0].Key != "North" {
		t.Errorf("scoped result = %+v", resp)
	}
}

func TestGenerateUserRoleFilter(t *testing.T) {
	f := newStatsFixture()
	manager := f.users.add(&model.User{Username: "m", Role: model.RoleManager, Status: model.StatusActive, IsActive: true})
	clerk := f.users.add(&model.User{Username: "c", Role: model.RoleDataEntry, Status: model.StatusActive, IsActive: true})
	f.addSubmission("North", "2026-08", model.SubmissionApproved, manager.ID, nil)
	f.addSubmission("North", "2026-08", model.SubmissionApproved, clerk.ID, nil)

	resp, err := f.svc.Generate(context.Background(), adminActor(), GenerateStatisticsRequest{
		GroupBy: GroupByLocation,
		Filters: StatisticsFilters{UserRoles: []string{model.RoleManager}},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Summary.TotalSubmissions != 1 {
		t.Errorf("total = %d, want 1", resp.Summary.TotalSubmissions)
	}
}

func TestGenerateBadDateFilter(t *testing.T) {
	f := newStatsFixture()
	_, err := f.svc.Generate(context.Background(), adminActor(), GenerateStatisticsRequest{
		GroupBy: GroupByLocation,
		Filters: StatisticsFilters{DateFrom: "yesterday"},
	})
	if err == nil || apperror.MapErrorToStatus(err) != 400 {
		t.Fatalf("Generate() error = %v, want 400", err)
	}
}

func TestCustomFieldFrequency(t *testing.T) {
	f := newStatsFixture()
	submitter := uuid.New()
	for i := 0; i < 3; i++ {
		f.addSubmission("North", "2026-08", model.SubmissionApproved, submitter, map[string]any{"ward": "A"})
	}
	f.addSubmission("North", "2026-08", model.SubmissionApproved, submitter, map[string]any{"ward": "B"})

	resp, err := f.svc.GenerateCustomField(context.Background(), adminActor(), CustomFieldStatisticsRequest{
		FieldName: "ward", AnalysisType: AnalysisFrequency,
	})
	if err != nil {
		t.Fatalf("GenerateCustomField() error = %v", err)
	}
	if len(resp.Frequency) != 2 {
		t.Fatalf("buckets = %d, want 2", len(resp.Frequency))
	}
	top := resp.Frequency[0]
	if top.Value != "A" || top.Count != 3 || top.Percentage != 75 {
		t.Errorf("top bucket = %+v, want A/3/75", top)
	}
	if len(top.Samples) != 3 {
		t.Errorf("samples = %d, want 3", len(top.Samples))
	}
}

func TestCustomFieldFrequencySampleCap(t *testing.T) {
	f := newStatsFixture()
	submitter := uuid.New()
	for i := 0; i < 8; i++ {
		f.addSubmission("North", "2026-08", model.SubmissionApproved, submitter, map[string]any{"ward": "A"})
	}

	resp, err := f.svc.GenerateCustomField(context.Background(), adminActor(), CustomFieldStatisticsRequest{
		FieldName: "ward", AnalysisType: AnalysisFrequency,
	})
	if err != nil {
		t.Fatalf("GenerateCustomField() error = %v", err)
	}
	if len(resp.Frequency[0].Samples) != 5 {
		t.Errorf("samples = %d, want capped at 5", len(resp.Frequency[0].Samples))
	}
}

func TestCustomFieldNumerical(t *testing.T) {
	f := newStatsFixture()
	submitter := uuid.New()
	for _, v := range []any{10.0, 20.0, 30.0, "40", "not a number"} {
		f.addSubmission("North", "2026-08", model.SubmissionApproved, submitter, map[string]any{"patients": v})
	}

	resp, err := f.svc.GenerateCustomField(context.Background(), adminActor(), CustomFieldStatisticsRequest{
		FieldName: "patients", AnalysisType: AnalysisNumerical,
	})
	if err != nil {
		t.Fatalf("GenerateCustomField() error = %v", err)
	}
	stats := resp.Numerical
	if stats == nil {
		t.Fatal("Numerical nil")
	}
	if stats.Count != 4 {
		t.Fatalf("Count = %d, want 4 (non-numeric value skipped)", stats.Count)
	}
	if stats.Sum != 100 || stats.Average != 25 || stats.Min != 10 || stats.Max != 40 {
		t.Errorf("stats = %+v", stats)
	}
	// Sample standard deviation of 10,20,30,40.
	want := math.Sqrt(500.0 / 3.0)
	if math.Abs(stats.StdDev-want) > 1e-9 {
		t.Errorf("StdDev = %v, want %v", stats.StdDev, want)
	}
}

func TestCustomFieldNumericalNoValues(t *testing.T) {
	f := newStatsFixture()
	submitter := uuid.New()
	f.addSubmission("North", "2026-08", model.SubmissionApproved, submitter, map[string]any{"ward": "A"})

	resp, err := f.svc.GenerateCustomField(context.Background(), adminActor(), CustomFieldStatisticsRequest{
		FieldName: "ward", AnalysisType: AnalysisNumerical,
	})
	if err != nil {
		t.Fatalf("GenerateCustomField() error = %v", err)
	}
	if resp.Numerical == nil || resp.Numerical.Count != 0 {
		t.Errorf("Numerical = %+v, want zeroed stats", resp.Numerical)
	}
}

func TestCustomFieldTrend(t *testing.T) {
	f := newStatsFixture()
	submitter := uuid.New()
	f.addSubmission("North", "2026-07", model.SubmissionApproved, submitter, map[string]any{"ward": "A"})
	f.addSubmission("North", "2026-08", model.SubmissionApproved, submitter, map[string]any{"ward": "A"})
	f.addSubmission("North", "2026-08", model.SubmissionApproved, submitter, map[string]any{"ward": "B"})

	resp, err := f.svc.GenerateCustomField(context.Background(), adminActor(), CustomFieldStatisticsRequest{
		FieldName: "ward", AnalysisType: AnalysisTrend,
	})
	if err != nil {
		t.Fatalf("GenerateCustomField() error = %v", err)
	}
	if resp.Trend["2026-07"]["A"] != 1 || resp.Trend["2026-08"]["A"] != 1 || resp.Trend["2026-08"]["B"] != 1 {
		t.Errorf("trend = %v", resp.Trend)
	}
}

func TestCustomFieldMissingName(t *testing.T) {
	f := newStatsFixture()
	_, err := f.svc.GenerateCustomField(context.Background(), adminActor(), CustomFieldStatisticsRequest{
		AnalysisType: AnalysisFrequency,
	})
	if err == nil || apperror.MapErrorToStatus(err) != 400 {
		t.Fatalf("GenerateCustomField() error = %v, want 400", err)
	}
}

func TestCustomFields(t *testing.T) {
	f := newStatsFixture()
	submitter := uuid.New()
	f.addSubmission("North", "2026-08", model.SubmissionApproved, submitter, map[string]any{"ward": "A", "patients": 10.0})
	f.addSubmission("South", "2026-08", model.SubmissionApproved, submitter, map[string]any{"beds": 4.0})

	fields, err := f.svc.CustomFields(context.Background(), adminActor())
	if err != nil {
		t.Fatalf("CustomFields() error = %v", err)
	}
	want := []string{"beds", "patients", "ward"}
	if len(fields) != len(want) {
		t.Fatalf("fields = %v, want %v", fields, want)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("fields[%d] = %s, want %s", i, fields[i], want[i])
		}
	}

	// Scoped callers only see keys from their own location.
	scoped, err := f.svc.CustomFields(context.Background(), entryActor("South"))
	if err != nil {
		t.Fatalf("CustomFields() error = %v", err)
	}
	if len(scoped) != 1 || scoped[0] != "beds" {
		t.Errorf("scoped fields = %v, want [beds]", scoped)
	}
}

func TestStatisticsOptions(t *testing.T) {
	f := newStatsFixture()
	f.locations.add(&model.ServiceLocation{Name: "North", IsActive: true})
	f.locations.add(&model.ServiceLocation{Name: "Closed", IsActive: false})
	f.templates.add(&model.FormTemplate{Name: "Monthly Report", IsActive: true})
	f.roles.add(&model.UserRole{Name: model.RoleAdmin, DisplayName: "Administrator", IsSystemRole: true})

	opts, err := f.svc.Options(context.Background())
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}
	if len(opts.Locations) != 1 || opts.Locations[0] != "North" {
		t.Errorf("Locations = %v, want active only", opts.Locations)
	}
	if len(opts.Templates) != 1 || opts.Templates[0].Name != "Monthly Report" {
		t.Errorf("Templates = %v", opts.Templates)
	}
	if len(opts.GroupBy) != 6 {
		t.Errorf("GroupBy = %v", opts.GroupBy)
	}
}
