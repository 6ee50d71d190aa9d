package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Actor identifies the authenticated caller for scoping decisions.
type Actor struct {
	ID               string
	Username         string
	Role             string
	AssignedLocation string
}

// locationScoped reports whether the actor only sees its own location's records.
func (a Actor) locationScoped() bool {
	return a.Role == model.RoleManager || a.Role == model.RoleDataEntry
}

// --- DTOs ---

type CreateSubmissionRequest struct {
	TemplateID      string         `json:"template_id" binding:"required"`
	ServiceLocation string         `json:"service_location" binding:"required"`
	MonthYear       string         `json:"month_year" binding:"required,month_year"`
	FormData        map[string]any `json:"form_data" binding:"required"`
	Attachments     []string       `json:"attachments"`
}

type UpdateSubmissionRequest struct {
	FormData    map[string]any `json:"form_data"`
	Status      *string        `json:"status"`
	Attachments []string       `json:"attachments"`
}

type SubmissionListFilter struct {
	Location    string
	MonthYear   string
	TemplateID  string
	Status      string
	SubmittedBy string
}

type SubmissionResponse struct {
	ID              string         `json:"id"`
	TemplateID      string         `json:"template_id"`
	SubmittedBy     string         `json:"submitted_by"`
	ServiceLocation string         `json:"service_location"`
	MonthYear       string         `json:"month_year"`
	FormData        map[string]any `json:"form_data"`
	Attachments     []string       `json:"attachments"`
	Status          string         `json:"status"`
	SubmittedAt     time.Time      `json:"submitted_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// DetailedSubmission adds resolved display names to a submission row.
type DetailedSubmission struct {
	SubmissionResponse
	SubmittedByUsername string `json:"submitted_by_username"`
	TemplateName        string `json:"template_name"`
}

// SubmissionEvents receives serialized submission lifecycle events for fan-out
// to connected dashboard clients.
type SubmissionEvents interface {
	Publish(message []byte)
}

// SubmissionService manages form data submissions with location scoping.
type SubmissionService interface {
	CreateSubmission(ctx context.Context, actor Actor, req CreateSubmissionRequest) (*SubmissionResponse, error)
	GetSubmission(ctx context.Context, actor Actor, id string) (*SubmissionResponse, error)
	ListSubmissions(ctx context.Context, actor Actor, filter SubmissionListFilter) ([]SubmissionResponse, error)
	ListDetailedSubmissions(ctx context.Context, actor Actor, filter SubmissionListFilter) ([]DetailedSubmission, error)
	UpdateSubmission(ctx context.Context, actor Actor, id string, req UpdateSubmissionRequest) (*SubmissionResponse, error)
	DeleteSubmission(ctx context.Context, actor Actor, id string) error
}

type submissionService struct {
	submissions repository.SubmissionRepository
	templates   repository.TemplateRepository
	users       repository.UserRepository
	audit       repository.AuditRepository
	events      SubmissionEvents
}

// NewSubmissionService returns a new instance of SubmissionService. events may
// be nil when no live feed is wired.
func NewSubmissionService(
	submissions repository.SubmissionRepository,
	templates repository.TemplateRepository,
	users repository.UserRepository,
	audit repository.AuditRepository,
	events SubmissionEvents,
) SubmissionService {
	return &submissionService{
		submissions: submissions,
		templates:   templates,
		users:       users,
		audit:       audit,
		events:      events,
	}
}

func toSubmissionResponse(submission *model.DataSubmission) *SubmissionResponse {
	formData := submission.FormData.Data()
	if formData == nil {
		formData = map[string]any{}
	}
	attachments := []string(submission.Attachments)
	if attachments == nil {
		attachments = []string{}
	}
	return &SubmissionResponse{
		ID:              submission.ID.String(),
		TemplateID:      submission.TemplateID.String(),
		SubmittedBy:     submission.SubmittedBy.String(),
		ServiceLocation: submission.ServiceLocation,
		MonthYear:       submission.MonthYear,
		FormData:        formData,
		Attachments:     attachments,
		Status:          submission.Status,
		SubmittedAt:     submission.SubmittedAt,
		UpdatedAt:       submission.UpdatedAt,
	}
}

func (s *submissionService) CreateSubmission(ctx context.Context, actor Actor, req CreateSubmissionRequest) (*SubmissionResponse, error) {
	if actor.locationScoped() && actor.AssignedLocation != req.ServiceLocation {
		return nil, apperror.Forbidden("Cannot submit data for this location")
	}

	templateID, err := uuid.Parse(req.TemplateID)
	if err != nil {
		return nil, apperror.BadRequest("Invalid template id")
	}
	if _, err := s.templates.GetByID(ctx, req.TemplateID); err != nil {
		return nil, apperror.NotFound("Template not found")
	}

	submitter, err := uuid.Parse(actor.ID)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid user id")
	}

	submission := &model.DataSubmission{
		TemplateID:      templateID,
		SubmittedBy:     submitter,
		ServiceLocation: req.ServiceLocation,
		MonthYear:       req.MonthYear,
		FormData:        datatypes.NewJSONType(req.FormData),
		Attachments:     req.Attachments,
		Status:          model.SubmissionSubmitted,
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	s.publishEvent("submission_created", submission)
	return toSubmissionResponse(submission), nil
}

// GetSubmission checks existence before scope, so a missing id is 404 and a
// foreign one is 403.
func (s *submissionService) GetSubmission(ctx context.Context, actor Actor, id string) (*SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Submission not found")
	}
	if actor.locationScoped() && submission.ServiceLocation != actor.AssignedLocation {
		return nil, apperror.Forbidden("Cannot access this submission")
	}
	return toSubmissionResponse(submission), nil
}

func (s *submissionService) scopedFilter(actor Actor, filter SubmissionListFilter) repository.SubmissionFilter {
	repoFilter := repository.SubmissionFilter{
		MonthYear:   filter.MonthYear,
		TemplateID:  filter.TemplateID,
		Status:      filter.Status,
		SubmittedBy: filter.SubmittedBy,
	}
	if actor.locationScoped() {
		repoFilter.Location = actor.AssignedLocation
	} else {
		repoFilter.Location = filter.Location
	}
	return repoFilter
}

func (s *submissionService) ListSubmissions(ctx context.Context, actor Actor, filter SubmissionListFilter) ([]SubmissionResponse, error) {
	submissions, err := s.submissions.ListFiltered(ctx, s.scopedFilter(actor, filter))
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	responses := make([]SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		responses = append(responses, *toSubmissionResponse(&submissions[i]))
	}
	return responses, nil
}

// ListDetailedSubmissions resolves usernames and template names for display.
// Lookup failures degrade to blank fields and a failed listing yields an empty
// slice rather than an error, so the reports screen always renders.
func (s *submissionService) ListDetailedSubmissions(ctx context.Context, actor Actor, filter SubmissionListFilter) ([]DetailedSubmission, error) {
	submissions, err := s.submissions.ListFiltered(ctx, s.scopedFilter(actor, filter))
	if err != nil {
		log.Printf("detailed submissions listing failed, returning empty: %v", err)
		return []DetailedSubmission{}, nil
	}

	usernames := make(map[string]string)
	templateNames := make(map[string]string)

	detailed := make([]DetailedSubmission, 0, len(submissions))
	for i := range submissions {
		row := DetailedSubmission{SubmissionResponse: *toSubmissionResponse(&submissions[i])}

		if name, ok := usernames[row.SubmittedBy]; ok {
			row.SubmittedByUsername = name
		} else if user, userErr := s.users.GetByID(ctx, row.SubmittedBy); userErr == nil {
			usernames[row.SubmittedBy] = user.Username
			row.SubmittedByUsername = user.Username
		}

		if name, ok := templateNames[row.TemplateID]; ok {
			row.TemplateName = name
		} else if template, tplErr := s.templates.GetByID(ctx, row.TemplateID); tplErr == nil {
			templateNames[row.TemplateID] = template.Name
			row.TemplateName = template.Name
		}

		detailed = append(detailed, row)
	}
	return detailed, nil
}

// UpdateSubmission is restricted to admins and managers; managers only within
// their own location. Status transitions are unconstrained beyond the value
// being a recognized status.
func (s *submissionService) UpdateSubmission(ctx context.Context, actor Actor, id string, req UpdateSubmissionRequest) (*SubmissionResponse, error) {
	if actor.Role != model.RoleAdmin && actor.Role != model.RoleManager {
		return nil, apperror.Forbidden("Insufficient permissions")
	}

	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Submission not found")
	}
	if actor.Role == model.RoleManager && submission.ServiceLocation != actor.AssignedLocation {
		return nil, apperror.Forbidden("Cannot edit this submission")
	}

	statusChanged := false
	if req.Status != nil {
		if !model.ValidSubmissionStatus(*req.Status) {
			return nil, apperror.Newf(apperror.ErrBadRequest, "Unknown status '%s'", *req.Status)
		}
		statusChanged = submission.Status != *req.Status
		submission.Status = *req.Status
	}
	if req.FormData != nil {
		submission.FormData = datatypes.NewJSONType(req.FormData)
	}
	if req.Attachments != nil {
		submission.Attachments = req.Attachments
	}

	if err := s.submissions.Update(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}

	if statusChanged {
		s.publishEvent("submission_status_changed", submission)
	}
	return toSubmissionResponse(submission), nil
}

// DeleteSubmission hard-deletes. The prior state is snapshotted to the audit log
// before removal.
func (s *submissionService) DeleteSubmission(ctx context.Context, actor Actor, id string) error {
	if actor.Role != model.RoleAdmin {
		return apperror.Forbidden("Insufficient permissions")
	}

	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Submission not found")
		}
		return fmt.Errorf("failed to load submission: %w", err)
	}

	snapshot, _ := json.Marshal(submission)
	entry := &model.AuditLog{
		Action:     model.ActionDeleteSubmission,
		EntityID:   submission.ID.String(),
		EntityName: submission.ServiceLocation + " " + submission.MonthYear,
		Details:    string(snapshot),
	}
	if actorID, parseErr := uuid.Parse(actor.ID); parseErr == nil {
		entry.UserID = &actorID
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to record deletion audit: %w", err)
	}

	if err := s.submissions.HardDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	return nil
}

func (s *submissionService) publishEvent(eventType string, submission *model.DataSubmission) {
	if s.events == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"type":             eventType,
		"submission_id":    submission.ID.String(),
		"service_location": submission.ServiceLocation,
		"month_year":       submission.MonthYear,
		"status":           submission.Status,
	})
	if err != nil {
		return
	}
	s.events.Publish(payload)
}
