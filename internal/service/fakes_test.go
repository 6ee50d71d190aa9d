package service

import (
	"context"
	"errors"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

var errFakeNotFound = errors.New("record not found")

// --- fake repositories ---

type fakeUserRepo struct {
	users map[string]*model.User // keyed by ID
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) add(user *model.User) *model.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID.String()] = user
	return user
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if r.err != nil {
		return r.err
	}
	r.add(user)
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, errFakeNotFound
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, errFakeNotFound
}

func (r *fakeUserRepo) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	var out []model.User
	for _, user := range r.users {
		if user.DeletedAt == nil {
			out = append(out, *user)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) ListByStatus(ctx context.Context, status string) ([]model.User, error) {
	var out []model.User
	for _, user := range r.users {
		if user.Status == status && user.DeletedAt == nil {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ListDeleted(ctx context.Context) ([]model.User, error) {
	var out []model.User
	for _, user := range r.users {
		if user.DeletedAt != nil {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if r.err != nil {
		return r.err
	}
	r.users[user.ID.String()] = user
	return nil
}

func (r *fakeUserRepo) CountActiveByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	for _, user := range r.users {
		if user.Role == role && user.IsActive && user.DeletedAt == nil {
			count++
		}
	}
	return count, nil
}

type fakeResetRepo struct {
	resets []*model.PasswordResetRequest
}

func (r *fakeResetRepo) Create(ctx context.Context, req *model.PasswordResetRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.CreatedAt = time.Now()
	r.resets = append(r.resets, req)
	return nil
}

func (r *fakeResetRepo) GetPending(ctx context.Context, username, code string) (*model.PasswordResetRequest, error) {
	for i := len(r.resets) - 1; i >= 0; i-- {
		reset := r.resets[i]
		if reset.Username == username && reset.Code == code && reset.Status == model.ResetPending {
			return reset, nil
		}
	}
	return nil, errFakeNotFound
}

func (r *fakeResetRepo) Update(ctx context.Context, req *model.PasswordResetRequest) error {
	for i := range r.resets {
		if r.resets[i].ID == req.ID {
			r.resets[i] = req
			return nil
		}
	}
	return errFakeNotFound
}

type fakeRoleRepo struct {
	roles map[string]*model.UserRole // keyed by ID
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[string]*model.UserRole)}
}

func (r *fakeRoleRepo) add(role *model.UserRole) *model.UserRole {
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	r.roles[role.ID.String()] = role
	return role
}

func (r *fakeRoleRepo) Create(ctx context.Context, role *model.UserRole) error {
	r.add(role)
	return nil
}

func (r *fakeRoleRepo) GetByID(ctx context.Context, id string) (*model.UserRole, error) {
	if role, ok := r.roles[id]; ok {
		return role, nil
	}
	return nil, errFakeNotFound
}

func (r *fakeRoleRepo) GetByName(ctx context.Context, name string) (*model.UserRole, error) {
	for _, role := range r.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return nil, errFakeNotFound
}

func (r *fakeRoleRepo) List(ctx context.Context) ([]model.UserRole, error) {
	var out []model.UserRole
	for _, role := range r.roles {
		out = append(out, *role)
	}
	return out, nil
}

func (r *fakeRoleRepo) Update(ctx context.Context, role *model.UserRole) error {
	r.roles[role.ID.String()] = role
	return nil
}

func (r *fakeRoleRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.roles[id]; !ok {
		return errFakeNotFound
	}
	delete(r.roles, id)
	return nil
}

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func (r *fakeAuditRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	return r.entries, int64(len(r.entries)), nil
}

type fakeLocationRepo struct {
	locations map[string]*model.ServiceLocation
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{locations: make(map[string]*model.ServiceLocation)}
}

func (r *fakeLocationRepo) add(location *model.ServiceLocation) *model.ServiceLocation {
	if location.ID == uuid.Nil {
		location.ID = uuid.New()
	}
	r.locations[location.ID.String()] = location
	return location
}

func (r *fakeLocationRepo) Create(ctx context.Context, location *model.ServiceLocation) error {
	r.add(location)
	return nil
}

func (r *fakeLocationRepo) GetByID(ctx context.Context, id string) (*model.ServiceLocation, error) {
	if location, ok := r.locations[id]; ok {
		return location, nil
	}
	return nil, errFakeNotFound
}

func (r *fakeLocationRepo) GetByName(ctx context.Context, name string) (*model.ServiceLocation, error) {
	for _, location := range r.locations {
		if location.Name == name {
			return location, nil
		}
	}
	return nil, errFakeNotFound
}

func (r *fakeLocationRepo) ListActive(ctx context.Context) ([]model.ServiceLocation, error) {
	var out []model.ServiceLocation
	for _, location := range r.locations {
		if location.IsActive {
			out = append(out, *location)
		}
	}
	return out, nil
}

func (r *fakeLocationRepo) ListDeleted(ctx context.Context) ([]model.ServiceLocation, error) {
	var out []model.ServiceLocation
	for _, location := range r.locations {
		if !location.IsActive {
			out = append(out, *location)
		}
	}
	return out, nil
}

func (r *fakeLocationRepo) Update(ctx context.Context, location *model.ServiceLocation) error {
	r.locations[location.ID.String()] = location
	return nil
}

func (r *fakeLocationRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(r.locations)), nil
}

type fakeTemplateRepo struct {
	templates map[string]*model.FormTemplate
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[string]*model.FormTemplate)}
}

func (r *fakeTemplateRepo) add(template *model.FormTemplate) *model.FormTemplate {
	if template.ID == uuid.Nil {
		template.ID = uuid.New()
	}
	r.templates[template.ID.String()] = template
	return template
}

func (r *fakeTemplateRepo) Create(ctx context.Context, template *model.FormTemplate) error {
	r.add(template)
	return nil
}

func (r *fakeTemplateRepo) GetByID(ctx context.Context, id string) (*model.FormTemplate, error) {
	if template, ok := r.templates[id]; ok {
		return template, nil
	}
	return nil, errFakeNotFound
}

func (r *fakeTemplateRepo) ListActive(ctx context.Context) ([]model.FormTemplate, error) {
	var out []model.FormTemplate
	for _, template := range r.templates {
		if template.IsActive {
			out = append(out, *template)
		}
	}
	return out, nil
}

func (r *fakeTemplateRepo) ListActiveForLocation(ctx context.Context, location string) ([]model.FormTemplate, error) {
	var out []model.FormTemplate
	for _, template := range r.templates {
		if !template.IsActive {
			continue
		}
		for _, assigned := range template.AssignedLocations {
			if assigned == location {
				out = append(out, *template)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeTemplateRepo) ListDeleted(ctx context.Context) ([]model.FormTemplate, error) {
	var out []model.FormTemplate
	for _, template := range r.templates {
		if !template.IsActive {
			out = append(out, *template)
		}
	}
	return out, nil
}

func (r *fakeTemplateRepo) Update(ctx context.Context, template *model.FormTemplate) error {
	r.templates[template.ID.String()] = template
	return nil
}

type fakeSubmissionRepo struct {
	submissions []model.DataSubmission
	listErr     error
}

func (r *fakeSubmissionRepo) add(submission model.DataSubmission) model.DataSubmission {
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now()
	}
	r.submissions = append(r.submissions, submission)
	return submission
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, submission *model.DataSubmission) error {
	*submission = r.add(*submission)
	return nil
}

func (r *fakeSubmissionRepo) GetByID(ctx context.Context, id string) (*model.DataSubmission, error) {
	for i := range r.submissions {
		if r.submissions[i].ID.String() == id {
			return &r.submissions[i], nil
		}
	}
	return nil, errFakeNotFound
}

func matchesFilter(sub *model.DataSubmission, filter repository.SubmissionFilter) bool {
	if filter.Location != "" && sub.ServiceLocation != filter.Location {
		return false
	}
	if len(filter.Locations) > 0 && !containsString(filter.Locations, sub.ServiceLocation) {
		return false
	}
	if filter.MonthYear != "" && sub.MonthYear != filter.MonthYear {
		return false
	}
	if filter.TemplateID != "" && sub.TemplateID.String() != filter.TemplateID {
		return false
	}
	if len(filter.TemplateIDs) > 0 && !containsString(filter.TemplateIDs, sub.TemplateID.String()) {
		return false
	}
	if filter.Status != "" && sub.Status != filter.Status {
		return false
	}
	if len(filter.Statuses) > 0 && !containsString(filter.Statuses, sub.Status) {
		return false
	}
	if filter.SubmittedBy != "" && sub.SubmittedBy.String() != filter.SubmittedBy {
		return false
	}
	if len(filter.Submitters) > 0 && !containsString(filter.Submitters, sub.SubmittedBy.String()) {
		return false
	}
	if filter.DateFrom != nil && sub.SubmittedAt.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && sub.SubmittedAt.After(*filter.DateTo) {
		return false
	}
	return true
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func (r *fakeSubmissionRepo) ListFiltered(ctx context.Context, filter repository.SubmissionFilter) ([]model.DataSubmission, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []model.DataSubmission
	for i := range r.submissions {
		if matchesFilter(&r.submissions[i], filter) {
			out = append(out, r.submissions[i])
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) Update(ctx context.Context, submission *model.DataSubmission) error {
	for i := range r.submissions {
		if r.submissions[i].ID == submission.ID {
			r.submissions[i] = *submission
			return nil
		}
	}
	return errFakeNotFound
}

func (r *fakeSubmissionRepo) HardDelete(ctx context.Context, id string) error {
	for i := range r.submissions {
		if r.submissions[i].ID.String() == id {
			r.submissions = append(r.submissions[:i], r.submissions[i+1:]...)
			return nil
		}
	}
	return errFakeNotFound
}

func (r *fakeSubmissionRepo) CountByLocationForMonth(ctx context.Context, monthYear string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for i := range r.submissions {
		if r.submissions[i].MonthYear == monthYear {
			counts[r.submissions[i].ServiceLocation]++
		}
	}
	return counts, nil
}

type fakeSettingRepo struct {
	settings map[string]*model.AdminSetting
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{settings: make(map[string]*model.AdminSetting)}
}

func (r *fakeSettingRepo) Get(ctx context.Context, key string) (*model.AdminSetting, error) {
	if setting, ok := r.settings[key]; ok {
		return setting, nil
	}
	return nil, errFakeNotFound
}

func (r *fakeSettingRepo) List(ctx context.Context) ([]model.AdminSetting, error) {
	var out []model.AdminSetting
	for _, setting := range r.settings {
		out = append(out, *setting)
	}
	return out, nil
}

func (r *fakeSettingRepo) Upsert(ctx context.Context, setting *model.AdminSetting) error {
	setting.UpdatedAt = time.Now()
	r.settings[setting.Key] = setting
	return nil
}

type fakeEvents struct {
	published [][]byte
}

func (e *fakeEvents) Publish(message []byte) {
	e.published = append(e.published, message)
}
