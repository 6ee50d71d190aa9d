package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/pkg/apperror"

	"github.com/google/uuid"
)

func newUserFixture() (*userService, *fakeUserRepo, *fakeRoleRepo, *fakeAuditRepo) {
	users := newFakeUserRepo()
	roles := newFakeRoleRepo()
	audit := &fakeAuditRepo{}
	svc := &userService{users: users, roles: roles, audit: audit, now: time.Now}
	return svc, users, roles, audit
}

func TestCreateUserValidation(t *testing.T) {
	svc, users, roles, _ := newUserFixture()
	users.add(&model.User{Username: "taken", Status: model.StatusActive, IsActive: true})
	roles.add(&model.UserRole{Name: "auditor", DisplayName: "Auditor"})

	tests := []struct {
		name       string
		req        CreateUserRequest
		wantStatus int
	}{
		{
			name: "builtin role accepted",
			req:  CreateUserRequest{Username: "u1", Password: "secret123", Role: model.RoleManager},
		},
		{
			name: "custom role accepted",
			req:  CreateUserRequest{Username: "u2", Password: "secret123", Role: "auditor"},
		},
		{
			name:       "unknown role rejected",
			req:        CreateUserRequest{Username: "u3", Password: "secret123", Role: "wizard"},
			wantStatus: 400,
		},
		{
			name:       "unknown permission rejected",
			req:        CreateUserRequest{Username: "u4", Password: "secret123", Role: model.RoleAdmin, PagePermissions: []string{"blackops"}},
			wantStatus: 400,
		},
		{
			name:       "duplicate username rejected",
			req:        CreateUserRequest{Username: "taken", Password: "secret123", Role: model.RoleAdmin},
			wantStatus: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.CreateUser(context.Background(), tt.req)
			if tt.wantStatus == 0 {
				if err != nil {
					t.Fatalf("CreateUser() error = %v", err)
				}
				if !resp.IsActive || resp.Status != model.StatusActive {
					t.Errorf("CreateUser() = %+v, want active account", resp)
				}
				return
			}
			if err == nil || apperror.MapErrorToStatus(err) != tt.wantStatus {
				t.Fatalf("CreateUser() error = %v, want status %d", err, tt.wantStatus)
			}
		})
	}
}

func TestApproveUser(t *testing.T) {
	svc, users, _, audit := newUserFixture()
	admin := users.add(&model.User{Username: "admin", Role: model.RoleAdmin, Status: model.StatusActive, IsActive: true})
	pending := users.add(&model.User{Username: "newbie", Status: model.StatusPending})

	resp, err := svc.ApproveUser(context.Background(), ApproveUserRequest{
		UserID:           pending.ID.String(),
		Status:           model.StatusApproved,
		Role:             model.RoleDataEntry,
		AssignedLocation: "North Branch",
		PagePermissions:  []string{model.PageDashboard, model.PageSubmit},
	}, admin.ID.String())
	if err != nil {
		t.Fatalf("ApproveUser() error = %v", err)
	}
	if resp.Status != model.StatusApproved || !resp.IsActive {
		t.Errorf("ApproveUser() = %+v, want approved active", resp)
	}
	if resp.AssignedLocation != "North Branch" {
		t.Errorf("AssignedLocation = %q, want North Branch", resp.AssignedLocation)
	}
	if pending.ApprovedAt == nil || pending.ApprovedBy == nil || *pending.ApprovedBy != admin.ID {
		t.Errorf("approval stamp missing: at=%v by=%v", pending.ApprovedAt, pending.ApprovedBy)
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != model.ActionApproveUser {
		t.Errorf("audit = %+v, want one APPROVE_USER entry", audit.entries)
	}

	// Only pending accounts can be approved.
	_, err = svc.ApproveUser(context.Background(), ApproveUserRequest{
		UserID: pending.ID.String(), Status: model.StatusApproved,
	}, admin.ID.String())
	if err == nil || apperror.MapErrorToStatus(err) != 400 {
		t.Fatalf("ApproveUser() on non-pending error = %v, want 400", err)
	}
}

func TestRejectUser(t *testing.T) {
	svc, users, _, audit := newUserFixture()
	pending := users.add(&model.User{Username: "newbie", Status: model.StatusPending})

	resp, err := svc.ApproveUser(context.Background(), ApproveUserRequest{
		UserID: pending.ID.String(), Status: model.StatusRejected,
	}, uuid.NewString())
	if err != nil {
		t.Fatalf("ApproveUser() error = %v", err)
	}
	if resp.Status != model.StatusRejected || resp.IsActive {
		t.Errorf("ApproveUser() = %+v, want rejected inactive", resp)
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != model.ActionRejectUser {
		t.Errorf("audit = %+v, want one REJECT_USER entry", audit.entries)
	}
}

func TestApproveUserUnknownID(t *testing.T) {
	svc, _, _, _ := newUserFixture()
	_, err := svc.ApproveUser(context.Background(), ApproveUserRequest{
		UserID: uuid.NewString(), Status: model.StatusApproved,
	}, uuid.NewString())
	if err == nil || apperror.MapErrorToStatus(err) != 404 {
		t.Fatalf("ApproveUser() error = %v, want 404", err)
	}
}

func TestDeleteAndRestoreUser(t *testing.T) {
	svc, users, _, audit := newUserFixture()
	admin := users.add(&model.User{Username: "admin", Role: model.RoleAdmin, Status: model.StatusActive, IsActive: true})
	victim := users.add(&model.User{Username: "victim", Role: model.RoleDataEntry, Status: model.StatusActive, IsActive: true})

	if err := svc.DeleteUser(context.Background(), victim.ID.String(), admin.ID.String()); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if victim.DeletedAt == nil || victim.IsActive {
		t.Fatalf("user not soft-deleted: %+v", victim)
	}

	// Deleted users appear only in the deleted listing.
	listed, _, _ := svc.ListUsers(context.Background(), 1, 50)
	for _, u := range listed {
		if u.Username == "victim" {
			t.Error("deleted user still in default listing")
		}
	}
	deleted, err := svc.ListDeletedUsers(context.Background())
	if err != nil || len(deleted) != 1 || deleted[0].Username != "victim" {
		t.Fatalf("ListDeletedUsers() = %v, %v", deleted, err)
	}

	// Double delete is rejected.
	if err := svc.DeleteUser(context.Background(), victim.ID.String(), admin.ID.String()); err == nil {
		t.Error("DeleteUser() allowed deleting twice")
	}

	resp, err := svc.RestoreUser(context.Background(), victim.ID.String(), admin.ID.String())
	if err != nil {
		t.Fatalf("RestoreUser() error = %v", err)
	}
	if resp.DeletedAt != nil || !resp.IsActive {
		t.Errorf("RestoreUser() = %+v, want active with no deletion marker", resp)
	}
	if victim.RestoredAt == nil || victim.RestoredBy == nil {
		t.Errorf("restore stamp missing: %+v", victim)
	}

	wantActions := []string{model.ActionDeleteUser, model.ActionRestoreUser}
	if len(audit.entries) != len(wantActions) {
		t.Fatalf("audit entries = %d, want %d", len(audit.entries), len(wantActions))
	}
	for i, action := range wantActions {
		if audit.entries[i].Action != action {
			t.Errorf("audit[%d].Action = %s, want %s", i, audit.entries[i].Action, action)
		}
	}
}

func TestUpdateUserPasswordTooShort(t *testing.T) {
	svc, users, _, _ := newUserFixture()
	user := users.add(&model.User{Username: "alice", Status: model.StatusActive, IsActive: true})

	short := "short"
	_, err := svc.UpdateUser(context.Background(), user.ID.String(), UpdateUserRequest{Password: &short})
	if err == nil || apperror.MapErrorToStatus(err) != 400 {
		t.Fatalf("UpdateUser() error = %v, want 400", err)
	}
}
