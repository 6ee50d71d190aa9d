package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/pkg/apperror"

	"github.com/google/uuid"
)

func TestUpdateSetting(t *testing.T) {
	settings := newFakeSettingRepo()
	audit := &fakeAuditRepo{}
	svc := NewSettingService(settings, audit)
	actor := uuid.New()

	resp, err := svc.UpdateSetting(context.Background(), model.SettingReportDeadline, "25", actor.String())
	if err != nil {
		t.Fatalf("UpdateSetting() error = %v", err)
	}
	if resp.Key != model.SettingReportDeadline || resp.Value != "25" {
		t.Errorf("response = %+v", resp)
	}

	got, err := svc.GetSetting(context.Background(), model.SettingReportDeadline)
	if err != nil {
		t.Fatalf("GetSetting() error = %v", err)
	}
	if got.Value != "25" {
		t.Errorf("Value = %s, want 25", got.Value)
	}

	if len(audit.entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(audit.entries))
	}
	entry := audit.entries[0]
	if entry.Action != model.ActionUpdateSetting || entry.EntityID != model.SettingReportDeadline {
		t.Errorf("audit entry = %+v", entry)
	}
	if entry.UserID == nil || *entry.UserID != actor {
		t.Errorf("audit UserID = %v, want %v", entry.UserID, actor)
	}

	// Upserting again overwrites rather than duplicating.
	if _, err := svc.UpdateSetting(context.Background(), model.SettingReportDeadline, "28", actor.String()); err != nil {
		t.Fatalf("UpdateSetting() error = %v", err)
	}
	all, err := svc.ListSettings(context.Background())
	if err != nil {
		t.Fatalf("ListSettings() error = %v", err)
	}
	if len(all) != 1 || all[0].Value != "28" {
		t.Errorf("settings = %+v, want single entry with value 28", all)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	svc := NewSettingService(newFakeSettingRepo(), &fakeAuditRepo{})
	_, err := svc.GetSetting(context.Background(), "nope")
	if err == nil || apperror.MapErrorToStatus(err) != 404 {
		t.Fatalf("GetSetting() error = %v, want 404", err)
	}
}
