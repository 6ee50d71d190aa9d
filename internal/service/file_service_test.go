package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"backend/pkg/apperror"
)

func TestFileSaveAndResolve(t *testing.T) {
	svc, err := NewFileService(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileService() error = %v", err)
	}

	result, err := svc.Save("report.pdf", "application/pdf", strings.NewReader("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if result.OriginalName != "report.pdf" {
		t.Errorf("OriginalName = %s", result.OriginalName)
	}
	if filepath.Ext(result.Filename) != ".pdf" {
		t.Errorf("Filename = %s, want .pdf extension kept", result.Filename)
	}
	if result.Filename == "report.pdf" {
		t.Error("stored name should be generated, not the original")
	}

	path, err := svc.Resolve(result.Filename)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "%PDF-1.4 fake" {
		t.Errorf("content = %q", data)
	}
}

func TestFileSaveRejectsDisallowedType(t *testing.T) {
	svc, err := NewFileService(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileService() error = %v", err)
	}
	_, err = svc.Save("payload.sh", "application/x-sh", strings.NewReader("#!/bin/sh"))
	if err == nil || apperror.MapErrorToStatus(err) != 400 {
		t.Fatalf("Save() error = %v, want 400", err)
	}
}

func TestFileResolveRejectsTraversal(t *testing.T) {
	svc, err := NewFileService(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileService() error = %v", err)
	}
	for _, name := range []string{"", "../etc/passwd", "a/b", `a\b`, "..", "foo..bar"} {
		if _, err := svc.Resolve(name); err == nil || apperror.MapErrorToStatus(err) != 404 {
			t.Errorf("Resolve(%q) error = %v, want 404", name, err)
		}
	}
}

func TestFileResolveMissing(t *testing.T) {
	svc, err := NewFileService(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileService() error = %v", err)
	}
	if _, err := svc.Resolve("nope.txt"); err == nil || apperror.MapErrorToStatus(err) != 404 {
		t.Fatalf("Resolve() error = %v, want 404", err)
	}
}
