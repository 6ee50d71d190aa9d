package bootstrap

import (
	"context"
	"fmt"
	"log"

	"backend/internal/model"
	"backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// Seed creates the default admin account, sample locations and system roles on
// first start. Every step is idempotent so the server can seed on each boot.
func Seed(ctx context.Context, users repository.UserRepository, locations repository.LocationRepository, roles repository.RoleRepository) error {
	if err := seedAdmin(ctx, users); err != nil {
		return err
	}
	if err := seedLocations(ctx, locations); err != nil {
		return err
	}
	if err := seedRoles(ctx, roles); err != nil {
		return err
	}
	return nil
}

func seedAdmin(ctx context.Context, users repository.UserRepository) error {
	if _, err := users.GetByUsername(ctx, "admin"); err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &model.User{
		Username:        "admin",
		PasswordHash:    string(hash),
		Role:            model.RoleAdmin,
		PagePermissions: datatypes.NewJSONSlice(model.AllPagePermissions),
		IsActive:        true,
		Status:          model.StatusActive,
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Println("Seeded default admin account (admin/admin123), change the password after first login")
	return nil
}

func seedLocations(ctx context.Context, locations repository.LocationRepository) error {
	total, err := locations.CountAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to count locations: %w", err)
	}
	if total > 0 {
		return nil
	}

	defaults := []model.ServiceLocation{
		{Name: "Central Hub", Description: "Main service center", IsActive: true},
		{Name: "North Branch", Description: "Northern district office", IsActive: true},
		{Name: "South Branch", Description: "Southern district office", IsActive: true},
		{Name: "East Branch", Description: "Eastern district office", IsActive: true},
		{Name: "West Branch", Description: "Western district office", IsActive: true},
	}
	for i := range defaults {
		if err := locations.Create(ctx, &defaults[i]); err != nil {
			return fmt.Errorf("failed to create location %q: %w", defaults[i].Name, err)
		}
	}

	log.Printf("Seeded %d sample locations", len(defaults))
	return nil
}

func seedRoles(ctx context.Context, roles repository.RoleRepository) error {
	defaults := []model.UserRole{
		{
			Name:         model.RoleAdmin,
			DisplayName:  "Administrator",
			Permissions:  datatypes.NewJSONSlice(model.AllPagePermissions),
			IsSystemRole: true,
		},
		{
			Name:        model.RoleManager,
			DisplayName: "Manager",
			Permissions: datatypes.NewJSONSlice([]string{
				model.PageDashboard, model.PageSubmit, model.PageReports, model.PageStatistics,
			}),
			IsSystemRole: true,
		},
		{
			Name:        model.RoleDataEntry,
			DisplayName: "Data Entry",
			Permissions: datatypes.NewJSONSlice([]string{
				model.PageDashboard, model.PageSubmit,
			}),
			IsSystemRole: true,
		},
		{
			Name:        model.RoleStatistician,
			DisplayName: "Statistician",
			Permissions: datatypes.NewJSONSlice([]string{
				model.PageDashboard, model.PageReports, model.PageStatistics,
			}),
			IsSystemRole: true,
		},
	}

	created := 0
	for i := range defaults {
		if _, err := roles.GetByName(ctx, defaults[i].Name); err == nil {
			continue
		}
		if err := roles.Create(ctx, &defaults[i]); err != nil {
			return fmt.Errorf("failed to create role %q: %w", defaults[i].Name, err)
		}
		created++
	}
	if created > 0 {
		log.Printf("Seeded %d system roles", created)
	}
	return nil
}
