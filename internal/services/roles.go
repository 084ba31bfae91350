package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sarkargroup/smd-backend/internal/models"
	"gorm.io/gorm"
)

// employeeProfile builds the profile row of an employee role.
type employeeProfile struct {
	idPrefix string
	build    func(userID string, info models.EmployeeInfo) any
}

func (p employeeProfile) newEmployeeID() string {
	return p.idPrefix + uuid.NewString()
}

// employeeProfiles maps every employee role to its profile table.
var employeeProfiles = map[models.Role]employeeProfile{
	models.RoleAdmin: {
		idPrefix: "SG_SMD-ADMIN-",
		build: func(userID string, info models.EmployeeInfo) any {
			return &models.Admin{UserID: userID, EmployeeInfo: info}
		},
	},
	models.RoleProjectManager: {
		idPrefix: "SG_SMD-PM-",
		build: func(userID string, info models.EmployeeInfo) any {
			return &models.ProjectManager{UserID: userID, EmployeeInfo: info}
		},
	},
	models.RoleEngineer: {
		idPrefix: "SG_SMD-ENG-",
		build: func(userID string, info models.EmployeeInfo) any {
			return &models.Engineer{UserID: userID, EmployeeInfo: info}
		},
	},
}

// profileModels maps every role to the profile table read by Profile.
// Super admins keep their profile in the admins table.
var profileModels = map[models.Role]func() any{
	models.RoleSuperAdmin:     func() any { return &models.Admin{} },
	models.RoleAdmin:          func() any { return &models.Admin{} },
	models.RoleProjectManager: func() any { return &models.ProjectManager{} },
	models.RoleEngineer:       func() any { return &models.Engineer{} },
	models.RoleClient:         func() any { return &models.Client{} },
}

// loadProfile reads the role profile of userID, or nil when the role has none.
func loadProfile(ctx context.Context, db *gorm.DB, role models.Role, userID string) (any, error) {
	newModel, ok := profileModels[role]
	if !ok {
		return nil, nil
	}
	profile := newModel()
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(profile).Error; err != nil {
		return nil, notFound(err, "Profile")
	}
	return profile, nil
}
