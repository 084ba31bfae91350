package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/sarkargroup/smd-backend/internal/models"
	"github.com/sarkargroup/smd-backend/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engineerRequest(email string) *EmployeeRegistrationRequest {
	return &EmployeeRegistrationRequest{
		UserFields: UserFields{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     email,
			Password:  "secret123",
		},
		Mobile:         "123",
		UserName:       "ada",
		Dob:            "1815-12-10",
		MaritalStatus:  models.Married,
		Gender:         models.GenderFemale,
		EmployeeType:   "FULL_TIME",
		Department:     models.CategoryEngineering,
		Designation:    "SOFTWARE_ENGINEER",
		OfficeLocation: "Dhaka",
		Nationality:    "British",
		Street:         "1 St James's Square",
		City:           "London",
		State:          "London",
		Zip:            1000,
		SalarySlips:    []string{"slip-1.pdf"},
	}
}

func TestEmployeeRegistration_Engineer(t *testing.T) {
	db := setupDB(t)
	svc := NewUserService(db)

	view, err := svc.EmployeeRegistration(context.Background(), models.RoleEngineer, engineerRequest("ada@x.com"))
	require.NoError(t, err)

	assert.Equal(t, models.RoleEngineer, view.Role)
	engineer, ok := view.Profile.(*models.Engineer)
	require.True(t, ok, "profile type %T", view.Profile)
	assert.Equal(t, view.ID, engineer.UserID)
	assert.True(t, strings.HasPrefix(engineer.EmployeeID, "SG_SMD-ENG-"), "EmployeeID = %q", engineer.EmployeeID)

	var stored models.Engineer
	require.NoError(t, db.Where("user_id = ?", view.ID).First(&stored).Error)
	assert.Equal(t, "123", stored.Mobile)
	assert.Equal(t, []string{"slip-1.pdf"}, []string(stored.SalarySlips))

	body, err := json.Marshal(view)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	assert.NotContains(t, out, "password")
	assert.Equal(t, "ada@x.com", out["email"])
	assert.Contains(t, out, "profile")
}

func TestEmployeeRegistration_ProfilePrefixes(t *testing.T) {
	tests := []struct {
		role   models.Role
		prefix string
	}{
		{models.RoleAdmin, "SG_SMD-ADMIN-"},
		{models.RoleProjectManager, "SG_SMD-PM-"},
		{models.RoleEngineer, "SG_SMD-ENG-"},
	}

	db := setupDB(t)
	svc := NewUserService(db)
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			view, err := svc.EmployeeRegistration(context.Background(), tt.role, engineerRequest(strings.ToLower(string(tt.role))+"@x.com"))
			require.NoError(t, err)
			body, err := json.Marshal(view.Profile)
			require.NoError(t, err)
			assert.Contains(t, string(body), `"employeeId":"`+tt.prefix)
		})
	}
}

func TestEmployeeRegistration_RejectsClientRole(t *testing.T) {
	svc := NewUserService(setupDB(t))

	_, err := svc.EmployeeRegistration(context.Background(), models.RoleClient, engineerRequest("c@x.com"))
	assert.True(t, response.IsStatus(err, http.StatusBadRequest))
}

func TestEmployeeRegistration_DuplicateEmailRollsBack(t *testing.T) {
	db := setupDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	_, err := svc.EmployeeRegistration(ctx, models.RoleEngineer, engineerRequest("ada@x.com"))
	require.NoError(t, err)

	_, err = svc.EmployeeRegistration(ctx, models.RoleProjectManager, engineerRequest("ada@x.com"))
	require.Error(t, err)
	assert.True(t, response.IsStatus(err, http.StatusConflict))

	var users, managers int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.ProjectManager{}).Count(&managers).Error)
	assert.Equal(t, int64(1), users)
	assert.Zero(t, managers)
}

func TestClientRegistrationAndProfile(t *testing.T) {
	db := setupDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	view, err := svc.ClientRegistration(ctx, &ClientRegistrationRequest{
		UserFields:  UserFields{FirstName: "Grace", LastName: "Hopper", Email: "grace@x.com", Password: "secret123"},
		Mobile:      "555",
		Street:      "Main",
		City:        "Arlington",
		State:       "VA",
		Zip:         22201,
		ProductList: []string{"crane"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, view.Role)

	profile, err := svc.Profile(ctx, "grace@x.com")
	require.NoError(t, err)
	client, ok := profile.Profile.(*models.Client)
	require.True(t, ok, "profile type %T", profile.Profile)
	assert.Equal(t, "555", client.Mobile)
	assert.Equal(t, []string{"crane"}, []string(client.ProductList))

	_, err = svc.Profile(ctx, "nobody@x.com")
	assert.True(t, response.IsStatus(err, http.StatusNotFound))
}

func TestProfile_SuperAdminUsesAdminTable(t *testing.T) {
	db := setupDB(t)
	cfg := testConfig()
	auth := NewAuthService(db, nil, nil, cfg)
	require.NoError(t, auth.CreateSuperAdminIfNotExists(context.Background()))

	view, err := NewUserService(db).Profile(context.Background(), cfg.SuperAdmin.Email)
	require.NoError(t, err)
	_, ok := view.Profile.(*models.Admin)
	assert.True(t, ok, "profile type %T", view.Profile)
}

func TestActiveStatusUpdateAndSoftDelete(t *testing.T) {
	db := setupDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	actor := seedAdmin(t, db)
	target := seedEngineer(t, db).User
	root := seedUser(t, db, models.RoleSuperAdmin, "root@x.com", "rootpass")

	updated, err := svc.ActiveStatusUpdate(ctx, actor, target.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	updated, err = svc.SoftDelete(ctx, actor, target.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsDeleted)

	updated, err = svc.ActiveStatusUpdate(ctx, actor, target.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
	assert.True(t, updated.IsDeleted)

	tests := []struct {
		name   string
		userID string
		status int
	}{
		{"self", actor.ID, http.StatusForbidden},
		{"super admin", root.ID, http.StatusForbidden},
		{"missing", "missing", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ActiveStatusUpdate(ctx, actor, tt.userID, false)
			assert.True(t, response.IsStatus(err, tt.status), "ActiveStatusUpdate error %v", err)
			_, err = svc.SoftDelete(ctx, actor, tt.userID, true)
			assert.True(t, response.IsStatus(err, tt.status), "SoftDelete error %v", err)
		})
	}

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", root.ID).Error)
	assert.True(t, stored.IsActive)
	assert.False(t, stored.IsDeleted)
}
