package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/sarkargroup/smd-backend/internal/models"
	"github.com/sarkargroup/smd-backend/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func countRows(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func TestProjectService_Create(t *testing.T) {
	db := setupDB(t)
	svc := NewProjectService(db)
	ctx := context.Background()
	admin := seedAdmin(t, db)
	client := seedClient(t, db)
	pm := seedProjectManager(t, db)

	req := &CreateProjectRequest{
		ProjectName:      "Padma Bridge",
		Department:       models.CategoryCivil,
		ClientID:         client.ID,
		ProjectManagerID: pm.ID,
		StartDate:        time.Now(),
		EstimatedEndDate: time.Now().Add(24 * time.Hour),
		ProjectType:      models.CategoryCivil,
		ProductType:      models.CategoryMarin,
		Status:           models.ProjectNotStarted,
		Street:           "River Rd",
		City:             "Mawa",
		State:            "Dhaka",
		Zip:              1200,
	}

	project, err := svc.Create(ctx, admin, req)
	require.NoError(t, err)
	assert.Equal(t, admin.Admin.ID, project.CreatedBy)
	assert.NotEmpty(t, project.ID)

	t.Run("missing client", func(t *testing.T) {
		bad := *req
		bad.ClientID = "missing"
		_, err := svc.Create(ctx, admin, &bad)
		assert.True(t, response.IsStatus(err, http.StatusNotFound))
	})

	t.Run("missing project manager", func(t *testing.T) {
		bad := *req
		bad.ProjectManagerID = "missing"
		_, err := svc.Create(ctx, admin, &bad)
		assert.True(t, response.IsStatus(err, http.StatusNotFound))
	})

	t.Run("actor without admin profile", func(t *testing.T) {
		_, err := svc.Create(ctx, pm.User, req)
		assert.True(t, errors.Is(err, ErrNotAnAdmin))
	})

	assert.Equal(t, int64(1), countRows(t, db, &models.Project{}, "1 = 1"))
}

func TestProjectService_CompletedProjectIsImmutable(t *testing.T) {
	db := setupDB(t)
	svc := NewProjectService(db)
	ctx := context.Background()
	admin := seedAdmin(t, db)

	project := seedProject(t, db, admin, models.ProjectCompleted)
	engineer := seedEngineer(t, db)
	linkedEngineer := seedEngineer(t, db)
	product := seedProduct(t, db, admin, "Tower Crane", models.EquipmentStandBy)
	linkedProduct := seedProduct(t, db, admin, "Mobile Crane", models.EquipmentStandBy)
	require.NoError(t, db.Create(&models.ProjectEngineer{ProjectID: project.ID, EngineerID: linkedEngineer.ID}).Error)
	require.NoError(t, db.Create(&models.ProjectProduct{ProjectID: project.ID, ProductID: linkedProduct.ID}).Error)

	mutations := map[string]func() error{
		"UpdateInfo": func() error {
			_, err := svc.UpdateInfo(ctx, project.ID, &UpdateProjectRequest{ProjectName: strPtr("Renamed")})
			return err
		},
		"AddEngineers": func() error {
			_, err := svc.AddEngineers(ctx, project.ID, []string{engineer.ID})
			return err
		},
		"RemoveEngineer": func() error {
			return svc.RemoveEngineer(ctx, project.ID, linkedEngineer.ID)
		},
		"AddProducts": func() error {
			_, err := svc.AddProducts(ctx, project.ID, []string{product.ID})
			return err
		},
		"RemoveProduct": func() error {
			return svc.RemoveProduct(ctx, project.ID, linkedProduct.ID)
		},
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			err := mutate()
			assert.ErrorIs(t, err, ErrProjectCompleted)
			assert.True(t, response.IsStatus(err, http.StatusConflict))
		})
	}

	var stored models.Project
	require.NoError(t, db.First(&stored, "id = ?", project.ID).Error)
	assert.Equal(t, project.ProjectName, stored.ProjectName)
	assert.Equal(t, int64(1), countRows(t, db, &models.ProjectEngineer{}, "project_id = ?", project.ID))
	assert.Equal(t, int64(1), countRows(t, db, &models.ProjectProduct{}, "project_id = ?", project.ID))
}

func TestProjectService_UpdateInfoCompletesOnce(t *testing.T) {
	db := setupDB(t)
	svc := NewProjectService(db)
	ctx := context.Background()
	project := seedProject(t, db, seedAdmin(t, db), models.ProjectInProgress)

	completed := models.ProjectCompleted
	updated, err := svc.UpdateInfo(ctx, project.ID, &UpdateProjectRequest{Status: &completed, City: strPtr("Chattogram")})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectCompleted, updated.Status)
	assert.Equal(t, "Chattogram", updated.City)

	reopened := models.ProjectInProgress
	_, err = svc.UpdateInfo(ctx, project.ID, &UpdateProjectRequest{Status: &reopened})
	assert.ErrorIs(t, err, ErrProjectCompleted)

	_, err = svc.UpdateInfo(ctx, "missing", &UpdateProjectRequest{City: strPtr("X")})
	assert.True(t, response.IsStatus(err, http.StatusNotFound))
}

func TestProjectService_AddProductRequiresStandBy(t *testing.T) {
	db := setupDB(t)
	svc := NewProjectService(db)
	ctx := context.Background()
	admin := seedAdmin(t, db)
	project := seedProject(t, db, admin, models.ProjectInProgress)
	working := seedProduct(t, db, admin, "Excavator", models.EquipmentWorking)

	links, err := svc.AddProducts(ctx, project.ID, []string{working.ID})
	assert.Nil(t, links)
	assert.ErrorIs(t, err, ErrEquipmentNotStandBy)
	assert.Zero(t, countRows(t, db, &models.ProjectProduct{}, "project_id = ?", project.ID))
}

func TestProjectService_AddAndRemoveProducts(t *testing.T) {
	db := setupDB(t)
	svc := NewProjectService(db)
	ctx := context.Background()
	admin := seedAdmin(t, db)
	project := seedProject(t, db, admin, models.ProjectInProgress)
	crane := seedProduct(t, db, admin, "Tower Crane", models.EquipmentStandBy)
	hook := seedProduct(t, db, admin, "Crane Hook", models.EquipmentStandBy)
	working := seedProduct(t, db, admin, "Excavator", models.EquipmentWorking)

	_, err := svc.AddProducts(ctx, project.ID, []string{crane.ID, working.ID})
	assert.ErrorIs(t, err, ErrEquipmentNotStandBy)
	assert.Zero(t, countRows(t, db, &models.ProjectProduct{}, "project_id = ?", project.ID), "batch must be all-or-nothing")

	links, err := svc.AddProducts(ctx, project.ID, []string{crane.ID, hook.ID})
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, crane.ID, links[0].Product.ID)

	_, err = svc.AddProducts(ctx, project.ID, []string{crane.ID})
	assert.True(t, response.IsStatus(err, http.StatusConflict))

	_, err = svc.AddProducts(ctx, project.ID, []string{"missing"})
	assert.True(t, response.IsStatus(err, http.StatusNotFound))

	require.NoError(t, svc.RemoveProduct(ctx, project.ID, crane.ID))
	assert.Equal(t, int64(1), countRows(t, db, &models.ProjectProduct{}, "project_id = ?", project.ID))

	err = svc.RemoveProduct(ctx, project.ID, crane.ID)
	assert.ErrorIs(t, err, ErrProductNotAssigned)
}

func TestProjectService_AddEngineers(t *testing.T) {
	db := setupDB(t)
	svc := NewProjectService(db)
	ctx := context.Background()
	project := seedProject(t, db, seedAdmin(t, db), models.ProjectInProgress)
	active := seedEngineer(t, db)
	blocked := seedEngineer(t, db)
	deactivate(t, db, blocked.User, false, false)

	_, err := svc.AddEngineers(ctx, project.ID, []string{active.ID, blocked.ID})
	assert.ErrorIs(t, err, ErrEngineerNotValid)
	assert.Zero(t, countRows(t, db, &models.ProjectEngineer{}, "project_id = ?", project.ID), "batch must be all-or-nothing")

	links, err := svc.AddEngineers(ctx, project.ID, []string{active.ID})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, active.UserID, links[0].Engineer.User.ID)

	_, err = svc.AddEngineers(ctx, project.ID, []string{active.ID})
	assert.True(t, response.IsStatus(err, http.StatusConflict))

	_, err = svc.AddEngineers(ctx, "missing", []string{active.ID})
	assert.True(t, response.IsStatus(err, http.StatusNotFound))
}

func TestProjectService_RemoveEngineer(t *testing.T) {
	db := setupDB(t)
	svc := NewProjectService(db)
	ctx := context.Background()
	project := seedProject(t, db, seedAdmin(t, db), models.ProjectInProgress)
	engineer := seedEngineer(t, db)

	err := svc.RemoveEngineer(ctx, project.ID, engineer.ID)
	assert.ErrorIs(t, err, ErrEngineerNotAssigned)
	assert.True(t, response.IsStatus(err, http.StatusNotFound))

	_, err = svc.AddEngineers(ctx, project.ID, []string{engineer.ID})
	require.NoError(t, err)
	require.NoError(t, svc.RemoveEngineer(ctx, project.ID, engineer.ID))
	assert.Zero(t, countRows(t, db, &models.ProjectEngineer{}, "project_id = ?", project.ID))
}

func TestProjectService_GetAndList(t *testing.T) {
	db := setupDB(t)
	svc := NewProjectService(db)
	ctx := context.Background()
	admin := seedAdmin(t, db)
	project := seedProject(t, db, admin, models.ProjectInProgress)
	seedProject(t, db, admin, models.ProjectOnHold)
	engineer := seedEngineer(t, db)
	product := seedProduct(t, db, admin, "Tower Crane", models.EquipmentStandBy)

	_, err := svc.AddEngineers(ctx, project.ID, []string{engineer.ID})
	require.NoError(t, err)
	_, err = svc.AddProducts(ctx, project.ID, []string{product.ID})
	require.NoError(t, err)

	got, err := svc.Get(ctx, project.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ProjectManager)
	require.NotNil(t, got.ProjectManager.User)
	require.NotNil(t, got.Client)
	require.Len(t, got.Engineers, 1)
	require.NotNil(t, got.Engineers[0].Engineer)
	assert.Equal(t, engineer.UserID, got.Engineers[0].Engineer.User.ID)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "Tower Crane", got.Products[0].Product.EquipmentName)

	items, meta, err := svc.List(ctx, url.Values{"status": {"in_progress"}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, project.ID, items[0].ID)
	assert.Equal(t, int64(1), meta.Total)

	items, meta, err = svc.List(ctx, url.Values{"searchTerm": {"BRIDGE"}, "limit": {"1"}})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(2), meta.Total)
	assert.Equal(t, 2, meta.TotalPage)
}
