package services

import (
	"context"
	"net/url"
	"time"

	"github.com/sarkargroup/smd-backend/internal/models"
	"github.com/sarkargroup/smd-backend/internal/querybuilder"
	"github.com/sarkargroup/smd-backend/pkg/logger"
	"github.com/sarkargroup/smd-backend/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEngineerAlreadyAssigned = response.NewConflict("Engineer already assigned to this project.")
	ErrProductAlreadyAssigned  = response.NewConflict("Equipment already assigned to this project.")
	ErrEngineerNotAssigned     = response.NewNotFound("Engineer is not assigned to this project.")
	ErrProductNotAssigned      = response.NewNotFound("Equipment is not assigned to this project.")
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type CreateProjectRequest struct {
	ProjectName      string               `json:"projectName" binding:"required"`
	Department       models.Category      `json:"department" binding:"required,enum"`
	ClientID         string               `json:"clientId" binding:"required"`
	ProjectManagerID string               `json:"projectManagerId" binding:"required"`
	StartDate        time.Time            `json:"startDate" binding:"required"`
	EstimatedEndDate time.Time            `json:"estimatedEndDate" binding:"required"`
	ProjectType      models.Category      `json:"projectType" binding:"required,enum"`
	ProductType      models.Category      `json:"productType" binding:"required,enum"`
	Status           models.ProjectStatus `json:"status" binding:"required,enum"`
	Street           string               `json:"street" binding:"required"`
	City             string               `json:"city" binding:"required"`
	State            string               `json:"state" binding:"required"`
	Zip              int                  `json:"zip" binding:"required"`
}

type UpdateProjectRequest struct {
	ProjectName      *string               `json:"projectName"`
	Department       *models.Category      `json:"department" binding:"omitempty,enum"`
	ClientID         *string               `json:"clientId"`
	ProjectManagerID *string               `json:"projectManagerId"`
	StartDate        *time.Time            `json:"startDate"`
	EstimatedEndDate *time.Time            `json:"estimatedEndDate"`
	ProjectType      *models.Category      `json:"projectType" binding:"omitempty,enum"`
	ProductType      *models.Category      `json:"productType" binding:"omitempty,enum"`
	Status           *models.ProjectStatus `json:"status" binding:"omitempty,enum"`
	Street           *string               `json:"street"`
	City             *string               `json:"city"`
	State            *string               `json:"state"`
	Zip              *int                  `json:"zip"`
}

func (r *UpdateProjectRequest) updates() map[string]any {
	m := map[string]any{}
	setString(m, "project_name", r.ProjectName)
	if r.Department != nil {
		m["department"] = *r.Department
	}
	setString(m, "client_id", r.ClientID)
	setString(m, "project_manager_id", r.ProjectManagerID)
	if r.StartDate != nil {
		m["start_date"] = *r.StartDate
	}
	if r.EstimatedEndDate != nil {
		m["estimated_end_date"] = *r.EstimatedEndDate
	}
	if r.ProjectType != nil {
		m["project_type"] = *r.ProjectType
	}
	if r.ProductType != nil {
		m["product_type"] = *r.ProductType
	}
	if r.Status != nil {
		m["status"] = *r.Status
	}
	setString(m, "street", r.Street)
	setString(m, "city", r.City)
	setString(m, "state", r.State)
	if r.Zip != nil {
		m["zip"] = *r.Zip
	}
	return m
}

type AddEngineersRequest struct {
	EngineerIDs []string `json:"engineerIds" binding:"required,min=1,dive,required"`
}

type RemoveEngineerRequest struct {
	EngineerID string `json:"engineerId" binding:"required"`
}

type AddProductsRequest struct {
	ProductIDs []string `json:"productIds" binding:"required,min=1,dive,required"`
}

type RemoveProductRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func requireRow(tx *gorm.DB, model any, id, name string) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound(gorm.ErrRecordNotFound, name)
	}
	return nil
}

// Create stores a project owned by the acting admin.
func (s *ProjectService) Create(ctx context.Context, actor *models.User, req *CreateProjectRequest) (*models.Project, error) {
	adminID, err := adminProfileID(actor)
	if err != nil {
		return nil, err
	}

	project := models.Project{
		ProjectName:      req.ProjectName,
		Department:       req.Department,
		ClientID:         req.ClientID,
		ProjectManagerID: req.ProjectManagerID,
		StartDate:        req.StartDate,
		EstimatedEndDate: req.EstimatedEndDate,
		ProjectType:      req.ProjectType,
		ProductType:      req.ProductType,
		Status:           req.Status,
		Street:           req.Street,
		City:             req.City,
		State:            req.State,
		Zip:              req.Zip,
		CreatedBy:        adminID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Client{}, req.ClientID, "Client"); err != nil {
			return err
		}
		if err := requireRow(tx, &models.ProjectManager{}, req.ProjectManagerID, "Project manager"); err != nil {
			return err
		}
		return tx.Create(&project).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("[Project] %s created by admin %s", project.ID, adminID)
	return &project, nil
}

// List returns one page of projects.
func (s *ProjectService) List(ctx context.Context, query url.Values) ([]models.Project, *querybuilder.Meta, error) {
	return list[models.Project](ctx, s.db, projectQuery, query)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := preload(s.db.WithContext(ctx), projectQuery).First(&project, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Project")
	}
	return &project, nil
}

// lockProject loads a project for update and rejects completed projects.
func lockProject(tx *gorm.DB, id string) (*models.Project, error) {
	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var project models.Project
	if err := q.First(&project, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Project")
	}
	if project.Completed() {
		return nil, ErrProjectCompleted
	}
	return &project, nil
}

// mutate runs fn in a transaction holding the lock of a project that is not
// completed.
func (s *ProjectService) mutate(ctx context.Context, id string, fn func(tx *gorm.DB, project *models.Project) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project, err := lockProject(tx, id)
		if err != nil {
			return err
		}
		return fn(tx, project)
	})
}

// UpdateInfo changes project fields. Moving a project to COMPLETED freezes it.
func (s *ProjectService) UpdateInfo(ctx context.Context, id string, req *UpdateProjectRequest) (*models.Project, error) {
	var updated models.Project
	err := s.mutate(ctx, id, func(tx *gorm.DB, project *models.Project) error {
		if req.ClientID != nil {
			if err := requireRow(tx, &models.Client{}, *req.ClientID, "Client"); err != nil {
				return err
			}
		}
		if req.ProjectManagerID != nil {
			if err := requireRow(tx, &models.ProjectManager{}, *req.ProjectManagerID, "Project manager"); err != nil {
				return err
			}
		}
		if updates := req.updates(); len(updates) > 0 {
			if err := tx.Model(project).Updates(updates).Error; err != nil {
				return err
			}
		}
		return tx.First(&updated, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// AddEngineers links every engineer or none of them.
func (s *ProjectService) AddEngineers(ctx context.Context, projectID string, engineerIDs []string) ([]models.ProjectEngineer, error) {
	links := make([]models.ProjectEngineer, 0, len(engineerIDs))

	err := s.mutate(ctx, projectID, func(tx *gorm.DB, project *models.Project) error {
		for _, engineerID := range engineerIDs {
			var engineer models.Engineer
			if err := tx.Preload("User").First(&engineer, "id = ?", engineerID).Error; err != nil {
				return notFound(err, "Engineer")
			}
			if engineer.User == nil || !engineer.User.Usable() {
				return ErrEngineerNotValid
			}

			link := models.ProjectEngineer{ProjectID: project.ID, EngineerID: engineer.ID}
			if err := tx.Create(&link).Error; err != nil {
				return duplicate(err, ErrEngineerAlreadyAssigned.Message)
			}
			link.Engineer = &engineer
			links = append(links, link)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("[Project] %d engineer(s) added to %s", len(links), projectID)
	return links, nil
}

// RemoveEngineer unlinks an engineer. A missing link is NotFound.
func (s *ProjectService) RemoveEngineer(ctx context.Context, projectID, engineerID string) error {
	return s.mutate(ctx, projectID, func(tx *gorm.DB, project *models.Project) error {
		res := tx.Where("project_id = ? AND engineer_id = ?", project.ID, engineerID).Delete(&models.ProjectEngineer{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrEngineerNotAssigned
		}
		return nil
	})
}

// AddProducts links every standing-by product or none of them.
func (s *ProjectService) AddProducts(ctx context.Context, projectID string, productIDs []string) ([]models.ProjectProduct, error) {
	links := make([]models.ProjectProduct, 0, len(productIDs))

	err := s.mutate(ctx, projectID, func(tx *gorm.DB, project *models.Project) error {
		for _, productID := range productIDs {
			var product models.Product
			if err := tx.First(&product, "id = ?", productID).Error; err != nil {
				return notFound(err, "Product")
			}
			if product.Status != models.EquipmentStandBy {
				return ErrEquipmentNotStandBy
			}

			link := models.ProjectProduct{ProjectID: project.ID, ProductID: product.ID}
			if err := tx.Create(&link).Error; err != nil {
				return duplicate(err, ErrProductAlreadyAssigned.Message)
			}
			link.Product = &product
			links = append(links, link)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("[Project] %d product(s) added to %s", len(links), projectID)
	return links, nil
}

// RemoveProduct unlinks a product. A missing link is NotFound.
func (s *ProjectService) RemoveProduct(ctx context.Context, projectID, productID string) error {
	return s.mutate(ctx, projectID, func(tx *gorm.DB, project *models.Project) error {
		res := tx.Where("project_id = ? AND product_id = ?", project.ID, productID).Delete(&models.ProjectProduct{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProductNotAssigned
		}
		return nil
	})
}
