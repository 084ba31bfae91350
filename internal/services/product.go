package services

import (
	"context"
	"net/url"

	"github.com/google/uuid"
	"github.com/sarkargroup/smd-backend/internal/models"
	"github.com/sarkargroup/smd-backend/internal/querybuilder"
	"github.com/sarkargroup/smd-backend/pkg/logger"
	"github.com/sarkargroup/smd-backend/pkg/response"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNotAnAdmin = response.NewForbidden("Only admins with a profile can do this.")

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

type CreateProductRequest struct {
	EquipmentName          string                 `json:"equipmentName" binding:"required"`
	EquipmentImage         []string               `json:"equipmentImage" binding:"required"`
	RegistrationNumber     string                 `json:"registrationNumber" binding:"required"`
	Category               models.Category        `json:"category" binding:"required,enum"`
	Status                 models.EquipmentStatus `json:"status" binding:"required,enum"`
	OwnerName              string                 `json:"ownerName" binding:"required"`
	OwnerAddress           string                 `json:"ownerAddress" binding:"required"`
	OwnerNumber            string                 `json:"ownerNumber" binding:"required"`
	CharteredBy            string                 `json:"charteredBy" binding:"required"`
	CharteredPersonPhone   string                 `json:"charteredPersonPhone" binding:"required"`
	CharteredPersonAddress string                 `json:"charteredPersonAddress" binding:"required"`
	BrandName              string                 `json:"brandName" binding:"required"`
	Model                  string                 `json:"model" binding:"required"`
	Dimensions             string                 `json:"dimensions" binding:"required"`
	ManufacturingYear      string                 `json:"manufacturingYear" binding:"required"`
}

type UpdateProductRequest struct {
	EquipmentName          *string                 `json:"equipmentName"`
	EquipmentImage         []string                `json:"equipmentImage"`
	RegistrationNumber     *string                 `json:"registrationNumber"`
	Category               *models.Category        `json:"category" binding:"omitempty,enum"`
	Status                 *models.EquipmentStatus `json:"status" binding:"omitempty,enum"`
	OwnerName              *string                 `json:"ownerName"`
	OwnerAddress           *string                 `json:"ownerAddress"`
	OwnerNumber            *string                 `json:"ownerNumber"`
	CharteredBy            *string                 `json:"charteredBy"`
	CharteredPersonPhone   *string                 `json:"charteredPersonPhone"`
	CharteredPersonAddress *string                 `json:"charteredPersonAddress"`
	BrandName              *string                 `json:"brandName"`
	Model                  *string                 `json:"model"`
	Dimensions             *string                 `json:"dimensions"`
	ManufacturingYear      *string                 `json:"manufacturingYear"`
}

func (r *UpdateProductRequest) updates() map[string]any {
	m := map[string]any{}
	setString(m, "equipment_name", r.EquipmentName)
	if r.EquipmentImage != nil {
		m["equipment_image"] = datatypes.JSONSlice[string](r.EquipmentImage)
	}
	setString(m, "registration_number", r.RegistrationNumber)
	if r.Category != nil {
		m["category"] = *r.Category
	}
	if r.Status != nil {
		m["status"] = *r.Status
	}
	setString(m, "owner_name", r.OwnerName)
	setString(m, "owner_address", r.OwnerAddress)
	setString(m, "owner_number", r.OwnerNumber)
	setString(m, "chartered_by", r.CharteredBy)
	setString(m, "chartered_person_phone", r.CharteredPersonPhone)
	setString(m, "chartered_person_address", r.CharteredPersonAddress)
	setString(m, "brand_name", r.BrandName)
	setString(m, "model", r.Model)
	setString(m, "dimensions", r.Dimensions)
	setString(m, "manufacturing_year", r.ManufacturingYear)
	return m
}

// adminProfileID returns the admin profile id of the acting user.
func adminProfileID(actor *models.User) (string, error) {
	if actor == nil || !actor.Role.IsAdministrative() || actor.Admin == nil {
		return "", ErrNotAnAdmin
	}
	return actor.Admin.ID, nil
}

// Create stores a product with a generated equipment id, attributed to the
// acting admin.
func (s *ProductService) Create(ctx context.Context, actor *models.User, req *CreateProductRequest) (*models.Product, error) {
	adminID, err := adminProfileID(actor)
	if err != nil {
		return nil, err
	}

	product := models.Product{
		EquipmentID:            "EQUIP-" + uuid.NewString(),
		EquipmentName:          req.EquipmentName,
		EquipmentImage:         req.EquipmentImage,
		RegistrationNumber:     req.RegistrationNumber,
		Category:               req.Category,
		Status:                 req.Status,
		OwnerName:              req.OwnerName,
		OwnerAddress:           req.OwnerAddress,
		OwnerNumber:            req.OwnerNumber,
		CharteredBy:            req.CharteredBy,
		CharteredPersonPhone:   req.CharteredPersonPhone,
		CharteredPersonAddress: req.CharteredPersonAddress,
		BrandName:              req.BrandName,
		Model:                  req.Model,
		Dimensions:             req.Dimensions,
		ManufacturingYear:      req.ManufacturingYear,
		CreatedAdminID:         adminID,
	}

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}

	logger.Infof("[Product] %s created by admin %s", product.EquipmentID, adminID)
	return &product, nil
}

// List returns one page of products.
func (s *ProductService) List(ctx context.Context, query url.Values) ([]models.Product, *querybuilder.Meta, error) {
	return list[models.Product](ctx, s.db, productQuery, query)
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := preload(s.db.WithContext(ctx), productQuery).First(&product, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Product")
	}
	return &product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req *UpdateProductRequest) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			return notFound(err, "Product")
		}
		if updates := req.updates(); len(updates) > 0 {
			if err := tx.Model(&product).Updates(updates).Error; err != nil {
				return err
			}
		}
		return tx.First(&product, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// preload applies the fixed includes of q.
func preload(db *gorm.DB, q *listQuery) *gorm.DB {
	return querybuilder.Preload(db, q.config, q.includes...)
}
