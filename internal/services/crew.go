package services

import (
	"context"
	"net/url"

	"github.com/sarkargroup/smd-backend/internal/models"
	"github.com/sarkargroup/smd-backend/internal/querybuilder"
	"gorm.io/gorm"
)

type CrewService struct {
	db *gorm.DB
}

func NewCrewService(db *gorm.DB) *CrewService {
	return &CrewService{db: db}
}

type CreateCrewRequest struct {
	FullName  string `json:"fullName" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	NID       string `json:"nid" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
}

type UpdateCrewRequest struct {
	FullName  *string `json:"fullName"`
	Phone     *string `json:"phone"`
	NID       *string `json:"nid"`
	ProductID *string `json:"productId"`
}

func (s *CrewService) Create(ctx context.Context, req *CreateCrewRequest) (*models.Crew, error) {
	crew := models.Crew{
		FullName:  req.FullName,
		Phone:     req.Phone,
		NID:       req.NID,
		ProductID: req.ProductID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Product{}, req.ProductID, "Product"); err != nil {
			return err
		}
		return tx.Create(&crew).Error
	})
	if err != nil {
		return nil, err
	}
	return &crew, nil
}

// List returns one page of crews.
func (s *CrewService) List(ctx context.Context, query url.Values) ([]models.Crew, *querybuilder.Meta, error) {
	return list[models.Crew](ctx, s.db, crewQuery, query)
}

func (s *CrewService) Get(ctx context.Context, id string) (*models.Crew, error) {
	var crew models.Crew
	if err := preload(s.db.WithContext(ctx), crewQuery).First(&crew, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Crew")
	}
	return &crew, nil
}

func (s *CrewService) Update(ctx context.Context, id string, req *UpdateCrewRequest) (*models.Crew, error) {
	updates := map[string]any{}
	setString(updates, "full_name", req.FullName)
	setString(updates, "phone", req.Phone)
	setString(updates, "nid", req.NID)
	setString(updates, "product_id", req.ProductID)

	var crew models.Crew
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&crew, "id = ?", id).Error; err != nil {
			return notFound(err, "Crew")
		}
		if req.ProductID != nil {
			if err := requireRow(tx, &models.Product{}, *req.ProductID, "Product"); err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&crew).Updates(updates).Error; err != nil {
				return err
			}
		}
		return preload(tx, crewQuery).First(&crew, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &crew, nil
}
