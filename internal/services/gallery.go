package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/sarkargroup/smd-backend/internal/models"
	"github.com/sarkargroup/smd-backend/internal/querybuilder"
	"github.com/sarkargroup/smd-backend/pkg/logger"
	"github.com/sarkargroup/smd-backend/pkg/response"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrEmptyComment = response.NewBadRequest("Comment cannot be empty.")

type GalleryService struct {
	db *gorm.DB
}

func NewGalleryService(db *gorm.DB) *GalleryService {
	return &GalleryService{db: db}
}

type CreateGalleryRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Image     string `json:"image" binding:"required"`
}

type CommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// Create stores a gallery entry uploaded by actor.
func (s *GalleryService) Create(ctx context.Context, actor *models.User, req *CreateGalleryRequest) (*models.ProjectGallery, error) {
	gallery := models.ProjectGallery{
		ProjectID:  req.ProjectID,
		UploaderID: actor.ID,
		Title:      req.Title,
		Image:      req.Image,
		Comments:   datatypes.JSONSlice[*models.GalleryComment]{},
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Project{}, req.ProjectID, "Project"); err != nil {
			return err
		}
		return tx.Create(&gallery).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("[Gallery] %s uploaded to project %s by %s", gallery.ID, gallery.ProjectID, actor.Email)
	return &gallery, nil
}

// List returns one page of gallery entries.
func (s *GalleryService) List(ctx context.Context, query url.Values) ([]models.ProjectGallery, *querybuilder.Meta, error) {
	return list[models.ProjectGallery](ctx, s.db, galleryQuery, query)
}

func (s *GalleryService) Get(ctx context.Context, id string) (*models.ProjectGallery, error) {
	var gallery models.ProjectGallery
	if err := preload(s.db.WithContext(ctx), galleryQuery).First(&gallery, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Gallery")
	}
	return &gallery, nil
}

// AddComment appends a snapshot of actor with the comment. The gallery row is
// locked for the read-modify-write so concurrent comments are not lost.
func (s *GalleryService) AddComment(ctx context.Context, actor *models.User, id, comment string) (*models.ProjectGallery, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, ErrEmptyComment
	}

	var gallery models.ProjectGallery
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() != "sqlite" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&gallery, "id = ?", id).Error; err != nil {
			return notFound(err, "Gallery")
		}

		comments := make(datatypes.JSONSlice[*models.GalleryComment], 0, len(gallery.Comments)+1)
		for _, c := range gallery.Comments {
			if c == nil || strings.TrimSpace(c.Comment) == "" {
				continue
			}
			comments = append(comments, c)
		}
		comments = append(comments, &models.GalleryComment{
			UserID:       actor.ID,
			FirstName:    actor.FirstName,
			LastName:     actor.LastName,
			Email:        actor.Email,
			ProfileImage: actor.ProfileImage,
			Role:         actor.Role,
			Comment:      comment,
			CreatedAt:    time.Now(),
		})

		if err := tx.Model(&gallery).Update("comments", comments).Error; err != nil {
			return err
		}
		return preload(tx, galleryQuery).First(&gallery, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &gallery, nil
}

func (s *GalleryService) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ProjectGallery{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return response.NewNotFound("Gallery not found.")
	}
	logger.Infof("[Gallery] %s deleted", id)
	return nil
}
