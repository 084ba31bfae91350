package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sarkargroup/smd-backend/internal/models"
	"github.com/sarkargroup/smd-backend/internal/utils"
	"github.com/sarkargroup/smd-backend/pkg/logger"
	"github.com/sarkargroup/smd-backend/pkg/response"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken        = response.NewConflict("Email already registered.")
	ErrSelfStatusChange  = response.NewForbidden("You cannot change the status of your own account.")
	ErrSuperAdminTargets = response.NewForbidden("Super admin accounts cannot be changed.")
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// UserFields are the identity fields shared by every registration.
type UserFields struct {
	FirstName    string  `json:"firstName" binding:"required"`
	LastName     string  `json:"lastName" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required,min=6,max=72"`
	ProfileImage *string `json:"profileImage"`
}

type EmployeeRegistrationRequest struct {
	UserFields
	Mobile            string               `json:"mobile" binding:"required"`
	UserName          string               `json:"userName" binding:"required"`
	Dob               string               `json:"dob" binding:"required"`
	MaritalStatus     models.MaritalStatus `json:"maritalStatus" binding:"required,enum"`
	Gender            models.Gender        `json:"gender" binding:"required,enum"`
	EmployeeType      models.EmployeeType  `json:"employeeType" binding:"required,enum"`
	Department        models.Category      `json:"department" binding:"required,enum"`
	Designation       models.Designation   `json:"designation" binding:"required,enum"`
	OfficeLocation    string               `json:"officeLocation" binding:"required"`
	Nationality       string               `json:"nationality" binding:"required"`
	Street            string               `json:"street" binding:"required"`
	City              string               `json:"city" binding:"required"`
	State             string               `json:"state" binding:"required"`
	Zip               int                  `json:"zip" binding:"required"`
	AppointmentLetter *string              `json:"appointmentLetter"`
	SalarySlips       []string             `json:"salarySlips"`
	RelivingLetter    *string              `json:"relivingLetter"`
	ExperienceLetter  *string              `json:"experienceLetter"`
}

type ClientRegistrationRequest struct {
	UserFields
	Mobile      string   `json:"mobile" binding:"required"`
	Street      string   `json:"street" binding:"required"`
	City        string   `json:"city" binding:"required"`
	State       string   `json:"state" binding:"required"`
	Zip         int      `json:"zip" binding:"required"`
	ProductList []string `json:"productList"`
	Documents   []string `json:"documents"`
}

type ActiveStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

type SoftDeleteRequest struct {
	IsDeleted *bool `json:"isDeleted" binding:"required"`
}

// UserView is a user merged with its role profile.
type UserView struct {
	*models.User
	Profile any `json:"profile"`
}

func (s *UserService) newUser(f *UserFields, role models.Role) (*models.User, error) {
	hashedPassword, err := utils.HashPassword(f.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &models.User{
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		Email:        f.Email,
		Password:     hashedPassword,
		Role:         role,
		ProfileImage: f.ProfileImage,
		IsActive:     true,
	}, nil
}

// EmployeeRegistration creates the user and its employee profile in one
// transaction.
func (s *UserService) EmployeeRegistration(ctx context.Context, role models.Role, req *EmployeeRegistrationRequest) (*UserView, error) {
	kind, ok := employeeProfiles[role]
	if !ok {
		return nil, response.NewBadRequest(fmt.Sprintf("role %s has no employee profile", role))
	}

	user, err := s.newUser(&req.UserFields, role)
	if err != nil {
		return nil, err
	}

	var profile any
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return duplicate(err, ErrEmailTaken.Message)
		}

		profile = kind.build(user.ID, models.EmployeeInfo{
			EmployeeID:        kind.newEmployeeID(),
			Mobile:            req.Mobile,
			UserName:          req.UserName,
			Dob:               req.Dob,
			MaritalStatus:     req.MaritalStatus,
			Gender:            req.Gender,
			EmployeeType:      req.EmployeeType,
			Department:        req.Department,
			Designation:       req.Designation,
			JoiningDate:       time.Now(),
			OfficeLocation:    req.OfficeLocation,
			Nationality:       req.Nationality,
			Street:            req.Street,
			City:              req.City,
			State:             req.State,
			Zip:               req.Zip,
			AppointmentLetter: req.AppointmentLetter,
			SalarySlips:       req.SalarySlips,
			RelivingLetter:    req.RelivingLetter,
			ExperienceLetter:  req.ExperienceLetter,
		})
		return tx.Create(profile).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("[User] Registered %s %s", role, user.Email)
	return &UserView{User: user, Profile: profile}, nil
}

// ClientRegistration creates the user and its client profile in one
// transaction.
func (s *UserService) ClientRegistration(ctx context.Context, req *ClientRegistrationRequest) (*UserView, error) {
	user, err := s.newUser(&req.UserFields, models.RoleClient)
	if err != nil {
		return nil, err
	}

	client := &models.Client{
		Mobile:      req.Mobile,
		Street:      req.Street,
		City:        req.City,
		State:       req.State,
		Zip:         req.Zip,
		ProductList: req.ProductList,
		Documents:   req.Documents,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return duplicate(err, ErrEmailTaken.Message)
		}
		client.UserID = user.ID
		return tx.Create(client).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("[User] Registered %s %s", models.RoleClient, user.Email)
	return &UserView{User: user, Profile: client}, nil
}

// Profile returns the user with the profile matching its role.
func (s *UserService) Profile(ctx context.Context, email string) (*UserView, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err, "User")
	}

	profile, err := loadProfile(ctx, s.db, user.Role, user.ID)
	if err != nil {
		return nil, err
	}
	return &UserView{User: &user, Profile: profile}, nil
}

// ActiveStatusUpdate activates or deactivates an account.
func (s *UserService) ActiveStatusUpdate(ctx context.Context, actor *models.User, userID string, isActive bool) (*models.User, error) {
	return s.setFlag(ctx, actor, userID, "is_active", isActive)
}

// SoftDelete marks or unmarks an account as deleted.
func (s *UserService) SoftDelete(ctx context.Context, actor *models.User, userID string, isDeleted bool) (*models.User, error) {
	return s.setFlag(ctx, actor, userID, "is_deleted", isDeleted)
}

func (s *UserService) setFlag(ctx context.Context, actor *models.User, userID, column string, value bool) (*models.User, error) {
	if actor != nil && actor.ID == userID {
		return nil, ErrSelfStatusChange
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return notFound(err, "User")
		}
		if user.Role == models.RoleSuperAdmin {
			return ErrSuperAdminTargets
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Update(column, value).Error; err != nil {
			return err
		}
		return tx.First(&user, "id = ?", userID).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("[User] %s set %s=%t", userID, column, value)
	return &user, nil
}
