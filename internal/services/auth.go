package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sarkargroup/smd-backend/internal/config"
	"github.com/sarkargroup/smd-backend/internal/models"
	"github.com/sarkargroup/smd-backend/internal/utils"
	"github.com/sarkargroup/smd-backend/pkg/logger"
	"github.com/sarkargroup/smd-backend/pkg/response"
	"gorm.io/gorm"
)

var (
	ErrInvalidRefreshToken = response.NewUnauthorized("Invalid refresh token.")
	ErrInvalidResetToken   = response.NewUnauthorized("Invalid or expired reset token.")
	ErrOldPasswordMismatch = response.NewConflict("Old password is incorrect.")
)

// AuthService owns login, token renewal and the password flows.
type AuthService struct {
	db     *gorm.DB
	tokens *utils.TokenService
	queue  TaskQueue
	cfg    *config.Config
}

func NewAuthService(db *gorm.DB, tokens *utils.TokenService, queue TaskQueue, cfg *config.Config) *AuthService {
	return &AuthService{db: db, tokens: tokens, queue: queue, cfg: cfg}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

type ForgetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type SetNewPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=72"`
}

type ResetPasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=72"`
}

// TokenPayloadFor snapshots the identity carried by tokens.
func TokenPayloadFor(u *models.User) utils.TokenPayload {
	p := utils.TokenPayload{
		UserID:    u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      string(u.Role),
	}
	if u.ProfileImage != nil {
		p.ProfileImage = *u.ProfileImage
	}
	return p
}

// Login checks credentials and issues an access and a refresh token.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, notFound(err, "User")
	}

	if !user.Usable() {
		return nil, ErrAccountBlocked
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, ErrPasswordIncorrect
	}

	payload := TokenPayloadFor(&user)
	accessToken, err := s.tokens.Issue(utils.AccessToken, payload)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := s.tokens.Issue(utils.RefreshToken, payload)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	logger.Infof("[Auth] User %s logged in", user.Email)

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         &user,
	}, nil
}

// RefreshToken issues a new access token for a valid refresh token.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrInvalidRefreshToken
	}

	claims, err := s.tokens.Parse(ctx, utils.RefreshToken, refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken.Wrap(err)
	}

	user, err := s.subject(ctx, claims)
	if err != nil {
		return "", err
	}

	accessToken, err := s.tokens.Issue(utils.AccessToken, TokenPayloadFor(user))
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes the presented tokens until they expire.
func (s *AuthService) Logout(ctx context.Context, tokens ...string) error {
	for _, t := range tokens {
		if err := s.tokens.Revoke(ctx, t); err != nil {
			return fmt.Errorf("revoke token: %w", err)
		}
	}
	return nil
}

// ForgetPassword issues a reset token and queues the reset mail.
func (s *AuthService) ForgetPassword(ctx context.Context, email string) error {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) && s.cfg.Auth.HideUnknownEmail {
			logger.Infof("[Auth] Password reset requested for unknown email")
			return nil
		}
		return notFound(err, "User")
	}

	if !user.Usable() {
		return ErrAccountBlocked
	}

	resetToken, err := s.tokens.Issue(utils.ResetToken, TokenPayloadFor(&user))
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	task := &MailTask{
		To:        user.Email,
		FirstName: user.FirstName,
		ResetLink: ResetLink(s.cfg.Server.ClientURL, resetToken),
	}
	if s.queue == nil {
		logger.Warnf("[Auth] No mail queue configured, reset mail for %s dropped", user.Email)
		return nil
	}
	if err := s.queue.Enqueue(task); err != nil {
		return fmt.Errorf("queue reset mail: %w", err)
	}
	return nil
}

// ResetLink is the client page that accepts a reset token.
func ResetLink(clientURL, token string) string {
	q := url.Values{}
	q.Set("status", "200")
	q.Set("success", "true")
	q.Set("forgetToken", token)
	return clientURL + "?" + q.Encode()
}

// SetNewPassword consumes a reset token. The token cannot be used again.
func (s *AuthService) SetNewPassword(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.tokens.Parse(ctx, utils.ResetToken, resetToken)
	if err != nil {
		return ErrInvalidResetToken.Wrap(err)
	}

	user, err := s.subject(ctx, claims)
	if err != nil {
		return err
	}

	if err := s.storePassword(ctx, user.ID, newPassword); err != nil {
		return err
	}

	if err := s.tokens.Revoke(ctx, resetToken); err != nil {
		return fmt.Errorf("revoke reset token: %w", err)
	}
	logger.Infof("[Auth] Password reset completed for %s", user.Email)
	return nil
}

// ResetPassword changes the password of a signed-in user.
func (s *AuthService) ResetPassword(ctx context.Context, userID string, req *ResetPasswordRequest) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return notFound(err, "User")
	}
	if !user.Usable() {
		return ErrAccountBlocked
	}

	if !utils.CheckPassword(req.OldPassword, user.Password) {
		return ErrOldPasswordMismatch
	}

	return s.storePassword(ctx, user.ID, req.NewPassword)
}

func (s *AuthService) storePassword(ctx context.Context, userID, password string) error {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND is_active = ? AND is_deleted = ?", userID, true, false).
		Update("password", hashedPassword)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountBlocked
	}
	return nil
}

// subject loads the usable user a token was issued to.
func (s *AuthService) subject(ctx context.Context, claims *utils.TokenClaims) (*models.User, error) {
	var user models.User
	q := s.db.WithContext(ctx)
	var err error
	if claims.UserID != "" {
		err = q.First(&user, "id = ?", claims.UserID).Error
	} else {
		err = q.Where("email = ?", claims.Email).First(&user).Error
	}
	if err != nil {
		return nil, notFound(err, "User")
	}
	if !user.Usable() {
		return nil, ErrAccountBlocked
	}
	return &user, nil
}

// Authenticate resolves a verified access token to the user with every role
// profile loaded.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.Parse(ctx, utils.AccessToken, accessToken)
	if err != nil {
		return nil, response.NewUnauthorized("Invalid or expired token.").Wrap(err)
	}

	q := s.db.WithContext(ctx).
		Preload("Admin").
		Preload("ProjectManager").
		Preload("Engineer").
		Preload("Client")

	var user models.User
	if claims.UserID != "" {
		err = q.First(&user, "id = ?", claims.UserID).Error
	} else {
		err = q.Where("email = ?", claims.Email).First(&user).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorized("User not found.").Wrap(err)
		}
		return nil, err
	}
	if !user.Usable() {
		return nil, response.NewUnauthorized("User is blocked or deleted.")
	}
	return &user, nil
}

// CreateSuperAdminIfNotExists seeds the configured super admin and its admin
// profile. Running it again changes nothing.
func (s *AuthService) CreateSuperAdminIfNotExists(ctx context.Context) error {
	sa := s.cfg.SuperAdmin
	if sa.Email == "" || sa.Password == "" {
		logger.Infof("[Auth] Super admin credentials not configured, skipping seed")
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Where("email = ?", sa.Email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			hashedPassword, err := utils.HashPassword(sa.Password)
			if err != nil {
				return err
			}
			user = models.User{
				FirstName: "Super",
				LastName:  "Admin",
				Email:     sa.Email,
				Password:  hashedPassword,
				Role:      models.RoleSuperAdmin,
				IsActive:  true,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			logger.Infof("[Auth] Super admin %s created", sa.Email)
		} else if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Admin{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		admin := models.Admin{
			UserID: user.ID,
			EmployeeInfo: models.EmployeeInfo{
				EmployeeID:  employeeProfiles[models.RoleAdmin].newEmployeeID(),
				JoiningDate: time.Now(),
			},
		}
		return tx.Create(&admin).Error
	})
}
