package services

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/sarkargroup/smd-backend/internal/models"
	"github.com/sarkargroup/smd-backend/internal/utils"
	"github.com/sarkargroup/smd-backend/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type authFixture struct {
	db     *gorm.DB
	tokens *utils.TokenService
	queue  *recordingQueue
	svc    *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := setupDB(t)
	cfg := testConfig()
	tokens := utils.NewTokenService(cfg.Token, utils.NewMemoryBlacklist())
	queue := &recordingQueue{}
	return &authFixture{
		db:     db,
		tokens: tokens,
		queue:  queue,
		svc:    NewAuthService(db, tokens, queue, cfg),
	}
}

func TestLogin_IssuesTokenPair(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := seedUser(t, f.db, models.RoleEngineer, "ada@x.com", "secret123")

	result, err := f.svc.Login(ctx, &LoginRequest{Email: "ada@x.com", Password: "secret123"})
	require.NoError(t, err)

	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.NotEqual(t, result.AccessToken, result.RefreshToken)
	assert.Equal(t, user.ID, result.User.ID)

	claims, err := f.tokens.Parse(ctx, utils.AccessToken, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, string(models.RoleEngineer), claims.Role)

	_, err = f.tokens.Parse(ctx, utils.RefreshToken, result.RefreshToken)
	assert.NoError(t, err)
	_, err = f.tokens.Parse(ctx, utils.AccessToken, result.RefreshToken)
	assert.Error(t, err, "refresh token must not pass as an access token")
}

func TestLogin_Failures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	seedUser(t, f.db, models.RoleEngineer, "ada@x.com", "secret123")
	blocked := seedUser(t, f.db, models.RoleEngineer, "blocked@x.com", "secret123")
	deactivate(t, f.db, blocked, false, false)
	deleted := seedUser(t, f.db, models.RoleEngineer, "deleted@x.com", "secret123")
	deactivate(t, f.db, deleted, true, true)

	tests := []struct {
		name     string
		email    string
		password string
		status   int
	}{
		{"wrong password", "ada@x.com", "wrong-pass", http.StatusUnauthorized},
		{"unknown email", "nobody@x.com", "secret123", http.StatusNotFound},
		{"inactive user", "blocked@x.com", "secret123", http.StatusForbidden},
		{"deleted user", "deleted@x.com", "secret123", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.svc.Login(ctx, &LoginRequest{Email: tt.email, Password: tt.password})
			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, response.IsStatus(err, tt.status), "error %v, expected status %d", err, tt.status)
		})
	}
}

func TestRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := seedUser(t, f.db, models.RoleClient, "client@x.com", "secret123")

	result, err := f.svc.Login(ctx, &LoginRequest{Email: user.Email, Password: "secret123"})
	require.NoError(t, err)

	access, err := f.svc.RefreshToken(ctx, result.RefreshToken)
	require.NoError(t, err)
	claims, err := f.tokens.Parse(ctx, utils.AccessToken, access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = f.svc.RefreshToken(ctx, "")
	assert.True(t, response.IsStatus(err, http.StatusUnauthorized))

	_, err = f.svc.RefreshToken(ctx, result.AccessToken)
	assert.True(t, response.IsStatus(err, http.StatusUnauthorized))

	deactivate(t, f.db, user, false, false)
	_, err = f.svc.RefreshToken(ctx, result.RefreshToken)
	assert.True(t, response.IsStatus(err, http.StatusForbidden))
}

func TestLogout_RevokesTokens(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	seedUser(t, f.db, models.RoleClient, "client@x.com", "secret123")

	result, err := f.svc.Login(ctx, &LoginRequest{Email: "client@x.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = f.svc.Authenticate(ctx, result.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, result.AccessToken, result.RefreshToken, "", "garbage"))

	_, err = f.svc.Authenticate(ctx, result.AccessToken)
	assert.True(t, response.IsStatus(err, http.StatusUnauthorized))
	_, err = f.svc.RefreshToken(ctx, result.RefreshToken)
	assert.True(t, response.IsStatus(err, http.StatusUnauthorized))
}

func TestAuthenticate(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	admin := seedAdmin(t, f.db)

	token, err := f.tokens.Issue(utils.AccessToken, TokenPayloadFor(admin))
	require.NoError(t, err)

	user, err := f.svc.Authenticate(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, user.Admin)
	assert.Equal(t, admin.Admin.ID, user.Admin.ID)
	assert.Nil(t, user.Engineer)

	t.Run("wrong secret", func(t *testing.T) {
		forged, err := utils.Sign(TokenPayloadFor(admin), "not-the-secret", time.Hour)
		require.NoError(t, err)
		_, err = f.svc.Authenticate(ctx, forged)
		assert.True(t, response.IsStatus(err, http.StatusUnauthorized))
	})

	t.Run("deleted user", func(t *testing.T) {
		deactivate(t, f.db, admin, true, true)
		_, err := f.svc.Authenticate(ctx, token)
		assert.True(t, response.IsStatus(err, http.StatusUnauthorized))
	})

	t.Run("missing user", func(t *testing.T) {
		ghost := TokenPayloadFor(&models.User{Base: models.Base{ID: "missing"}, Email: "ghost@x.com"})
		tok, err := f.tokens.Issue(utils.AccessToken, ghost)
		require.NoError(t, err)
		_, err = f.svc.Authenticate(ctx, tok)
		assert.True(t, response.IsStatus(err, http.StatusUnauthorized))
	})
}

func resetTokenFrom(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "200", u.Query().Get("status"))
	assert.Equal(t, "true", u.Query().Get("success"))
	token := u.Query().Get("forgetToken")
	require.NotEmpty(t, token)
	return token
}

func TestForgetAndSetNewPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := seedUser(t, f.db, models.RoleEngineer, "ada@x.com", "secret123")

	require.NoError(t, f.svc.ForgetPassword(ctx, user.Email))

	sent := f.queue.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, user.Email, sent[0].To)
	assert.Equal(t, user.FirstName, sent[0].FirstName)
	assert.Contains(t, sent[0].ResetLink, "http://client.test/reset?")

	token := resetTokenFrom(t, sent[0].ResetLink)
	require.NoError(t, f.svc.SetNewPassword(ctx, token, "brand-new"))

	_, err := f.svc.Login(ctx, &LoginRequest{Email: user.Email, Password: "secret123"})
	assert.True(t, response.IsStatus(err, http.StatusUnauthorized))
	_, err = f.svc.Login(ctx, &LoginRequest{Email: user.Email, Password: "brand-new"})
	assert.NoError(t, err)

	err = f.svc.SetNewPassword(ctx, token, "another-one")
	assert.True(t, response.IsStatus(err, http.StatusUnauthorized), "reset token must be single use")
}

func TestForgetPassword_Failures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	blocked := seedUser(t, f.db, models.RoleEngineer, "blocked@x.com", "secret123")
	deactivate(t, f.db, blocked, false, false)

	err := f.svc.ForgetPassword(ctx, "nobody@x.com")
	assert.True(t, response.IsStatus(err, http.StatusNotFound))

	err = f.svc.ForgetPassword(ctx, blocked.Email)
	assert.True(t, response.IsStatus(err, http.StatusForbidden))

	assert.Empty(t, f.queue.sent())
}

func TestForgetPassword_HideUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.svc.cfg.Auth.HideUnknownEmail = true

	assert.NoError(t, f.svc.ForgetPassword(context.Background(), "nobody@x.com"))
	assert.Empty(t, f.queue.sent())
}

func TestSetNewPassword_RejectsAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	user := seedUser(t, f.db, models.RoleEngineer, "ada@x.com", "secret123")

	access, err := f.tokens.Issue(utils.AccessToken, TokenPayloadFor(user))
	require.NoError(t, err)

	err = f.svc.SetNewPassword(context.Background(), access, "brand-new")
	assert.True(t, response.IsStatus(err, http.StatusUnauthorized))
}

func TestResetPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := seedUser(t, f.db, models.RoleEngineer, "ada@x.com", "secret123")

	err := f.svc.ResetPassword(ctx, user.ID, &ResetPasswordRequest{OldPassword: "wrong", NewPassword: "brand-new"})
	assert.True(t, response.IsStatus(err, http.StatusConflict))

	require.NoError(t, f.svc.ResetPassword(ctx, user.ID, &ResetPasswordRequest{OldPassword: "secret123", NewPassword: "brand-new"}))
	_, err = f.svc.Login(ctx, &LoginRequest{Email: user.Email, Password: "brand-new"})
	assert.NoError(t, err)

	deactivate(t, f.db, user, false, false)
	err = f.svc.ResetPassword(ctx, user.ID, &ResetPasswordRequest{OldPassword: "brand-new", NewPassword: "third-one"})
	assert.True(t, response.IsStatus(err, http.StatusForbidden))
}

func TestCreateSuperAdminIfNotExists_Idempotent(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.CreateSuperAdminIfNotExists(ctx))
	require.NoError(t, f.svc.CreateSuperAdminIfNotExists(ctx))

	var users, admins int64
	require.NoError(t, f.db.Model(&models.User{}).Where("role = ?", models.RoleSuperAdmin).Count(&users).Error)
	require.NoError(t, f.db.Model(&models.Admin{}).Count(&admins).Error)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(1), admins)

	result, err := f.svc.Login(ctx, &LoginRequest{Email: "root@smd.test", Password: "rootpass"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, result.User.Role)

	var admin models.Admin
	require.NoError(t, f.db.Where("user_id = ?", result.User.ID).First(&admin).Error)
	assert.Contains(t, admin.EmployeeID, "SG_SMD-ADMIN-")
}

func TestCreateSuperAdminIfNotExists_SkipsWithoutCredentials(t *testing.T) {
	f := newAuthFixture(t)
	f.svc.cfg.SuperAdmin.Email = ""

	require.NoError(t, f.svc.CreateSuperAdminIfNotExists(context.Background()))

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestResetLink(t *testing.T) {
	got := ResetLink("https://app.example.com/reset", "abc.def")
	expected := "https://app.example.com/reset?forgetToken=abc.def&status=200&success=true"
	if got != expected {
		t.Errorf("ResetLink() = %q, expected %q", got, expected)
	}
}
