package domain

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/th3void/lotus-routine/internal/domain/search"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/authenticator"
	"github.com/th3void/lotus-routine/pkg/crypto"
	"github.com/th3void/lotus-routine/pkg/testutil"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

func newTestAuthDomain(
	mailer *testutil.MockMailer,
	searchCaller *testutil.MockSearchCaller,
	oauth2Services ...authenticator.IOAuth2Service,
) *authDomain {
	return NewAuthDomain(
		repository.NewUserRepository(),
		repository.NewOAuth2Repository(),
		repository.NewRefreshTokenRepository(),
		repository.NewPasswordResetRepository(),
		mailer,
		searchCaller,
		oauth2Services...,
	)
}

func Test_authDomain_Register(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()

	indexed := map[string]string{}
	searchCaller := &testutil.MockSearchCaller{
		IndexUserFunc: func(ctx context.Context, id string, data search.UserData) error {
			indexed[id] = data.Name
			return nil
		},
	}

	auth := newTestAuthDomain(&testutil.MockMailer{}, searchCaller)

	resp, err := auth.Register(ctx, &model.RegisterRequest{
		Username: "dave_99",
		Email:    "dave@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.Equal(t, "dave_99", resp.User.Name)
	require.True(t, resp.User.IsNewUser)

	var user entity.User
	require.NoError(t, xcontext.DB(ctx).Take(&user, "name=?", "dave_99").Error)
	require.Equal(t, entity.RoleUser, user.Role)
	require.NotEqual(t, "supersecret", user.Password)
	require.True(t, crypto.CheckPasswordHash("supersecret", user.Password))
	require.NotEmpty(t, user.AvatarColor)
	require.Equal(t, "dave_99", indexed[user.ID])

	// Username and password validation.
	_, err = auth.Register(ctx, &model.RegisterRequest{
		Username: "Bad Name!", Password: "supersecret"})
	require.Error(t, err)
	require.Equal(t,
		"Username must be 4-32 lowercase letters, digits, or underscores", err.Error())

	_, err = auth.Register(ctx, &model.RegisterRequest{
		Username: "dave_100", Password: "short"})
	require.Error(t, err)
	require.Equal(t, "Password must be at least 8 characters", err.Error())

	// The fixture already owns this username.
	_, err = auth.Register(ctx, &model.RegisterRequest{
		Username: "alice", Password: "supersecret"})
	require.Error(t, err)
	require.Equal(t, "This value is already taken", err.Error())
}

func Test_authDomain_Login(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()
	auth := newTestAuthDomain(&testutil.MockMailer{}, &testutil.MockSearchCaller{})

	_, err := auth.Register(ctx, &model.RegisterRequest{
		Username: "dave_99", Email: "dave@example.com", Password: "supersecret"})
	require.NoError(t, err)

	resp, err := auth.Login(ctx, &model.LoginRequest{
		Username: "dave_99", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, "dave_99", resp.User.Name)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)

	var count int64
	err = xcontext.DB(ctx).Model(&entity.RefreshToken{}).
		Where("user_id=?", resp.User.ID).Count(&count).Error
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	// A wrong password and an unknown user fail identically.
	_, err = auth.Login(ctx, &model.LoginRequest{
		Username: "dave_99", Password: "wrongpassword"})
	require.Error(t, err)
	require.Equal(t, "Invalid username or password", err.Error())

	_, err = auth.Login(ctx, &model.LoginRequest{
		Username: "nobody", Password: "supersecret"})
	require.Error(t, err)
	require.Equal(t, "Invalid username or password", err.Error())

	err = xcontext.DB(ctx).Model(&entity.User{}).
		Where("name=?", "dave_99").Update("is_banned", true).Error
	require.NoError(t, err)

	_, err = auth.Login(ctx, &model.LoginRequest{
		Username: "dave_99", Password: "supersecret"})
	require.Error(t, err)
	require.Equal(t, "Your account has been banned", err.Error())
}

func Test_authDomain_Refresh_rotatesAndDetectsReuse(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()
	auth := newTestAuthDomain(&testutil.MockMailer{}, &testutil.MockSearchCaller{})

	_, err := auth.Register(ctx, &model.RegisterRequest{
		Username: "dave_99", Email: "dave@example.com", Password: "supersecret"})
	require.NoError(t, err)

	loginResp, err := auth.Login(ctx, &model.LoginRequest{
		Username: "dave_99", Password: "supersecret"})
	require.NoError(t, err)

	refreshResp, err := auth.Refresh(ctx, &model.RefreshTokenRequest{
		RefreshToken: loginResp.RefreshToken})
	require.NoError(t, err)
	require.NotEmpty(t, refreshResp.AccessToken)
	require.NotEqual(t, loginResp.RefreshToken, refreshResp.RefreshToken)

	// Replaying the already-rotated token revokes the whole family.
	_, err = auth.Refresh(ctx, &model.RefreshTokenRequest{
		RefreshToken: loginResp.RefreshToken})
	require.Error(t, err)
	require.Equal(t,
		"Your refresh token will be revoked because it is detected as stolen", err.Error())

	_, err = auth.Refresh(ctx, &model.RefreshTokenRequest{
		RefreshToken: refreshResp.RefreshToken})
	require.Error(t, err)
	require.Equal(t, "Invalid refresh token", err.Error())

	_, err = auth.Refresh(ctx, &model.RefreshTokenRequest{
		RefreshToken: "not-a-token"})
	require.Error(t, err)
	require.Equal(t, "Invalid refresh token", err.Error())
}

func Test_authDomain_Logout(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()
	auth := newTestAuthDomain(&testutil.MockMailer{}, &testutil.MockSearchCaller{})

	_, err := auth.Register(ctx, &model.RegisterRequest{
		Username: "dave_99", Email: "dave@example.com", Password: "supersecret"})
	require.NoError(t, err)

	loginResp, err := auth.Login(ctx, &model.LoginRequest{
		Username: "dave_99", Password: "supersecret"})
	require.NoError(t, err)

	_, err = auth.Logout(ctx, &model.LogoutRequest{RefreshToken: loginResp.RefreshToken})
	require.NoError(t, err)

	_, err = auth.Refresh(ctx, &model.RefreshTokenRequest{
		RefreshToken: loginResp.RefreshToken})
	require.Error(t, err)
	require.Equal(t, "Invalid refresh token", err.Error())

	// A garbage token has nothing to revoke and is not an error.
	_, err = auth.Logout(ctx, &model.LogoutRequest{RefreshToken: "not-a-token"})
	require.NoError(t, err)
}

func Test_authDomain_PasswordReset(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()
	mailer := &testutil.MockMailer{}
	auth := newTestAuthDomain(mailer, &testutil.MockSearchCaller{})

	// An unknown email succeeds silently and sends nothing.
	_, err := auth.RequestPasswordReset(ctx, &model.RequestPasswordResetRequest{
		Email: "nobody@example.com"})
	require.NoError(t, err)
	require.Empty(t, mailer.Sent)

	_, err = auth.RequestPasswordReset(ctx, &model.RequestPasswordResetRequest{
		Email: testutil.User1.Email})
	require.NoError(t, err)
	require.Len(t, mailer.Sent, 1)
	require.Equal(t, testutil.User1.Email, mailer.Sent[0].To)

	const bodyPrefix = "Use this token to reset your password: "
	require.True(t, strings.HasPrefix(mailer.Sent[0].Body, bodyPrefix))
	token := strings.TrimPrefix(mailer.Sent[0].Body, bodyPrefix)

	_, err = auth.ResetPassword(ctx, &model.ResetPasswordRequest{
		Token: token, Password: "short"})
	require.Error(t, err)
	require.Equal(t, "Password must be at least 8 characters", err.Error())

	_, err = auth.ResetPassword(ctx, &model.ResetPasswordRequest{
		Token: "bogus", Password: "newpassword"})
	require.Error(t, err)
	require.Equal(t, "Invalid or expired reset token", err.Error())

	_, err = auth.ResetPassword(ctx, &model.ResetPasswordRequest{
		Token: token, Password: "newpassword"})
	require.NoError(t, err)

	resp, err := auth.Login(ctx, &model.LoginRequest{
		Username: testutil.User1.Name, Password: "newpassword"})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, resp.User.ID)

	// The token is single use.
	_, err = auth.ResetPassword(ctx, &model.ResetPasswordRequest{
		Token: token, Password: "anotherpassword"})
	require.Error(t, err)
	require.Equal(t, "Invalid or expired reset token", err.Error())
}

func Test_authDomain_ResetPassword_expiredToken(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()
	auth := newTestAuthDomain(&testutil.MockMailer{}, &testutil.MockSearchCaller{})

	passwordResetRepo := repository.NewPasswordResetRepository()
	err := passwordResetRepo.Create(ctx, &entity.PasswordReset{
		UserID:     testutil.User1.ID,
		TokenHash:  crypto.SHA256([]byte("stale-token")),
		Expiration: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	_, err = auth.ResetPassword(ctx, &model.ResetPasswordRequest{
		Token: "stale-token", Password: "newpassword"})
	require.Error(t, err)
	require.Equal(t, "Invalid or expired reset token", err.Error())
}

func Test_authDomain_ResetPassword_revokesSessions(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()
	mailer := &testutil.MockMailer{}
	auth := newTestAuthDomain(mailer, &testutil.MockSearchCaller{})

	_, err := auth.Register(ctx, &model.RegisterRequest{
		Username: "dave_99", Email: "dave@example.com", Password: "supersecret"})
	require.NoError(t, err)

	loginResp, err := auth.Login(ctx, &model.LoginRequest{
		Username: "dave_99", Password: "supersecret"})
	require.NoError(t, err)

	_, err = auth.RequestPasswordReset(ctx, &model.RequestPasswordResetRequest{
		Email: "dave@example.com"})
	require.NoError(t, err)
	require.Len(t, mailer.Sent, 1)

	token := strings.TrimPrefix(mailer.Sent[0].Body, "Use this token to reset your password: ")
	_, err = auth.ResetPassword(ctx, &model.ResetPasswordRequest{
		Token: token, Password: "newpassword"})
	require.NoError(t, err)

	_, err = auth.Refresh(ctx, &model.RefreshTokenRequest{
		RefreshToken: loginResp.RefreshToken})
	require.Error(t, err)
	require.Equal(t, "Invalid refresh token", err.Error())
}

func Test_authDomain_OAuth2(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()

	service := testutil.NewMockOAuth2Service("google")
	service.ExchangeCodeFunc = func(ctx context.Context, code string) (authenticator.OAuth2User, error) {
		return authenticator.OAuth2User{ID: "google-1", Username: "dave_99"}, nil
	}

	auth := newTestAuthDomain(&testutil.MockMailer{}, &testutil.MockSearchCaller{}, service)

	_, err := auth.OAuth2Login(ctx, &model.OAuth2LoginRequest{Type: "facebook"})
	require.Error(t, err)
	require.Equal(t, "Unsupported oauth2 service facebook", err.Error())

	loginReq := httptest.NewRequest("GET", "/oauth2/login", nil)
	loginRecorder := httptest.NewRecorder()
	loginCtx := xcontext.WithHTTPRequest(ctx, loginReq)
	loginCtx = xcontext.WithHTTPWriter(loginCtx, loginRecorder)

	loginResp, err := auth.OAuth2Login(loginCtx, &model.OAuth2LoginRequest{Type: "google"})
	require.NoError(t, err)

	const redirectPrefix = "https://oauth2.example.com/auth?state="
	require.True(t, strings.HasPrefix(loginResp.RedirectURL, redirectPrefix))
	state := strings.TrimPrefix(loginResp.RedirectURL, redirectPrefix)
	require.NotEmpty(t, state)

	// Carry the session cookie into the callback request.
	callbackReq := httptest.NewRequest("GET", "/oauth2/callback", nil)
	for _, cookie := range loginRecorder.Result().Cookies() {
		callbackReq.AddCookie(cookie)
	}

	callbackCtx := xcontext.WithHTTPRequest(ctx, callbackReq)
	callbackCtx = xcontext.WithHTTPWriter(callbackCtx, httptest.NewRecorder())

	_, err = auth.OAuth2Callback(callbackCtx, &model.OAuth2CallbackRequest{
		Type: "google", Code: "code", State: "tampered"})
	require.Error(t, err)
	require.Equal(t, "Mismatched state parameter", err.Error())

	callbackResp, err := auth.OAuth2Callback(callbackCtx, &model.OAuth2CallbackRequest{
		Type: "google", Code: "code", State: state})
	require.NoError(t, err)
	require.Equal(t, "dave_99", callbackResp.User.Name)
	require.NotEmpty(t, callbackResp.AccessToken)

	var link entity.OAuth2
	err = xcontext.DB(ctx).Take(&link, "service=? AND service_user_id=?", "google", "google-1").Error
	require.NoError(t, err)
	require.Equal(t, callbackResp.User.ID, link.UserID)
}
