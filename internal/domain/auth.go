package domain

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/th3void/lotus-routine/internal/client"
	"github.com/th3void/lotus-routine/internal/domain/search"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/authenticator"
	"github.com/th3void/lotus-routine/pkg/crypto"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/mailer"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"gorm.io/gorm"
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9_]{4,32}$`)

var avatarColors = []string{
	"#f44336", "#e91e63", "#9c27b0", "#3f51b5",
	"#2196f3", "#009688", "#4caf50", "#ff9800",
}

type AuthDomain interface {
	Register(context.Context, *model.RegisterRequest) (*model.RegisterResponse, error)
	Login(context.Context, *model.LoginRequest) (*model.LoginResponse, error)
	OAuth2Login(context.Context, *model.OAuth2LoginRequest) (*model.OAuth2LoginResponse, error)
	OAuth2Callback(context.Context, *model.OAuth2CallbackRequest) (*model.OAuth2CallbackResponse, error)
	Refresh(context.Context, *model.RefreshTokenRequest) (*model.RefreshTokenResponse, error)
	Logout(context.Context, *model.LogoutRequest) (*model.LogoutResponse, error)
	RequestPasswordReset(context.Context, *model.RequestPasswordResetRequest) (*model.RequestPasswordResetResponse, error)
	ResetPassword(context.Context, *model.ResetPasswordRequest) (*model.ResetPasswordResponse, error)
}

type authDomain struct {
	userRepo          repository.UserRepository
	oauth2Repo        repository.OAuth2Repository
	refreshTokenRepo  repository.RefreshTokenRepository
	passwordResetRepo repository.PasswordResetRepository
	mailer            mailer.IMailer
	searchCaller      client.SearchCaller
	oauth2Services    []authenticator.IOAuth2Service
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	oauth2Repo repository.OAuth2Repository,
	refreshTokenRepo repository.RefreshTokenRepository,
	passwordResetRepo repository.PasswordResetRepository,
	mailer mailer.IMailer,
	searchCaller client.SearchCaller,
	oauth2Services ...authenticator.IOAuth2Service,
) *authDomain {
	return &authDomain{
		userRepo:          userRepo,
		oauth2Repo:        oauth2Repo,
		refreshTokenRepo:  refreshTokenRepo,
		passwordResetRepo: passwordResetRepo,
		mailer:            mailer,
		searchCaller:      searchCaller,
		oauth2Services:    oauth2Services,
	}
}

func (d *authDomain) Register(
	ctx context.Context, req *model.RegisterRequest,
) (*model.RegisterResponse, error) {
	if !usernameRegex.MatchString(req.Username) {
		return nil, errorx.New(errorx.BadRequest,
			"Username must be 4-32 lowercase letters, digits, or underscores")
	}

	if len(req.Password) < 8 {
		return nil, errorx.New(errorx.BadRequest, "Password must be at least 8 characters")
	}

	hashed, err := crypto.HashPassword(req.Password)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash password: %v", err)
		return nil, errorx.Unknown
	}

	user := &entity.User{
		Base:        entity.Base{ID: uuid.NewString()},
		Name:        req.Username,
		Email:       req.Email,
		Password:    hashed,
		Role:        entity.RoleUser,
		AvatarColor: avatarColors[crypto.RandIntn(len(avatarColors))],
		IsNewUser:   true,
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot create user: %v", err)
		return nil, errorx.Friendly(err)
	}

	err = d.searchCaller.IndexUser(ctx, user.ID, search.UserData{Name: user.Name})
	if err != nil {
		// The write succeeded; a missed index entry is repairable.
		xcontext.Logger(ctx).Warnf("Cannot index user %s: %v", user.ID, err)
	}

	resp := model.RegisterResponse{User: model.ConvertUser(user, true, "")}
	return &resp, nil
}

func (d *authDomain) Login(
	ctx context.Context, req *model.LoginRequest,
) (*model.LoginResponse, error) {
	user, err := d.userRepo.GetByName(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid username or password")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if !crypto.CheckPasswordHash(req.Password, user.Password) {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid username or password")
	}

	if user.IsBanned {
		return nil, errorx.New(errorx.PermissionDenied, "Your account has been banned")
	}

	accessToken, refreshToken, err := d.generateTokens(ctx, user)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate tokens: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LoginResponse{
		User:         model.ConvertUser(user, true, ""),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (d *authDomain) OAuth2Login(
	ctx context.Context, req *model.OAuth2LoginRequest,
) (*model.OAuth2LoginResponse, error) {
	service, ok := d.getOAuth2Service(req.Type)
	if !ok {
		return nil, errorx.New(errorx.BadRequest, "Unsupported oauth2 service %s", req.Type)
	}

	state, err := crypto.GenerateRandomString()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate state: %v", err)
		return nil, errorx.Unknown
	}

	session, err := xcontext.SessionStore(ctx).Get(
		xcontext.HTTPRequest(ctx), xcontext.Configs(ctx).Session.Name)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the session: %v", err)
		return nil, errorx.Unknown
	}

	session.Values["state"] = state
	if err := session.Save(xcontext.HTTPRequest(ctx), xcontext.HTTPWriter(ctx)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save the session: %v", err)
		return nil, errorx.Unknown
	}

	return &model.OAuth2LoginResponse{RedirectURL: service.AuthCodeURL(state)}, nil
}

func (d *authDomain) OAuth2Callback(
	ctx context.Context, req *model.OAuth2CallbackRequest,
) (*model.OAuth2CallbackResponse, error) {
	service, ok := d.getOAuth2Service(req.Type)
	if !ok {
		return nil, errorx.New(errorx.BadRequest, "Unsupported oauth2 service %s", req.Type)
	}

	session, err := xcontext.SessionStore(ctx).Get(
		xcontext.HTTPRequest(ctx), xcontext.Configs(ctx).Session.Name)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the session: %v", err)
		return nil, errorx.Unknown
	}

	state, ok := session.Values["state"].(string)
	if !ok || state == "" || state != req.State {
		return nil, errorx.New(errorx.Unauthenticated, "Mismatched state parameter")
	}

	delete(session.Values, "state")
	if err := session.Save(xcontext.HTTPRequest(ctx), xcontext.HTTPWriter(ctx)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save the session: %v", err)
		return nil, errorx.Unknown
	}

	serviceUser, err := service.ExchangeCode(ctx, req.Code)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot exchange authorization code: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Cannot verify authorization code")
	}

	user, err := d.userRepo.GetByServiceUserID(ctx, service.Service(), serviceUser.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user by service id: %v", err)
			return nil, errorx.Unknown
		}

		user, err = d.createOAuth2User(ctx, service.Service(), serviceUser)
		if err != nil {
			return nil, err
		}
	}

	if user.IsBanned {
		return nil, errorx.New(errorx.PermissionDenied, "Your account has been banned")
	}

	accessToken, refreshToken, err := d.generateTokens(ctx, user)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate tokens: %v", err)
		return nil, errorx.Unknown
	}

	return &model.OAuth2CallbackResponse{
		User:         model.ConvertUser(user, true, ""),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (d *authDomain) Refresh(
	ctx context.Context, req *model.RefreshTokenRequest,
) (*model.RefreshTokenResponse, error) {
	refreshToken := model.RefreshToken{}
	err := xcontext.TokenEngine(ctx).Verify(req.RefreshToken, &refreshToken)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Failed to verify refresh token: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Invalid refresh token")
	}

	hashedFamily := crypto.SHA256([]byte(refreshToken.Family))
	storageToken, err := d.refreshTokenRepo.Get(ctx, hashedFamily)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get refresh token family: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Invalid refresh token")
	}

	if storageToken.Expiration.Before(time.Now()) {
		return nil, errorx.New(errorx.TokenExpired, "Your refresh token is expired")
	}

	// A counter mismatch means someone already used this token: revoke the
	// whole family.
	// NOTE: DO NOT create transaction here. The delete and rotate query is
	// independent.
	if refreshToken.Counter != storageToken.Counter {
		if err := d.refreshTokenRepo.Delete(ctx, hashedFamily); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete refresh token: %v", err)
			return nil, errorx.Unknown
		}

		return nil, errorx.New(errorx.StolenDetected,
			"Your refresh token will be revoked because it is detected as stolen")
	}

	if err := d.refreshTokenRepo.Rotate(ctx, hashedFamily); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot rotate the refresh token: %v", err)
		return nil, errorx.Unknown
	}

	newRefreshToken, err := xcontext.TokenEngine(ctx).Generate(
		xcontext.Configs(ctx).Auth.RefreshToken.Expiration,
		model.RefreshToken{
			Family:  refreshToken.Family,
			Counter: refreshToken.Counter + 1,
		})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate refresh token: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, storageToken.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if user.IsBanned {
		return nil, errorx.New(errorx.PermissionDenied, "Your account has been banned")
	}

	newAccessToken, err := xcontext.TokenEngine(ctx).Generate(
		xcontext.Configs(ctx).Auth.AccessToken.Expiration,
		model.AccessToken{ID: user.ID, Name: user.Name})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RefreshTokenResponse{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

func (d *authDomain) Logout(
	ctx context.Context, req *model.LogoutRequest,
) (*model.LogoutResponse, error) {
	refreshToken := model.RefreshToken{}
	err := xcontext.TokenEngine(ctx).Verify(req.RefreshToken, &refreshToken)
	if err != nil {
		// An unverifiable token has nothing to revoke.
		return &model.LogoutResponse{}, nil
	}

	hashedFamily := crypto.SHA256([]byte(refreshToken.Family))
	if err := d.refreshTokenRepo.Delete(ctx, hashedFamily); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot delete refresh token family: %v", err)
	}

	return &model.LogoutResponse{}, nil
}

func (d *authDomain) RequestPasswordReset(
	ctx context.Context, req *model.RequestPasswordResetRequest,
) (*model.RequestPasswordResetResponse, error) {
	user, err := d.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Do not reveal whether the email exists.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.RequestPasswordResetResponse{}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
		return nil, errorx.Unknown
	}

	token, err := crypto.GenerateRandomString()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate reset token: %v", err)
		return nil, errorx.Unknown
	}

	err = d.passwordResetRepo.Create(ctx, &entity.PasswordReset{
		UserID:     user.ID,
		TokenHash:  crypto.SHA256([]byte(token)),
		Expiration: time.Now().Add(time.Hour),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create password reset: %v", err)
		return nil, errorx.Unknown
	}

	err = d.mailer.SendText(ctx, user.Email, "Reset your Lotus Routine password",
		"Use this token to reset your password: "+token)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot send reset mail: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RequestPasswordResetResponse{}, nil
}

func (d *authDomain) ResetPassword(
	ctx context.Context, req *model.ResetPasswordRequest,
) (*model.ResetPasswordResponse, error) {
	if len(req.Password) < 8 {
		return nil, errorx.New(errorx.BadRequest, "Password must be at least 8 characters")
	}

	reset, err := d.passwordResetRepo.GetByTokenHash(ctx, crypto.SHA256([]byte(req.Token)))
	if err != nil {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid or expired reset token")
	}

	if reset.Expiration.Before(time.Now()) {
		return nil, errorx.New(errorx.TokenExpired, "Invalid or expired reset token")
	}

	hashed, err := crypto.HashPassword(req.Password)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash password: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.userRepo.UpdateByID(ctx, reset.UserID, &entity.User{Password: hashed})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update password: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.passwordResetRepo.DeleteByUserID(ctx, reset.UserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete password resets: %v", err)
		return nil, errorx.Unknown
	}

	// Revoke every open session of the account.
	if err := d.refreshTokenRepo.DeleteByUserID(ctx, reset.UserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot revoke refresh tokens: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.ResetPasswordResponse{}, nil
}

func (d *authDomain) getOAuth2Service(service string) (authenticator.IOAuth2Service, bool) {
	for i := range d.oauth2Services {
		if d.oauth2Services[i].Service() == service {
			return d.oauth2Services[i], true
		}
	}
	return nil, false
}

func (d *authDomain) createOAuth2User(
	ctx context.Context, service string, serviceUser authenticator.OAuth2User,
) (*entity.User, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	name := serviceUser.Username
	if !usernameRegex.MatchString(name) {
		name = "user_" + crypto.GenerateRandomAlphabet(8)
	}

	user := &entity.User{
		Base:        entity.Base{ID: uuid.NewString()},
		Name:        name,
		Role:        entity.RoleUser,
		AvatarColor: avatarColors[crypto.RandIntn(len(avatarColors))],
		IsNewUser:   true,
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Friendly(err)
	}

	err := d.oauth2Repo.Create(ctx, &entity.OAuth2{
		UserID:          user.ID,
		Service:         service,
		ServiceUserID:   serviceUser.ID,
		ServiceUsername: serviceUser.Username,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot link user with oauth2 service: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	err = d.searchCaller.IndexUser(ctx, user.ID, search.UserData{Name: user.Name})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot index user %s: %v", user.ID, err)
	}

	return user, nil
}

func (d *authDomain) generateTokens(ctx context.Context, user *entity.User) (string, string, error) {
	accessToken, err := xcontext.TokenEngine(ctx).Generate(
		xcontext.Configs(ctx).Auth.AccessToken.Expiration,
		model.AccessToken{ID: user.ID, Name: user.Name})
	if err != nil {
		return "", "", err
	}

	refreshTokenFamily, err := crypto.GenerateRandomString()
	if err != nil {
		return "", "", err
	}

	refreshToken, err := xcontext.TokenEngine(ctx).Generate(
		xcontext.Configs(ctx).Auth.RefreshToken.Expiration,
		model.RefreshToken{Family: refreshTokenFamily, Counter: 0})
	if err != nil {
		return "", "", err
	}

	err = d.refreshTokenRepo.Create(ctx, &entity.RefreshToken{
		UserID:     user.ID,
		Family:     crypto.SHA256([]byte(refreshTokenFamily)),
		Counter:    0,
		Expiration: time.Now().Add(xcontext.Configs(ctx).Auth.RefreshToken.Expiration),
	})
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}
