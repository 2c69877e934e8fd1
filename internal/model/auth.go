package model

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	User User `json:"user"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (r *LoginResponse) AccessTokenInfo() string {
	return r.AccessToken
}

type OAuth2LoginRequest struct {
	Type string `json:"type"`
}

type OAuth2LoginResponse struct {
	RedirectURL string `json:"redirect_url"`
}

type OAuth2CallbackRequest struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	State string `json:"state"`
}

type OAuth2CallbackResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (r *OAuth2CallbackResponse) AccessTokenInfo() string {
	return r.AccessToken
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenResponse) AccessTokenInfo() string {
	return r.AccessToken
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutResponse struct{}

type RequestPasswordResetRequest struct {
	Email string `json:"email"`
}

type RequestPasswordResetResponse struct{}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type ResetPasswordResponse struct{}

// AccessToken is the object carried inside the signed access token.
type AccessToken struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RefreshToken carries the rotation family and counter; a counter mismatch
// on use means the token leaked and the whole family is revoked.
type RefreshToken struct {
	Family  string `json:"family"`
	Counter uint64 `json:"counter"`
}
