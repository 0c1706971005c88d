package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/volunteerhub/volunteer-platform/internal/apperr"
	"github.com/volunteerhub/volunteer-platform/internal/auth"
	"github.com/volunteerhub/volunteer-platform/internal/middleware"
	"github.com/volunteerhub/volunteer-platform/internal/service"
)

// AuthHandler serves the verification handshake and session endpoints.
type AuthHandler struct {
	verification *service.VerificationService
	auth         *service.AuthService
	users        *service.UserService
	issuer       *auth.Issuer
	secure       bool
}

func NewAuthHandler(verification *service.VerificationService, authSvc *service.AuthService, users *service.UserService, issuer *auth.Issuer, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		verification: verification,
		auth:         authSvc,
		users:        users,
		issuer:       issuer,
		secure:       secureCookies,
	}
}

type sendCodeReq struct {
	Email string `json:"email" validate:"required,email"`
}

// SendCode emails a one-time code to the given address. The response is the
// same whether or not the address belongs to an account.
func (h *AuthHandler) SendCode(c echo.Context) error {
	var req sendCodeReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.verification.RequestCode(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "verification code sent"})
}

type verifyCodeReq struct {
	Email string `json:"email" validate:"required,email"`
	Code  int    `json:"code" validate:"required,min=100000,max=999999"`
}

// VerifyCode redeems a code and plants the verification token cookie that
// unlocks register and login.
func (h *AuthHandler) VerifyCode(c echo.Context) error {
	var req verifyCodeReq
	if err := bind(c, &req); err != nil {
		return err
	}
	token, err := h.verification.SubmitCode(c.Request().Context(), req.Email, req.Code)
	if err != nil {
		return err
	}
	setTokenCookie(c, auth.KindVerify, token, h.issuer.TTL(auth.KindVerify), h.secure)
	return c.JSON(http.StatusOK, echo.Map{"message": "email verified"})
}

type registerReq struct {
	FullName string `json:"fullname" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Register opens an account. Requires a verification cookie.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := h.auth.Register(c.Request().Context(), service.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login checks credentials and plants the access token cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return err
	}
	token, u, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	setTokenCookie(c, auth.KindAccess, token, h.issuer.TTL(auth.KindAccess), h.secure)
	return c.JSON(http.StatusOK, u)
}

// Logout drops the access cookie. The verification cookie is left alone: it
// proves the email, not the session, and expires on its own.
func (h *AuthHandler) Logout(c echo.Context) error {
	clearTokenCookie(c, auth.KindAccess, h.secure)
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the signed-in user's cabinet.
func (h *AuthHandler) Me(c echo.Context) error {
	claims, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	cab, err := h.users.Me(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cab)
}
