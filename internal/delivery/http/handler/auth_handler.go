package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/pkg/response"
	ucauth "jobboard/internal/usecase/auth"
)

type AuthHandler struct {
	uc     ucauth.AuthUsecase
	logger *log.Logger
}

func NewAuthHandler(uc ucauth.AuthUsecase, logger *log.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, logger: logger}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/password/forgot", h.ForgotPassword)
	r.Post("/password/reset", h.ResetPassword)
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	sess, err := h.uc.Register(c.Context(), ucauth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Created(c, sess)
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	sess, err := h.uc.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, sess)
}

// Refresh accepts the refresh token in the body or as a bearer token.
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var req dto.RefreshRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
	}
	tok := req.RefreshToken
	if tok == "" {
		tok, _ = middleware.BearerToken(c.Get("Authorization"))
	}
	if tok == "" {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	toks, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toks)
}

func (h *AuthHandler) ForgotPassword(c fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	tok, err := h.uc.RequestPasswordReset(c.Context(), req.Email)
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	if tok != "" && h.logger != nil {
		h.logger.Printf("[Auth] Reset token email=%s token=%s", req.Email, tok)
	}
	return response.Success(c, fiber.StatusAccepted, "If the account exists, a reset link has been sent", nil)
}

func (h *AuthHandler) ResetPassword(c fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := h.uc.ResetPassword(c.Context(), req.Token, req.Password); err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Password updated", nil)
}

func mapAuthUsecaseError(err error) error {
	switch {
	case errors.Is(err, ucauth.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid email or password", nil, err)
	case errors.Is(err, ucauth.ErrInvalidToken):
		return middleware.NewAppError(fiber.StatusForbidden, "Session expired. Please login again.", nil, err)
	case errors.Is(err, ucauth.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
