package handler

import (
	"errors"

	"skill-pulse/internal/delivery/http/dto"
	"skill-pulse/internal/delivery/http/middleware"
	"skill-pulse/internal/pkg/response"
	"skill-pulse/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc       usecase.AuthUsecase
	validate *validator.Validate
}

func NewAuthHandler(uc usecase.AuthUsecase, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{uc: uc, validate: validate}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	tokens, err := h.uc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return mapAuthError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.TokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	tokens, err := h.uc.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return mapAuthError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.TokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func mapAuthError(err error) error {
	if errors.Is(err, usecase.ErrInvalidCredentials) {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid credentials", nil, err)
	}
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}
