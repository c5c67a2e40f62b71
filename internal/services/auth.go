package services

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"inventory-system/internal/dto"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/service"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error)
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepositoryInterface, jwtService service.JWTService, logger *zap.Logger) AuthServiceInterface {
	return &AuthService{userRepo: userRepo, jwtService: jwtService, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error) {
	user, err := s.userRepo.FindByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewHttpError(http.StatusUnauthorized, "invalid credentials", nil, nil)
		}
		return nil, apperrors.NewInternalError("could not load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		return nil, apperrors.NewHttpError(http.StatusUnauthorized, "invalid credentials", nil, nil)
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		s.logger.Error("token generation failed", zap.Uint64("user_id", user.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("could not issue token", err)
	}

	return &dto.LoginResponseDTO{
		Token: token,
		User: dto.UserDTO{
			ID:         user.ID,
			Fio:        user.Fio,
			Email:      user.Email,
			Role:       user.Role,
			SucursalID: user.SucursalID,
		},
	}, nil
}
