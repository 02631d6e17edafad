package service

import (
	"fmt"
	"strconv"

	"github.com/wb-go/wbf/ginext"

	"workshophub/internal/auth"
	"workshophub/internal/dto"
	"workshophub/internal/model"
	"workshophub/internal/repo"
	"workshophub/pkg/validator"
)

func (s *service) RegisterUser(ctx *ginext.Context) {
	s.registerAccount(ctx, model.RoleUser, true)
}

// RegisterEnterprise creates an organizer account that stays inactive
// until an admin activates it.
func (s *service) RegisterEnterprise(ctx *ginext.Context) {
	s.registerAccount(ctx, model.RoleEnterprise, false)
}

func (s *service) registerAccount(ctx *ginext.Context, role string, active bool) {
	var req dto.RegisterUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to hash password")
		dto.InternalServerError(ctx)
		return
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
	}

	id, err := s.repo.CreateUser(ctx.Request.Context(), user)
	if err != nil {
		if err == repo.ErrDuplicateEmail {
			dto.ConflictError(ctx, dto.EmailTaken, "User with this email already exists")
			return
		}
		s.log.Error().Err(err).Msg("failed to create user")
		dto.InternalServerError(ctx)
		return
	}
	user.ID = id

	s.log.Info().Int64("user_id", id).Str("role", role).Msg("user registered")
	dto.SuccessCreatedResponse(ctx, user)
}

func (s *service) Login(ctx *ginext.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	user, err := s.repo.GetUserByEmail(ctx.Request.Context(), req.Email)
	if err != nil {
		if err == repo.ErrUserNotFound {
			dto.UnauthorizedError(ctx, "Invalid email or password")
			return
		}
		s.log.Error().Err(err).Msg("failed to load user for login")
		dto.InternalServerError(ctx)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		dto.UnauthorizedError(ctx, "Invalid email or password")
		return
	}
	if !user.IsActive {
		dto.ForbiddenError(ctx, "Account is awaiting admin approval")
		return
	}

	token, err := s.tokens.CreateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to issue token")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.LoginResponse{Token: token, User: *user})
}

func (s *service) ActivateUser(ctx *ginext.Context) {
	userID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid user ID")
		return
	}

	if err := s.repo.ActivateUser(ctx.Request.Context(), userID); err != nil {
		if err == repo.ErrUserNotFound {
			dto.NotFoundError(ctx, dto.UserNotFound, "User not found")
			return
		}
		s.log.Error().Err(err).Msg("failed to activate user")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("user_id", userID).Msg("user activated")
	dto.SuccessResponse(ctx, nil)
}
