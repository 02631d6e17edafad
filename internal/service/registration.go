package service

import (
	"fmt"
	"strconv"

	"github.com/wb-go/wbf/ginext"

	"workshophub/internal/dto"
	"workshophub/internal/metrics"
	"workshophub/internal/model"
	"workshophub/internal/repo"
	"workshophub/pkg/validator"
)

func (s *service) SubmitRegistration(ctx *ginext.Context) {
	workshopID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid workshop ID")
		return
	}

	var req dto.SubmitRegistrationRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
			return
		}
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	userID, _ := identity(ctx)

	workshop, err := s.repo.GetWorkshopByID(ctx.Request.Context(), workshopID)
	if err != nil {
		if err == repo.ErrWorkshopNotFound {
			dto.NotFoundError(ctx, dto.WorkshopNotFound, "Workshop not found")
			return
		}
		s.log.Error().Err(err).Msg("failed to get workshop for registration")
		dto.InternalServerError(ctx)
		return
	}

	// paid workshops need payment evidence up front
	if workshop.Price > 0 {
		if req.TransactionID == "" {
			dto.BadResponseError(ctx, dto.FieldIncorrect, "Transaction ID is required for paid workshops")
			return
		}
		if req.ScreenshotRef == "" {
			dto.BadResponseError(ctx, dto.FieldIncorrect, "Payment screenshot is required for paid workshops")
			return
		}
	}

	registration := &model.Registration{
		UserID:        userID,
		WorkshopID:    workshopID,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		UpiID:         req.UpiID,
		ScreenshotRef: req.ScreenshotRef,
		Notes:         req.Notes,
	}

	reg, err := s.repo.SubmitRegistrationTx(ctx.Request.Context(), registration)
	if err != nil {
		switch err {
		case repo.ErrWorkshopNotFound:
			dto.NotFoundError(ctx, dto.WorkshopNotFound, "Workshop not found")
		case repo.ErrWorkshopNotActive:
			dto.BadResponseError(ctx, dto.WorkshopNotActive, "Workshop is not open for registration")
		case repo.ErrSoldOut:
			dto.ConflictError(ctx, dto.WorkshopSoldOut, "No available seats for this workshop")
		case repo.ErrDuplicateRegistration:
			dto.ConflictError(ctx, dto.RegistrationDuplicate, "You have already registered for this workshop")
		default:
			s.log.Error().Err(err).Msg("failed to submit registration")
			dto.InternalServerError(ctx)
		}
		return
	}

	metrics.RegistrationsSubmitted.WithLabelValues(reg.Status).Inc()
	s.log.Info().
		Int64("registration_id", reg.ID).
		Str("status", reg.Status).
		Msg("registration submitted")

	s.publishNotice(reg)
	dto.SuccessCreatedResponse(ctx, reg)
}

func (s *service) ApproveRegistration(ctx *ginext.Context) {
	registrationID, req, ok := reviewInput(ctx)
	if !ok {
		return
	}

	reg, err := s.repo.ApproveRegistrationTx(ctx.Request.Context(), registrationID, req.AdminNotes)
	if err != nil {
		switch err {
		case repo.ErrRegistrationNotFound:
			dto.NotFoundError(ctx, dto.RegistrationNotFound, "Registration not found")
		case repo.ErrInvalidStatus:
			dto.ConflictError(ctx, dto.RegistrationClosed, "Registration is not awaiting review")
		case repo.ErrPaymentNotVerified:
			dto.BadResponseError(ctx, dto.PaymentNotVerified, "Payment must be verified before approval")
		case repo.ErrSeatsExhausted:
			metrics.SeatContentionRejects.Inc()
			dto.ConflictError(ctx, dto.SeatsExhausted, "No available seats remaining")
		default:
			s.log.Error().Err(err).Msg("failed to approve registration")
			dto.InternalServerError(ctx)
		}
		return
	}

	metrics.RegistrationsReviewed.WithLabelValues("approved").Inc()
	s.log.Info().Int64("registration_id", reg.ID).Msg("registration approved")

	s.publishNotice(reg)
	dto.SuccessResponse(ctx, reg)
}

func (s *service) RejectRegistration(ctx *ginext.Context) {
	registrationID, req, ok := reviewInput(ctx)
	if !ok {
		return
	}

	reg, err := s.repo.RejectRegistrationTx(ctx.Request.Context(), registrationID, req.AdminNotes)
	if err != nil {
		switch err {
		case repo.ErrRegistrationNotFound:
			dto.NotFoundError(ctx, dto.RegistrationNotFound, "Registration not found")
		case repo.ErrInvalidStatus:
			dto.ConflictError(ctx, dto.RegistrationClosed, "Registration is not awaiting review")
		default:
			s.log.Error().Err(err).Msg("failed to reject registration")
			dto.InternalServerError(ctx)
		}
		return
	}

	metrics.RegistrationsReviewed.WithLabelValues("rejected").Inc()
	s.log.Info().Int64("registration_id", reg.ID).Msg("registration rejected")

	s.publishNotice(reg)
	dto.SuccessResponse(ctx, reg)
}

func (s *service) VerifyPayment(ctx *ginext.Context) {
	registrationID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid registration ID")
		return
	}

	reg, err := s.repo.VerifyPaymentTx(ctx.Request.Context(), registrationID)
	if err != nil {
		switch err {
		case repo.ErrRegistrationNotFound:
			dto.NotFoundError(ctx, dto.RegistrationNotFound, "Registration not found")
		case repo.ErrPaymentNotRequired:
			dto.BadResponseError(ctx, dto.PaymentNotRequired, "Registration has no payment awaiting verification")
		default:
			s.log.Error().Err(err).Msg("failed to verify payment")
			dto.InternalServerError(ctx)
		}
		return
	}

	s.log.Info().Int64("registration_id", reg.ID).Msg("payment verified")
	dto.SuccessResponse(ctx, reg)
}

func (s *service) MyRegistrations(ctx *ginext.Context) {
	userID, _ := identity(ctx)

	regs, err := s.repo.ListUserRegistrations(ctx.Request.Context(), userID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list user registrations")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, regs)
}

func (s *service) PendingRegistrations(ctx *ginext.Context) {
	regs, err := s.repo.ListPendingRegistrations(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list pending registrations")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, regs)
}

func reviewInput(ctx *ginext.Context) (int64, dto.ReviewRegistrationRequest, bool) {
	var req dto.ReviewRegistrationRequest

	registrationID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid registration ID")
		return 0, req, false
	}

	// admin notes are optional, an empty body is fine
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
			return 0, req, false
		}
	}
	return registrationID, req, true
}
