package service

import (
	"fmt"
	"strconv"

	"github.com/wb-go/wbf/ginext"

	"workshophub/internal/dto"
	"workshophub/internal/model"
	"workshophub/internal/repo"
	"workshophub/pkg/validator"
)

func (s *service) CreateWorkshop(ctx *ginext.Context) {
	var req dto.CreateWorkshopRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse create workshop request")
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	userID, _ := identity(ctx)

	mode := req.Mode
	if mode == "" {
		mode = model.ModeManual
	}

	workshop := &model.Workshop{
		Title:           req.Title,
		Description:     req.Description,
		Organizer:       req.Organizer,
		OrganizerUserID: &userID,
		Instructor:      req.Instructor,
		EventDate:       req.EventDate,
		EventTime:       req.EventTime,
		Location:        req.Location,
		City:            req.City,
		Category:        req.Category,
		Level:           req.Level,
		Duration:        req.Duration,
		Price:           req.Price,
		MaxSeats:        req.MaxSeats,
		AvailableSeats:  req.MaxSeats,
		Mode:            mode,
		Status:          model.WorkshopActive,
		Featured:        req.Featured,
		ImageURL:        req.ImageURL,
		Tags:            req.Tags,
	}

	id, err := s.repo.CreateWorkshop(ctx.Request.Context(), workshop)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create workshop in DB")
		dto.InternalServerError(ctx)
		return
	}
	workshop.ID = id

	s.log.Info().Int64("workshop_id", id).Msg("workshop created successfully")
	dto.SuccessCreatedResponse(ctx, workshop)
}

func (s *service) GetWorkshop(ctx *ginext.Context) {
	workshopID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid workshop ID")
		return
	}

	workshop, err := s.repo.GetWorkshopByID(ctx.Request.Context(), workshopID)
	if err != nil {
		if err == repo.ErrWorkshopNotFound {
			dto.NotFoundError(ctx, dto.WorkshopNotFound, "Workshop not found")
			return
		}
		s.log.Error().Err(err).Msg("failed to get workshop")
		dto.InternalServerError(ctx)
		return
	}

	resp := dto.WorkshopInfoResponse{Workshop: *workshop}

	// organizers and admins also see the registration list
	userID, role := identity(ctx)
	owns := workshop.OrganizerUserID != nil && *workshop.OrganizerUserID == userID
	if role == model.RoleAdmin || (role == model.RoleEnterprise && owns) {
		regs, err := s.repo.ListWorkshopRegistrations(ctx.Request.Context(), workshopID)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to list workshop registrations")
			dto.InternalServerError(ctx)
			return
		}
		resp.Registrations = regs
	}

	dto.SuccessResponse(ctx, resp)
}

func (s *service) UpdateWorkshop(ctx *ginext.Context) {
	workshopID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid workshop ID")
		return
	}

	var req dto.UpdateWorkshopRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	workshop, ok := s.loadOwnedWorkshop(ctx, workshopID)
	if !ok {
		return
	}

	workshop.Title = req.Title
	workshop.Description = req.Description
	workshop.Organizer = req.Organizer
	workshop.Instructor = req.Instructor
	workshop.EventDate = req.EventDate
	workshop.EventTime = req.EventTime
	workshop.Location = req.Location
	workshop.City = req.City
	workshop.Category = req.Category
	workshop.Level = req.Level
	workshop.Duration = req.Duration
	workshop.Price = req.Price
	if req.Mode != "" {
		workshop.Mode = req.Mode
	}
	if req.Status != "" {
		workshop.Status = req.Status
	}
	workshop.Featured = req.Featured
	workshop.ImageURL = req.ImageURL

	if err := s.repo.UpdateWorkshop(ctx.Request.Context(), workshop); err != nil {
		if err == repo.ErrWorkshopNotFound {
			dto.NotFoundError(ctx, dto.WorkshopNotFound, "Workshop not found")
			return
		}
		s.log.Error().Err(err).Msg("failed to update workshop")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("workshop_id", workshopID).Msg("workshop updated")
	dto.SuccessResponse(ctx, workshop)
}

func (s *service) DeleteWorkshop(ctx *ginext.Context) {
	workshopID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid workshop ID")
		return
	}

	if _, ok := s.loadOwnedWorkshop(ctx, workshopID); !ok {
		return
	}

	if err := s.repo.DeleteWorkshopTx(ctx.Request.Context(), workshopID); err != nil {
		switch err {
		case repo.ErrWorkshopNotFound:
			dto.NotFoundError(ctx, dto.WorkshopNotFound, "Workshop not found")
		case repo.ErrHasRegistrations:
			dto.ConflictError(ctx, dto.HasRegistrations, "Cannot delete a workshop with registrations")
		default:
			s.log.Error().Err(err).Msg("failed to delete workshop")
			dto.InternalServerError(ctx)
		}
		return
	}

	s.log.Info().Int64("workshop_id", workshopID).Msg("workshop deleted")
	dto.SuccessResponse(ctx, nil)
}

// loadOwnedWorkshop fetches the workshop and enforces the only
// domain-level permission the core owns: an enterprise account may
// touch its own rows only. Admins pass unconditionally.
func (s *service) loadOwnedWorkshop(ctx *ginext.Context, workshopID int64) (*model.Workshop, bool) {
	workshop, err := s.repo.GetWorkshopByID(ctx.Request.Context(), workshopID)
	if err != nil {
		if err == repo.ErrWorkshopNotFound {
			dto.NotFoundError(ctx, dto.WorkshopNotFound, "Workshop not found")
			return nil, false
		}
		s.log.Error().Err(err).Msg("failed to get workshop")
		dto.InternalServerError(ctx)
		return nil, false
	}

	userID, role := identity(ctx)
	if role != model.RoleAdmin {
		if workshop.OrganizerUserID == nil || *workshop.OrganizerUserID != userID {
			dto.ForbiddenError(ctx, "You can only manage your own workshops")
			return nil, false
		}
	}
	return workshop, true
}

func (s *service) ListWorkshops(ctx *ginext.Context) {
	filter := model.WorkshopFilter{
		Search:      ctx.Query("search"),
		Category:    ctx.Query("category"),
		City:        ctx.Query("city"),
		Level:       ctx.Query("level"),
		Status:      ctx.Query("status"),
		PriceFilter: ctx.Query("price"),
		SortBy:      ctx.Query("sort_by"),
	}
	if v := ctx.Query("organizer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid organizer ID")
			return
		}
		filter.OrganizerUserID = id
	}
	filter.Page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	filter.PerPage, _ = strconv.Atoi(ctx.DefaultQuery("per_page", "10"))
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 || filter.PerPage > 100 {
		filter.PerPage = 10
	}

	workshops, total, err := s.repo.ListWorkshops(ctx.Request.Context(), filter)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list workshops")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.WorkshopListResponse{
		Workshops:  workshops,
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: (total + filter.PerPage - 1) / filter.PerPage,
	})
}

func (s *service) UploadScreenshot(ctx *ginext.Context) {
	file, header, err := ctx.Request.FormFile("screenshot")
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "File 'screenshot' is required")
		return
	}
	defer file.Close()

	ref, err := s.files.Save(file, header.Filename)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to store screenshot")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Str("ref", ref).Msg("screenshot stored")
	dto.SuccessCreatedResponse(ctx, dto.UploadResponse{Ref: ref})
}
