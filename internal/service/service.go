package service

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"workshophub/internal/auth"
	"workshophub/internal/dto"
	"workshophub/internal/filestore"
	"workshophub/internal/model"
	"workshophub/internal/repo"
)

type Service interface {
	RegisterUser(ctx *ginext.Context)
	RegisterEnterprise(ctx *ginext.Context)
	Login(ctx *ginext.Context)
	ActivateUser(ctx *ginext.Context)

	CreateWorkshop(ctx *ginext.Context)
	GetWorkshop(ctx *ginext.Context)
	UpdateWorkshop(ctx *ginext.Context)
	DeleteWorkshop(ctx *ginext.Context)
	ListWorkshops(ctx *ginext.Context)

	SubmitRegistration(ctx *ginext.Context)
	ApproveRegistration(ctx *ginext.Context)
	RejectRegistration(ctx *ginext.Context)
	VerifyPayment(ctx *ginext.Context)
	MyRegistrations(ctx *ginext.Context)
	PendingRegistrations(ctx *ginext.Context)

	UploadScreenshot(ctx *ginext.Context)
	DashboardStats(ctx *ginext.Context)
}

// Publisher is the slice of the rabbit client the service needs.
type Publisher interface {
	Publish(message []byte) error
}

type service struct {
	repo   repo.Repository
	log    *zerolog.Logger
	pub    Publisher
	tokens *auth.Manager
	files  *filestore.Store
}

func NewService(repo repo.Repository, logger *zerolog.Logger, pub Publisher, tokens *auth.Manager, files *filestore.Store) Service {
	return &service{
		repo:   repo,
		log:    logger,
		pub:    pub,
		tokens: tokens,
		files:  files,
	}
}

// publishNotice emits a registration status event for the mail worker.
// Publish failures are logged and swallowed: the workflow result is
// already committed.
func (s *service) publishNotice(reg *model.Registration) {
	if s.pub == nil {
		return
	}
	msg := dto.RegistrationNoticeMessage{
		RegistrationID: reg.ID,
		WorkshopID:     reg.WorkshopID,
		UserID:         reg.UserID,
		Status:         reg.Status,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal registration notice")
		return
	}
	if err := s.pub.Publish(payload); err != nil {
		s.log.Error().Err(err).Msg("failed to publish registration notice")
	}
}

func identity(ctx *ginext.Context) (userID int64, role string) {
	return ctx.GetInt64("user_id"), ctx.GetString("role")
}
