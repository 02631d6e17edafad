package service

import (
	"github.com/wb-go/wbf/ginext"

	"workshophub/internal/dto"
)

func (s *service) DashboardStats(ctx *ginext.Context) {
	stats, err := s.repo.DashboardStats(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to compute dashboard stats")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, stats)
}
