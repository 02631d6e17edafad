package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wb-go/wbf/ginext"

	"workshophub/cmd/middleware"
	"workshophub/internal/auth"
	"workshophub/internal/model"
	"workshophub/internal/service"
)

type Routers struct {
	Service service.Service
	Tokens  *auth.Manager
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())

	app.GET("/health", func(c *ginext.Context) {
		c.String(200, "OK")
	})
	app.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := app.Group("/v1")

	apiGroup.POST("/auth/register", r.Service.RegisterUser)
	apiGroup.POST("/auth/enterprise", r.Service.RegisterEnterprise)
	apiGroup.POST("/auth/login", r.Service.Login)

	apiGroup.GET("/workshops", middleware.OptionalAuth(r.Tokens), r.Service.ListWorkshops)
	apiGroup.GET("/workshops/:id", middleware.OptionalAuth(r.Tokens), r.Service.GetWorkshop)

	authed := apiGroup.Group("", middleware.Auth(r.Tokens))

	authed.POST("/workshops/:id/register", r.Service.SubmitRegistration)
	authed.GET("/registrations/mine", r.Service.MyRegistrations)
	authed.POST("/uploads/screenshot", r.Service.UploadScreenshot)

	organizers := authed.Group("", middleware.RequireRole(model.RoleAdmin, model.RoleEnterprise))
	organizers.POST("/workshops", r.Service.CreateWorkshop)
	organizers.PUT("/workshops/:id", r.Service.UpdateWorkshop)
	organizers.DELETE("/workshops/:id", r.Service.DeleteWorkshop)

	admin := authed.Group("", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/registrations/pending", r.Service.PendingRegistrations)
	admin.POST("/registrations/:id/approve", r.Service.ApproveRegistration)
	admin.POST("/registrations/:id/reject", r.Service.RejectRegistration)
	admin.POST("/registrations/:id/verify-payment", r.Service.VerifyPayment)
	admin.GET("/dashboard/stats", r.Service.DashboardStats)
	admin.POST("/users/:id/activate", r.Service.ActivateUser)

	return app
}
