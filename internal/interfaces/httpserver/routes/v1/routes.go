package v1

import (
	"github.com/gin-gonic/gin"

	"vms-server/services/report-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches all v1 routes under /v1 prefix.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")

	group.POST("/reports/generate", r.handlers.Report.Generate)
	group.GET("/reports", r.handlers.Report.List)
	group.GET("/reports/download/:filename", r.handlers.Report.Download)
	group.GET("/reports/:report_id", r.handlers.Report.Get)
	group.DELETE("/reports/:report_id", r.handlers.Report.Delete)

	group.POST("/desk-assignments", r.handlers.Desk.Create)
	group.GET("/desk-assignments", r.handlers.Desk.List)
	group.GET("/desk-assignments/:assignment_id", r.handlers.Desk.Get)
	group.PATCH("/desk-assignments/:assignment_id", r.handlers.Desk.Update)
	group.DELETE("/desk-assignments/:assignment_id", r.handlers.Desk.Delete)
}
