package router

import (
	"github.com/gin-gonic/gin"

	"basegraph.app/tracecase/internal/http/handler"
)

func ExportRouter(rg *gin.RouterGroup, h *handler.ExportHandler) {
	rg.POST("/csv", h.CSV)
	rg.POST("/json", h.JSON)
	rg.POST("/gitlab", h.GitLab)
}
