package router

import (
	"github.com/gin-gonic/gin"

	"basegraph.app/tracecase/internal/http/handler"
)

func RunRouter(rg *gin.RouterGroup, h *handler.RunHandler) {
	rg.POST("/runs", h.Invoke)
	rg.POST("/runs/:run_id/resume", h.Resume)
	rg.GET("/run", h.State)
}
