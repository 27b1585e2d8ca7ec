package router

import (
	"github.com/gin-gonic/gin"

	"basegraph.app/tracecase/internal/http/handler"
)

func EvalRouter(rg *gin.RouterGroup, h *handler.EvalHandler) {
	rg.GET("", h.List)
	rg.GET("/stats", h.Stats)
	rg.GET("/:id", h.Get)
}
