package router

import (
	"github.com/gin-gonic/gin"

	"basegraph.app/tracecase/internal/http/handler"
)

func AssistRouter(rg *gin.RouterGroup, h *handler.AssistHandler) {
	rg.POST("/assertions", h.Assertions)
	rg.POST("/snippet", h.Snippet)
}
