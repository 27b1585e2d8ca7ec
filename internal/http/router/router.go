package router

import (
	"github.com/gin-gonic/gin"

	"basegraph.app/tracecase/internal/http/handler"
	"basegraph.app/tracecase/internal/service"
)

func SetupRoutes(router *gin.Engine, services *service.Services) {
	healthHandler := handler.NewHealthHandler(services.Health())
	router.GET("/health", healthHandler.Check)

	v1 := router.Group("/api/v1")
	{
		runHandler := handler.NewRunHandler(services.TestCases())
		RunRouter(v1.Group("/sessions/:session_id"), runHandler)

		exportHandler := handler.NewExportHandler(services.Exports())
		ExportRouter(v1.Group("/exports"), exportHandler)

		assistHandler := handler.NewAssistHandler(services.Assist())
		AssistRouter(v1.Group("/assist"), assistHandler)

		evalHandler := handler.NewEvalHandler(services.Evals())
		EvalRouter(v1.Group("/evals"), evalHandler)
	}
}
