package handlers

import (
	"ai_diary/internal/logger"
	"ai_diary/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "ai_diary/docs"
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// Live workflow snapshot push (HTTP upgrade) on the same port.
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userMiddleware)
	{
		h.registerSessionRoutes(api)
		h.registerDiaryRoutes(api)
	}
}

func (h *Handler) registerSessionRoutes(api *gin.RouterGroup) {
	sessions := api.Group("/sessions")
	{
		sessions.POST("", h.createSession)
		sessions.GET("/:id", h.getSession)
		sessions.POST("/:id/summary", h.setSummary)
		sessions.POST("/:id/questions", h.generateQuestions)
		sessions.PUT("/:id/answers", h.setAnswer)
		sessions.POST("/:id/deeper", h.goDeeper)
		sessions.POST("/:id/diary", h.composeDiary)
		sessions.POST("/:id/diary/direct", h.composeDirect)
		sessions.PUT("/:id/diary", h.editDiary)
		sessions.GET("/:id/export", h.exportDiary)
		sessions.POST("/:id/reset", h.resetSession)
		sessions.DELETE("/:id", h.discardSession)
	}
}

func (h *Handler) registerDiaryRoutes(api *gin.RouterGroup) {
	diaries := api.Group("/diaries")
	{
		diaries.GET("", h.listDiaries)
	}
}
