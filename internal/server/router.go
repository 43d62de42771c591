package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/kodywagner/prepflow-backend/internal/handlers"
  "github.com/kodywagner/prepflow-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler      *handlers.AuthHandler
  AuthMiddleware   *middleware.AuthMiddleware
  UserHandler      *handlers.UserHandler
  StudyPlanHandler *handlers.StudyPlanHandler
  ScheduleHandler  *handlers.ScheduleHandler
  SSEHandler       *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  // ===============
  // || Public    ||
  // ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  api := router.Group("/api")
  {
    api.POST("/register", cfg.AuthHandler.Register)
    api.POST("/login", cfg.AuthHandler.Login)
    api.POST("/refresh", cfg.AuthHandler.Refresh)
  }

  // ===============
  // || Protected ||
  // ===============
  protected := router.Group("/api")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // Auth
  protected.POST("/logout", cfg.AuthHandler.Logout)
  // SSE
  protected.GET("/sse/stream", cfg.SSEHandler.SSEStream)
  // User
  protected.GET("/user", cfg.UserHandler.GetMe)
  // Study plans
  protected.POST("/study-plans", cfg.StudyPlanHandler.Create)
  protected.GET("/study-plans", cfg.StudyPlanHandler.List)
  protected.GET("/study-plans/:planID", cfg.StudyPlanHandler.Get)
  protected.PATCH("/study-plans/:planID", cfg.StudyPlanHandler.Update)
  protected.DELETE("/study-plans/:planID", cfg.StudyPlanHandler.Delete)
  // Schedules
  protected.POST("/study-plans/:planID/days/:dayIndex", cfg.ScheduleHandler.GenerateDay)
  protected.GET("/study-plans/:planID/days/:dayIndex", cfg.ScheduleHandler.GetDay)
  protected.GET("/study-plans/:planID/days", cfg.ScheduleHandler.ListDays)
  protected.POST("/study-plans/:planID/weeks/:weekIndex", cfg.ScheduleHandler.GenerateWeek)
  protected.GET("/study-plans/:planID/weeks/:weekIndex", cfg.ScheduleHandler.GetWeek)
  protected.GET("/study-plans/:planID/weeks", cfg.ScheduleHandler.ListWeeks)

  return router
}
