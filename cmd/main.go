package main

import (
  "context"
  "fmt"
  "os"

  "github.com/kodywagner/prepflow-backend/internal/clients/redis"
  "github.com/kodywagner/prepflow-backend/internal/db"
  "github.com/kodywagner/prepflow-backend/internal/handlers"
  "github.com/kodywagner/prepflow-backend/internal/logger"
  "github.com/kodywagner/prepflow-backend/internal/middleware"
  "github.com/kodywagner/prepflow-backend/internal/repos"
  "github.com/kodywagner/prepflow-backend/internal/server"
  "github.com/kodywagner/prepflow-backend/internal/services"
  "github.com/kodywagner/prepflow-backend/internal/sse"
  "github.com/kodywagner/prepflow-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Database
  dbService, err := db.NewService(log)
  if err != nil {
    log.Error("Database init failed", "error", err)
    os.Exit(1)
  }
  if err = dbService.AutoMigrateAll(); err != nil {
    log.Error("Database auto migration failed", "error", err)
    os.Exit(1)
  }
  gdb := dbService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(gdb, log)
  userTokenRepo := repos.NewUserTokenRepo(gdb, log)
  studyPlanRepo := repos.NewStudyPlanRepo(gdb, log)
  dayScheduleRepo := repos.NewDayScheduleRepo(gdb, log)
  weekScheduleRepo := repos.NewWeekScheduleRepo(gdb, log)
  aiCallLogRepo := repos.NewAICallLogRepo(gdb, log)

  // SSE
  log.Info("Setting up SSE hub now...")
  sseHub := sse.NewSSEHub(log)

  // Fan out through redis when configured so every replica's hub sees
  // broadcasts; otherwise stay in-process.
  var notifier services.Notifier
  sseBus, err := redis.NewSSEBus(log)
  if err != nil {
    log.Warn("Redis SSE bus unavailable, running in-process only", "error", err)
    notifier = services.NewHubNotifier(log, sseHub)
  } else {
    if err := sseBus.StartForwarder(context.Background(), sseHub.Broadcast); err != nil {
      log.Error("Could not start redis SSE forwarder", "error", err)
      os.Exit(1)
    }
    defer sseBus.Close()
    notifier = services.NewBusNotifier(log, sseBus)
  }

  // Services
  log.Info("Setting up Services from main...")
  textGenClient, err := services.NewTextGenClient(log)
  if err != nil {
    log.Warn("TextGen client unavailable, schedules will use fallback content", "error", err)
    textGenClient = nil
  }
  contentService := services.NewContentService(gdb, log, textGenClient, aiCallLogRepo)
  dayComposer := services.NewDayComposer(log, contentService)
  weekComposer := services.NewWeekComposer(log, contentService)

  authService, err := services.NewAuthService(gdb, log, userRepo, userTokenRepo)
  if err != nil {
    log.Error("Could not init AuthService", "error", err)
    os.Exit(1)
  }
  userService := services.NewUserService(gdb, log, userRepo)
  studyPlanService := services.NewStudyPlanService(gdb, log, studyPlanRepo, dayScheduleRepo, weekScheduleRepo)
  scheduleService := services.NewScheduleService(gdb, log, studyPlanRepo, dayScheduleRepo, weekScheduleRepo, dayComposer, weekComposer, notifier)

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(authService)
  userHandler := handlers.NewUserHandler(userService)
  studyPlanHandler := handlers.NewStudyPlanHandler(studyPlanService, notifier)
  scheduleHandler := handlers.NewScheduleHandler(scheduleService)
  sseHandler := handlers.NewSSEHandler(sseHub)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:      authHandler,
    AuthMiddleware:   authMiddleware,
    UserHandler:      userHandler,
    StudyPlanHandler: studyPlanHandler,
    ScheduleHandler:  scheduleHandler,
    SSEHandler:       sseHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  log.Info("Server listening", "port", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server exited", "error", err)
    os.Exit(1)
  }
}
