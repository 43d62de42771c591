package handlers

import (
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"

  "github.com/kodywagner/prepflow-backend/internal/services"
)

type ScheduleHandler struct {
  scheduleService services.ScheduleService
}

func NewScheduleHandler(scheduleService services.ScheduleService) *ScheduleHandler {
  return &ScheduleHandler{scheduleService: scheduleService}
}

func indexParam(c *gin.Context, name string) (int, bool) {
  v, err := strconv.Atoi(c.Param(name))
  if err != nil || v < 1 {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
    return 0, false
  }
  return v, true
}

func (sh *ScheduleHandler) GenerateDay(c *gin.Context) {
  planID, err := planIDParam(c)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  dayIndex, ok := indexParam(c, "dayIndex")
  if !ok {
    return
  }
  schedule, err := sh.scheduleService.GenerateDay(c.Request.Context(), planID, dayIndex)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"day_schedule": schedule})
}

func (sh *ScheduleHandler) GenerateWeek(c *gin.Context) {
  planID, err := planIDParam(c)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  weekIndex, ok := indexParam(c, "weekIndex")
  if !ok {
    return
  }
  schedule, err := sh.scheduleService.GenerateWeek(c.Request.Context(), planID, weekIndex)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"week_schedule": schedule})
}

func (sh *ScheduleHandler) GetDay(c *gin.Context) {
  planID, err := planIDParam(c)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  dayIndex, ok := indexParam(c, "dayIndex")
  if !ok {
    return
  }
  schedule, err := sh.scheduleService.GetDay(c.Request.Context(), planID, dayIndex)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"day_schedule": schedule})
}

func (sh *ScheduleHandler) GetWeek(c *gin.Context) {
  planID, err := planIDParam(c)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  weekIndex, ok := indexParam(c, "weekIndex")
  if !ok {
    return
  }
  schedule, err := sh.scheduleService.GetWeek(c.Request.Context(), planID, weekIndex)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"week_schedule": schedule})
}

func (sh *ScheduleHandler) ListDays(c *gin.Context) {
  planID, err := planIDParam(c)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  schedules, err := sh.scheduleService.ListDays(c.Request.Context(), planID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"day_schedules": schedules})
}

func (sh *ScheduleHandler) ListWeeks(c *gin.Context) {
  planID, err := planIDParam(c)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  schedules, err := sh.scheduleService.ListWeeks(c.Request.Context(), planID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"week_schedules": schedules})
}
