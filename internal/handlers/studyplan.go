package handlers

import (
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/kodywagner/prepflow-backend/internal/services"
)

type StudyPlanHandler struct {
  planService services.StudyPlanService
  notifier    services.Notifier
}

func NewStudyPlanHandler(planService services.StudyPlanService, notifier services.Notifier) *StudyPlanHandler {
  return &StudyPlanHandler{planService: planService, notifier: notifier}
}

func planIDParam(c *gin.Context) (uuid.UUID, error) {
  id, err := uuid.Parse(c.Param("planID"))
  if err != nil {
    return uuid.Nil, fmt.Errorf("invalid plan id")
  }
  return id, nil
}

func (ph *StudyPlanHandler) Create(c *gin.Context) {
  var req services.CreateStudyPlanInput
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  plan, err := ph.planService.CreatePlan(c.Request.Context(), &req)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  flushSSE(c, ph.notifier)
  c.JSON(http.StatusCreated, gin.H{"study_plan": plan})
}

func (ph *StudyPlanHandler) Get(c *gin.Context) {
  planID, err := planIDParam(c)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  plan, err := ph.planService.GetPlan(c.Request.Context(), planID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"study_plan": plan})
}

func (ph *StudyPlanHandler) List(c *gin.Context) {
  plans, err := ph.planService.ListPlans(c.Request.Context())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"study_plans": plans})
}

func (ph *StudyPlanHandler) Update(c *gin.Context) {
  planID, err := planIDParam(c)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  var req services.UpdateStudyPlanInput
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  plan, err := ph.planService.UpdatePlan(c.Request.Context(), planID, &req)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"study_plan": plan})
}

func (ph *StudyPlanHandler) Delete(c *gin.Context) {
  planID, err := planIDParam(c)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  if err := ph.planService.DeletePlan(c.Request.Context(), planID); err != nil {
    RespondServiceError(c, err)
    return
  }
  flushSSE(c, ph.notifier)
  RespondOK(c, gin.H{"message": "study plan deleted"})
}
