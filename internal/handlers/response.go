package handlers

import (
  "errors"
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/kodywagner/prepflow-backend/internal/services"
  "github.com/kodywagner/prepflow-backend/internal/ssedata"
)

type APIError struct {
  Message string `json:"message"`
  Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps service errors onto HTTP statuses: bad input
// is the caller's fault, missing rows are 404, everything else is a 500.
func RespondServiceError(c *gin.Context, err error) {
  switch {
  case errors.Is(err, services.ErrInvalidInput):
    RespondError(c, http.StatusBadRequest, "invalid_input", err)
  case errors.Is(err, services.ErrPlanNotFound), errors.Is(err, services.ErrScheduleNotFound):
    RespondError(c, http.StatusNotFound, "not_found", err)
  default:
    RespondError(c, http.StatusInternalServerError, "internal", err)
  }
}

// flushSSE broadcasts the messages queued during the request. Called
// only after the mutation succeeded.
func flushSSE(c *gin.Context, notifier services.Notifier) {
  if notifier == nil {
    return
  }
  ssd := ssedata.GetSSEData(c.Request.Context())
  if ssd == nil {
    return
  }
  for _, msg := range ssd.Messages {
    notifier.Publish(c.Request.Context(), msg)
  }
  ssd.Messages = ssd.Messages[:0]
}
