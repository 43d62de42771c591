package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/kodywagner/prepflow-backend/internal/requestdata"
  "github.com/kodywagner/prepflow-backend/internal/services"
  "github.com/kodywagner/prepflow-backend/internal/sse"
)

type SSEHandler struct {
  hub *sse.SSEHub
}

func NewSSEHandler(hub *sse.SSEHub) *SSEHandler {
  return &SSEHandler{hub: hub}
}

// SSEStream opens the event stream for the authenticated user. The
// client is auto-subscribed to its own user channel; extra channels can
// be requested with repeated ?channel= params.
func (sh *SSEHandler) SSEStream(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user"})
    return
  }

  client := sh.hub.NewSSEClient(rd.UserID)
  sh.hub.AddChannel(client, services.UserChannel(rd.UserID))
  for _, ch := range c.QueryArray("channel") {
    sh.hub.AddChannel(client, ch)
  }
  defer sh.hub.CloseClient(client)

  sh.hub.ServeHTTP(c.Writer, c.Request, client)
}
