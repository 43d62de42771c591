package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"

  "github.com/kodywagner/prepflow-backend/internal/clients/redis"
  "github.com/kodywagner/prepflow-backend/internal/logger"
  "github.com/kodywagner/prepflow-backend/internal/sse"
)

// Notifier delivers SSE messages to a user's channel. The hub notifier
// serves the single-process case; the bus notifier publishes through
// redis so every replica's hub sees the message.
type Notifier interface {
  Notify(ctx context.Context, userID uuid.UUID, event sse.SSEEvent, data any)
  Publish(ctx context.Context, msg sse.SSEMessage)
}

func UserChannel(userID uuid.UUID) string {
  return fmt.Sprintf("user:%s", userID.String())
}

type hubNotifier struct {
  log *logger.Logger
  hub *sse.SSEHub
}

func NewHubNotifier(baseLog *logger.Logger, hub *sse.SSEHub) Notifier {
  return &hubNotifier{log: baseLog.With("service", "HubNotifier"), hub: hub}
}

func (n *hubNotifier) Notify(ctx context.Context, userID uuid.UUID, event sse.SSEEvent, data any) {
  n.Publish(ctx, sse.SSEMessage{
    Channel: UserChannel(userID),
    Event:   event,
    Data:    data,
  })
}

func (n *hubNotifier) Publish(_ context.Context, msg sse.SSEMessage) {
  n.hub.Broadcast(msg)
}

type busNotifier struct {
  log *logger.Logger
  bus redis.SSEBus
}

func NewBusNotifier(baseLog *logger.Logger, bus redis.SSEBus) Notifier {
  return &busNotifier{log: baseLog.With("service", "BusNotifier"), bus: bus}
}

func (n *busNotifier) Notify(ctx context.Context, userID uuid.UUID, event sse.SSEEvent, data any) {
  n.Publish(ctx, sse.SSEMessage{
    Channel: UserChannel(userID),
    Event:   event,
    Data:    data,
  })
}

func (n *busNotifier) Publish(ctx context.Context, msg sse.SSEMessage) {
  if err := n.bus.Publish(ctx, msg); err != nil {
    n.log.Warn("Failed to publish SSE message", "error", err, "event", msg.Event)
  }
}
