package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/kodywagner/prepflow-backend/internal/logger"
  "github.com/kodywagner/prepflow-backend/internal/repos"
  "github.com/kodywagner/prepflow-backend/internal/types"
)

type UserService interface {
  GetMe(ctx context.Context) (*types.User, error)
}

type userService struct {
  db       *gorm.DB
  log      *logger.Logger
  userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo) UserService {
  return &userService{
    db:       db,
    log:      baseLog.With("service", "UserService"),
    userRepo: userRepo,
  }
}

func (s *userService) GetMe(ctx context.Context) (*types.User, error) {
  userID, err := requireUser(ctx)
  if err != nil {
    return nil, err
  }

  users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if err != nil {
    return nil, err
  }
  if len(users) == 0 || users[0].ID == uuid.Nil {
    return nil, fmt.Errorf("user not found")
  }
  return users[0], nil
}
