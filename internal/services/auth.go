package services

import (
  "context"
  "fmt"
  "time"

  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/kodywagner/prepflow-backend/internal/logger"
  "github.com/kodywagner/prepflow-backend/internal/repos"
  "github.com/kodywagner/prepflow-backend/internal/requestdata"
  "github.com/kodywagner/prepflow-backend/internal/types"
  "github.com/kodywagner/prepflow-backend/internal/utils"
)

type JWTClaims struct {
  UserID string `json:"user_id"`
  jwt.RegisteredClaims
}

type AuthTokens struct {
  AccessToken  string `json:"access_token"`
  RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
  RegisterUser(ctx context.Context, email, password, firstName, lastName string) (*types.User, *AuthTokens, error)
  LoginUser(ctx context.Context, email, password string) (*types.User, *AuthTokens, error)
  RefreshUser(ctx context.Context) (*AuthTokens, error)
  LogoutUser(ctx context.Context) error
  SetContextFromToken(ctx context.Context) (context.Context, error)
  GetAccessTTL() time.Duration
}

type authService struct {
  db            *gorm.DB
  log           *logger.Logger
  userRepo      repos.UserRepo
  userTokenRepo repos.UserTokenRepo

  secret     []byte
  accessTTL  time.Duration
  refreshTTL time.Duration
}

func NewAuthService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo, userTokenRepo repos.UserTokenRepo) (AuthService, error) {
  log := baseLog.With("service", "AuthService")

  secret := utils.GetEnv("JWT_SECRET_KEY", "", log)
  if secret == "" {
    return nil, fmt.Errorf("missing JWT_SECRET_KEY")
  }

  accessMinutes := utils.GetEnvAsInt("ACCESS_TOKEN_TTL_MINUTES", 30, log)
  refreshHours := utils.GetEnvAsInt("REFRESH_TOKEN_TTL_HOURS", 24*7, log)

  return &authService{
    db:            db,
    log:           log,
    userRepo:      userRepo,
    userTokenRepo: userTokenRepo,
    secret:        []byte(secret),
    accessTTL:     time.Duration(accessMinutes) * time.Minute,
    refreshTTL:    time.Duration(refreshHours) * time.Hour,
  }, nil
}

func (s *authService) GetAccessTTL() time.Duration { return s.accessTTL }

func (s *authService) signToken(userID uuid.UUID, ttl time.Duration) (string, error) {
  now := time.Now()
  claims := JWTClaims{
    UserID: userID.String(),
    RegisteredClaims: jwt.RegisteredClaims{
      Subject:   userID.String(),
      IssuedAt:  jwt.NewNumericDate(now),
      ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
      ID:        uuid.NewString(),
    },
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  return token.SignedString(s.secret)
}

func (s *authService) parseToken(tokenString string) (*JWTClaims, error) {
  claims := &JWTClaims{}
  token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
    }
    return s.secret, nil
  })
  if err != nil {
    return nil, err
  }
  if !token.Valid {
    return nil, fmt.Errorf("invalid token")
  }
  return claims, nil
}

func (s *authService) issueTokens(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*AuthTokens, error) {
  access, err := s.signToken(userID, s.accessTTL)
  if err != nil {
    return nil, err
  }
  refresh, err := s.signToken(userID, s.refreshTTL)
  if err != nil {
    return nil, err
  }

  now := time.Now()
  row := &types.UserToken{
    ID:           uuid.New(),
    UserID:       userID,
    AccessToken:  access,
    RefreshToken: refresh,
    ExpiresAt:    now.Add(s.refreshTTL),
    CreatedAt:    now,
    UpdatedAt:    now,
  }
  if _, err := s.userTokenRepo.Create(ctx, tx, []*types.UserToken{row}); err != nil {
    return nil, err
  }
  return &AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) RegisterUser(ctx context.Context, email, password, firstName, lastName string) (*types.User, *AuthTokens, error) {
  email = utils.NormalizeEmail(email)
  if err := utils.ValidateRegistration(email, password, firstName, lastName); err != nil {
    return nil, nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
  }

  exists, err := s.userRepo.EmailExists(ctx, nil, email)
  if err != nil {
    return nil, nil, err
  }
  if exists {
    return nil, nil, fmt.Errorf("%w: email already registered", ErrInvalidInput)
  }

  hashed, err := utils.HashPassword(password)
  if err != nil {
    return nil, nil, err
  }

  now := time.Now()
  user := &types.User{
    ID:        uuid.New(),
    Email:     email,
    Password:  hashed,
    FirstName: firstName,
    LastName:  lastName,
    CreatedAt: now,
    UpdatedAt: now,
  }

  var tokens *AuthTokens
  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, err := s.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
      return err
    }
    var tErr error
    tokens, tErr = s.issueTokens(ctx, tx, user.ID)
    return tErr
  })
  if err != nil {
    return nil, nil, err
  }
  return user, tokens, nil
}

func (s *authService) LoginUser(ctx context.Context, email, password string) (*types.User, *AuthTokens, error) {
  email = utils.NormalizeEmail(email)

  users, err := s.userRepo.GetByEmails(ctx, nil, []string{email})
  if err != nil {
    return nil, nil, err
  }
  if len(users) == 0 {
    return nil, nil, fmt.Errorf("invalid credentials")
  }
  user := users[0]

  if err := utils.CheckPassword(user.Password, password); err != nil {
    return nil, nil, fmt.Errorf("invalid credentials")
  }

  tokens, err := s.issueTokens(ctx, nil, user.ID)
  if err != nil {
    return nil, nil, err
  }
  return user, tokens, nil
}

// RefreshUser rotates the token pair named by the refresh token in the
// request context: the old row is removed and a new pair issued in the
// same transaction.
func (s *authService) RefreshUser(ctx context.Context) (*AuthTokens, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.RefreshToken == "" {
    return nil, fmt.Errorf("missing refresh token")
  }

  claims, err := s.parseToken(rd.RefreshToken)
  if err != nil {
    return nil, fmt.Errorf("invalid refresh token: %w", err)
  }
  userID, err := uuid.Parse(claims.UserID)
  if err != nil {
    return nil, fmt.Errorf("invalid refresh token subject")
  }

  rows, err := s.userTokenRepo.GetByRefreshTokens(ctx, nil, []string{rd.RefreshToken})
  if err != nil {
    return nil, err
  }
  if len(rows) == 0 || rows[0].UserID != userID {
    return nil, fmt.Errorf("refresh token not recognized")
  }

  var tokens *AuthTokens
  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if err := s.userTokenRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{rows[0].ID}); err != nil {
      return err
    }
    var tErr error
    tokens, tErr = s.issueTokens(ctx, tx, userID)
    return tErr
  })
  if err != nil {
    return nil, err
  }
  return tokens, nil
}

func (s *authService) LogoutUser(ctx context.Context) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.TokenString == "" {
    return fmt.Errorf("missing access token")
  }

  rows, err := s.userTokenRepo.GetByAccessTokens(ctx, nil, []string{rd.TokenString})
  if err != nil {
    return err
  }
  if len(rows) == 0 {
    return nil
  }
  return s.userTokenRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{rows[0].ID})
}

// SetContextFromToken validates the access token already stored in the
// request data and fills in the authenticated user ID.
func (s *authService) SetContextFromToken(ctx context.Context) (context.Context, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.TokenString == "" {
    return ctx, fmt.Errorf("missing access token")
  }

  claims, err := s.parseToken(rd.TokenString)
  if err != nil {
    return ctx, fmt.Errorf("invalid access token: %w", err)
  }
  userID, err := uuid.Parse(claims.UserID)
  if err != nil {
    return ctx, fmt.Errorf("invalid access token subject")
  }

  rows, err := s.userTokenRepo.GetByAccessTokens(ctx, nil, []string{rd.TokenString})
  if err != nil {
    return ctx, err
  }
  if len(rows) == 0 || rows[0].UserID != userID {
    return ctx, fmt.Errorf("access token not recognized")
  }

  rd.UserID = userID
  return requestdata.WithRequestData(ctx, rd), nil
}
