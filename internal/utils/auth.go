package utils

import (
  "fmt"
  "net/mail"
  "strings"

  "golang.org/x/crypto/bcrypt"
)

func NormalizeEmail(email string) string {
  return strings.ToLower(strings.TrimSpace(email))
}

func ValidateRegistration(email, password, firstName, lastName string) error {
  if _, err := mail.ParseAddress(email); err != nil {
    return fmt.Errorf("invalid email address")
  }
  if len(password) < 8 {
    return fmt.Errorf("password must be at least 8 characters")
  }
  if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
    return fmt.Errorf("first and last name are required")
  }
  return nil
}

func HashPassword(password string) (string, error) {
  hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
  if err != nil {
    return "", fmt.Errorf("hash password: %w", err)
  }
  return string(hashed), nil
}

func CheckPassword(hashed, password string) error {
  return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
}
