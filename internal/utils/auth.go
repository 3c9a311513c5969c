package utils

import (
  "crypto/rand"
  "fmt"
  "math/big"
  "strings"

  "github.com/google/uuid"
  "golang.org/x/crypto/bcrypt"
)

const (
  MinPasswordLength = 8
  OTPDigits         = 6
  ReferenceLength   = 10
)

func HashPassword(password string) (string, error) {
  hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
  if err != nil {
    return "", fmt.Errorf("failed to hash password: %w", err)
  }
  return string(hashed), nil
}

func CheckPassword(hash, password string) bool {
  return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func NormalizeEmail(email string) string {
  return strings.ToLower(strings.TrimSpace(email))
}

// GenerateNumericCode returns a crypto-random code of OTPDigits digits,
// zero padded.
func GenerateNumericCode() (string, error) {
  max := big.NewInt(1_000_000)
  n, err := rand.Int(rand.Reader, max)
  if err != nil {
    return "", fmt.Errorf("failed to generate random number: %w", err)
  }
  return fmt.Sprintf("%0*d", OTPDigits, n.Int64()), nil
}

// ShortReference is the first ReferenceLength characters of a random UUID.
// Collisions are not checked.
func ShortReference() string {
  return uuid.New().String()[:ReferenceLength]
}
