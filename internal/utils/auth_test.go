package utils

import (
  "testing"
)

func TestHashAndCheckPassword(t *testing.T) {
  hash, err := HashPassword("longpassword1")
  if err != nil {
    t.Fatalf("hash: %v", err)
  }
  if hash == "longpassword1" {
    t.Fatalf("expected password to be hashed")
  }
  if !CheckPassword(hash, "longpassword1") {
    t.Fatalf("expected matching password to check out")
  }
  if CheckPassword(hash, "longpassword2") {
    t.Fatalf("expected wrong password to be rejected")
  }
}

func TestGenerateNumericCode(t *testing.T) {
  for i := 0; i < 50; i++ {
    code, err := GenerateNumericCode()
    if err != nil {
      t.Fatalf("generate: %v", err)
    }
    if len(code) != OTPDigits {
      t.Fatalf("expected %d digits, got %q", OTPDigits, code)
    }
    for _, r := range code {
      if r < '0' || r > '9' {
        t.Fatalf("expected only digits, got %q", code)
      }
    }
  }
}

func TestShortReference(t *testing.T) {
  a, b := ShortReference(), ShortReference()
  if len(a) != ReferenceLength || len(b) != ReferenceLength {
    t.Fatalf("expected %d chars, got %q and %q", ReferenceLength, a, b)
  }
  if a == b {
    t.Fatalf("expected distinct references, both were %q", a)
  }
}

func TestNormalizeEmail(t *testing.T) {
  if got := NormalizeEmail("  A@X.com "); got != "a@x.com" {
    t.Fatalf("expected a@x.com, got %q", got)
  }
}
