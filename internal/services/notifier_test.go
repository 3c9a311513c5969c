package services

import (
  "context"
  "errors"
  "strings"
  "testing"

  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

type stubEmail struct {
  to, subject, plain, html, kind string
  err                            error
}

func (s *stubEmail) SendEmail(ctx context.Context, toEmail, subject, plainText, htmlContent, emailType string) error {
  s.to, s.subject, s.plain, s.html, s.kind = toEmail, subject, plainText, htmlContent, emailType
  return s.err
}

type stubText struct {
  to, body  string
  err       error
}

func (s *stubText) SendText(ctx context.Context, toNumber, body string) error {
  s.to, s.body = toNumber, body
  return s.err
}

func TestNotifierSendsEmailAndText(t *testing.T) {
  email := &stubEmail{}
  text := &stubText{}
  n := NewNotifier(logger.NewNop(), email, text)
  account := &types.Account{Name: "Asha", Email: "asha@example.com", PhoneNumber: "+919800000000"}

  if err := n.SendLoginCode(context.Background(), account, "123456"); err != nil {
    t.Fatalf("send: %v", err)
  }
  if email.to != account.Email || email.subject != "Your OTP Code" || email.plain != "Your OTP code is 123456" || email.kind != "authorization" {
    t.Fatalf("unexpected email %+v", email)
  }
  if !strings.Contains(email.html, "123456") {
    t.Fatal("html body missing code")
  }
  if text.to != account.PhoneNumber || text.body != "Your OTP code is 123456" {
    t.Fatalf("unexpected text %+v", text)
  }
}

func TestNotifierJoinsFailures(t *testing.T) {
  emailErr := errors.New("sendgrid down")
  n := NewNotifier(logger.NewNop(), &stubEmail{err: emailErr}, nil)
  err := n.SendLoginCode(context.Background(), &types.Account{Email: "a@example.com"}, "000000")
  if !errors.Is(err, emailErr) {
    t.Fatalf("expected wrapped email error, got %v", err)
  }

  err = NewNotifier(logger.NewNop(), nil, nil).SendLoginCode(context.Background(), &types.Account{Email: "a@example.com"}, "000000")
  if err == nil {
    t.Fatal("missing email sender should be reported")
  }
}
