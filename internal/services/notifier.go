package services

import (
  "context"
  "errors"
  "fmt"

  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/templates"
  "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

// Notifier delivers login codes to an account holder.
type Notifier interface {
  SendLoginCode(ctx context.Context, account *types.Account, code string) error
}

type notifier struct {
  log         *logger.Logger
  email       EmailService
  text        TextService
}

// NewNotifier sends by email and, when a TextService is given and the account
// has a phone number, by SMS as well. Either sender may be nil.
func NewNotifier(log *logger.Logger, email EmailService, text TextService) Notifier {
  return &notifier{log: log.With("service", "Notifier"), email: email, text: text}
}

func (n *notifier) SendLoginCode(ctx context.Context, account *types.Account, code string) error {
  subject := "Your OTP Code"
  plain := fmt.Sprintf("Your OTP code is %s", code)
  html, err := templates.RenderLoginCodeHTML(templates.LoginCodeEmailData{
    RecipientName:  account.Name,
    Code:           code,
    Validity:       OTPValidity,
  })
  if err != nil {
    n.log.Warn("Failed to render login code email, sending plain text only", "error", err)
    html = ""
  }

  var errs []error
  if n.email == nil {
    n.log.Warn("No EmailService configured, login code not emailed", "accountID", account.ID)
    errs = append(errs, errors.New("email delivery not configured"))
  } else if err := n.email.SendEmail(ctx, account.Email, subject, plain, html, "authorization"); err != nil {
    errs = append(errs, fmt.Errorf("email: %w", err))
  }

  if n.text != nil && account.PhoneNumber != "" {
    if err := n.text.SendText(ctx, account.PhoneNumber, plain); err != nil {
      errs = append(errs, fmt.Errorf("sms: %w", err))
    }
  }
  return errors.Join(errs...)
}
