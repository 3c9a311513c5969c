package services

import (
  "context"
  "fmt"

  "github.com/sendgrid/sendgrid-go"
  "github.com/sendgrid/sendgrid-go/helpers/mail"

  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/utils"
)

type EmailService interface {
  SendEmail(ctx context.Context, toEmail string, subject string, plainText string, htmlContent string, emailType string) error
}

type emailService struct {
  log                         *logger.Logger
  client                      *sendgrid.Client
  fromSupportEmail            string
  fromAuthorizationEmail      string
}

func NewEmailService(log *logger.Logger) (EmailService, error) {
  serviceLog := log.With("service", "EmailService")
  apiKey := utils.GetEnv("SENDGRID_API_KEY", "", log)
  if apiKey == "" {
    return nil, fmt.Errorf("missing SENDGRID_API_KEY environment variable")
  }
  fromSupport := utils.GetEnv("SENDGRID_SUPPORT_EMAIL", "support@serviceconnect.app", log)
  fromAuth := utils.GetEnv("SENDGRID_AUTHORIZATION_EMAIL", "no-reply@serviceconnect.app", log)
  client := sendgrid.NewSendClient(apiKey)

  return &emailService{
    log:                    serviceLog,
    client:                 client,
    fromSupportEmail:       fromSupport,
    fromAuthorizationEmail: fromAuth,
  }, nil
}

func (es *emailService) SendEmail(ctx context.Context, toEmail string, subject string, plainText string, htmlContent string, emailType string) error {
  fromName := "ServiceConnect"
  fromEmail := es.fromSupportEmail
  switch emailType {
  case "authorization":
    fromName = "ServiceConnect Login"
    fromEmail = es.fromAuthorizationEmail
  case "support":
    fromName = "ServiceConnect Support"
  }
  from := mail.NewEmail(fromName, fromEmail)
  to := mail.NewEmail("", toEmail)
  message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
  response, err := es.client.SendWithContext(ctx, message)
  if err != nil {
    es.log.Warn("Sendgrid email send failed", "error", err)
    return err
  }
  if response.StatusCode >= 300 {
    es.log.Warn("Sendgrid rejected email", "statusCode", response.StatusCode, "body", response.Body)
    return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
  }
  es.log.Info("Email sent", "to", toEmail, "statusCode", response.StatusCode)
  return nil
}
