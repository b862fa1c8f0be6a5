package email

// internal/infrastructure/email/smtp_service.go
import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"lecture-backend/internal/config"
	"lecture-backend/pkg/logger"
)

type EmailService interface {
	SendEmail(ctx context.Context, req EmailRequest) error
	SendLectureCreatedEmail(ctx context.Context, data LectureCreatedData) error
}

// sendFunc matches smtp.SendMail
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
	notifyTo string
	send     sendFunc
}

func NewSMTPEmailService(cfg config.EmailConfig) EmailService {
	return &smtpEmailService{
		smtpAddr: cfg.SMTPHost + ":" + cfg.SMTPPort,
		smtpFrom: cfg.From,
		notifyTo: cfg.To,
		send:     smtp.SendMail,
	}
}

func (s *smtpEmailService) SendEmail(ctx context.Context, req EmailRequest) error {
	if len(req.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, strings.Join(req.To, ", "), req.Subject, req.Body))

	// Gửi email qua SMTP
	if err := s.send(s.smtpAddr, nil, s.smtpFrom, req.To, msg); err != nil {
		logger.Info("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        req.To,
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *smtpEmailService) SendLectureCreatedEmail(ctx context.Context, data LectureCreatedData) error {
	subject := fmt.Sprintf("New lecture %s", data.ID)
	body := fmt.Sprintf(`Hello,

A new lecture was created:

  Name:       %s
  Instructor: %s
  Room:       %s %s
  Owner:      %s
`, data.Name, data.Instructor, data.Building, data.RoomNumber, data.Owner)

	return s.SendEmail(ctx, EmailRequest{
		To:      []string{s.notifyTo},
		Subject: subject,
		Body:    body,
	})
}
