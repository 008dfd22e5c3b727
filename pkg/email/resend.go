package email

import (
	"fmt"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
)

// EmailService sends generation status notifications. It is best-effort: a
// missing API key disables it and send failures are logged, never propagated.
type EmailService struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

func NewEmailService(apiKey, from string, logger *zap.Logger) *EmailService {
	svc := &EmailService{
		from:   from,
		logger: logger,
	}
	if apiKey != "" {
		svc.client = resend.NewClient(apiKey)
	}
	return svc
}

func (s *EmailService) SendGenerationCompleted(to, generationType, fileName, fileURL string) {
	subject := "Your generation is ready"
	html := fmt.Sprintf(
		"<p>Your %s generation finished.</p><p><a href=%q>Download %s</a></p><p>The download link expires in 30 days.</p>",
		generationType, fileURL, fileName,
	)
	s.send(to, subject, html)
}

func (s *EmailService) SendGenerationFailed(to, generationType, errorMessage string) {
	subject := "Your generation failed"
	html := fmt.Sprintf(
		"<p>Unfortunately your %s generation failed.</p><p>Reason: %s</p>",
		generationType, errorMessage,
	)
	s.send(to, subject, html)
}

func (s *EmailService) send(to, subject, html string) {
	if s.client == nil || to == "" {
		return
	}

	_, err := s.client.Emails.Send(&resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		s.logger.Warn("notification email failed",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
	}
}
