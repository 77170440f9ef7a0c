package email

import (
	"crypto/tls"
	"fmt"
	"html"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/Nnadozi/kram-backend/internal/app/models"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendFeedbackEmail(feedback *models.Feedback, referenceID string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	FromName   string
	FromEmail  string
	FeedbackTo string
	UseTLS     bool
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

// SendFeedbackEmail forwards a user's feedback submission to the feedback inbox
func (s *EmailServiceImpl) SendFeedbackEmail(feedback *models.Feedback, referenceID string) error {
	// If username or password is empty, log the feedback instead (for development only)
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("referenceID", referenceID).
			Str("category", string(feedback.Category)).
			Str("userEmail", feedback.UserEmail).
			Str("message", feedback.Message).
			Msg("SMTP credentials not configured - feedback email not sent. Logged above for testing.")
		return nil
	}

	subject := fmt.Sprintf("Kram Feedback [%s] - %s", feedback.Category, referenceID)

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">New Feedback Submission</h2>
				<p><strong>Reference:</strong> %s</p>
				<p><strong>Category:</strong> %s</p>
				<p><strong>From:</strong> %s (user %s)</p>
				<hr>
				<p>%s</p>
			</div>
		</body>
		</html>
	`, referenceID, feedback.Category, html.EscapeString(feedback.UserEmail),
		feedback.UserID, html.EscapeString(feedback.Message))

	return s.sendHTMLEmail(s.config.FeedbackTo, subject, body)
}

// sendHTMLEmail sends an HTML email
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth(
		"",
		s.config.Username,
		s.config.Password,
		s.config.Host,
	)

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = toEmail
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: s.config.Host,
		}

		conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
		if err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.Host)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to create SMTP client")
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
		defer client.Quit()

		if err = client.Auth(auth); err != nil {
			s.logger.Error().Err(err).Msg("SMTP authentication failed")
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}

		if err = client.Mail(s.config.FromEmail); err != nil {
			return fmt.Errorf("failed to set sender: %w", err)
		}
		if err = client.Rcpt(toEmail); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("failed to get data writer: %w", err)
		}
		if _, err = w.Write([]byte(message)); err != nil {
			return fmt.Errorf("failed to write email message: %w", err)
		}
		if err = w.Close(); err != nil {
			return fmt.Errorf("failed to close data writer: %w", err)
		}

		return nil
	}

	err := smtp.SendMail(
		serverAddress,
		auth,
		s.config.FromEmail,
		[]string{toEmail},
		[]byte(message),
	)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
