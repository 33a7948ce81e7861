package mail

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender sends the newsletter welcome email through SendGrid.
type SendGridSender struct {
	client      *sendgrid.Client
	fromEmail   string
	frontendURL string
	logger      *log.Logger
}

func NewSendGridSender(apiKey, fromEmail, frontendURL string, logger *log.Logger) *SendGridSender {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &SendGridSender{
		client:      sendgrid.NewSendClient(apiKey),
		fromEmail:   fromEmail,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

func (s *SendGridSender) SendWelcome(ctx context.Context, email, firstName string) error {
	greeting := firstName
	if greeting == "" {
		greeting = "there"
	}

	from := sgmail.NewEmail("Earth Care Food Company", s.fromEmail)
	to := sgmail.NewEmail(firstName, email)
	subject := "Welcome to Earth Care Food Company! 🌱"
	plain := fmt.Sprintf(
		"Hi %s,\n\nThank you for subscribing to our newsletter! "+
			"Subscribe at checkout to automatically receive 10%% off your first order.\n\n"+
			"Start shopping: %s\n", greeting, s.frontendURL)
	html := fmt.Sprintf(`
<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
      <h1 style="color: #4a5d23;">Welcome to Earth Care Food Company!</h1>
      <p>Hi %s,</p>
      <p>Thank you for subscribing to our newsletter! We're thrilled to have you join our community of health-conscious food lovers who care about the planet.</p>
      <h2 style="color: #4a5d23;">🎁 Special Welcome Offer</h2>
      <p style="font-size: 18px; background-color: #f4f4f4; padding: 15px; border-left: 4px solid #4a5d23;">
        <strong>Get 10%% off your first order!</strong><br>
        Subscribe at checkout to automatically receive your discount.
      </p>
      <h3>What to Expect:</h3>
      <ul>
        <li>🥛 Updates on new products and seasonal offerings</li>
        <li>🌱 Tips on gut health and the gut-brain connection</li>
        <li>♻️ Stories from our zero-waste dairy farm</li>
        <li>🎯 Exclusive subscriber-only deals</li>
      </ul>
      <p style="margin-top: 30px;">
        <a href="%s" style="background-color: #4a5d23; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block;">Start Shopping</a>
      </p>
      <p style="margin-top: 20px; color: #666; font-size: 12px;">
        If you didn't subscribe to this newsletter, you can
        <a href="%s/unsubscribe?email=%s">unsubscribe here</a>.
      </p>
    </div>
  </body>
</html>`, greeting, s.frontendURL, s.frontendURL, email)

	message := sgmail.NewSingleEmail(from, subject, to, plain, html)
	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: unexpected status %d", resp.StatusCode)
	}
	s.logger.Printf("mail: welcome sent to=%s status=%d", email, resp.StatusCode)
	return nil
}
