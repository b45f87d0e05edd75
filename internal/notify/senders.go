package notify

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// EmailSender delivers account emails (registration, verification).
type EmailSender interface {
	SendEmail(toAddress, toName, subject, plainText, htmlBody string) error
}

// SMSSender delivers OTP codes.
type SMSSender interface {
	SendSMS(toNumber, body string) error
}

// SendGridSender sends email through SendGrid.
type SendGridSender struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewSendGridFromEnv builds a sender from SENDGRID_API_KEY,
// SENDGRID_FROM_EMAIL and SENDGRID_FROM_NAME.
func NewSendGridFromEnv() (*SendGridSender, error) {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("SENDGRID_API_KEY not set")
	}
	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		return nil, fmt.Errorf("SENDGRID_FROM_EMAIL not set")
	}
	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "ParkLedger"
	}
	return &SendGridSender{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName}, nil
}

func (s *SendGridSender) SendEmail(toAddress, toName, subject, plainText, htmlBody string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toAddress)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlBody)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sending email via SendGrid to %s: %w", toAddress, err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
	}
	log.Printf("Email sent to %s (subject: %s)", toAddress, subject)
	return nil
}

// TwilioSender sends SMS through Twilio.
type TwilioSender struct {
	client     *twilio.RestClient
	fromNumber string
}

// NewTwilioFromEnv builds a sender from TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN
// and TWILIO_FROM_NUMBER.
func NewTwilioFromEnv() (*TwilioSender, error) {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")
	if accountSid == "" || authToken == "" || fromNumber == "" {
		return nil, fmt.Errorf("Twilio credentials not fully configured")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSid,
		Password:   authToken,
		AccountSid: accountSid,
	})
	return &TwilioSender{client: client, fromNumber: fromNumber}, nil
}

func (s *TwilioSender) SendSMS(toNumber, body string) error {
	if !strings.HasPrefix(toNumber, "+") {
		log.Printf("WARNING: destination number %q is not E.164, the SMS may fail", toNumber)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(s.fromNumber)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("sending SMS to %s: %w", toNumber, err)
	}
	if resp != nil && resp.Sid != nil {
		log.Printf("SMS sent to %s, message SID %s", toNumber, *resp.Sid)
	}
	return nil
}

// LogSender logs instead of delivering. Used when no provider is configured,
// so the OTP code lands in the server log during development.
type LogSender struct{}

func (LogSender) SendEmail(toAddress, _, subject, plainText, _ string) error {
	log.Printf("email (not delivered) to=%s subject=%q body=%q", toAddress, subject, plainText)
	return nil
}

func (LogSender) SendSMS(toNumber, body string) error {
	log.Printf("sms (not delivered) to=%s body=%q", toNumber, body)
	return nil
}
