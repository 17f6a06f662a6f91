package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"parkbooking/internal/config"
	"parkbooking/internal/db"
	"parkbooking/internal/entities"
)

// Notifier tells a user about a change to one of their bookings.
type Notifier interface {
	NotifyBooking(ctx context.Context, user db.User, b db.Booking, loc db.Location)
}

type SenderService struct {
	cfg *config.Config
}

func NewSenderService(cfg *config.Config) *SenderService {
	return &SenderService{cfg: cfg}
}

var bookingEmailTemplate = template.Must(template.New("booking_email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>Your parking booking is {{.Status}}</h2>
  <p><strong>{{.LocationName}}</strong><br>{{.Address}}</p>
  <table cellpadding="4">
    <tr><td>Booking</td><td>{{.BookingID}}</td></tr>
    <tr><td>Date</td><td>{{.DateFormatted}}</td></tr>
    <tr><td>Time</td><td>{{.StartTime}} - {{.EndTime}}</td></tr>
    <tr><td>Vehicle</td><td>{{.VehicleNumber}}</td></tr>
    <tr><td>Total</td><td>{{printf "%.2f" .Price}}</td></tr>
  </table>
  <p style="font-size: 12px; color: #6b7280;">&copy; {{.CurrentYear}} ParkEase. All rights reserved.</p>
</body>
</html>`))

// NotifyBooking sends the e-mail and, when the user has a phone number, the
// SMS. Delivery runs in the background; failures are logged only.
func (s *SenderService) NotifyBooking(_ context.Context, user db.User, b db.Booking, loc db.Location) {
	data := bookingEmailData(user, b, loc, time.Now())

	subject := fmt.Sprintf("Your parking booking at %s is %s", loc.Name, b.Status)
	plainText := fmt.Sprintf(
		"Hello,\n\nYour booking at %s is %s.\n\n"+
			"Booking: %s\n"+
			"Address: %s\n"+
			"Date: %s\n"+
			"Time: %s - %s\n"+
			"Vehicle: %s\n"+
			"Total: %.2f\n",
		data.LocationName, data.Status, data.BookingID, data.Address, data.DateFormatted,
		data.StartTime, data.EndTime, data.VehicleNumber, data.Price,
	)

	var htmlBody bytes.Buffer
	if err := bookingEmailTemplate.Execute(&htmlBody, data); err != nil {
		log.Printf("Error rendering booking email for %s: %v", b.ID, err)
	}

	go func(to, subject, plain, html string) {
		if err := s.SendEmail(to, subject, plain, html); err != nil {
			log.Printf("Email for booking %s failed: %v", b.ID, err)
		}
	}(user.Email, subject, plainText, htmlBody.String())

	if user.Phone.Valid && user.Phone.String != "" {
		sms := fmt.Sprintf("Parking booking %s at %s on %s, %s - %s.",
			b.Status, loc.Name, b.Date, b.StartTime, b.EndTime)
		go func(to, body string) {
			if err := s.SendSMS(to, body); err != nil {
				log.Printf("SMS for booking %s failed: %v", b.ID, err)
			}
		}(user.Phone.String, sms)
	}
}

func bookingEmailData(user db.User, b db.Booking, loc db.Location, now time.Time) entities.BookingEmailData {
	dateFormatted := b.Date
	if d, err := time.Parse("2006-01-02", b.Date); err == nil {
		dateFormatted = d.Format("Monday, January 2, 2006")
	}
	return entities.BookingEmailData{
		UserEmail:     user.Email,
		BookingID:     b.ID,
		LocationName:  loc.Name,
		Address:       loc.Address,
		DateFormatted: dateFormatted,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		VehicleNumber: b.VehicleNumber,
		Price:         b.Price,
		Status:        b.Status,
		CurrentYear:   now.Year(),
	}
}

func (s *SenderService) SendEmail(toEmailAddress, subject, plainTextContent, htmlContent string) error {
	if s.cfg.SendGridAPIKey == "" || s.cfg.SendGridFromEmail == "" {
		log.Println("Warning: SendGrid is not configured, email not sent.")
		return fmt.Errorf("sendgrid not configured")
	}

	from := mail.NewEmail(s.cfg.SendGridFromName, s.cfg.SendGridFromEmail)
	to := mail.NewEmail("", toEmailAddress)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(s.cfg.SendGridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sending email through SendGrid: %w", err)
	}
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		log.Printf("Email sent to %s (subject: %s). Status: %d", toEmailAddress, subject, response.StatusCode)
		return nil
	}
	return fmt.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
}

func (s *SenderService) SendSMS(toNumber, messageBody string) error {
	if s.cfg.TwilioAccountSID == "" || s.cfg.TwilioAuthToken == "" || s.cfg.TwilioFromNumber == "" {
		log.Println("Warning: Twilio is not configured, SMS not sent.")
		return fmt.Errorf("twilio not configured")
	}
	if !strings.HasPrefix(toNumber, "+") {
		log.Printf("Warning: destination number '%s' is not in E.164 format.", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   s.cfg.TwilioAccountSID,
		Password:   s.cfg.TwilioAuthToken,
		AccountSid: s.cfg.TwilioAccountSID,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(s.cfg.TwilioFromNumber)
	params.SetBody(messageBody)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("sending SMS: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		log.Printf("SMS sent to %s. SID: %s", toNumber, *resp.Sid)
	}
	return nil
}
