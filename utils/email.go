package utils

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"glowup-backend/models"

	"github.com/juju/loggo"
)

var mailLogger = loggo.GetLogger("glowup.mail")

// sendMail is swapped in tests.
var sendMail = smtp.SendMail

type EmailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func GetEmailConfig() *EmailConfig {
	return &EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

func SendEmail(to, subject, htmlBody string) error {
	config := GetEmailConfig()
	if config.Host == "" || config.Port == "" || config.From == "" {
		return fmt.Errorf("SMTP not configured")
	}

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		config.From, to, subject)
	msg := []byte(headers + htmlBody)

	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	addr := config.Host + ":" + config.Port
	return sendMail(addr, auth, config.From, []string{to}, msg)
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return "there"
}

func sendAsync(to, subject, body, what string) {
	go func() {
		if err := SendEmail(to, subject, body); err != nil {
			mailLogger.Warningf("failed to send %s to %s: %v", what, to, err)
		}
	}()
}

func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`<h2>Welcome to GlowUp, %s!</h2>
<p>Your account is ready. You can now:</p>
<ul>
<li>Shop skincare and beauty products from local salons</li>
<li>Book salon and home services with artists</li>
<li>Consult dermatologists and get prescriptions</li>
<li>Earn GlowCoins every day</li>
</ul>
<p>The GlowUp Team</p>`, firstName(name))
	sendAsync(email, "Welcome to GlowUp!", body, "welcome email")
}

// SendOrderConfirmation summarises every order placed in one checkout.
func SendOrderConfirmation(email, name string, orders []models.Order) {
	if len(orders) == 0 {
		return
	}
	var rows strings.Builder
	total := 0.0
	for _, o := range orders {
		fmt.Fprintf(&rows, "<li>%s: <strong>₹%.2f</strong> (%d item(s))</li>\n", o.SalonName, o.TotalAmount, len(o.Products))
		total += o.TotalAmount
	}
	body := fmt.Sprintf(`<h2>Order Confirmed!</h2>
<p>Hi %s,</p>
<p>We've sent your order to the following salons:</p>
<ul>
%s</ul>
<p>Total: <strong>₹%.2f</strong></p>
<p>We'll notify you as each salon updates your order.</p>
<p>The GlowUp Team</p>`, firstName(name), rows.String(), total)
	sendAsync(email, fmt.Sprintf("Order Confirmed - %d order(s)", len(orders)), body, "order confirmation")
}

func SendOrderStatusUpdate(email, name string, order models.Order) {
	body := fmt.Sprintf(`<h2>Order Status Update</h2>
<p>Hi %s,</p>
<p>Your order from <strong>%s</strong> is now: <strong>%s</strong></p>
%s<p>The GlowUp Team</p>`, firstName(name), order.SalonName, strings.ReplaceAll(string(order.Status), "_", " "), trackingLine(order.TrackingLink))
	sendAsync(email, fmt.Sprintf("Your %s order - Status Update", order.SalonName), body, "order status update")
}

func trackingLine(link string) string {
	if link == "" {
		return ""
	}
	return fmt.Sprintf("<p>Track your delivery: <a href=\"%s\">%s</a></p>\n", link, link)
}

func SendBookingStatusUpdate(email, name string, booking models.Booking) {
	body := fmt.Sprintf(`<h2>Booking %s</h2>
<p>Hi %s,</p>
<p>Your booking for <strong>%s</strong> with %s on %s at %s is now <strong>%s</strong>.</p>
<p>The GlowUp Team</p>`, booking.Status, firstName(name), booking.ServiceName, booking.ProviderName, booking.Date, booking.Time, booking.Status)
	sendAsync(email, fmt.Sprintf("Booking %s - %s", booking.Status, booking.ServiceName), body, "booking update")
}

func SendPrescriptionEmail(email, name string, appt models.Appointment) {
	if appt.Prescription == nil {
		return
	}
	var meds strings.Builder
	for _, m := range appt.Prescription.Medicines {
		fmt.Fprintf(&meds, "<li>%s</li>\n", m)
	}
	body := fmt.Sprintf(`<h2>Your Prescription</h2>
<p>Hi %s,</p>
<p>%s has added a prescription to your consultation on %s.</p>
<ul>
%s</ul>
<p><strong>Instructions:</strong> %s</p>
<p>The GlowUp Team</p>`, firstName(name), appt.DoctorName, appt.Date, meds.String(), appt.Prescription.Instructions)
	sendAsync(email, "Your GlowUp prescription", body, "prescription")
}
