package email

import (
	"fmt"
	"net/smtp"
	"os"
)

const senderName = "StudyBuddy"

// SendEmail sends a plain text email using SMTP.
func SendEmail(to, subject, body string) error {
	from := os.Getenv("SMTP_SENDER")
	password := os.Getenv("SMTP_PASSWORD")
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")

	auth := smtp.PlainAuth("", from, password, smtpHost)

	msg := []byte("From: " + senderName + " <" + from + ">\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body + "\r\n")

	address := smtpHost + ":" + smtpPort

	err := smtp.SendMail(address, auth, from, []string{to}, msg)
	if err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendVerification mails the account verification link to a new user.
func SendVerification(to, link string) error {
	body := fmt.Sprintf("Welcome to StudyBuddy!\n\nPlease verify your email by clicking the link below:\n%s", link)
	return SendEmail(to, "Verify your StudyBuddy account", body)
}

// SendPasswordReset mails the one-time password reset link.
func SendPasswordReset(to, link string) error {
	body := fmt.Sprintf("We received a request to reset your StudyBuddy password.\n\nReset it with the link below (valid for one hour):\n%s\n\nIf you did not request this, you can ignore this email.", link)
	return SendEmail(to, "Reset your StudyBuddy password", body)
}
