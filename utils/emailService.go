package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"ssoma/config"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers an HTML email through SendGrid when an API key is
// configured, falling back to plain SMTP otherwise.
func SendEmail(to []string, subject string, htmlBody string) error {
	if config.AppConfig.SendGridAPIKey != "" {
		return sendViaSendGrid(to, subject, htmlBody)
	}
	return sendViaSMTP(to, subject, htmlBody)
}

func sendViaSendGrid(to []string, subject string, htmlBody string) error {
	from := mail.NewEmail("SSOMA Training", config.AppConfig.EmailSender)
	client := sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)

	for _, recipient := range to {
		message := mail.NewSingleEmail(from, subject, mail.NewEmail("", recipient), "", htmlBody)
		resp, err := client.Send(message)
		if err != nil {
			log.Printf("Error sending email via SendGrid: %v", err)
			return err
		}
		if resp.StatusCode >= 400 {
			log.Printf("SendGrid rejected email: %d %s", resp.StatusCode, resp.Body)
			return fmt.Errorf("sendgrid rejected email: %d", resp.StatusCode)
		}
	}
	return nil
}

func sendViaSMTP(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: SSOMA Training <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Printf("Error sending email: %v", err)
		return err
	}
	return nil
}

// HTML wrapper for notification emails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1B3A2D; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B3A2D; line-height: 1.6; }
			.content h2 { color: #1B3A2D; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F5E9; padding: 15px; border-radius: 4px; border-left: 4px solid #F2A900; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>SSOMA TRAINING</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 SSOMA Training Platform.<br>
				Safety and occupational health compliance training.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// SendOTPEmail sends the signup verification code
func SendOTPEmail(otp, email string) error {
	subject := "OTP Verification Code - SSOMA Training"
	body := fmt.Sprintf(`
		<p>Your One Time Password (OTP) is:</p>
		<h1 style="text-align: center; color: #1B3A2D; font-size: 40px; margin: 20px 0;">%s</h1>
		<p>Do not share this OTP with anyone.</p>
	`, otp)

	return SendEmail([]string{email}, subject, getEmailTemplate("Verify Your Account", body))
}

// SendCourseAssignedEmail notifies a collaborator of a new course
func SendCourseAssignedEmail(email, name, courseName string) {
	subject := "New Training Assigned: " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have been enrolled in <strong>%s</strong>.</p>
		<div class="info-box">
			Complete all lessons and pass the evaluation to earn your certificate.
		</div>
	`, name, courseName)

	go SendEmail([]string{email}, subject, getEmailTemplate("Training Assigned", body))
}

// SendCoursePassedEmail congratulates a collaborator on passing a course
func SendCoursePassedEmail(email, name, courseName string) {
	subject := "Training Completed: " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations! You have completed <strong>%s</strong>.</p>
		<p>Your certificate is being issued and will appear in your profile.</p>
	`, name, courseName)

	go SendEmail([]string{email}, subject, getEmailTemplate("Training Completed", body))
}

// SendCertificateEmail sends the certificate number after issuance
func SendCertificateEmail(email, name, courseName, certificateNumber string) {
	subject := "Certificate Issued: " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your certificate for <strong>%s</strong> has been issued.</p>
		<div class="info-box">
			Certificate number: <strong>%s</strong>
		</div>
		<p>Use this number for verification purposes.</p>
	`, name, courseName, certificateNumber)

	go SendEmail([]string{email}, subject, getEmailTemplate("Certificate Issued", body))
}

// SendQuizFailedEmail notifies a collaborator that remediation is required
func SendQuizFailedEmail(email, name, quizName string) {
	subject := "Evaluation Not Passed: " + quizName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You did not reach the passing score on <strong>%s</strong>.</p>
		<div class="info-box">
			Review the remediation material before retrying the evaluation.
		</div>
	`, name, quizName)

	go SendEmail([]string{email}, subject, getEmailTemplate("Remediation Required", body))
}

// SendCertificateExpiryReminder warns a collaborator about an expiring
// certification
func SendCertificateExpiryReminder(email, name, courseName, expiryStr string) {
	subject := "Certification Expiring Soon: " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your certification for <strong>%s</strong> expires on <strong>%s</strong>.</p>
		<div class="info-box">
			Re-take the course before the expiry date to stay compliant.
		</div>
	`, name, courseName, expiryStr)

	go SendEmail([]string{email}, subject, getEmailTemplate("Certification Expiring", body))
}
