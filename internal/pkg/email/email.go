package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending leave notifications
type EmailService interface {
	SendLeaveSubmitted(to, managerName, employeeName, leaveType, startDate, endDate string, days float64) error
	SendLeaveSubmissionReceived(to, employeeName, leaveType, startDate, endDate string, days float64) error
	SendLeaveApproved(to, employeeName, leaveType, startDate, endDate string, comments string) error
	SendLeaveRejected(to, employeeName, leaveType, startDate, endDate string, comments string) error
	SendLeaveReminder(to, employeeName, leaveType, startDate string) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

type leaveEmailData struct {
	EmployeeName string
	ManagerName  string
	LeaveType    string
	StartDate    string
	EndDate      string
	Days         float64
	Comments     string
}

// SendLeaveSubmitted notifies the manager that a request awaits review
func (s *emailServiceImpl) SendLeaveSubmitted(to, managerName, employeeName, leaveType, startDate, endDate string, days float64) error {
	data := leaveEmailData{
		EmployeeName: employeeName,
		ManagerName:  managerName,
		LeaveType:    leaveType,
		StartDate:    startDate,
		EndDate:      endDate,
		Days:         days,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "leave_submitted.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject := fmt.Sprintf("Leave Request from %s Awaiting Review", employeeName)
	return s.sendHTML(to, subject, body.String())
}

// SendLeaveSubmissionReceived confirms to the employee that their
// request was recorded and awaits review
func (s *emailServiceImpl) SendLeaveSubmissionReceived(to, employeeName, leaveType, startDate, endDate string, days float64) error {
	data := leaveEmailData{
		EmployeeName: employeeName,
		LeaveType:    leaveType,
		StartDate:    startDate,
		EndDate:      endDate,
		Days:         days,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "leave_submission_received.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, "Your Leave Request Has Been Submitted", body.String())
}

// SendLeaveApproved notifies the employee of an approval
func (s *emailServiceImpl) SendLeaveApproved(to, employeeName, leaveType, startDate, endDate string, comments string) error {
	data := leaveEmailData{
		EmployeeName: employeeName,
		LeaveType:    leaveType,
		StartDate:    startDate,
		EndDate:      endDate,
		Comments:     comments,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "leave_approved.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, "Your Leave Request Has Been Approved", body.String())
}

// SendLeaveRejected notifies the employee of a rejection
func (s *emailServiceImpl) SendLeaveRejected(to, employeeName, leaveType, startDate, endDate string, comments string) error {
	data := leaveEmailData{
		EmployeeName: employeeName,
		LeaveType:    leaveType,
		StartDate:    startDate,
		EndDate:      endDate,
		Comments:     comments,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "leave_rejected.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, "Your Leave Request Has Been Rejected", body.String())
}

// SendLeaveReminder reminds the employee of leave starting soon
func (s *emailServiceImpl) SendLeaveReminder(to, employeeName, leaveType, startDate string) error {
	data := leaveEmailData{
		EmployeeName: employeeName,
		LeaveType:    leaveType,
		StartDate:    startDate,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "leave_reminder.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, "Upcoming Leave Reminder", body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := smtp.SendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
