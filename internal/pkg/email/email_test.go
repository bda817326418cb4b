package email

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/leave-management-go/internal/config"
)

func TestNewEmailService_ParsesTemplates(t *testing.T) {
	svc, err := NewEmailService(config.SMTPConfig{})
	require.NoError(t, err)
	require.NotNil(t, svc)

	impl, ok := svc.(*emailServiceImpl)
	require.True(t, ok)

	for _, name := range []string{
		"leave_submitted.html",
		"leave_submission_received.html",
		"leave_approved.html",
		"leave_rejected.html",
		"leave_reminder.html",
	} {
		assert.NotNil(t, impl.templates.Lookup(name), "template %s missing", name)
	}
}

func TestTemplates_RenderLeaveData(t *testing.T) {
	svc, err := NewEmailService(config.SMTPConfig{})
	require.NoError(t, err)
	impl := svc.(*emailServiceImpl)

	data := leaveEmailData{
		EmployeeName: "Evan Employee",
		ManagerName:  "Maya Manager",
		LeaveType:    "Annual Leave",
		StartDate:    "2026-03-02",
		EndDate:      "2026-03-04",
		Days:         3,
		Comments:     "enjoy",
	}

	for _, name := range []string{
		"leave_submitted.html",
		"leave_submission_received.html",
		"leave_approved.html",
		"leave_rejected.html",
		"leave_reminder.html",
	} {
		var body bytes.Buffer
		require.NoError(t, impl.templates.ExecuteTemplate(&body, name, data))
		assert.Contains(t, body.String(), "Evan Employee", "template %s", name)
	}
}

func TestSend_SkipsWhenUnconfigured(t *testing.T) {
	// No SMTP host means notifications are logged and dropped, never
	// attempted
	svc, err := NewEmailService(config.SMTPConfig{})
	require.NoError(t, err)

	assert.NoError(t, svc.SendLeaveSubmitted("maya@example.com", "Maya", "Evan", "Annual Leave", "2026-03-02", "2026-03-04", 3))
	assert.NoError(t, svc.SendLeaveSubmissionReceived("evan@example.com", "Evan", "Annual Leave", "2026-03-02", "2026-03-04", 3))
	assert.NoError(t, svc.SendLeaveApproved("evan@example.com", "Evan", "Annual Leave", "2026-03-02", "2026-03-04", ""))
	assert.NoError(t, svc.SendLeaveRejected("evan@example.com", "Evan", "Annual Leave", "2026-03-02", "2026-03-04", "short staffed"))
	assert.NoError(t, svc.SendLeaveReminder("evan@example.com", "Evan", "Annual Leave", "2026-03-02"))
}
