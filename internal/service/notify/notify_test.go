package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
)

type sentMail struct {
	kind string
	to   string
}

// recordingEmail captures sends instead of talking to SMTP. Deliveries
// run on dispatcher goroutines, so access is guarded.
type recordingEmail struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (r *recordingEmail) record(kind, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMail{kind, to})
	return r.err
}

func (r *recordingEmail) mails() []sentMail {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentMail(nil), r.sent...)
}

func (r *recordingEmail) SendLeaveSubmitted(to, _, _, _, _, _ string, _ float64) error {
	return r.record("submitted", to)
}

func (r *recordingEmail) SendLeaveSubmissionReceived(to, _, _, _, _ string, _ float64) error {
	return r.record("received", to)
}

func (r *recordingEmail) SendLeaveApproved(to, _, _, _, _, _ string) error {
	return r.record("approved", to)
}

func (r *recordingEmail) SendLeaveRejected(to, _, _, _, _, _ string) error {
	return r.record("rejected", to)
}

func (r *recordingEmail) SendLeaveReminder(to, _, _, _ string) error {
	return r.record("reminder", to)
}

type mapResolver struct {
	users map[int64]user.User
}

func (m *mapResolver) GetUser(_ context.Context, id int64) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (m *mapResolver) GetManager(ctx context.Context, userID int64) (user.User, error) {
	u, err := m.GetUser(ctx, userID)
	if err != nil {
		return user.User{}, err
	}
	if u.ManagerID == nil {
		return user.User{}, user.ErrManagerNotFound
	}
	return m.GetUser(ctx, *u.ManagerID)
}

func (m *mapResolver) GetUsersByIDs(_ context.Context, ids []int64) (map[int64]user.User, error) {
	out := make(map[int64]user.User)
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (m *mapResolver) GetDirectReports(_ context.Context, _ int64) ([]user.User, error) {
	return nil, nil
}

func testRequest(status leave.Status) leave.Request {
	return leave.Request{
		ID:        "req-1",
		UserID:    101,
		Category:  leave.CategoryAnnual,
		StartDate: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC),
		Days:      3,
		Status:    status,
	}
}

func newNotifyFixture(emailErr error) (*Service, *recordingEmail) {
	managerID := int64(900)
	resolver := &mapResolver{users: map[int64]user.User{
		900: {ID: 900, Name: "Maya", Email: "maya@example.com", Role: user.RoleManager},
		101: {ID: 101, Name: "Evan", Email: "evan@example.com", ManagerID: &managerID},
	}}
	mail := &recordingEmail{err: emailErr}
	return NewService(mail, resolver), mail
}

func TestLeaveSubmitted_NotifiesEmployeeAndManager(t *testing.T) {
	svc, mail := newNotifyFixture(nil)

	svc.LeaveSubmitted(context.Background(), testRequest(leave.StatusPending))
	svc.Wait()

	assert.Equal(t, []sentMail{
		{"received", "evan@example.com"},
		{"submitted", "maya@example.com"},
	}, mail.mails())
}

func TestLeaveReviewed_NotifiesEmployee(t *testing.T) {
	svc, mail := newNotifyFixture(nil)
	ctx := context.Background()

	svc.LeaveReviewed(ctx, testRequest(leave.StatusApproved))
	svc.Wait()
	svc.LeaveReviewed(ctx, testRequest(leave.StatusRejected))
	svc.Wait()

	assert.Equal(t, []sentMail{
		{"approved", "evan@example.com"},
		{"rejected", "evan@example.com"},
	}, mail.mails())
}

func TestLeaveReviewed_IgnoresNonTerminalStatus(t *testing.T) {
	svc, mail := newNotifyFixture(nil)

	svc.LeaveReviewed(context.Background(), testRequest(leave.StatusPending))
	svc.Wait()

	assert.Empty(t, mail.mails())
}

func TestLeaveReminder_NotifiesEmployee(t *testing.T) {
	svc, mail := newNotifyFixture(nil)

	svc.LeaveReminder(context.Background(), testRequest(leave.StatusApproved))
	svc.Wait()

	assert.Equal(t, []sentMail{{"reminder", "evan@example.com"}}, mail.mails())
}

func TestDelivery_FailuresAreSwallowed(t *testing.T) {
	svc, _ := newNotifyFixture(errors.New("smtp down"))
	ctx := context.Background()

	// None of these may panic or surface the error
	svc.LeaveSubmitted(ctx, testRequest(leave.StatusPending))
	svc.LeaveReviewed(ctx, testRequest(leave.StatusApproved))
	svc.LeaveReminder(ctx, testRequest(leave.StatusApproved))
	svc.Wait()
}

func TestUnknownUser_SkipsDelivery(t *testing.T) {
	svc, mail := newNotifyFixture(nil)

	req := testRequest(leave.StatusApproved)
	req.UserID = 999
	svc.LeaveReviewed(context.Background(), req)
	svc.Wait()

	assert.Empty(t, mail.mails())
}

// stalledEmail blocks every send until released, standing in for a
// slow SMTP server.
type stalledEmail struct {
	release chan struct{}
}

func (s *stalledEmail) stall() error {
	<-s.release
	return nil
}

func (s *stalledEmail) SendLeaveSubmitted(_, _, _, _, _, _ string, _ float64) error {
	return s.stall()
}

func (s *stalledEmail) SendLeaveSubmissionReceived(_, _, _, _, _ string, _ float64) error {
	return s.stall()
}

func (s *stalledEmail) SendLeaveApproved(_, _, _, _, _, _ string) error { return s.stall() }
func (s *stalledEmail) SendLeaveRejected(_, _, _, _, _, _ string) error { return s.stall() }
func (s *stalledEmail) SendLeaveReminder(_, _, _, _ string) error       { return s.stall() }

func TestLeaveSubmitted_DoesNotBlockCaller(t *testing.T) {
	managerID := int64(900)
	resolver := &mapResolver{users: map[int64]user.User{
		900: {ID: 900, Name: "Maya", Email: "maya@example.com", Role: user.RoleManager},
		101: {ID: 101, Name: "Evan", Email: "evan@example.com", ManagerID: &managerID},
	}}
	mail := &stalledEmail{release: make(chan struct{})}
	svc := NewService(mail, resolver)

	returned := make(chan struct{})
	go func() {
		svc.LeaveSubmitted(context.Background(), testRequest(leave.StatusPending))
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("submission notification blocked the caller")
	}

	close(mail.release)
	svc.Wait()
}

func TestDelivery_SurvivesCancelledCaller(t *testing.T) {
	svc, mail := newNotifyFixture(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.LeaveReminder(ctx, testRequest(leave.StatusApproved))
	svc.Wait()

	// The caller's context is detached before delivery starts
	assert.Equal(t, []sentMail{{"reminder", "evan@example.com"}}, mail.mails())
}
