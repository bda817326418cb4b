package leave

import "context"

type LeaveService interface {
	// Request lifecycle
	Submit(ctx context.Context, req SubmitRequest) (RequestResponse, error)
	Review(ctx context.Context, req ReviewRequest) (RequestResponse, error)
	Cancel(ctx context.Context, requestID string, userID int64) (RequestResponse, error)

	// Queries
	GetRequest(ctx context.Context, requestID string) (RequestResponse, error)
	ListMyRequests(ctx context.Context, userID int64, filter RequestFilter) (ListRequestResponse, error)
	ListTeamRequests(ctx context.Context, managerID int64, filter RequestFilter) (ListRequestResponse, error)
	ListPendingRequests(ctx context.Context, managerID int64) (ListRequestResponse, error)
	MyBalances(ctx context.Context, userID int64, year int) ([]BalanceResponse, error)

	// Scheduled work
	RunYearEndCarryover(ctx context.Context, fromYear int) error
	SendUpcomingLeaveReminders(ctx context.Context) error
	LogPendingRequestCount(ctx context.Context) error
}
