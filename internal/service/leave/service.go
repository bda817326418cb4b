package leave

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/database"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/identity"
	"github.com/cmlabs-hris/leave-management-go/internal/service/notify"
)

type leaveServiceImpl struct {
	db          *database.DB
	balanceRepo leave.BalanceRepository
	requestRepo leave.RequestRepository
	resolver    identity.Resolver
	dispatcher  notify.Dispatcher
	calc        *AccrualCalculator
}

func NewLeaveService(
	db *database.DB,
	balanceRepo leave.BalanceRepository,
	requestRepo leave.RequestRepository,
	resolver identity.Resolver,
	dispatcher notify.Dispatcher,
) leave.LeaveService {
	return &leaveServiceImpl{
		db:          db,
		balanceRepo: balanceRepo,
		requestRepo: requestRepo,
		resolver:    resolver,
		dispatcher:  dispatcher,
		calc:        NewAccrualCalculator(),
	}
}

// GetRequest implements leave.LeaveService.
func (s *leaveServiceImpl) GetRequest(ctx context.Context, requestID string) (leave.RequestResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	s.attachNames(ctx, []*leave.Request{&request})
	return request.ToResponse(), nil
}

// ListMyRequests implements leave.LeaveService.
func (s *leaveServiceImpl) ListMyRequests(ctx context.Context, userID int64, filter leave.RequestFilter) (leave.ListRequestResponse, error) {
	requests, total, err := s.requestRepo.GetByUserID(ctx, userID, filter)
	if err != nil {
		return leave.ListRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	return s.toListResponse(ctx, requests, total), nil
}

// ListTeamRequests implements leave.LeaveService.
func (s *leaveServiceImpl) ListTeamRequests(ctx context.Context, managerID int64, filter leave.RequestFilter) (leave.ListRequestResponse, error) {
	reports, err := s.resolver.GetDirectReports(ctx, managerID)
	if err != nil {
		return leave.ListRequestResponse{}, fmt.Errorf("failed to resolve direct reports: %w", err)
	}

	userIDs := make([]int64, 0, len(reports))
	for _, report := range reports {
		userIDs = append(userIDs, report.ID)
	}

	requests, total, err := s.requestRepo.GetByUserIDs(ctx, userIDs, filter)
	if err != nil {
		return leave.ListRequestResponse{}, fmt.Errorf("failed to list team leave requests: %w", err)
	}

	return s.toListResponse(ctx, requests, total), nil
}

// ListPendingRequests implements leave.LeaveService.
func (s *leaveServiceImpl) ListPendingRequests(ctx context.Context, managerID int64) (leave.ListRequestResponse, error) {
	pending := leave.StatusPending
	return s.ListTeamRequests(ctx, managerID, leave.RequestFilter{Status: &pending})
}

func (s *leaveServiceImpl) toListResponse(ctx context.Context, requests []leave.Request, total int64) leave.ListRequestResponse {
	ptrs := make([]*leave.Request, len(requests))
	for i := range requests {
		ptrs[i] = &requests[i]
	}
	s.attachNames(ctx, ptrs)

	responses := make([]leave.RequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, request.ToResponse())
	}

	return leave.ListRequestResponse{
		Requests: responses,
		Total:    total,
	}
}

// attachNames resolves user and manager names in one batch call.
// Resolution is best effort; responses simply omit names the identity
// service could not provide.
func (s *leaveServiceImpl) attachNames(ctx context.Context, requests []*leave.Request) {
	idSet := make(map[int64]struct{})
	for _, request := range requests {
		idSet[request.UserID] = struct{}{}
		if request.ManagerID != nil {
			idSet[*request.ManagerID] = struct{}{}
		}
	}

	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	users, err := s.resolver.GetUsersByIDs(ctx, ids)
	if err != nil {
		return
	}

	for _, request := range requests {
		if u, ok := users[request.UserID]; ok {
			name := u.Name
			request.UserName = &name
		}
		if request.ManagerID != nil {
			if m, ok := users[*request.ManagerID]; ok {
				name := m.Name
				request.ManagerName = &name
			}
		}
	}
}
