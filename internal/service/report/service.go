package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/identity"
)

// Row is one line of the annual leave report: one balance enriched
// with identity data and the year's request counts.
type Row struct {
	EmployeeName  string
	Department    string
	LeaveType     string
	TotalDays     float64
	UsedDays      float64
	AvailableDays float64
	Pending       int
	Approved      int
	Rejected      int
}

type ReportService interface {
	// AnnualLeaveCSV renders the per-employee, per-category leave
	// usage report for a year as CSV.
	AnnualLeaveCSV(ctx context.Context, year int) ([]byte, error)
}

type reportServiceImpl struct {
	balanceRepo leave.BalanceRepository
	requestRepo leave.RequestRepository
	resolver    identity.Resolver
}

func NewReportService(
	balanceRepo leave.BalanceRepository,
	requestRepo leave.RequestRepository,
	resolver identity.Resolver,
) ReportService {
	return &reportServiceImpl{
		balanceRepo: balanceRepo,
		requestRepo: requestRepo,
		resolver:    resolver,
	}
}

var csvHeader = []string{
	"Employee Name", "Department", "Leave Type",
	"Total Days", "Used Days", "Available Days",
	"Pending", "Approved", "Rejected",
}

// AnnualLeaveCSV implements ReportService.
func (s *reportServiceImpl) AnnualLeaveCSV(ctx context.Context, year int) ([]byte, error) {
	rows, err := s.buildRows(ctx, year)
	if err != nil {
		return nil, err
	}

	return RenderCSV(rows)
}

func (s *reportServiceImpl) buildRows(ctx context.Context, year int) ([]Row, error) {
	balances, err := s.balanceRepo.GetByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances for report: %w", err)
	}

	counts, err := s.requestRepo.StatusCountsForYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get request counts for report: %w", err)
	}

	type key struct {
		userID   int64
		category leave.Category
	}
	countsByKey := make(map[key]map[leave.Status]int)
	for _, c := range counts {
		k := key{c.UserID, c.Category}
		if countsByKey[k] == nil {
			countsByKey[k] = make(map[leave.Status]int)
		}
		countsByKey[k][c.Status] = c.Count
	}

	// One batch lookup for every employee in the report
	idSet := make(map[int64]struct{})
	for _, b := range balances {
		idSet[b.UserID] = struct{}{}
	}
	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	users, err := s.resolver.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve employees for report: %w", err)
	}

	rows := make([]Row, 0, len(balances))
	for _, b := range balances {
		row := Row{
			LeaveType:     b.Category.DisplayName(),
			TotalDays:     b.TotalDays,
			UsedDays:      b.UsedDays,
			AvailableDays: b.AvailableDays,
		}

		if u, ok := users[b.UserID]; ok {
			row.EmployeeName = u.Name
			row.Department = u.Department
		} else {
			row.EmployeeName = strconv.FormatInt(b.UserID, 10)
		}

		if c, ok := countsByKey[key{b.UserID, b.Category}]; ok {
			row.Pending = c[leave.StatusPending]
			row.Approved = c[leave.StatusApproved]
			row.Rejected = c[leave.StatusRejected]
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// RenderCSV writes the report rows in the fixed column order.
func RenderCSV(rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.EmployeeName,
			row.Department,
			row.LeaveType,
			formatDays(row.TotalDays),
			formatDays(row.UsedDays),
			formatDays(row.AvailableDays),
			strconv.Itoa(row.Pending),
			strconv.Itoa(row.Approved),
			strconv.Itoa(row.Rejected),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func formatDays(days float64) string {
	return strconv.FormatFloat(days, 'f', -1, 64)
}
