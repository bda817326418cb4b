package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type requestRepositoryImpl struct {
	db *database.DB
}

func NewRequestRepository(db *database.DB) leave.RequestRepository {
	return &requestRepositoryImpl{db: db}
}

const requestColumns = `
	id, user_id, leave_type, start_date, end_date, number_of_days,
	reason, document_url, status,
	manager_id, manager_comments, reviewed_at,
	created_at, updated_at
`

func scanRequest(row pgx.Row) (leave.Request, error) {
	var req leave.Request
	err := row.Scan(
		&req.ID, &req.UserID, &req.Category, &req.StartDate, &req.EndDate, &req.Days,
		&req.Reason, &req.DocumentURL, &req.Status,
		&req.ManagerID, &req.ManagerComments, &req.ReviewedAt,
		&req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}

// Create implements leave.RequestRepository.
func (r *requestRepositoryImpl) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)
	query := `
        INSERT INTO leave_requests (
            id, user_id, leave_type, start_date, end_date, number_of_days,
            reason, document_url, status, manager_id,
            created_at, updated_at
        ) VALUES (
            gen_random_uuid(), $1, $2, $3, $4, $5,
            $6, $7, $8, $9,
            NOW(), NOW()
        ) RETURNING id, created_at, updated_at
    `

	err := q.QueryRow(ctx, query,
		request.UserID, request.Category, request.StartDate, request.EndDate, request.Days,
		request.Reason, request.DocumentURL, request.Status, request.ManagerID,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		return leave.Request{}, err
	}

	return request, nil
}

// GetByID implements leave.RequestRepository.
func (r *requestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)
	query := `
        SELECT ` + requestColumns + `
        FROM leave_requests
        WHERE id = $1
    `

	req, err := scanRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, err
	}

	return req, nil
}

// GetByUserID implements leave.RequestRepository.
func (r *requestRepositoryImpl) GetByUserID(ctx context.Context, userID int64, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	return r.list(ctx, []int64{userID}, filter)
}

// GetByUserIDs implements leave.RequestRepository.
func (r *requestRepositoryImpl) GetByUserIDs(ctx context.Context, userIDs []int64, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	if len(userIDs) == 0 {
		return []leave.Request{}, 0, nil
	}
	return r.list(ctx, userIDs, filter)
}

func (r *requestRepositoryImpl) list(ctx context.Context, userIDs []int64, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"user_id = ANY($1)"}
	args := []interface{}{userIDs}
	i := 2

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", i))
		args = append(args, *filter.Status)
		i++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(YEAR FROM start_date) = $%d", i))
		args = append(args, *filter.Year)
		i++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM leave_requests WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + requestColumns + " FROM leave_requests WHERE " + where +
		" ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", i, i+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]leave.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}

	return requests, total, rows.Err()
}

// HasOverlap implements leave.RequestRepository. Two ranges overlap
// unless one ends before the other starts; only pending and approved
// requests block new submissions.
func (r *requestRepositoryImpl) HasOverlap(ctx context.Context, userID int64, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)
	query := `
        SELECT EXISTS(
            SELECT 1 FROM leave_requests
            WHERE user_id = $1
            AND status IN ($2, $3)
            AND NOT (end_date < $4 OR start_date > $5)
        )
    `

	var exists bool
	err := q.QueryRow(ctx, query,
		userID, leave.StatusPending, leave.StatusApproved, start, end,
	).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Review implements leave.RequestRepository. The status guard makes
// concurrent reviews of the same request lose cleanly.
func (r *requestRepositoryImpl) Review(ctx context.Context, id string, decision leave.Status, managerID int64, comments *string) error {
	q := GetQuerier(ctx, r.db)
	query := `
        UPDATE leave_requests
        SET status = $1,
            manager_id = $2,
            manager_comments = $3,
            reviewed_at = NOW(),
            updated_at = NOW()
        WHERE id = $4
        AND status = $5
    `

	result, err := q.Exec(ctx, query, decision, managerID, comments, id, leave.StatusPending)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return leave.ErrRequestAlreadyProcessed
	}

	return nil
}

// Cancel implements leave.RequestRepository.
func (r *requestRepositoryImpl) Cancel(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	query := `
        UPDATE leave_requests
        SET status = $1,
            updated_at = NOW()
        WHERE id = $2
        AND status IN ($3, $4)
    `

	result, err := q.Exec(ctx, query,
		leave.StatusCancelled, id, leave.StatusPending, leave.StatusApproved,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return leave.ErrRequestAlreadyProcessed
	}

	return nil
}

// ApprovedStartingOn implements leave.RequestRepository.
func (r *requestRepositoryImpl) ApprovedStartingOn(ctx context.Context, date time.Time) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)
	query := `
        SELECT ` + requestColumns + `
        FROM leave_requests
        WHERE status = $1 AND start_date = $2
        ORDER BY user_id
    `

	rows, err := q.Query(ctx, query, leave.StatusApproved, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]leave.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// ApprovedInRange implements leave.RequestRepository.
func (r *requestRepositoryImpl) ApprovedInRange(ctx context.Context, userIDs []int64, from, to time.Time) ([]leave.Request, error) {
	return r.inRange(ctx, userIDs, from, to, []string{string(leave.StatusApproved)})
}

// ActiveInRange implements leave.RequestRepository.
func (r *requestRepositoryImpl) ActiveInRange(ctx context.Context, userIDs []int64, from, to time.Time) ([]leave.Request, error) {
	return r.inRange(ctx, userIDs, from, to, []string{string(leave.StatusPending), string(leave.StatusApproved)})
}

func (r *requestRepositoryImpl) inRange(ctx context.Context, userIDs []int64, from, to time.Time, statuses []string) ([]leave.Request, error) {
	if len(userIDs) == 0 {
		return []leave.Request{}, nil
	}

	q := GetQuerier(ctx, r.db)
	query := `
        SELECT ` + requestColumns + `
        FROM leave_requests
        WHERE user_id = ANY($1)
        AND status = ANY($2)
        AND NOT (end_date < $3 OR start_date > $4)
        ORDER BY start_date
    `

	rows, err := q.Query(ctx, query, userIDs, statuses, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]leave.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// CountByStatus implements leave.RequestRepository.
func (r *requestRepositoryImpl) CountByStatus(ctx context.Context, status leave.Status) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM leave_requests WHERE status = $1`, status,
	).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// StatusCountsForYear implements leave.RequestRepository.
func (r *requestRepositoryImpl) StatusCountsForYear(ctx context.Context, year int) ([]leave.StatusCount, error) {
	q := GetQuerier(ctx, r.db)
	query := `
        SELECT user_id, leave_type, status, COUNT(*)
        FROM leave_requests
        WHERE EXTRACT(YEAR FROM start_date) = $1
        GROUP BY user_id, leave_type, status
        ORDER BY user_id, leave_type
    `

	rows, err := q.Query(ctx, query, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]leave.StatusCount, 0)
	for rows.Next() {
		var c leave.StatusCount
		if err := rows.Scan(&c.UserID, &c.Category, &c.Status, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}
