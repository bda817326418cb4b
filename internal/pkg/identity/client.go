// Package identity is the HTTP client for the external identity
// service, which owns user accounts, departments and the reporting
// hierarchy.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
)

// Resolver is the subset of the identity service the leave engine
// needs. Satisfied by *Client; tests substitute a stub.
type Resolver interface {
	GetUser(ctx context.Context, id int64) (user.User, error)
	GetManager(ctx context.Context, userID int64) (user.User, error)
	GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]user.User, error)
	GetDirectReports(ctx context.Context, managerID int64) ([]user.User, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	if c == nil || c.baseURL == "" {
		return fmt.Errorf("identity client not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return user.ErrUserNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// GetUser fetches a single user by id.
func (c *Client) GetUser(ctx context.Context, id int64) (user.User, error) {
	var u user.User
	if err := c.get(ctx, fmt.Sprintf("/api/users/%d", id), &u); err != nil {
		return user.User{}, err
	}
	return u, nil
}

// GetManager fetches the manager of the given user.
func (c *Client) GetManager(ctx context.Context, userID int64) (user.User, error) {
	var u user.User
	err := c.get(ctx, fmt.Sprintf("/api/users/%d/manager", userID), &u)
	if err != nil {
		if err == user.ErrUserNotFound {
			return user.User{}, user.ErrManagerNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

// GetUsersByIDs fetches users in a single batch call, keyed by id.
// Unknown ids are simply absent from the result.
func (c *Client) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]user.User, error) {
	if len(ids) == 0 {
		return map[int64]user.User{}, nil
	}

	strIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		strIDs = append(strIDs, strconv.FormatInt(id, 10))
	}

	var users []user.User
	path := "/api/users?ids=" + strings.Join(strIDs, ",")
	if err := c.get(ctx, path, &users); err != nil {
		return nil, err
	}

	byID := make(map[int64]user.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	return byID, nil
}

// GetDirectReports fetches the users reporting to the given manager.
func (c *Client) GetDirectReports(ctx context.Context, managerID int64) ([]user.User, error) {
	var users []user.User
	path := fmt.Sprintf("/api/users?manager_id=%d", managerID)
	if err := c.get(ctx, path, &users); err != nil {
		return nil, err
	}
	return users, nil
}
