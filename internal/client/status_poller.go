// Package client holds callers of the LinkHub API itself.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	statusEndpoint = "/api/user/subscription-status"

	DefaultPollInterval = 2 * time.Second
	DefaultPollTimeout  = 2 * time.Minute
)

// ErrPollTimeout means the plan did not turn Pro before the deadline.
var ErrPollTimeout = errors.New("timed out waiting for pro activation")

// StatusError is a non-200 answer from the status endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("subscription status returned %d: %s", e.Code, e.Body)
}

// SubscriptionStatus mirrors the subscription-status response.
type SubscriptionStatus struct {
	IsPro               bool       `json:"isPro"`
	PlanName            string     `json:"planName"`
	SubscriptionEndDate *time.Time `json:"subscriptionEndDate"`
	Provider            string     `json:"provider"`
	State               string     `json:"state"`
}

// StatusPoller waits for a UPI payment to be confirmed out of band by
// polling the subscription status endpoint.
type StatusPoller struct {
	client   *http.Client
	baseURL  string
	Interval time.Duration
	Timeout  time.Duration
}

func NewStatusPoller(baseURL string) *StatusPoller {
	return &StatusPoller{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:  strings.TrimRight(baseURL, "/"),
		Interval: DefaultPollInterval,
		Timeout:  DefaultPollTimeout,
	}
}

// Status fetches the current subscription status for the session token.
func (p *StatusPoller) Status(ctx context.Context, token string) (*SubscriptionStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+statusEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create status request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription status: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	var st SubscriptionStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, fmt.Errorf("failed to decode subscription status: %w", err)
	}
	return &st, nil
}

// WaitForPro polls every Interval until the account is Pro, Timeout elapses
// or ctx is done. Transient request errors are retried; 401 is not.
func (p *StatusPoller) WaitForPro(ctx context.Context, token string) (*SubscriptionStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for {
		st, err := p.Status(ctx, token)
		if err == nil && st.IsPro {
			return st, nil
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusUnauthorized {
			return nil, err
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ErrPollTimeout
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
