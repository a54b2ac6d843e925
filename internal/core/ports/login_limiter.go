package ports

import "context"

// LoginLimiter throttles repeated failed logins per username.
type LoginLimiter interface {
	// Allow reports whether another login attempt is permitted.
	Allow(ctx context.Context, username string) (bool, error)
	// RecordFailure counts one failed attempt within the current window.
	RecordFailure(ctx context.Context, username string) error
	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, username string) error
}
