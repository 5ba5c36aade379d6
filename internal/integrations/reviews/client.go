package reviews

import (
	"context"
	"fmt"
	"time"
)

// Client fetches raw homework statuses updated since from.
// The payload is the decoded JSON body; validation is the caller's job.
type Client interface {
	GetStatuses(ctx context.Context, from time.Time) (any, error)
}

type RemoteServerError struct {
	StatusCode int
}

func (e *RemoteServerError) Error() string {
	return fmt.Sprintf("reviews api http %d", e.StatusCode)
}

type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return "reviews api malformed response: " + e.Err.Error()
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
