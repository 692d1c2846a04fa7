package discord

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// ErrNotFound marks a guild/event/channel that no longer exists remotely.
// Benign at fire time: the event may have been deleted after scheduling.
var ErrNotFound = errors.New("discord: not found")

// ErrPermissionDenied marks a missing Manage Events (or similar) right.
// This is a configuration problem; retrying won't help.
var ErrPermissionDenied = errors.New("discord: permission denied")

// RemoteError wraps a transient API/network failure.
type RemoteError struct {
	Op     string
	Status int
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("discord: %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("discord: %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// classifyErr maps discordgo REST errors onto the package sentinels so the
// automation core can branch with errors.Is and never import discordgo.
func classifyErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var rerr *discordgo.RESTError
	if errors.As(err, &rerr) && rerr.Response != nil {
		switch rerr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		case http.StatusForbidden, http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
		default:
			return &RemoteError{Op: op, Status: rerr.Response.StatusCode, Err: err}
		}
	}
	return &RemoteError{Op: op, Err: err}
}
