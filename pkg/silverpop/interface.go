package silverpop

import (
	"context"

	"github.com/natserract/silverpop/pkg/codec"
)

// SilverpopClient defines the interface for Silverpop XML API operations
type SilverpopClient interface {
	// Login obtains a new session id
	Login(ctx context.Context) (string, error)

	// Logout ends the current session
	Logout(ctx context.Context) (bool, error)

	// GetUserInfo retrieves a recipient and its columns
	GetUserInfo(ctx context.Context, listID, email string) (Result, error)

	// AddUser adds a recipient with optional columns
	AddUser(ctx context.Context, listID, email string, data map[string]string) (bool, error)

	// UpdateUser updates the columns of an existing recipient
	UpdateUser(ctx context.Context, listID, email string, data map[string]string) (bool, error)

	// RemoveUser removes a recipient from a list
	RemoveUser(ctx context.Context, listID, email string) (bool, error)

	SubmitRequest(ctx context.Context, envelope codec.Fields, retry, auth bool) (Result, bool, error)
}

var _ SilverpopClient = (*Client)(nil)
