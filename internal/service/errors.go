package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
)

// toConnectError maps the ledger's error taxonomy onto Connect codes.
// Errors outside the taxonomy are logged and reach the client as a bare
// "internal error", since they may carry storage details.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	var code connect.Code
	switch {
	case errors.Is(err, models.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, models.ErrForbidden):
		code = connect.CodePermissionDenied
	case errors.Is(err, models.ErrConflict):
		code = connect.CodeAlreadyExists
	case errors.Is(err, models.ErrInvalidAmount), errors.Is(err, models.ErrInvalidArgument):
		code = connect.CodeInvalidArgument
	case errors.Is(err, models.ErrUnavailable):
		code = connect.CodeUnavailable
	default:
		slog.Error("Internal error", "error", err)
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}
	return connect.NewError(code, err)
}

// callerID returns the authenticated user or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	return userID, nil
}

func invalidArgument(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}
