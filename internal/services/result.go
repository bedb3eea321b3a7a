package services

import (
	"errors"

	"github.com/dmitrijs2005/guardian/internal/common"
)

// Result is the uniform answer of every user-facing operation.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Outcome folds an operation's return values into a Result.
func Outcome(data any, err error) Result {
	if err != nil {
		return Result{Error: Message(err)}
	}
	return Result{Success: true, Data: data}
}

// Message turns an error into something fit for the user.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, common.ErrStorageUnavailable):
		return "storage is unavailable, reload and try again"
	case errors.Is(err, common.ErrTimeout):
		return "storage is busy, try again"
	case errors.Is(err, common.ErrEngineClosed):
		return "storage is closed"
	case errors.Is(err, common.ErrNotFound):
		return "not found: " + err.Error()
	default:
		return err.Error()
	}
}
