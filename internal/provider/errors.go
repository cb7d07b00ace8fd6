package provider

import (
	"context"

	"github.com/jmgilman/go/errors"
)

// IsCancelled reports whether err stems from a cancelled or expired context.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Failure wraps a backend error for op with the backend and repository it
// happened in. Cancellation and errors already attributed to backend id pass
// through untouched. Errors that already carry a code keep it; anything else
// becomes CodeExecutionFailed.
func Failure(err error, id ID, repoPath, op string) error {
	if err == nil {
		return nil
	}
	if IsCancelled(err) || failedIn(err, id) {
		return err
	}

	code := errors.GetCode(err)
	if code == errors.CodeUnknown {
		code = errors.CodeExecutionFailed
	}
	return errors.WrapWithContext(err, code, op+" failed", map[string]interface{}{
		"provider":   string(id),
		"repository": repoPath,
	})
}

// failedIn reports whether err was already decorated by Failure for id.
func failedIn(err error, id ID) bool {
	var pe errors.PlatformError
	if !errors.As(err, &pe) {
		return false
	}
	got, ok := pe.Context()["provider"].(string)
	return ok && got == string(id)
}

// InvalidInput reports a malformed argument.
func InvalidInput(field, msg string) error {
	return errors.WithContext(errors.New(errors.CodeInvalidInput, msg), "field", field)
}

// IsInvalidInput reports whether err was caused by a malformed argument.
func IsInvalidInput(err error) bool {
	return errors.GetCode(err) == errors.CodeInvalidInput
}
