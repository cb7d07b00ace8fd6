package github

import (
	"net/http"

	"github.com/google/go-github/v67/github"
	"github.com/jmgilman/go/errors"

	"github.com/raphi011/gitprov/internal/provider"
)

// WrapHTTPError wraps err with the platform code matching an API status.
func WrapHTTPError(err error, statusCode int, message string) error {
	if err == nil {
		return nil
	}

	var code errors.ErrorCode
	switch statusCode {
	case http.StatusNotFound:
		code = errors.CodeNotFound
	case http.StatusUnauthorized:
		code = errors.CodeUnauthorized
	case http.StatusForbidden:
		code = errors.CodeForbidden
	case http.StatusConflict:
		code = errors.CodeConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code = errors.CodeInvalidInput
	case http.StatusTooManyRequests:
		code = errors.CodeRateLimit
	default:
		if statusCode >= 500 {
			code = errors.CodeNetwork
		} else {
			code = errors.CodeInternal
		}
	}

	return errors.Wrap(err, code, message)
}

// wrapError classifies a go-github error. Cancellation passes through.
func wrapError(err error, resp *github.Response, message string) error {
	if err == nil {
		return nil
	}
	if provider.IsCancelled(err) {
		return err
	}

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return errors.Wrap(err, errors.CodeRateLimit, message)
	}

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		statusCode = ghErr.Response.StatusCode
	}

	if statusCode != 0 {
		return WrapHTTPError(err, statusCode, message)
	}
	return errors.Wrap(err, errors.CodeNetwork, message)
}

// notFound reports whether the API answered 404.
func notFound(err error, resp *github.Response) bool {
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return true
	}
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
}
