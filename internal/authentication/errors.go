package authentication

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrIssueFailed         = errors.New("could not issue tokens")
)

// FailureReason says why a refresh was refused. It is logged but never sent
// to the client, which only ever sees ErrInvalidRefreshToken.
type FailureReason string

const (
	ReasonSignatureInvalid FailureReason = "signature_invalid"
	ReasonTypeMismatch     FailureReason = "type_mismatch"
	ReasonUserNotFound     FailureReason = "user_not_found"
	ReasonUserInactive     FailureReason = "user_inactive"
	ReasonTokenNotFound    FailureReason = "token_not_found"
	ReasonHashMismatch     FailureReason = "hash_mismatch"
	ReasonAlreadyConsumed  FailureReason = "already_consumed"
	ReasonInternal         FailureReason = "internal"
)

type RefreshFailure struct {
	Reason FailureReason
	Err    error
}

func (f *RefreshFailure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s (%s): %v", ErrInvalidRefreshToken, f.Reason, f.Err)
	}
	return fmt.Sprintf("%s (%s)", ErrInvalidRefreshToken, f.Reason)
}

func (f *RefreshFailure) Unwrap() error {
	return f.Err
}

func (f *RefreshFailure) Is(target error) bool {
	return target == ErrInvalidRefreshToken
}

func refreshFailure(reason FailureReason, err error) *RefreshFailure {
	return &RefreshFailure{Reason: reason, Err: err}
}

// ReasonOf extracts the failure reason, or "" if err is not a refresh failure.
func ReasonOf(err error) FailureReason {
	var f *RefreshFailure
	if errors.As(err, &f) {
		return f.Reason
	}
	return ""
}
