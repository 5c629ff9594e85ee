package service

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrLinkNotFound          = errors.New("link not found")
	ErrLinkLimitReached      = errors.New("link limit reached")
	ErrEmailTaken            = errors.New("email already in use")
	ErrUsernameTaken         = errors.New("username already taken")
	ErrUsernameReserved      = errors.New("username is reserved")
	ErrInvalidUsername       = errors.New("invalid username")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidSignature      = errors.New("invalid signature")
	ErrProviderNotConfigured = errors.New("payment provider not configured")
	ErrNoActiveSubscription  = errors.New("no active subscription found")
	ErrEmailCaptureDisabled  = errors.New("email capture not enabled")
	ErrInvalidUpload         = errors.New("invalid upload")
	ErrUpiIDRequired         = errors.New("upi id required")
	ErrProRequired           = errors.New("upgrade to pro to use this feature")
	ErrInvalidPayload        = errors.New("invalid webhook payload")
)

// ProRequiredError is returned when a free user touches a Pro-only setting.
// It wraps ErrProRequired.
type ProRequiredError struct {
	Feature string
}

func (e *ProRequiredError) Error() string {
	return "pro plan required for " + e.Feature
}

func (e *ProRequiredError) Unwrap() error { return ErrProRequired }

// UploadError explains why an upload was rejected. It wraps ErrInvalidUpload.
type UploadError struct {
	Reason string
}

func (e *UploadError) Error() string { return e.Reason }

func (e *UploadError) Unwrap() error { return ErrInvalidUpload }
