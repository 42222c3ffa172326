package domain

import "errors"

// 錯誤分類，僅回報給發起端連線，不廣播、不中斷連線
var (
	// ErrUnauthorized actor lacks rights for the requested transition
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound message/room/chat id does not resolve
	ErrNotFound = errors.New("not found")
	// ErrInvalidState transition attempted on a terminal message
	ErrInvalidState = errors.New("invalid state")
	// ErrValidation malformed payload
	ErrValidation = errors.New("validation error")
	// ErrAlreadyArmed expiry re-arm attempted on an armed message
	ErrAlreadyArmed = errors.New("expiry already armed")
)

const (
	// KindUnauthorized wire kind for ErrUnauthorized
	KindUnauthorized = "unauthorized"
	// KindNotFound wire kind for ErrNotFound
	KindNotFound = "not_found"
	// KindInvalidState wire kind for ErrInvalidState
	KindInvalidState = "invalid_state"
	// KindValidation wire kind for ErrValidation
	KindValidation = "validation"
	// KindInternal wire kind for storage and other unexpected failures
	KindInternal = "internal"
)

// ErrorKind map err to a stable wire kind
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrAlreadyArmed):
		return KindInvalidState
	case errors.Is(err, ErrValidation):
		return KindValidation
	default:
		return KindInternal
	}
}
