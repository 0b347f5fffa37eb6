// Package shared holds cross-cutting persistence helpers.
package shared

import (
	"errors"

	"github.com/vr-inventory/vr-inventory/internal/platform/httpx"
)

// UserSafeMessage returns err's text when it is a client error and fallback
// otherwise, so store internals never reach a rendered page.
func UserSafeMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, httpx.ErrValidation) || errors.Is(err, httpx.ErrConflict) {
		return err.Error()
	}
	return fallback
}
