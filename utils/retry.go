package utils

import (
	"fmt"
	"time"
)

// Retry runs fn up to maxRetries times. A nil return stops immediately;
// otherwise each failed attempt waits 2^attempt seconds before the next
// (2s, 4s, 8s...). The last error is returned after all attempts.
//
// Usage:
//
//	err := utils.Retry(3, func() error {
//	    return notifier.Send(msg)
//	})
func Retry(maxRetries int, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < maxRetries {
			wait := time.Duration(1<<uint(attempt)) * time.Second
			Warn("Attempt %d/%d failed: %v — retrying in %v", attempt, maxRetries, lastErr, wait)
			time.Sleep(wait)
		}
	}

	return fmt.Errorf("all %d attempts failed — last error: %w", maxRetries, lastErr)
}
