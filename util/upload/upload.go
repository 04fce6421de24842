// Package upload holds the shared rules for user-supplied files.
package upload

import "errors"

// MaxImageBytes caps every image upload (book covers, standalone covers,
// instance photos) at 2MB.
const MaxImageBytes = 2 * 1024 * 1024

// ErrImageTooLarge carries the user-facing message shown on rejection.
var ErrImageTooLarge = errors.New("Файл слишком большой. Размер файла не должен превышать 2MB")

// ValidateImageSize rejects payloads over MaxImageBytes.
func ValidateImageSize(size int64) error {
	if size > MaxImageBytes {
		return ErrImageTooLarge
	}
	return nil
}
