package upload_test

import (
	"errors"
	"testing"

	"librarycatalog/util/upload"
)

func TestValidateImageSize(t *testing.T) {
	if err := upload.ValidateImageSize(upload.MaxImageBytes); err != nil {
		t.Fatalf("exactly 2MB should pass, got %v", err)
	}
	if err := upload.ValidateImageSize(0); err != nil {
		t.Fatalf("empty file should pass, got %v", err)
	}

	err := upload.ValidateImageSize(upload.MaxImageBytes + 1)
	if !errors.Is(err, upload.ErrImageTooLarge) {
		t.Fatalf("2MB+1 should fail with ErrImageTooLarge, got %v", err)
	}
	if err.Error() == "" {
		t.Fatal("rejection must carry a user-facing message")
	}
}
