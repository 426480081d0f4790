package appointments

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

// validateCancellation проверяет причину отмены и возвращает её текст для записи
func validateCancellation(reason domain.CancellationReason, customText string) (string, error) {
	if !reason.IsValid() {
		return "", fmt.Errorf("%w: unknown reason %q", ErrInvalidReason, reason)
	}

	text := reason.Describe(customText)
	if reason == domain.ReasonOthers {
		if text == "" {
			return "", fmt.Errorf("%w: custom reason is required for %q", ErrInvalidReason, reason)
		}
		if utf8.RuneCountInString(text) > domain.MaxCancellationTextLength {
			return "", fmt.Errorf("%w: custom reason exceeds %d characters", ErrInvalidReason, domain.MaxCancellationTextLength)
		}
	}

	return text, nil
}

// validateRejectionReason причина отклонения обязательна и ограничена по длине
func validateRejectionReason(reason *string) (*string, error) {
	if reason == nil || strings.TrimSpace(*reason) == "" {
		return nil, ErrRejectionReasonRequired
	}

	trimmed := strings.TrimSpace(*reason)
	if utf8.RuneCountInString(trimmed) > domain.MaxRejectionReasonLength {
		return nil, fmt.Errorf("%w: rejection reason exceeds %d characters", ErrInvalidInput, domain.MaxRejectionReasonLength)
	}

	return &trimmed, nil
}
