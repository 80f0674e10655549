package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"zhiyu.io/assistantportal/pkg/apperror"
)

// notFound wraps apperror.ErrNotFound with a caller-facing message.
func notFound(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), apperror.ErrNotFound)
}

func duplicate(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), apperror.ErrDuplicate)
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), apperror.ErrInvalidInput)
}

// translateStoreError maps gorm sentinels onto the application taxonomy.
// Unique-index violations surface here when a pre-check raced a concurrent
// insert; the constraint stays authoritative.
func translateStoreError(err error, subject string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound("%s not found", subject)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return duplicate("%s already exists", subject)
	default:
		return err
	}
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
