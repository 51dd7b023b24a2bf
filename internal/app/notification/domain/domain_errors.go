package domain

import "github.com/light-bringer/rawsy-service/internal/pkg/apperr"

var (
	ErrMissingRecipient = apperr.New(apperr.KindValidation, "notification recipient is required")
	ErrUnknownType      = apperr.New(apperr.KindValidation, "unknown notification type")
	ErrEmptyTitle       = apperr.New(apperr.KindValidation, "notification title cannot be empty")
	ErrUserNotFound     = apperr.New(apperr.KindNotFound, "user not found")
)
