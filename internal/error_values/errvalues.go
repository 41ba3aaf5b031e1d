package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong name or password")
	ErrInvalidToken     = errors.New("invalid token")

	ErrHabitNotFound  = errors.New("habit doesn't exists")
	ErrParentNotFound = errors.New("parent habit doesn't exists")
	ErrOwnerNotFound  = errors.New("habit owner doesn't exists")
	ErrWrongOwner     = errors.New("habit belongs to another user")
	ErrUserHasHabit   = errors.New("user already has habit with such title")

	ErrLogDateNotAllowed  = errors.New("log date in future not allowed")
	ErrLogValueNotAllowed = errors.New("log value not allowed for habit type")

	ErrValidation = errors.New("validation error")
)
