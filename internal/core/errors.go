package core

import "errors"

var (
	ErrUnknownCategory      = errors.New("unknown category")
	ErrItemNotFound         = errors.New("item not found")
	ErrBalanceItemProtected = errors.New("balance item cannot be deleted or renamed")
	ErrMissingField         = errors.New("missing required field")
	ErrUnknownField         = errors.New("unknown field for category")
)
