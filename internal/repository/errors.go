package repository

import "errors"

var (
	ErrVendorNotFound      = errors.New("vendor not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)
