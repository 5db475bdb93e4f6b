package repository

import "errors"

var (
	ErrInsufficientStock = errors.New("insufficient stock remaining")
	ErrProductNotFound   = errors.New("product not found")
)
