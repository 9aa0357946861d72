package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/retailerp/pkg/db/pagination"
)

type ListCustomerRequest struct {
	pagination.Pagination
	Name  string
	Phone string
	Email string
}

type ListCustomerFilter struct {
	Name  string
	Phone string
	Email string
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(ctx context.Context, id string) (Customer, error)
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
