package usecase

import (
	"context"
	"strings"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

type CustomerUsecase struct {
	customers repo.CustomerRepository
}

func NewCustomerUsecase(customers repo.CustomerRepository) *CustomerUsecase {
	return &CustomerUsecase{customers: customers}
}

type CustomerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CustomerListOutput struct {
	Items  []model.Customer `json:"items"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

func (u *CustomerUsecase) List(ctx context.Context, limit int, offset int) (CustomerListOutput, error) {
	if limit == 0 {
		limit = 10
	}
	if limit < 1 || limit > 100 {
		return CustomerListOutput{}, NewValidationError("invalid limit")
	}
	if offset < 0 {
		return CustomerListOutput{}, NewValidationError("invalid offset")
	}

	items, total, err := u.customers.List(ctx, limit, offset)
	if err != nil {
		return CustomerListOutput{}, newStorageError(err)
	}

	return CustomerListOutput{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (u *CustomerUsecase) Get(ctx context.Context, customerID int64) (model.Customer, error) {
	if customerID <= 0 {
		return model.Customer{}, NewValidationError("invalid id")
	}

	c, err := u.customers.FindByID(ctx, customerID)
	if err == repo.ErrNotFound {
		return model.Customer{}, &NotFoundError{Entity: "customer", ID: customerID}
	}
	if err != nil {
		return model.Customer{}, newStorageError(err)
	}
	return c, nil
}

func (u *CustomerUsecase) Create(ctx context.Context, in CustomerInput) (model.Customer, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	if name == "" {
		return model.Customer{}, NewValidationError("name required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return model.Customer{}, NewValidationError("invalid email")
	}

	//メール重複チェック
	if _, err := u.customers.FindByEmail(ctx, email); err == nil {
		return model.Customer{}, NewValidationError("email already in use")
	} else if err != repo.ErrNotFound {
		return model.Customer{}, newStorageError(err)
	}

	c := model.Customer{Name: name, Email: email}
	if err := u.customers.Create(ctx, &c); err != nil {
		return model.Customer{}, newStorageError(err)
	}
	return c, nil
}

func (u *CustomerUsecase) Update(ctx context.Context, customerID int64, in CustomerInput) (model.Customer, error) {
	if customerID <= 0 {
		return model.Customer{}, NewValidationError("invalid id")
	}

	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	if name == "" {
		return model.Customer{}, NewValidationError("name required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return model.Customer{}, NewValidationError("invalid email")
	}

	c, err := u.customers.FindByID(ctx, customerID)
	if err == repo.ErrNotFound {
		return model.Customer{}, &NotFoundError{Entity: "customer", ID: customerID}
	}
	if err != nil {
		return model.Customer{}, newStorageError(err)
	}

	//自分以外が同じメールを使っていたらNG
	if email != c.Email {
		if other, err := u.customers.FindByEmail(ctx, email); err == nil && other.ID != customerID {
			return model.Customer{}, NewValidationError("email already in use")
		} else if err != nil && err != repo.ErrNotFound {
			return model.Customer{}, newStorageError(err)
		}
	}

	c.Name = name
	c.Email = email
	if err := u.customers.Update(ctx, &c); err != nil {
		return model.Customer{}, newStorageError(err)
	}
	return c, nil
}

func (u *CustomerUsecase) Delete(ctx context.Context, customerID int64) error {
	if customerID <= 0 {
		return NewValidationError("invalid id")
	}

	err := u.customers.Delete(ctx, customerID)
	if err == repo.ErrNotFound {
		return &NotFoundError{Entity: "customer", ID: customerID}
	}
	if err != nil {
		return newStorageError(err)
	}
	return nil
}
