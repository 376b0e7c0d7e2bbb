package services

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/walletapi/internal/common"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLength = 72
	maxNameLength     = 100
	maxEmailLength    = 254
)

// ValidationError carries per-field messages and matches common.ErrorValidation.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %v", common.ErrorValidation, e.Fields.Error())
}

func (e *ValidationError) Unwrap() error {
	return common.ErrorValidation
}

func wrapValidation(err error) error {
	if err == nil {
		return nil
	}
	if fields, ok := err.(validation.Errors); ok {
		return &ValidationError{Fields: fields}
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUserInput is the data needed to register an account. Name is an
// optional profile field.
type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *CreateUserInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
}

func (in CreateUserInput) Validate() error {
	return wrapValidation(validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Length(0, maxNameLength)),
		validation.Field(&in.Email, validation.Required, validation.Length(3, maxEmailLength), is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(minPasswordLength, maxPasswordLength)),
	))
}

// LoginInput is a credential pair presented at login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *LoginInput) normalize() {
	in.Email = normalizeEmail(in.Email)
}

func (in LoginInput) Validate() error {
	return wrapValidation(validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(1, maxPasswordLength)),
	))
}
