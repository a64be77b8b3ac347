package user_dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

type CreateUserRequest struct {
	Nickname string `json:"nickname" validate:"required,nickval,min=3,max=50"`
	Name     string `json:"name" validate:"max=100"`
	Surname  string `json:"surname" validate:"max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type UpdateUserRequest struct {
	Name    string `json:"name" validate:"max=100"`
	Surname string `json:"surname" validate:"max=100"`
	Email   string `json:"email" validate:"required,email"`
}

type LoginUserRequest struct {
	Nickname string `json:"nickname" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Guests get "guest-" prefixed nicknames at connect time, so registered
// nicknames must not claim that namespace.
var nickRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

func NicknameValidator(fl validator.FieldLevel) bool {
	nick := fl.Field().String()
	if !nickRegex.MatchString(nick) {
		return false
	}
	return !guestNickRegex.MatchString(nick)
}

var guestNickRegex = regexp.MustCompile(`^guest-`)
