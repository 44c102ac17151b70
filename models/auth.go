package models

import (
	"github.com/thedevsaddam/govalidator"
)

type LoginOpts struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var LoginRules = govalidator.MapData{
	"email":    []string{"required", "email"},
	"password": []string{"required"},
}

type UpdateUserPasswordOpts struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

var UpdateUserPasswordRules = govalidator.MapData{
	"token":    []string{"required"},
	"password": []string{"required"},
}

type SendRememberTokenOpts struct {
	Email string `json:"email"`
}

var SendRememberTokenRules = govalidator.MapData{
	"email": []string{"required"},
}
