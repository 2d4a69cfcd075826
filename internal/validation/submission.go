package validation

import (
	"fmt"
	"net/mail"
	"unicode/utf8"
)

// Границы длины полей credential submission
const (
	// MinUsernameLen минимальная длина username
	MinUsernameLen = 3
	// MaxUsernameLen максимальная длина username
	MaxUsernameLen = 256
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 8
	// MaxPasswordLen максимальная длина пароля
	MaxPasswordLen = 256
)

// Errors накапливает нарушения структурной валидации:
// отображение имени поля на список сообщений.
// Пустая map означает, что submission валиден.
type Errors map[string][]string

// Add добавляет сообщение об ошибке для поля
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// ValidateRegistration проверяет структуру registration submission.
// Проверяются все поля независимо, без short-circuit:
// каждое нарушение попадает в результат.
// Композиция пароля (цифры, регистры и т.д.) проверяется credential store,
// здесь только форма.
func ValidateRegistration(email, username, password string) Errors {
	errs := Errors{}
	validateEmail(errs, "Email", email)
	validateUsername(errs, "Username", username)
	validatePassword(errs, "Password", password)
	return errs
}

// ValidateLogin проверяет структуру login submission.
// Ключ поля username — "UserName", как в login запросе
func ValidateLogin(userName, password string) Errors {
	errs := Errors{}
	validateUsername(errs, "UserName", userName)
	validatePassword(errs, "Password", password)
	return errs
}

func validateUsername(errs Errors, field, username string) {
	if username == "" {
		errs.Add(field, "Username is required")
		return
	}
	// Границы считаются в символах, не в байтах
	if n := utf8.RuneCountInString(username); n < MinUsernameLen || n > MaxUsernameLen {
		errs.Add(field, lengthMessage(field, MinUsernameLen, MaxUsernameLen))
	}
}

func validatePassword(errs Errors, field, password string) {
	if password == "" {
		errs.Add(field, "Password is required")
		return
	}
	if n := utf8.RuneCountInString(password); n < MinPasswordLen || n > MaxPasswordLen {
		errs.Add(field, lengthMessage(field, MinPasswordLen, MaxPasswordLen))
	}
}

func validateEmail(errs Errors, field, email string) {
	if email == "" {
		errs.Add(field, "Email is required")
		return
	}
	// ParseAddress принимает формы с display name ("A <a@b>"),
	// для API принимаем только голый адрес
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		errs.Add(field, "The Email field is not a valid e-mail address.")
	}
}

func lengthMessage(field string, minLen, maxLen int) string {
	return fmt.Sprintf(
		"The field %s must be a string with a minimum length of %d and a maximum length of %d.",
		field, minLen, maxLen,
	)
}
