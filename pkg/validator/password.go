package validator

import (
	"strconv"
	"strings"
	"unicode"
)

const MinPasswordLength = 8

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "passw0rd": {}, "p@ssw0rd": {},
	"12345678": {}, "123456789": {}, "1234567890": {}, "87654321": {}, "11111111": {},
	"qwertyuiop": {}, "qwerty123": {}, "qwerty12": {}, "1q2w3e4r": {}, "1qaz2wsx": {},
	"iloveyou": {}, "sunshine": {}, "princess": {}, "football": {}, "baseball": {},
	"welcome1": {}, "welcome123": {}, "letmein1": {}, "trustno1": {}, "superman": {},
	"starwars": {}, "whatever": {}, "abcd1234": {}, "aa123456": {},
	"admin123": {}, "administrator": {}, "changeme": {}, "computer": {}, "internet": {},
	"michael1": {}, "jennifer": {}, "charlie1": {}, "dragon12": {}, "monkey12": {},
}

// ValidatePassword applies the baseline strength policy and returns every
// rule the password breaks, in a stable order. An empty result means it passes.
func ValidatePassword(password string) []string {
	var problems []string

	if len([]rune(password)) < MinPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least "+strconv.Itoa(MinPasswordLength)+" characters.")
	}

	if _, ok := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
		problems = append(problems, "This password is too common.")
	}

	if password != "" && isNumeric(password) {
		problems = append(problems, "This password is entirely numeric.")
	}

	return problems
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
