package validator

import (
	"regexp"
	"strings"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func ValidateRegister(username, password, firstName, lastName, phone string) ValidationErrors {
	errs := make(ValidationErrors)

	// Username
	username = strings.TrimSpace(username)
	if username == "" {
		errs.Add("username", "Username is required")
	} else if len(username) < 3 {
		errs.Add("username", "Username must be at least 3 characters")
	} else if len(username) > 50 {
		errs.Add("username", "Username is too long")
	} else if !usernameRegex.MatchString(username) {
		errs.Add("username", "Username can only contain letters, numbers, _ and -")
	}

	// Password
	if len(password) < 8 {
		errs.Add("password", "Password must be at least 8 characters")
	}

	// Names
	if strings.TrimSpace(firstName) == "" {
		errs.Add("first_name", "First name is required")
	} else if len(firstName) > 100 {
		errs.Add("first_name", "First name is too long")
	}
	if strings.TrimSpace(lastName) == "" {
		errs.Add("last_name", "Last name is required")
	} else if len(lastName) > 100 {
		errs.Add("last_name", "Last name is too long")
	}

	// Phone
	if strings.TrimSpace(phone) == "" {
		errs.Add("phone", "Phone is required")
	} else if len(phone) > 30 {
		errs.Add("phone", "Phone is too long")
	}

	return errs
}

func ValidateLogin(username, password string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(username) == "" {
		errs.Add("username", "Username is required")
	}
	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidateSendMessage(toUsername, body string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(toUsername) == "" {
		errs.Add("to_username", "Recipient is required")
	}

	if strings.TrimSpace(body) == "" {
		errs.Add("body", "Message body is required")
	} else if len(body) > 10000 {
		errs.Add("body", "Message body is too long")
	}

	return errs
}
