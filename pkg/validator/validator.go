package validator

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

const dateLayout = "2006-01-02"

var eventTypes = map[string]bool{
	"vacation": true,
	"date":     true,
	"trip":     true,
	"event":    true,
}

func ValidateRegister(email, displayName, password string) ValidationErrors {
	errs := make(ValidationErrors)

	validateEmail(email, "email", errs)

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		errs.Add("display_name", "Display name is required")
	} else if len(displayName) < 2 {
		errs.Add("display_name", "Display name must be at least 2 characters")
	} else if len(displayName) > 100 {
		errs.Add("display_name", "Display name is too long")
	}

	validatePassword(password, errs)

	return errs
}

func ValidateLogin(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	validateEmail(email, "email", errs)

	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidatePartnerEmail(email string) ValidationErrors {
	errs := make(ValidationErrors)
	validateEmail(email, "partner_email", errs)
	return errs
}

func ValidateEvent(title, date, eventType, color string) ValidationErrors {
	errs := make(ValidationErrors)

	validateTitle(title, errs)

	if date == "" {
		errs.Add("date", "Date is required")
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		errs.Add("date", "Date must be in YYYY-MM-DD format")
	}

	if !eventTypes[eventType] {
		errs.Add("type", "Type must be vacation, date, trip, or event")
	}

	validateColor(color, errs)

	return errs
}

func ValidateGoal(title, color string, progress int, targetDate string) ValidationErrors {
	errs := make(ValidationErrors)

	validateTitle(title, errs)
	validateColor(color, errs)

	if progress < 0 || progress > 100 {
		errs.Add("progress", "Progress must be between 0 and 100")
	}

	if targetDate != "" {
		if _, err := time.Parse(dateLayout, targetDate); err != nil {
			errs.Add("target_date", "Target date must be in YYYY-MM-DD format")
		}
	}

	return errs
}

func ValidateReminder(title, dueDate string) ValidationErrors {
	errs := make(ValidationErrors)

	validateTitle(title, errs)

	if dueDate != "" {
		if _, err := time.Parse(dateLayout, dueDate); err != nil {
			errs.Add("due_date", "Due date must be in YYYY-MM-DD format")
		}
	}

	return errs
}

func validateEmail(email, field string, errs ValidationErrors) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add(field, "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add(field, "Invalid email address")
	}
}

func validateTitle(title string, errs ValidationErrors) {
	title = strings.TrimSpace(title)
	if title == "" {
		errs.Add("title", "Title is required")
	} else if len(title) > 200 {
		errs.Add("title", "Title is too long")
	}
}

func validateColor(color string, errs ValidationErrors) {
	if strings.TrimSpace(color) == "" {
		errs.Add("color", "Color is required")
	}
}

func validatePassword(password string, errs ValidationErrors) {
	if len(password) < 8 {
		errs.Add("password", "Password must be at least 8 characters")
		return
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	missing := []string{}
	if !hasUpper {
		missing = append(missing, "one uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "one lowercase letter")
	}
	if !hasDigit {
		missing = append(missing, "one number")
	}

	if len(missing) > 0 {
		errs.Add("password", fmt.Sprintf("Password must contain at least %s", strings.Join(missing, ", ")))
	}
}
