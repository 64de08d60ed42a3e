package services

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"edustaff-backend/internal/apperr"
	"edustaff-backend/internal/timeutil"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,13}$`)

const minPasswordLength = 6

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.Validationf("%s is required", field)
	}
	return nil
}

func validateEmail(email string) error {
	if err := required("email", email); err != nil {
		return err
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != strings.TrimSpace(email) {
		return apperr.Validationf("email %q is not a valid address", email)
	}
	return nil
}

func validatePhone(phone string) error {
	if err := required("phn", phone); err != nil {
		return err
	}
	if !phonePattern.MatchString(strings.TrimSpace(phone)) {
		return apperr.Validationf("phn must be 10 to 13 digits")
	}
	return nil
}

// parseDOB accepts YYYY-MM-DD dates strictly in the past.
func parseDOB(value string, now time.Time) (time.Time, error) {
	if err := required("dob", value); err != nil {
		return time.Time{}, err
	}
	dob, err := timeutil.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, apperr.Validationf("dob must be YYYY-MM-DD")
	}
	if !dob.Before(timeutil.StartOfDay(now)) {
		return time.Time{}, apperr.Validationf("dob must be in the past")
	}
	return dob, nil
}
