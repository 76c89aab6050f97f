package utils

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

// FallbackPin is the fixed value a chairperson reset restores. It must be
// redelivered out of band and changed on first login.
const FallbackPin = "0000"

func IsValidPin(pin string) bool {
	return pinPattern.MatchString(pin)
}

func HashPin(pin string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func CheckPin(hashed, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pin)) == nil
}
