// Package otp issues the fixed-length numeric codes used to confirm
// registration.
package otp

import (
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// Issuer produces six-digit one-time codes. Each code is derived from a
// freshly generated random secret which is then discarded; callers compare
// the returned code by equality against whatever the user submits.
type Issuer struct{}

// Issue returns a new six-digit numeric code.
func (Issuer) Issue() (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "TaskManager",
		AccountName: "registration",
	})
	if err != nil {
		return "", fmt.Errorf("generating OTP secret: %v", err)
	}

	opts := totp.ValidateOpts{
		Period:    600,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
	code, err := totp.GenerateCodeCustom(key.Secret(), time.Now(), opts)
	if err != nil {
		return "", fmt.Errorf("generating OTP code: %v", err)
	}
	return code, nil
}
