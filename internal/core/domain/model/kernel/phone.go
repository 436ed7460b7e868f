package kernel

import (
	"fmt"
	"strings"

	"canteen/internal/pkg/errs"
	"canteen/internal/pkg/guard"
)

const phoneCountryCode = "91"

var ErrPhoneIsNotConstructed = errs.NewValueIsRequiredError("Phone must be created via NewPhone")

// Phone is a normalized Indian mobile number in the form +91XXXXXXXXXX.
// It identifies the customer of an order and keys the customer's notifications.
type Phone struct {
	value string
	guard guard.ConstructorGuard
}

// NewPhone strips every non-digit from raw and accepts either a 10 digit mobile number
// starting with 6-9 or the same number prefixed with the 91 country code.
func NewPhone(raw string) (Phone, error) {
	if strings.TrimSpace(raw) == "" {
		return Phone{}, errs.NewValueIsRequiredError("phone")
	}

	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) == 12 && strings.HasPrefix(digits, phoneCountryCode) {
		digits = digits[2:]
	}

	if len(digits) != 10 || !strings.ContainsRune("6789", rune(digits[0])) {
		return Phone{}, errs.NewValueIsInvalidErrorWithCause(
			"phone", fmt.Errorf("%q is not a valid 10-digit mobile number", raw),
		)
	}

	return Phone{value: "+" + phoneCountryCode + digits, guard: guard.NewConstructorGuard()}, nil
}

// MustPhone is NewPhone for fixtures. It panics on error.
func MustPhone(raw string) Phone {
	p, err := NewPhone(raw)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Phone) Validate() error {
	return p.guard.Validate(ErrPhoneIsNotConstructed)
}

func (p Phone) String() string {
	return p.value
}

func (p Phone) IsEqual(other Phone) bool {
	return p.value == other.value
}
