package matching

import (
	"errors"
	"fmt"
	"strings"

	"lukechampine.com/uint128"
)

const (
	// UintPrecision is precision of decimal places for Uint.
	UintPrecision = 1_000_000_000_000
	// UintComma is the amount of zeros in UintPrecision.
	UintComma = 12
)

// ErrInvalidNumber is returned when a decimal number can not be parsed.
var ErrInvalidNumber = errors.New("invalid decimal number")

// Uint is a fixed point unsigned number with UintComma decimal places.
type Uint struct {
	v uint128.Uint128
}

func NewZeroUint() Uint {
	return Uint{}
}

func NewUint(u uint64) Uint {
	return Uint{v: uint128.From64(u)}
}

func NewUintFromStr(v string) (Uint, error) {
	if v == "" {
		return NewZeroUint(), nil
	}

	u, err := uint128.FromString(v)
	if err != nil {
		return Uint{}, err
	}

	return Uint{
		v: u,
	}, nil
}

// NewUintFromFloatString converts decimal number like "101.25" into Uint shifted by UintPrecision.
func NewUintFromFloatString(number string) (Uint, error) {
	integer, decimal := takePartsFromFloat(number)
	resultUint := NewZeroUint()

	// number is integer return its uint form with
	if decimal == "" {
		integer = fmt.Sprintf("%s%s", integer, strings.Repeat("0", UintComma))

		return NewUintFromStr(integer)
	}

	// add integer part of number
	if integer != "0" && integer != "" {
		uintFromStr, err := NewUintFromStr(fmt.Sprintf("%s%s", integer, strings.Repeat("0", UintComma)))
		if err != nil {
			return Uint{}, err
		}

		resultUint = resultUint.Add(uintFromStr)
	}

	// if number len after "." more than comma, truncate it
	if len(decimal) > UintComma {
		decimal = decimal[:UintComma]
	}

	// if number len after "." less than comma, supplement it
	if len(decimal) < UintComma {
		decimal = fmt.Sprintf("%s%s", decimal, strings.Repeat("0", UintComma-len(decimal)))
	}

	// add decimal part of number
	uintFromStr, err := NewUintFromStr(removeLeadingZerosFromStr(decimal))
	if err != nil {
		return Uint{}, err
	}

	resultUint = resultUint.Add(uintFromStr)

	return resultUint, nil
}

// ParseUintBytes converts decimal number like "101.25" into Uint without allocations.
// Digits after UintComma decimal places are truncated.
func ParseUintBytes(b []byte) (Uint, error) {
	if len(b) == 0 {
		return Uint{}, ErrInvalidNumber
	}

	var integer, fraction uint64
	i := 0
	for ; i < len(b) && b[i] != '.'; i++ {
		c := b[i] - '0'
		if c > 9 {
			return Uint{}, ErrInvalidNumber
		}
		if integer > (1<<64-1-uint64(c))/10 {
			return Uint{}, ErrInvalidNumber
		}
		integer = integer*10 + uint64(c)
	}

	scale := uint64(UintPrecision)
	if i < len(b) {
		// skip '.'
		for i++; i < len(b); i++ {
			c := b[i] - '0'
			if c > 9 {
				return Uint{}, ErrInvalidNumber
			}
			if scale > 1 {
				scale /= 10
				fraction += uint64(c) * scale
			}
		}
	}

	return Uint{v: uint128.From64(integer).Mul64(UintPrecision).Add64(fraction)}, nil
}

// ToFloatString converts Uint into decimal number without trailing zeros.
func (u Uint) ToFloatString() string {
	integerPart, remainderPart := u.QuoRem(NewUint(UintPrecision))

	resultStr := integerPart.String()

	if !remainderPart.IsZero() {
		remainderStr := remainderPart.String()

		if len(remainderStr) < UintComma {
			remainderStr = addLeadingZerosToStr(remainderStr)
		}

		resultStr = removeTrailingZerosFromFloatStr(fmt.Sprintf("%s.%s", resultStr, remainderStr))
	}

	return resultStr
}

func (u Uint) Add(v Uint) Uint {
	u.v = u.v.Add(v.v)
	return u
}

func (u Uint) Sub(v Uint) Uint {
	u.v = u.v.Sub(v.v)
	return u
}

func (u Uint) Mul(v Uint) Uint {
	u.v = u.v.Mul(v.v)
	return u
}

func (u Uint) Mul64(v uint64) Uint {
	u.v = u.v.Mul64(v)
	return u
}

func (u Uint) QuoRem(v Uint) (Uint, Uint) {
	var remainder uint128.Uint128
	u.v, remainder = u.v.QuoRem(v.v)
	return u, Uint{v: remainder}
}

func (u Uint) Div64(v uint64) Uint {
	u.v = u.v.Div64(v)
	return u
}

func (u Uint) Cmp(v Uint) int {
	return u.v.Cmp(v.v)
}

func (u Uint) IsZero() bool {
	return u.v.IsZero()
}

func (u Uint) Equals(v Uint) bool {
	return u.v.Equals(v.v)
}

func (u Uint) LessThan(v Uint) bool {
	return u.v.Cmp(v.v) < 0
}

func (u Uint) LessThanOrEqualTo(v Uint) bool {
	return u.v.Cmp(v.v) <= 0
}

func (u Uint) GreaterThan(v Uint) bool {
	return u.v.Cmp(v.v) > 0
}

func (u Uint) GreaterThanOrEqualTo(v Uint) bool {
	return u.v.Cmp(v.v) >= 0
}

// Uint64 returns the lower 64 bits of the raw value.
func (u Uint) Uint64() uint64 {
	return u.v.Lo
}

func (u Uint) String() string {
	return u.v.String()
}

func removeTrailingZerosFromFloatStr(number string) string {
	number = strings.TrimRight(number, "0")
	if number[len(number)-1:] == "." {
		return number[:len(number)-1]
	}

	return number
}

func removeLeadingZerosFromStr(number string) string {
	return strings.TrimLeft(number, "0")
}

func addLeadingZerosToStr(number string) string {
	if len(number) > UintComma {
		panic("number len more than comma value")
	}

	for len(number) < UintComma {
		number = fmt.Sprintf("0%s", number)
	}

	return number
}

func takePartsFromFloat(number string) (string, string) {
	numberParts := strings.Split(number, ".")

	if len(numberParts) == 1 {
		return numberParts[0], ""
	}

	return numberParts[0], numberParts[1]
}
