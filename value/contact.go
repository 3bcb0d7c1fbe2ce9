package value

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Email is a normalized, format-checked e-mail address.
type Email struct {
	Address string `json:"address"`
}

// ParseEmail trims and validates an e-mail address.
func ParseEmail(raw string) (Email, error) {
	addr := strings.TrimSpace(raw)
	if addr == "" {
		return Email{}, fmt.Errorf("email: address is required")
	}
	if err := validate.Var(addr, "email"); err != nil {
		return Email{}, fmt.Errorf("email: invalid format: %q", raw)
	}
	return Email{Address: addr}, nil
}

func (e Email) String() string { return e.Address }

var nonDigits = regexp.MustCompile(`\D`)

// Phone is a Brazilian phone number split into area code and local number.
// Accepts 10 or 11 digits after stripping punctuation.
type Phone struct {
	AreaCode string `json:"area_code"`
	Number   string `json:"number"`
}

// ParsePhone strips formatting and validates digit counts.
func ParsePhone(raw string) (Phone, error) {
	digits := nonDigits.ReplaceAllString(raw, "")
	if len(digits) < 10 || len(digits) > 11 {
		return Phone{}, fmt.Errorf("phone: expected 10 or 11 digits, got %d", len(digits))
	}
	area, local := digits[:2], digits[2:]
	if area[0] == '0' {
		return Phone{}, fmt.Errorf("phone: invalid area code %q", area)
	}
	return Phone{AreaCode: area, Number: local}, nil
}

func (p Phone) String() string { return "(" + p.AreaCode + ") " + p.Number }

// Address is a simple postal address. Street and city are mandatory.
type Address struct {
	Street   string `json:"street"`
	Number   string `json:"number"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
}

// NewAddress validates the mandatory address fields.
func NewAddress(street, number, district, city, state, zip string) (Address, error) {
	street = strings.TrimSpace(street)
	city = strings.TrimSpace(city)
	if street == "" || city == "" {
		return Address{}, fmt.Errorf("address: street and city are required")
	}
	return Address{
		Street:   street,
		Number:   strings.TrimSpace(number),
		District: strings.TrimSpace(district),
		City:     city,
		State:    strings.TrimSpace(state),
		ZipCode:  strings.TrimSpace(zip),
	}, nil
}

// CPFHash stores a customer tax id as a salted-free SHA-256 digest plus the
// last two digits for human disambiguation. The raw document never leaves
// the constructor.
type CPFHash struct {
	Digest string `json:"digest"`
	Hint   string `json:"hint"`
}

// HashCPF validates the 11-digit document and hashes it.
func HashCPF(raw string) (CPFHash, error) {
	digits := nonDigits.ReplaceAllString(raw, "")
	if len(digits) != 11 {
		return CPFHash{}, fmt.Errorf("cpf: expected 11 digits, got %d", len(digits))
	}
	sum := sha256.Sum256([]byte(digits))
	return CPFHash{Digest: hex.EncodeToString(sum[:]), Hint: digits[9:]}, nil
}

func (c CPFHash) String() string { return "***" + c.Hint }
