package api

import (
	"math"
	"strings"
)

// Validation messages are part of the wire contract; clients match on them.
const (
	msgUsernameTooShort   = "Username must be at least 3 characters"
	msgEmailInvalid       = "Valid email is required"
	msgPasswordTooShort   = "Password must be at least 6 characters"
	msgCredentialsMissing = "Username and password are required"
	msgNameRequired       = "Product name is required"
	msgPriceRequired      = "Valid price is required"
	msgCategoryRequired   = "Category is required"
	msgDescRequired       = "Description is required"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type productRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// validateRegistration checks registration fields in documented order and
// returns the first failing field's message
func validateRegistration(req *registerRequest) (string, bool) {
	if len(req.Username) < 3 {
		return msgUsernameTooShort, false
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return msgEmailInvalid, false
	}
	if len(req.Password) < 6 {
		return msgPasswordTooShort, false
	}
	return "", true
}

// validateLogin only checks presence; everything else is the store lookup's
// business
func validateLogin(req *loginRequest) (string, bool) {
	if req.Username == "" || req.Password == "" {
		return msgCredentialsMissing, false
	}
	return "", true
}

// validateProduct checks product fields in documented order
func validateProduct(req *productRequest) (string, bool) {
	if strings.TrimSpace(req.Name) == "" {
		return msgNameRequired, false
	}
	if req.Price <= 0 {
		return msgPriceRequired, false
	}
	if strings.TrimSpace(req.Category) == "" {
		return msgCategoryRequired, false
	}
	if strings.TrimSpace(req.Description) == "" {
		return msgDescRequired, false
	}
	return "", true
}

// roundPrice normalizes a price to two-decimal precision before it is stored
func roundPrice(price float64) float64 {
	return math.Round(price*100) / 100
}

// fields converts a validated request into the mutable product subset
func (req *productRequest) fields() ProductFields {
	return ProductFields{
		Name:        strings.TrimSpace(req.Name),
		Price:       roundPrice(req.Price),
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
	}
}
