// Package http provides the JSON API server and its handlers.
//
// This file implements request decoding and validation. Bodies are JSON only;
// struct rules are checked with go-playground/validator and failures come
// back as core.ValidationError so the handlers map them like domain errors.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"shoplist/internal/core"
)

const maxBodyBytes = 1 << 20

var errMalformedBody = errors.New("malformed request body")

// amountText holds an amount as sent by the client. Both JSON strings
// ("12,50") and numbers (12.5) are accepted and parsed with core.ParseAmount.
type amountText string

func (a *amountText) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount must be a string or a number")
	}
	*a = amountText(n.String())
	return nil
}

// decimal parses the amount. An absent amount is zero; a malformed one is a
// validation error on field.
func (a amountText) decimal(field string) (decimal.Decimal, error) {
	if a == "" {
		return decimal.Zero, nil
	}
	d, err := core.ParseAmount(string(a))
	if err != nil {
		return decimal.Zero, &core.ValidationError{Field: field, Err: err}
	}
	return d, nil
}

type createListRequest struct {
	Name     string     `json:"name" validate:"required,max=200"`
	Category string     `json:"category" validate:"max=50"`
	Budget   amountText `json:"total_budget" validate:"omitempty,amount"`
	Note     string     `json:"note" validate:"max=1000"`
}

type addItemRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	AutoCategorize bool   `json:"auto_categorize"`
}

type patchItemRequest struct {
	Quantity  *int        `json:"quantity" validate:"omitempty,min=1"`
	UnitPrice *amountText `json:"unit_price" validate:"omitempty,amount"`
	Category  *string     `json:"category" validate:"omitempty,max=50"`
}

func (p patchItemRequest) empty() bool {
	return p.Quantity == nil && p.UnitPrice == nil && p.Category == nil
}

// newValidator returns a validator that reports JSON field names and knows
// the "amount" rule.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		_, err := core.ParseAmount(fl.Field().String())
		return err == nil
	})
	return v
}

// decodeJSON reads exactly one JSON value from the body into dst and
// validates it. Decoding problems wrap errMalformedBody; rule violations are
// returned as *core.ValidationError.
func decodeJSON(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: body exceeds %d bytes", errMalformedBody, tooLarge.Limit)
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errMalformedBody)
		}
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data", errMalformedBody)
	}
	return validationError(v.Struct(dst))
}

// validationError converts the first validator failure into a domain error.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	var cause error
	switch fe.Tag() {
	case "required":
		cause = core.ErrEmptyName
		if fe.Field() != "name" {
			cause = errors.New("is required")
		}
	case "amount":
		cause = core.ErrInvalidAmount
	case "min":
		cause = fmt.Errorf("must be at least %s", fe.Param())
		if fe.Field() == "quantity" {
			cause = core.ErrInvalidQuantity
		}
	case "max":
		cause = fmt.Errorf("must be at most %s characters", fe.Param())
	default:
		cause = fmt.Errorf("failed %s check", fe.Tag())
	}
	return &core.ValidationError{Field: fe.Field(), Err: cause}
}
