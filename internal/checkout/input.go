package checkout

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/herbalstore/storefront-backend/pkg/errors"
)

var (
	thaiPhonePattern  = regexp.MustCompile(`^0[0-9]{8,9}$`)
	postalCodePattern = regexp.MustCompile(`^[0-9]{5}$`)
	phoneSeparators   = strings.NewReplacer(" ", "", "-", "")
	validate          = newValidator()
)

// SubmitInput is the contact and payment form posted at checkout.
type SubmitInput struct {
	CustomerName  string `json:"customerName" validate:"required,min=2,max=120"`
	Phone         string `json:"phone" validate:"required,thphone"`
	Email         string `json:"email" validate:"omitempty,email,max=254"`
	AddressLine   string `json:"addressLine" validate:"required,min=5,max=300"`
	District      string `json:"district" validate:"omitempty,max=120"`
	Province      string `json:"province" validate:"required,max=120"`
	PostalCode    string `json:"postalCode" validate:"required,postalcode_th"`
	Note          string `json:"note" validate:"omitempty,max=500"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=promptpay bank_transfer cod"`

	// RequestID is stamped on the outbox event for tracing.
	RequestID string `json:"-" validate:"-"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("thphone", func(fl validator.FieldLevel) bool {
		return thaiPhonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("postalcode_th", func(fl validator.FieldLevel) bool {
		return postalCodePattern.MatchString(fl.Field().String())
	})
	return v
}

func (in *SubmitInput) normalize() {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Phone = phoneSeparators.Replace(strings.TrimSpace(in.Phone))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.AddressLine = strings.TrimSpace(in.AddressLine)
	in.District = strings.TrimSpace(in.District)
	in.Province = strings.TrimSpace(in.Province)
	in.PostalCode = strings.TrimSpace(in.PostalCode)
	in.Note = strings.TrimSpace(in.Note)
	in.PaymentMethod = strings.ToLower(strings.TrimSpace(in.PaymentMethod))
}

// Validate normalizes the input in place and checks every field.
func (in *SubmitInput) Validate() error {
	in.normalize()
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		details[fe.Field()] = fieldMessage(fe)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "please check your contact details").WithDetails(details)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	case "thphone":
		return "must be a Thai phone number such as 0812345678"
	case "postalcode_th":
		return "must be a 5-digit postal code"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	}
	return "is invalid"
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
