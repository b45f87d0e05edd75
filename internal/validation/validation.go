// Package validation enforces the client-side schemas on request payloads.
// A failed check never results in a network call; callers surface the
// field-keyed messages directly on the form.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"parkledger/internal/apierr"
	"parkledger/internal/entities"
)

const maxAmount = 1e9

var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their wire names so messages line up with the form.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if !amountPattern.MatchString(s) {
			return false
		}
		f, err := strconv.ParseFloat(s, 64)
		return err == nil && f > 0 && f < maxAmount
	})

	v.RegisterValidation("pastdate", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if _, err := time.Parse(entities.DateLayout, s); err != nil {
			return false
		}
		return s <= time.Now().Format(entities.DateLayout)
	})

	return v
}

// Check validates a request payload against its schema. It returns nil when
// the payload is valid, otherwise an *apierr.ValidationError with one entry
// per violated field.
func Check(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validating payload: %w", err)
	}
	out := &apierr.ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, apierr.FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return out
}

// messageFor keeps the wording the forms already show for each field.
func messageFor(fe validator.FieldError) string {
	if byTag, ok := fieldMessages[fe.Field()]; ok {
		if msg, ok := byTag[fe.Tag()]; ok {
			return msg
		}
		if msg, ok := byTag[""]; ok {
			return msg
		}
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "email":
		return "Please enter a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

var fieldMessages = map[string]map[string]string{
	"amount": {
		"amount":   "Amount must be greater than 0",
		"required": "Amount is required",
	},
	"date": {
		"pastdate": "Date cannot be in the future",
		"required": "Date is required",
	},
	"licensePlate": {
		"required": "License plate is required",
		"max":      "License plate too long",
	},
	"vehicleType": {
		"oneof":    "Please select a vehicle type",
		"required": "Please select a vehicle type",
	},
	"ownerName": {
		"min":      "Owner name must be at least 2 characters",
		"required": "Owner name must be at least 2 characters",
	},
	"contactNumber": {
		"": "Contact number must be at least 10 digits",
	},
	"slotNumber": {
		"required": "Slot number is required",
	},
	"status": {
		"": "Please select a status",
	},
	"type": {
		"": "Please select a slot type",
	},
	"fullName": {
		"": "Full name must be at least 2 characters",
	},
	"email": {
		"": "Please enter a valid email address",
	},
	"phoneNumber": {
		"": "Phone number must be at least 10 digits",
	},
	"phone": {
		"": "Phone number must be at least 10 digits",
	},
	"address": {
		"": "Please enter a valid address",
	},
	"zipCode": {
		"": "Please enter a valid zip code",
	},
	"state": {
		"": "Please select a state",
	},
	"password": {
		"": "Password must be at least 6 characters",
	},
	"confirmPassword": {
		"eqfield":  "Passwords do not match",
		"required": "Passwords do not match",
	},
	"agreeToTerms": {
		"": "You must agree to the terms and conditions",
	},
	"otp": {
		"": "Please enter a 4-digit code",
	},
	"firstName": {
		"": "First name must be at least 2 characters",
	},
	"lastName": {
		"": "Last name must be at least 2 characters",
	},
}
