package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkledger/internal/apierr"
	"parkledger/internal/entities"
)

func validExpense() entities.ExpenseRequest {
	return entities.ExpenseRequest{
		Name:     "Groceries",
		Amount:   "84.20",
		Category: "Food",
		Date:     time.Now().Format(entities.DateLayout),
	}
}

func fieldErr(t *testing.T, err error) *apierr.ValidationError {
	t.Helper()
	var verr *apierr.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr
}

func TestValidExpensePasses(t *testing.T) {
	assert.NoError(t, Check(validExpense()))
}

func TestExpenseSingleRuleViolations(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format(entities.DateLayout)

	cases := []struct {
		name   string
		mutate func(*entities.ExpenseRequest)
		field  string
	}{
		{"name too short", func(e *entities.ExpenseRequest) { e.Name = "x" }, "name"},
		{"name too long", func(e *entities.ExpenseRequest) { e.Name = strings.Repeat("a", 101) }, "name"},
		{"amount zero", func(e *entities.ExpenseRequest) { e.Amount = "0" }, "amount"},
		{"amount negative", func(e *entities.ExpenseRequest) { e.Amount = "-5" }, "amount"},
		{"amount too large", func(e *entities.ExpenseRequest) { e.Amount = "1000000000" }, "amount"},
		{"amount not a number", func(e *entities.ExpenseRequest) { e.Amount = "12abc" }, "amount"},
		{"category too short", func(e *entities.ExpenseRequest) { e.Category = "x" }, "category"},
		{"date tomorrow", func(e *entities.ExpenseRequest) { e.Date = tomorrow }, "date"},
		{"date malformed", func(e *entities.ExpenseRequest) { e.Date = "24-08-2026" }, "date"},
		{"date missing", func(e *entities.ExpenseRequest) { e.Date = "" }, "date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validExpense()
			tc.mutate(&req)
			verr := fieldErr(t, Check(req))
			assert.NotEmpty(t, verr.FieldMessage(tc.field), "expected a message for field %q, got %v", tc.field, verr)
		})
	}
}

func TestExpenseBoundaryValuesPass(t *testing.T) {
	req := validExpense()
	req.Name = "ab"
	req.Category = strings.Repeat("c", 50)
	req.Amount = "999999999.99"
	assert.NoError(t, Check(req))
}

func TestVehicleSchema(t *testing.T) {
	valid := entities.VehicleRequest{
		LicensePlate:  "KDA 381X",
		VehicleType:   "Car",
		OwnerName:     "Hannah Turin",
		ContactNumber: "+11234567890",
	}
	assert.NoError(t, Check(valid))

	bad := valid
	bad.LicensePlate = strings.Repeat("Z", 21)
	verr := fieldErr(t, Check(bad))
	assert.Equal(t, "License plate too long", verr.FieldMessage("licensePlate"))

	bad = valid
	bad.VehicleType = "Bicycle"
	verr = fieldErr(t, Check(bad))
	assert.Equal(t, "Please select a vehicle type", verr.FieldMessage("vehicleType"))

	bad = valid
	bad.ContactNumber = "12345"
	verr = fieldErr(t, Check(bad))
	assert.Equal(t, "Contact number must be at least 10 digits", verr.FieldMessage("contactNumber"))
}

func TestParkingSlotSchema(t *testing.T) {
	valid := entities.ParkingSlotRequest{SlotNumber: "A-001", Status: "Available", Type: "EV Charger"}
	assert.NoError(t, Check(valid))

	bad := valid
	bad.SlotNumber = ""
	verr := fieldErr(t, Check(bad))
	assert.Equal(t, "Slot number is required", verr.FieldMessage("slotNumber"))

	bad = valid
	bad.Status = "Reserved"
	verr = fieldErr(t, Check(bad))
	assert.Equal(t, "Please select a status", verr.FieldMessage("status"))

	bad = valid
	bad.Type = "Premium"
	verr = fieldErr(t, Check(bad))
	assert.Equal(t, "Please select a slot type", verr.FieldMessage("type"))
}

func TestRegisterSchema(t *testing.T) {
	valid := entities.RegisterRequest{
		FirstName:       "Hannah",
		LastName:        "Turin",
		Email:           "hannah.turin@email.com",
		Phone:           "+11234567890",
		Password:        "password",
		ConfirmPassword: "password",
		AgreeToTerms:    true,
	}
	assert.NoError(t, Check(valid))

	bad := valid
	bad.ConfirmPassword = "different"
	verr := fieldErr(t, Check(bad))
	assert.Equal(t, "Passwords do not match", verr.FieldMessage("confirmPassword"))

	bad = valid
	bad.AgreeToTerms = false
	verr = fieldErr(t, Check(bad))
	assert.Equal(t, "You must agree to the terms and conditions", verr.FieldMessage("agreeToTerms"))
}

func TestLoginAndOTPSchemas(t *testing.T) {
	assert.NoError(t, Check(entities.LoginRequest{Email: "a@b.com", Password: "secret1"}))

	verr := fieldErr(t, Check(entities.LoginRequest{Email: "not-an-email", Password: "secret1"}))
	assert.Equal(t, "Please enter a valid email address", verr.FieldMessage("email"))

	verr = fieldErr(t, Check(entities.LoginRequest{Email: "a@b.com", Password: "short"}))
	assert.Equal(t, "Password must be at least 6 characters", verr.FieldMessage("password"))

	assert.NoError(t, Check(entities.VerifyOTPRequest{Phone: "+11234567890", OTP: "1234"}))
	verr = fieldErr(t, Check(entities.VerifyOTPRequest{Phone: "+11234567890", OTP: "12"}))
	assert.Equal(t, "Please enter a 4-digit code", verr.FieldMessage("otp"))
}

func TestMultipleViolationsReportEveryField(t *testing.T) {
	req := entities.ExpenseRequest{Name: "x", Amount: "0", Category: "y", Date: "bad"}
	verr := fieldErr(t, Check(req))
	assert.Len(t, verr.Fields, 4)
	for _, field := range []string{"name", "amount", "category", "date"} {
		assert.NotEmpty(t, verr.FieldMessage(field))
	}
}

func TestValidationErrorIsTyped(t *testing.T) {
	err := Check(entities.ExpenseRequest{})
	var verr *apierr.ValidationError
	assert.True(t, errors.As(err, &verr))
}
