package entities

// Request payloads sent to the mock API. The validate tags are the client-side
// schemas; see internal/validation for how they are enforced before any
// network call.

type ExpenseRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Amount      string `json:"amount" validate:"required,amount"`
	Category    string `json:"category" validate:"required,min=2,max=50"`
	Date        string `json:"date" validate:"required,pastdate"`
	Description string `json:"description,omitempty" validate:"omitempty,max=250"`
	Title       string `json:"title,omitempty" validate:"omitempty,max=100"`
	Note        string `json:"note,omitempty" validate:"omitempty,max=250"`
	UserID      string `json:"userId,omitempty"`
}

type VehicleRequest struct {
	LicensePlate  string `json:"licensePlate" validate:"required,max=20"`
	VehicleType   string `json:"vehicleType" validate:"required,oneof=Car Motorcycle Truck Van"`
	OwnerName     string `json:"ownerName" validate:"required,min=2"`
	ContactNumber string `json:"contactNumber" validate:"required,min=10"`
}

type ParkingSlotRequest struct {
	SlotNumber string  `json:"slotNumber" validate:"required"`
	Status     string  `json:"status" validate:"required,oneof=Available Occupied"`
	Type       string  `json:"type" validate:"required,oneof='Standard' 'EV Charger' 'Disabled'"`
	VehicleID  *string `json:"vehicleId,omitempty"`
}

type ProfileRequest struct {
	FullName    string `json:"fullName" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required,min=10"`
	Address     string `json:"address" validate:"required,min=5"`
	ZipCode     string `json:"zipCode" validate:"required,min=5"`
	State       string `json:"state" validate:"required"`
}
