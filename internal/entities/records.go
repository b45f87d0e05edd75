package entities

import "time"

// Resource names as they appear in the REST paths.
const (
	ResourceExpenses     = "expenses"
	ResourceVehicles     = "vehicles"
	ResourceParkingSlots = "parkingSlot"
	ResourceProfile      = "profile"
)

// DateLayout is the wire format for expense dates.
const DateLayout = "2006-01-02"

type VehicleType string

const (
	VehicleTypeCar        VehicleType = "Car"
	VehicleTypeMotorcycle VehicleType = "Motorcycle"
	VehicleTypeTruck      VehicleType = "Truck"
	VehicleTypeVan        VehicleType = "Van"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "Available"
	SlotStatusOccupied  SlotStatus = "Occupied"
)

type SlotType string

const (
	SlotTypeStandard  SlotType = "Standard"
	SlotTypeEVCharger SlotType = "EV Charger"
	SlotTypeDisabled  SlotType = "Disabled"
)

// Expense is a single bookkeeping record. Amount stays a decimal string on
// the wire, Date is YYYY-MM-DD. ID and CreatedAt are server-assigned and
// never change after creation.
type Expense struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	Description string    `json:"description,omitempty"`
	Title       string    `json:"title,omitempty"`
	Note        string    `json:"note,omitempty"`
	UserID      string    `json:"userId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Vehicle struct {
	ID            string      `json:"id"`
	LicensePlate  string      `json:"licensePlate"`
	VehicleType   VehicleType `json:"vehicleType"`
	OwnerName     string      `json:"ownerName"`
	ContactNumber string      `json:"contactNumber"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// ParkingSlot's VehicleID is a weak reference: lookup only, never validated
// against the vehicle collection and never cascaded on delete.
type ParkingSlot struct {
	ID         string     `json:"id"`
	SlotNumber string     `json:"slotNumber"`
	Status     SlotStatus `json:"status"`
	Type       SlotType   `json:"type"`
	VehicleID  *string    `json:"vehicleId,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// UserProfile is a singleton per installation, fetched and updated by id "1".
type UserProfile struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
	ZipCode     string `json:"zipCode,omitempty"`
	State       string `json:"state,omitempty"`
}

// DefaultProfileID is the fixed id the client reads and writes.
const DefaultProfileID = "1"

// DefaultProfile is the placeholder served when the profile fetch fails.
func DefaultProfile() UserProfile {
	return UserProfile{
		ID:          DefaultProfileID,
		FullName:    "Hannah Turin (Default)",
		Email:       "hannah.default@example.com",
		PhoneNumber: "+1 123 456 7890",
		Address:     "123 Mock Street",
		ZipCode:     "10001",
		State:       "Mock State",
	}
}
