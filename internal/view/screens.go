package view

import (
	"time"

	"parkledger/internal/entities"
)

// HomeExpensesStaleTime is the tighter stale window the home screen registers
// its expense list query with; the other screens keep the cache default.
const HomeExpensesStaleTime = 2 * time.Minute

// Preconfigured views matching the search fields each screen exposes.

// Expenses searches name and category.
func Expenses() *List[entities.Expense] {
	return NewList(DefaultPageSize,
		func(e entities.Expense) string { return e.Name },
		func(e entities.Expense) string { return e.Category },
	)
}

// Vehicles searches license plate and owner name.
func Vehicles() *List[entities.Vehicle] {
	return NewList(DefaultPageSize,
		func(v entities.Vehicle) string { return v.LicensePlate },
		func(v entities.Vehicle) string { return v.OwnerName },
	)
}

// ParkingSlots searches slot number.
func ParkingSlots() *List[entities.ParkingSlot] {
	return NewList(DefaultPageSize,
		func(s entities.ParkingSlot) string { return s.SlotNumber },
	)
}

// Common sort and filter accessors for the slot screen.

func SlotNumber(s entities.ParkingSlot) string { return s.SlotNumber }
func SlotStatus(s entities.ParkingSlot) string { return string(s.Status) }
func SlotType(s entities.ParkingSlot) string   { return string(s.Type) }

func VehiclePlate(v entities.Vehicle) string { return v.LicensePlate }
func VehicleOwner(v entities.Vehicle) string { return v.OwnerName }
func VehicleKind(v entities.Vehicle) string  { return string(v.VehicleType) }

func ExpenseName(e entities.Expense) string     { return e.Name }
func ExpenseDate(e entities.Expense) string     { return e.Date }
func ExpenseCategory(e entities.Expense) string { return e.Category }
