package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/bcrypt"

	"parkledger/internal/entities"
	"parkledger/internal/mockapi/store"
)

// seed fills a store with the demo account and a handful of records, so a
// fresh server has something to show.
func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dbPath := fs.String("db", "parkledger.db", "Path to sqlite database file")
	email := fs.String("email", "hannah.turin@email.com", "Demo account email")
	password := fs.String("password", "password", "Demo account password")

	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := store.Open(store.DriverSQLite, *dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing demo password: %w", err)
	}
	user, err := st.CreateUser("Hannah Turin", *email, "+11234567890", string(hash))
	if err != nil {
		return fmt.Errorf("creating demo user: %w", err)
	}
	if err := st.MarkUserVerified(user.ID); err != nil {
		return err
	}

	if _, err := st.UpsertProfile(entities.DefaultProfileID, entities.ProfileRequest{
		FullName:    "Hannah Turin",
		Email:       *email,
		PhoneNumber: "+1 123 456 7890",
		Address:     "123 Mock Street",
		ZipCode:     "10001",
		State:       "New York",
	}); err != nil {
		return fmt.Errorf("seeding profile: %w", err)
	}

	expenses := []entities.ExpenseRequest{
		{Name: "Groceries", Amount: "84.20", Category: "Food", Date: "2026-08-20"},
		{Name: "Monthly metro pass", Amount: "132.00", Category: "Transport", Date: "2026-08-01"},
		{Name: "Coffee with Sam", Amount: "9.50", Category: "Food", Date: "2026-08-24", Note: "catch-up"},
	}
	for _, e := range expenses {
		if _, err := st.CreateExpense(e); err != nil {
			return fmt.Errorf("seeding expense %q: %w", e.Name, err)
		}
	}

	vehicles := []entities.VehicleRequest{
		{LicensePlate: "KDA 381X", VehicleType: "Car", OwnerName: "Hannah Turin", ContactNumber: "+11234567890"},
		{LicensePlate: "MCX 204T", VehicleType: "Motorcycle", OwnerName: "Leo Obura", ContactNumber: "+15550099887"},
	}
	for _, v := range vehicles {
		if _, err := st.CreateVehicle(v); err != nil {
			return fmt.Errorf("seeding vehicle %q: %w", v.LicensePlate, err)
		}
	}

	slots := []entities.ParkingSlotRequest{
		{SlotNumber: "A-001", Status: "Available", Type: "Standard"},
		{SlotNumber: "A-002", Status: "Occupied", Type: "EV Charger"},
		{SlotNumber: "B-001", Status: "Available", Type: "Disabled"},
	}
	for _, s := range slots {
		if _, err := st.CreateParkingSlot(s); err != nil {
			return fmt.Errorf("seeding slot %q: %w", s.SlotNumber, err)
		}
	}

	fmt.Printf("Seeded %s with demo data (login %s)\n", *dbPath, *email)
	return nil
}
