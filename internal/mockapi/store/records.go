package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"parkledger/internal/entities"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad id %q", ErrNotFound, id)
	}
	return n, nil
}

func wrapScan(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// ListExpenses returns all expenses, oldest first. Clients paginate locally,
// so insertion order is the collection order.
func (s *Store) ListExpenses() ([]entities.Expense, error) {
	rows, err := s.conn.Query(
		`SELECT id, name, amount, category, date, description, title, note, user_id, created_at
		 FROM expenses ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entities.Expense
	for rows.Next() {
		var e entities.Expense
		var id int64
		if err := rows.Scan(&id, &e.Name, &e.Amount, &e.Category, &e.Date,
			&e.Description, &e.Title, &e.Note, &e.UserID, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ID = strconv.FormatInt(id, 10)
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetExpense retrieves a single expense by id.
func (s *Store) GetExpense(id string) (entities.Expense, error) {
	n, err := parseID(id)
	if err != nil {
		return entities.Expense{}, err
	}
	var e entities.Expense
	err = s.conn.QueryRow(
		`SELECT name, amount, category, date, description, title, note, user_id, created_at
		 FROM expenses WHERE id = $1`, n).
		Scan(&e.Name, &e.Amount, &e.Category, &e.Date, &e.Description, &e.Title, &e.Note, &e.UserID, &e.CreatedAt)
	if err != nil {
		return entities.Expense{}, wrapScan(err)
	}
	e.ID = id
	return e, nil
}

// CreateExpense inserts a new expense and returns it with the assigned id
// and creation timestamp.
func (s *Store) CreateExpense(req entities.ExpenseRequest) (entities.Expense, error) {
	now := time.Now().UTC()
	id, err := s.insertID(
		`INSERT INTO expenses (name, amount, category, date, description, title, note, user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		req.Name, req.Amount, req.Category, req.Date, req.Description, req.Title, req.Note, req.UserID, now)
	if err != nil {
		return entities.Expense{}, err
	}
	return entities.Expense{
		ID:          strconv.FormatInt(id, 10),
		Name:        req.Name,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        req.Date,
		Description: req.Description,
		Title:       req.Title,
		Note:        req.Note,
		UserID:      req.UserID,
		CreatedAt:   now,
	}, nil
}

// UpdateExpense replaces the mutable fields of an expense. Id and created_at
// stay as they were.
func (s *Store) UpdateExpense(id string, req entities.ExpenseRequest) (entities.Expense, error) {
	n, err := parseID(id)
	if err != nil {
		return entities.Expense{}, err
	}
	result, err := s.conn.Exec(
		`UPDATE expenses SET name = $1, amount = $2, category = $3, date = $4,
		 description = $5, title = $6, note = $7 WHERE id = $8`,
		req.Name, req.Amount, req.Category, req.Date, req.Description, req.Title, req.Note, n)
	if err != nil {
		return entities.Expense{}, err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return entities.Expense{}, ErrNotFound
	}
	return s.GetExpense(id)
}

// DeleteExpense removes an expense and returns the deleted record.
func (s *Store) DeleteExpense(id string) (entities.Expense, error) {
	e, err := s.GetExpense(id)
	if err != nil {
		return entities.Expense{}, err
	}
	n, _ := parseID(id)
	if _, err := s.conn.Exec(`DELETE FROM expenses WHERE id = $1`, n); err != nil {
		return entities.Expense{}, err
	}
	return e, nil
}

func (s *Store) ListVehicles() ([]entities.Vehicle, error) {
	rows, err := s.conn.Query(
		`SELECT id, license_plate, vehicle_type, owner_name, contact_number, created_at
		 FROM vehicles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entities.Vehicle
	for rows.Next() {
		var v entities.Vehicle
		var id int64
		if err := rows.Scan(&id, &v.LicensePlate, &v.VehicleType, &v.OwnerName, &v.ContactNumber, &v.CreatedAt); err != nil {
			return nil, err
		}
		v.ID = strconv.FormatInt(id, 10)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) GetVehicle(id string) (entities.Vehicle, error) {
	n, err := parseID(id)
	if err != nil {
		return entities.Vehicle{}, err
	}
	var v entities.Vehicle
	err = s.conn.QueryRow(
		`SELECT license_plate, vehicle_type, owner_name, contact_number, created_at
		 FROM vehicles WHERE id = $1`, n).
		Scan(&v.LicensePlate, &v.VehicleType, &v.OwnerName, &v.ContactNumber, &v.CreatedAt)
	if err != nil {
		return entities.Vehicle{}, wrapScan(err)
	}
	v.ID = id
	return v, nil
}

func (s *Store) CreateVehicle(req entities.VehicleRequest) (entities.Vehicle, error) {
	now := time.Now().UTC()
	id, err := s.insertID(
		`INSERT INTO vehicles (license_plate, vehicle_type, owner_name, contact_number, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		req.LicensePlate, req.VehicleType, req.OwnerName, req.ContactNumber, now)
	if err != nil {
		return entities.Vehicle{}, err
	}
	return entities.Vehicle{
		ID:            strconv.FormatInt(id, 10),
		LicensePlate:  req.LicensePlate,
		VehicleType:   entities.VehicleType(req.VehicleType),
		OwnerName:     req.OwnerName,
		ContactNumber: req.ContactNumber,
		CreatedAt:     now,
	}, nil
}

func (s *Store) UpdateVehicle(id string, req entities.VehicleRequest) (entities.Vehicle, error) {
	n, err := parseID(id)
	if err != nil {
		return entities.Vehicle{}, err
	}
	result, err := s.conn.Exec(
		`UPDATE vehicles SET license_plate = $1, vehicle_type = $2, owner_name = $3, contact_number = $4
		 WHERE id = $5`,
		req.LicensePlate, req.VehicleType, req.OwnerName, req.ContactNumber, n)
	if err != nil {
		return entities.Vehicle{}, err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return entities.Vehicle{}, ErrNotFound
	}
	return s.GetVehicle(id)
}

func (s *Store) DeleteVehicle(id string) (entities.Vehicle, error) {
	v, err := s.GetVehicle(id)
	if err != nil {
		return entities.Vehicle{}, err
	}
	n, _ := parseID(id)
	if _, err := s.conn.Exec(`DELETE FROM vehicles WHERE id = $1`, n); err != nil {
		return entities.Vehicle{}, err
	}
	return v, nil
}

func (s *Store) ListParkingSlots() ([]entities.ParkingSlot, error) {
	rows, err := s.conn.Query(
		`SELECT id, slot_number, status, type, vehicle_id, created_at
		 FROM parking_slots ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entities.ParkingSlot
	for rows.Next() {
		p, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanSlot(rows *sql.Rows) (entities.ParkingSlot, error) {
	var p entities.ParkingSlot
	var id int64
	var vehicleID sql.NullString
	if err := rows.Scan(&id, &p.SlotNumber, &p.Status, &p.Type, &vehicleID, &p.CreatedAt); err != nil {
		return entities.ParkingSlot{}, err
	}
	p.ID = strconv.FormatInt(id, 10)
	if vehicleID.Valid {
		p.VehicleID = &vehicleID.String
	}
	return p, nil
}

func (s *Store) GetParkingSlot(id string) (entities.ParkingSlot, error) {
	n, err := parseID(id)
	if err != nil {
		return entities.ParkingSlot{}, err
	}
	var p entities.ParkingSlot
	var vehicleID sql.NullString
	err = s.conn.QueryRow(
		`SELECT slot_number, status, type, vehicle_id, created_at
		 FROM parking_slots WHERE id = $1`, n).
		Scan(&p.SlotNumber, &p.Status, &p.Type, &vehicleID, &p.CreatedAt)
	if err != nil {
		return entities.ParkingSlot{}, wrapScan(err)
	}
	p.ID = id
	if vehicleID.Valid {
		p.VehicleID = &vehicleID.String
	}
	return p, nil
}

func (s *Store) CreateParkingSlot(req entities.ParkingSlotRequest) (entities.ParkingSlot, error) {
	now := time.Now().UTC()
	var vehicleID sql.NullString
	if req.VehicleID != nil {
		vehicleID = sql.NullString{String: *req.VehicleID, Valid: true}
	}
	id, err := s.insertID(
		`INSERT INTO parking_slots (slot_number, status, type, vehicle_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		req.SlotNumber, req.Status, req.Type, vehicleID, now)
	if err != nil {
		return entities.ParkingSlot{}, err
	}
	return entities.ParkingSlot{
		ID:         strconv.FormatInt(id, 10),
		SlotNumber: req.SlotNumber,
		Status:     entities.SlotStatus(req.Status),
		Type:       entities.SlotType(req.Type),
		VehicleID:  req.VehicleID,
		CreatedAt:  now,
	}, nil
}

func (s *Store) UpdateParkingSlot(id string, req entities.ParkingSlotRequest) (entities.ParkingSlot, error) {
	n, err := parseID(id)
	if err != nil {
		return entities.ParkingSlot{}, err
	}
	var vehicleID sql.NullString
	if req.VehicleID != nil {
		vehicleID = sql.NullString{String: *req.VehicleID, Valid: true}
	}
	result, err := s.conn.Exec(
		`UPDATE parking_slots SET slot_number = $1, status = $2, type = $3, vehicle_id = $4
		 WHERE id = $5`,
		req.SlotNumber, req.Status, req.Type, vehicleID, n)
	if err != nil {
		return entities.ParkingSlot{}, err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return entities.ParkingSlot{}, ErrNotFound
	}
	return s.GetParkingSlot(id)
}

func (s *Store) DeleteParkingSlot(id string) (entities.ParkingSlot, error) {
	p, err := s.GetParkingSlot(id)
	if err != nil {
		return entities.ParkingSlot{}, err
	}
	n, _ := parseID(id)
	if _, err := s.conn.Exec(`DELETE FROM parking_slots WHERE id = $1`, n); err != nil {
		return entities.ParkingSlot{}, err
	}
	return p, nil
}

// GetProfile retrieves the profile record by id.
func (s *Store) GetProfile(id string) (entities.UserProfile, error) {
	var p entities.UserProfile
	err := s.conn.QueryRow(
		`SELECT id, full_name, email, phone_number, address, zip_code, state
		 FROM profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.FullName, &p.Email, &p.PhoneNumber, &p.Address, &p.ZipCode, &p.State)
	if err != nil {
		return entities.UserProfile{}, wrapScan(err)
	}
	return p, nil
}

// UpsertProfile writes the profile record, creating it on first write.
func (s *Store) UpsertProfile(id string, req entities.ProfileRequest) (entities.UserProfile, error) {
	_, err := s.GetProfile(id)
	switch {
	case errors.Is(err, ErrNotFound):
		_, err = s.conn.Exec(
			`INSERT INTO profiles (id, full_name, email, phone_number, address, zip_code, state)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, req.FullName, req.Email, req.PhoneNumber, req.Address, req.ZipCode, req.State)
	case err == nil:
		_, err = s.conn.Exec(
			`UPDATE profiles SET full_name = $1, email = $2, phone_number = $3, address = $4, zip_code = $5, state = $6
			 WHERE id = $7`,
			req.FullName, req.Email, req.PhoneNumber, req.Address, req.ZipCode, req.State, id)
	}
	if err != nil {
		return entities.UserProfile{}, err
	}
	return s.GetProfile(id)
}
