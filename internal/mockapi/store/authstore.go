package store

import (
	"database/sql"
	"errors"
	"strconv"
	"time"
)

// User is a registered account as stored server-side.
type User struct {
	ID           string
	FullName     string
	Email        string
	Phone        string
	PasswordHash string
	Verified     bool
	CreatedAt    time.Time
}

// CreateUser inserts an unverified account.
func (s *Store) CreateUser(fullName, email, phone, passwordHash string) (User, error) {
	now := time.Now().UTC()
	id, err := s.insertID(
		`INSERT INTO users (full_name, email, phone, password_hash, verified, created_at)
		 VALUES ($1, $2, $3, $4, FALSE, $5)`,
		fullName, email, phone, passwordHash, now)
	if err != nil {
		return User{}, err
	}
	return User{
		ID:           strconv.FormatInt(id, 10),
		FullName:     fullName,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}

func (s *Store) getUser(where string, arg any) (User, error) {
	var u User
	var id int64
	err := s.conn.QueryRow(
		`SELECT id, full_name, email, phone, password_hash, verified, created_at
		 FROM users WHERE `+where, arg).
		Scan(&id, &u.FullName, &u.Email, &u.Phone, &u.PasswordHash, &u.Verified, &u.CreatedAt)
	if err != nil {
		return User{}, wrapScan(err)
	}
	u.ID = strconv.FormatInt(id, 10)
	return u, nil
}

func (s *Store) GetUserByEmail(email string) (User, error) {
	return s.getUser("email = $1", email)
}

func (s *Store) GetUserByPhone(phone string) (User, error) {
	return s.getUser("phone = $1", phone)
}

// MarkUserVerified flips the verified flag after a successful OTP check.
func (s *Store) MarkUserVerified(id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	_, err = s.conn.Exec(`UPDATE users SET verified = TRUE WHERE id = $1`, n)
	return err
}

// SaveOTP stores a fresh code for the phone, replacing any earlier ones.
func (s *Store) SaveOTP(phone, code string, expiresAt time.Time) error {
	if _, err := s.conn.Exec(`DELETE FROM otp_codes WHERE phone = $1`, phone); err != nil {
		return err
	}
	_, err := s.conn.Exec(
		`INSERT INTO otp_codes (phone, code, expires_at, created_at) VALUES ($1, $2, $3, $4)`,
		phone, code, expiresAt, time.Now().UTC())
	return err
}

// ConsumeOTP checks the code for the phone and deletes it when it matches
// and has not expired. Returns false on mismatch, expiry or absence.
func (s *Store) ConsumeOTP(phone, code string) (bool, error) {
	var id int64
	var expiresAt time.Time
	err := s.conn.QueryRow(
		`SELECT id, expires_at FROM otp_codes WHERE phone = $1 AND code = $2`,
		phone, code).Scan(&id, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if time.Now().After(expiresAt) {
		return false, nil
	}
	_, err = s.conn.Exec(`DELETE FROM otp_codes WHERE id = $1`, id)
	return err == nil, err
}

// DeleteExpiredOTPCodes removes codes past their expiry. The server's cron
// sweeper calls this.
func (s *Store) DeleteExpiredOTPCodes() (int64, error) {
	result, err := s.conn.Exec(`DELETE FROM otp_codes WHERE expires_at <= $1`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
