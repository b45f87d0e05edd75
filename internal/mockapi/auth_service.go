package mockapi

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"parkledger/internal/entities"
	"parkledger/internal/mockapi/store"
	"parkledger/internal/notify"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid OTP code")
	ErrUnknownAccount     = errors.New("no account for that phone number")
)

const (
	tokenTTL = 24 * time.Hour
	otpTTL   = 5 * time.Minute
)

// AuthService implements the mock auth endpoints' behavior: bcrypt password
// checks, HS256 session tokens and short-lived 4-digit OTP codes delivered
// through the configured SMS sender.
type AuthService struct {
	store  *store.Store
	secret []byte
	sms    notify.SMSSender
	email  notify.EmailSender
}

func NewAuthService(st *store.Store, secret []byte, sms notify.SMSSender, email notify.EmailSender) *AuthService {
	if sms == nil {
		sms = notify.LogSender{}
	}
	if email == nil {
		email = notify.LogSender{}
	}
	return &AuthService{store: st, secret: secret, sms: sms, email: email}
}

// Login checks credentials and returns a session token plus the user.
func (s *AuthService) Login(email, password string) (string, entities.AuthUser, error) {
	u, err := s.store.GetUserByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return "", entities.AuthUser{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", entities.AuthUser{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", entities.AuthUser{}, ErrInvalidCredentials
	}

	token, err := s.token(u)
	if err != nil {
		return "", entities.AuthUser{}, err
	}
	return token, authUser(u), nil
}

// Register creates an unverified account and sends its first OTP code. It
// also sends a welcome email when a provider is configured.
func (s *AuthService) Register(req entities.RegisterRequest) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	fullName := req.FirstName + " " + req.LastName
	u, err := s.store.CreateUser(fullName, req.Email, req.Phone, string(hash))
	if err != nil {
		return err
	}

	if err := s.issueOTP(u.Phone); err != nil {
		return err
	}
	if err := s.email.SendEmail(u.Email, u.FullName,
		"Verify your account",
		fmt.Sprintf("Hello %s,\n\nYour account was created. Enter the code we sent to %s to verify it.", u.FullName, u.Phone),
		""); err != nil {
		// Email delivery is best-effort; the OTP path is authoritative.
		return nil
	}
	return nil
}

// VerifyOTP consumes the code, marks the account verified and returns a
// fresh session.
func (s *AuthService) VerifyOTP(phone, code string) (string, entities.AuthUser, error) {
	ok, err := s.store.ConsumeOTP(phone, code)
	if err != nil {
		return "", entities.AuthUser{}, err
	}
	if !ok {
		return "", entities.AuthUser{}, ErrInvalidOTP
	}

	u, err := s.store.GetUserByPhone(phone)
	if errors.Is(err, store.ErrNotFound) {
		return "", entities.AuthUser{}, ErrUnknownAccount
	}
	if err != nil {
		return "", entities.AuthUser{}, err
	}
	if err := s.store.MarkUserVerified(u.ID); err != nil {
		return "", entities.AuthUser{}, err
	}

	token, err := s.token(u)
	if err != nil {
		return "", entities.AuthUser{}, err
	}
	return token, authUser(u), nil
}

// ResendOTP issues a new code for an existing account.
func (s *AuthService) ResendOTP(phone string) error {
	if _, err := s.store.GetUserByPhone(phone); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnknownAccount
		}
		return err
	}
	return s.issueOTP(phone)
}

func (s *AuthService) issueOTP(phone string) error {
	code, err := otpCode()
	if err != nil {
		return err
	}
	if err := s.store.SaveOTP(phone, code, time.Now().Add(otpTTL)); err != nil {
		return err
	}
	return s.sms.SendSMS(phone, "Your ParkLedger verification code is "+code)
}

func otpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("generating OTP: %w", err)
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

func (s *AuthService) token(u store.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": u.ID,
		"email":   u.Email,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a session token, returning the user id.
func (s *AuthService) VerifyToken(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidCredentials
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidCredentials
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", ErrInvalidCredentials
	}
	return userID, nil
}

func authUser(u store.User) entities.AuthUser {
	return entities.AuthUser{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
	}
}
