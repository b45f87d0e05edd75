package mockapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"parkledger/internal/apierr"
	"parkledger/internal/entities"
	"parkledger/internal/validation"
)

type AuthHandler struct {
	service *AuthService
}

func NewAuthHandler(svc *AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

func decodeAndValidate[R any](w http.ResponseWriter, r *http.Request) (R, bool) {
	var req R
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	if err := validation.Check(req); err != nil {
		var verr *apierr.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
		} else {
			writeError(w, http.StatusBadRequest, "Invalid request")
		}
		return req, false
	}
	return req, true
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[entities.LoginRequest](w, r)
	if !ok {
		return
	}

	token, user, err := h.service.Login(req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		log.Printf("login: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	writeJSON(w, http.StatusOK, entities.AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User:    user,
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[entities.RegisterRequest](w, r)
	if !ok {
		return
	}

	if err := h.service.Register(req); err != nil {
		log.Printf("register: %v", err)
		writeError(w, http.StatusConflict, "Could not register that account")
		return
	}

	writeJSON(w, http.StatusOK, entities.MessageResponse{
		Success: true,
		Message: "Registration successful. Please verify your phone/email.",
	})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[entities.VerifyOTPRequest](w, r)
	if !ok {
		return
	}

	token, user, err := h.service.VerifyOTP(req.Phone, req.OTP)
	if errors.Is(err, ErrInvalidOTP) || errors.Is(err, ErrUnknownAccount) {
		writeError(w, http.StatusBadRequest, "Invalid OTP code")
		return
	}
	if err != nil {
		log.Printf("verify otp: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	writeJSON(w, http.StatusOK, entities.AuthResponse{
		Success: true,
		Message: "OTP verified successfully.",
		Token:   token,
		User:    user,
	})
}

func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[entities.ResendOTPRequest](w, r)
	if !ok {
		return
	}

	if err := h.service.ResendOTP(req.Phone); err != nil {
		if errors.Is(err, ErrUnknownAccount) {
			writeError(w, http.StatusNotFound, "No account for that phone number")
			return
		}
		log.Printf("resend otp: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	writeJSON(w, http.StatusOK, entities.MessageResponse{
		Success: true,
		Message: "A new OTP has been sent.",
	})
}
