package client

import (
	"context"
	"net/http"

	"parkledger/internal/entities"
)

// AuthClient talks to the mock auth endpoints.
type AuthClient struct {
	api *API
}

func NewAuthClient(api *API) *AuthClient {
	return &AuthClient{api: api}
}

func (c *AuthClient) Login(ctx context.Context, req entities.LoginRequest) (entities.AuthResponse, error) {
	var out entities.AuthResponse
	err := c.api.do(ctx, http.MethodPost, "/auth/login", req, &out)
	return out, err
}

func (c *AuthClient) Register(ctx context.Context, req entities.RegisterRequest) (entities.MessageResponse, error) {
	var out entities.MessageResponse
	err := c.api.do(ctx, http.MethodPost, "/auth/register", req, &out)
	return out, err
}

func (c *AuthClient) VerifyOTP(ctx context.Context, req entities.VerifyOTPRequest) (entities.AuthResponse, error) {
	var out entities.AuthResponse
	err := c.api.do(ctx, http.MethodPost, "/auth/verify-otp", req, &out)
	return out, err
}

func (c *AuthClient) ResendOTP(ctx context.Context, phone string) (entities.MessageResponse, error) {
	var out entities.MessageResponse
	err := c.api.do(ctx, http.MethodPost, "/auth/resend-otp", entities.ResendOTPRequest{Phone: phone}, &out)
	return out, err
}
