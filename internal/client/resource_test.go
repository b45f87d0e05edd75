package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkledger/internal/apierr"
	"parkledger/internal/entities"
)

type staticTokens string

func (s staticTokens) Token() (string, bool) { return string(s), s != "" }

func TestListDecodesRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/expenses", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		json.NewEncoder(w).Encode([]entities.Expense{
			{ID: "1", Name: "Groceries", Amount: "84.20"},
			{ID: "2", Name: "Fuel", Amount: "30"},
		})
	}))
	defer srv.Close()

	res := NewResource[entities.Expense](NewAPI(srv.URL), entities.ResourceExpenses)
	got, err := res.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Groceries", got[0].Name)
}

func TestCreateSendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req entities.ExpenseRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(entities.Expense{ID: "7", Name: req.Name, Amount: req.Amount})
	}))
	defer srv.Close()

	res := NewResource[entities.Expense](NewAPI(srv.URL), entities.ResourceExpenses)
	got, err := res.Create(context.Background(), entities.ExpenseRequest{Name: "Parking", Amount: "12.50"})
	require.NoError(t, err)
	assert.Equal(t, "7", got.ID)
	assert.Equal(t, "Parking", got.Name)
}

func TestDeleteReturnsDeletedRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/vehicles/3", r.URL.Path)
		json.NewEncoder(w).Encode(entities.Vehicle{ID: "3", LicensePlate: "KDA 381X"})
	}))
	defer srv.Close()

	res := NewResource[entities.Vehicle](NewAPI(srv.URL), entities.ResourceVehicles)
	got, err := res.Delete(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "KDA 381X", got.LicensePlate)
}

func TestServerErrorBecomesHTTPErrorWithMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "expense not found"})
	}))
	defer srv.Close()

	res := NewResource[entities.Expense](NewAPI(srv.URL), entities.ResourceExpenses)
	_, err := res.Get(context.Background(), "99")

	var herr *apierr.HTTPError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusNotFound, herr.Status)
	assert.Equal(t, "expense not found", herr.Message)
}

func TestUnreachableServerBecomesNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	res := NewResource[entities.Expense](NewAPI(srv.URL), entities.ResourceExpenses)
	_, err := res.List(context.Background())

	var nerr *apierr.NetworkError
	require.ErrorAs(t, err, &nerr)
	assert.Contains(t, nerr.Op, "GET /expenses")
}

func TestSlowServerTimesOutAsNetworkError(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	api := NewAPI(srv.URL, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	res := NewResource[entities.Expense](api, entities.ResourceExpenses)
	_, err := res.List(context.Background())

	var nerr *apierr.NetworkError
	require.ErrorAs(t, err, &nerr)
}

func TestBadResponseShapeBecomesParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "a list"}`))
	}))
	defer srv.Close()

	res := NewResource[entities.Expense](NewAPI(srv.URL), entities.ResourceExpenses)
	_, err := res.List(context.Background())

	var perr *apierr.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "/expenses", perr.Resource)
}

func TestTokenSourceAttachesBearerHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	api := NewAPI(srv.URL, WithTokenSource(staticTokens("tok-123")))
	res := NewResource[entities.Expense](api, entities.ResourceExpenses)
	_, err := res.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", got)
}

func TestEmptyTokenSourceSendsNoHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	api := NewAPI(srv.URL, WithTokenSource(staticTokens("")))
	res := NewResource[entities.Expense](api, entities.ResourceExpenses)
	_, err := res.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProfileFallsBackToDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Not found"})
	}))
	defer srv.Close()

	pc := NewProfileClient(NewAPI(srv.URL))
	p := pc.GetOrDefault(context.Background())
	assert.Equal(t, entities.DefaultProfileID, p.ID)
	assert.Equal(t, "Hannah Turin (Default)", p.FullName)
}

func TestProfileGetAndUpdateUseFixedID(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		json.NewEncoder(w).Encode(entities.UserProfile{ID: "1", FullName: "Hannah Turin"})
	}))
	defer srv.Close()

	pc := NewProfileClient(NewAPI(srv.URL))
	p := pc.GetOrDefault(context.Background())
	assert.Equal(t, "Hannah Turin", p.FullName)

	_, err := pc.Update(context.Background(), entities.ProfileRequest{
		FullName: "Hannah T.", Email: "hannah.turin@email.com",
		PhoneNumber: "+11234567890", Address: "123 Main St",
		ZipCode: "94107", State: "CA",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"GET /profile/1", "PUT /profile/1"}, paths)
}

func TestAuthClientLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		var req entities.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Email != "hannah.turin@email.com" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(entities.AuthResponse{
			Success: true,
			Message: "Login successful",
			Token:   "jwt-token",
			User:    entities.AuthUser{ID: "1", Email: req.Email},
		})
	}))
	defer srv.Close()

	auth := NewAuthClient(NewAPI(srv.URL))

	resp, err := auth.Login(context.Background(), entities.LoginRequest{Email: "hannah.turin@email.com", Password: "password"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "jwt-token", resp.Token)

	_, err = auth.Login(context.Background(), entities.LoginRequest{Email: "wrong@email.com", Password: "password"})
	var herr *apierr.HTTPError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, "Invalid credentials", herr.Message)
}
