package mockapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"parkledger/internal/entities"
	"parkledger/internal/mockapi/store"
)

// NewRouter builds the full mock API route table.
func NewRouter(st *store.Store, authSvc *AuthService) *mux.Router {
	expenses := &resourceHandler[entities.Expense, entities.ExpenseRequest]{
		list:   st.ListExpenses,
		get:    st.GetExpense,
		create: st.CreateExpense,
		update: st.UpdateExpense,
		remove: st.DeleteExpense,
	}
	vehicles := &resourceHandler[entities.Vehicle, entities.VehicleRequest]{
		list:   st.ListVehicles,
		get:    st.GetVehicle,
		create: st.CreateVehicle,
		update: st.UpdateVehicle,
		remove: st.DeleteVehicle,
	}
	slots := &resourceHandler[entities.ParkingSlot, entities.ParkingSlotRequest]{
		list:   st.ListParkingSlots,
		get:    st.GetParkingSlot,
		create: st.CreateParkingSlot,
		update: st.UpdateParkingSlot,
		remove: st.DeleteParkingSlot,
	}
	profile := NewProfileHandler(st)
	authHandler := NewAuthHandler(authSvc)

	r := mux.NewRouter()

	registerResource(r, "/"+entities.ResourceExpenses, expenses)
	registerResource(r, "/"+entities.ResourceVehicles, vehicles)
	registerResource(r, "/"+entities.ResourceParkingSlots, slots)

	r.HandleFunc("/profile/{id}", profile.Get).Methods("GET")
	profileUpdate := r.PathPrefix("/profile").Subrouter()
	profileUpdate.Use(RequireAuth(authSvc))
	profileUpdate.HandleFunc("/{id}", profile.Update).Methods("PUT")

	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/verify-otp", authHandler.VerifyOTP).Methods("POST")
	r.HandleFunc("/auth/resend-otp", authHandler.ResendOTP).Methods("POST")

	return r
}

func registerResource[T any, R any](r *mux.Router, path string, h *resourceHandler[T, R]) {
	r.HandleFunc(path, h.List).Methods("GET")
	r.HandleFunc(path, h.Create).Methods("POST")
	r.HandleFunc(path+"/{id}", h.Get).Methods("GET")
	r.HandleFunc(path+"/{id}", h.Update).Methods("PUT")
	r.HandleFunc(path+"/{id}", h.Delete).Methods("DELETE")
}

// ProfileHandler serves the singleton profile record.
type ProfileHandler struct {
	store *store.Store
}

func NewProfileHandler(st *store.Store) *ProfileHandler {
	return &ProfileHandler{store: st}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetProfile(mux.Vars(r)["id"])
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[entities.ProfileRequest](w, r)
	if !ok {
		return
	}
	p, err := h.store.UpsertProfile(mux.Vars(r)["id"], req)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
