// Package mockapi is the hosted fake REST backend the client talks to. It
// mirrors the external mock service's conventions: full-collection GETs, ids
// as incrementing decimal strings, the deleted record echoed back by DELETE.
package mockapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"parkledger/internal/apierr"
	"parkledger/internal/mockapi/store"
	"parkledger/internal/validation"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

// writeError emits a {"message": ...} body so clients can surface the server
// message verbatim.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// storeError maps store failures onto status codes.
func storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	log.Printf("store error: %v", err)
	writeError(w, http.StatusInternalServerError, "Internal error")
}

// resourceHandler serves the five REST operations for one collection. The
// request payload is validated server-side with the same schemas the client
// applies, so direct API use gets the same rules.
type resourceHandler[T any, R any] struct {
	list   func() ([]T, error)
	get    func(string) (T, error)
	create func(R) (T, error)
	update func(string, R) (T, error)
	remove func(string) (T, error)
}

func (h *resourceHandler[T, R]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.list()
	if err != nil {
		storeError(w, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *resourceHandler[T, R]) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.get(mux.Vars(r)["id"])
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *resourceHandler[T, R]) decode(w http.ResponseWriter, r *http.Request) (R, bool) {
	var req R
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	if err := validation.Check(req); err != nil {
		var verr *apierr.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return req, false
		}
		writeError(w, http.StatusBadRequest, "Invalid request")
		return req, false
	}
	return req, true
}

func (h *resourceHandler[T, R]) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	item, err := h.create(req)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *resourceHandler[T, R]) Update(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	item, err := h.update(mux.Vars(r)["id"], req)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *resourceHandler[T, R]) Delete(w http.ResponseWriter, r *http.Request) {
	item, err := h.remove(mux.Vars(r)["id"])
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
