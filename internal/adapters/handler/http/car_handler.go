package http

import (
	"net/http"

	"github.com/vncsmyrnk/carmarket/internal/core/domain"
	"github.com/vncsmyrnk/carmarket/internal/core/ports"
	"github.com/vncsmyrnk/carmarket/internal/core/validate"
)

type CarHandler struct {
	service ports.CarService
}

func NewCarHandler(service ports.CarService) *CarHandler {
	return &CarHandler{
		service: service,
	}
}

func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	cars, err := h.service.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, cars)
}

func (h *CarHandler) Search(w http.ResponseWriter, r *http.Request) {
	search, err := validate.CarSearch(r.URL.Query())
	if err != nil {
		respondError(w, r, err)
		return
	}

	cars, err := h.service.Search(r.Context(), search)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, cars)
}

func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	car, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, car)
}

// Sell lists a new car owned by the caller.
func (h *CarHandler) Sell(w http.ResponseWriter, r *http.Request) {
	who, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, r, domain.Unauthorized("No Token!"))
		return
	}

	body, err := decodeBody(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	car, err := validate.CarCreate(body)
	if err != nil {
		respondError(w, r, err)
		return
	}

	car, err = h.service.Create(r.Context(), who, car)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, car)
}

func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request) {
	who, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, r, domain.Unauthorized("No Token!"))
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	body, err := decodeBody(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	conds, err := validate.CarPatch(body)
	if err != nil {
		respondError(w, r, err)
		return
	}

	car, err := h.service.Update(r.Context(), who, id, conds)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, car)
}

func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	who, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, r, domain.Unauthorized("No Token!"))
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	car, err := h.service.Delete(r.Context(), who, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, car)
}
