package http

import (
	"net/http"

	"github.com/vncsmyrnk/carmarket/internal/core/domain"
	"github.com/vncsmyrnk/carmarket/internal/core/ports"
	"github.com/vncsmyrnk/carmarket/internal/core/validate"
)

type UserHandler struct {
	service ports.UserService
	cars    ports.CarService
}

func NewUserHandler(service ports.UserService, cars ports.CarService) *UserHandler {
	return &UserHandler{
		service: service,
		cars:    cars,
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, users)
}

// target returns the caller and the {id} path parameter.
func (h *UserHandler) target(r *http.Request) (domain.Identity, int64, error) {
	who, ok := identityFrom(r.Context())
	if !ok {
		return domain.Identity{}, 0, domain.Unauthorized("No Token!")
	}
	id, err := pathID(r)
	if err != nil {
		return domain.Identity{}, 0, err
	}
	return who, id, nil
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	who, id, err := h.target(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	user, err := h.service.Get(r.Context(), who, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	who, id, err := h.target(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	body, err := decodeBody(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	conds, err := validate.UserPatch(body, who.Role)
	if err != nil {
		respondError(w, r, err)
		return
	}

	user, err := h.service.Update(r.Context(), who, id, conds)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	who, id, err := h.target(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	user, err := h.service.Delete(r.Context(), who, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, user)
}

func (h *UserHandler) Cars(w http.ResponseWriter, r *http.Request) {
	who, id, err := h.target(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	cars, err := h.cars.ListByUser(r.Context(), who, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, cars)
}
