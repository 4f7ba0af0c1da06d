package seller

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stockkeeper/internal/auth"
	"stockkeeper/internal/commons"
	apperrors "stockkeeper/internal/errors"
)

type Controller struct {
	service *Service
	logger  *zap.Logger
}

func NewController(service *Service, logger *zap.Logger) *Controller {
	return &Controller{service: service, logger: logger}
}

func (c *Controller) Routes(r chi.Router) {
	admin := r.With(auth.RequireAdmin(c.logger))
	admin.Get("/sellers", c.HandleList)
	admin.Post("/sellers", c.HandleCreate)
	admin.Delete("/sellers/{sellerId}", c.HandleDelete)
	r.Get("/sellers/{sellerId}", c.HandleGet)
}

func (c *Controller) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSellerInput
	if !commons.DecodeJSON(w, r, c.logger, &req) {
		return
	}
	if strings.TrimSpace(req.FullName) == "" {
		commons.WriteValidationError(w, r, c.logger, "validation failed", apperrors.ValidationDetail{
			Field:   "fullName",
			Message: "fullName is required",
		})
		return
	}

	seller, err := c.service.Create(r.Context(), auth.CallerFrom(r.Context()), req)
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusCreated, seller)
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	sellers, err := c.service.List(r.Context(), auth.CallerFrom(r.Context()))
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, sellers)
}

func (c *Controller) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := commons.ParseID(chi.URLParam(r, "sellerId"), "sellerId")
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}

	seller, err := c.service.Get(r.Context(), auth.CallerFrom(r.Context()), id)
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, seller)
}

func (c *Controller) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := commons.ParseID(chi.URLParam(r, "sellerId"), "sellerId")
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}

	if err := c.service.Delete(r.Context(), auth.CallerFrom(r.Context()), id); err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
