package sale

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stockkeeper/internal/auth"
	"stockkeeper/internal/commons"
	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
)

type Controller struct {
	engine *Engine
	logger *zap.Logger
}

func NewController(engine *Engine, logger *zap.Logger) *Controller {
	return &Controller{engine: engine, logger: logger}
}

func (c *Controller) Routes(r chi.Router) {
	r.Get("/sales", c.HandleList)
	r.Post("/sales", c.HandleRecord)
	r.Get("/sales/{saleId}", c.HandleGet)
}

func (c *Controller) HandleRecord(w http.ResponseWriter, r *http.Request) {
	var req RecordSaleInput
	if !commons.DecodeJSON(w, r, c.logger, &req) {
		return
	}

	caller := auth.CallerFrom(r.Context())
	if req.SellerID == 0 && !caller.IsAdmin() {
		req.SellerID = caller.SellerID
	}

	var details []apperrors.ValidationDetail
	if req.SellerID <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "sellerId", Message: "sellerId must be a positive integer"})
	}
	if req.ProductID <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "productId", Message: "productId must be a positive integer"})
	}
	if len(details) > 0 {
		commons.WriteValidationError(w, r, c.logger, "validation failed", details...)
		return
	}

	sale, err := c.engine.RecordSale(r.Context(), caller, req)
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusCreated, sale)
}

func (c *Controller) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := commons.ParseID(chi.URLParam(r, "saleId"), "saleId")
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}

	sale, err := c.engine.GetSale(r.Context(), auth.CallerFrom(r.Context()), id)
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, sale)
}

// HandleList accepts ?sellerId=&productId=&from=&to=&limit= with RFC 3339 dates.
func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter domain.SaleFilter
	var err error

	if filter.SellerID, err = commons.OptionalID(q.Get("sellerId"), "sellerId"); err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	if filter.ProductID, err = commons.OptionalID(q.Get("productId"), "productId"); err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	limit, err := commons.OptionalID(q.Get("limit"), "limit")
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	filter.Limit = int(limit)

	if filter.From, err = parseTime(q.Get("from"), "from"); err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	if filter.To, err = parseTime(q.Get("to"), "to"); err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}

	sales, err := c.engine.ListSales(r.Context(), auth.CallerFrom(r.Context()), filter)
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, sales)
}

func parseTime(raw, field string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid "+field, apperrors.ValidationDetail{
			Field:   field,
			Message: field + " must be an RFC 3339 timestamp",
		})
	}
	return &t, nil
}
