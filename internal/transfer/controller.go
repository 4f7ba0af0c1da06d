package transfer

import (
	"net/http"

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
	r.Get("/transfers", c.HandleListTransfers)
	r.Post("/transfers", c.HandleTransferToSeller)
	r.Post("/transfers/return", c.HandleReturn)

	r.Get("/seller-stocks", c.HandleListSellerStocks)
	r.Patch("/seller-stocks/{stockId}", c.HandleSetQuantity)
	r.Delete("/seller-stocks/{stockId}", c.HandleDeleteStock)

	r.Get("/assignments", c.HandleListAssignments)
	r.Post("/assignments", c.HandleAssign)
	r.Post("/assignments/unassign", c.HandleUnassign)
}

func (c *Controller) HandleTransferToSeller(w http.ResponseWriter, r *http.Request) {
	var req TransferToSellerRequest
	if !commons.DecodeJSON(w, r, c.logger, &req) {
		return
	}
	if req.SellerID <= 0 {
		commons.WriteValidationError(w, r, c.logger, "validation failed", apperrors.ValidationDetail{
			Field:   "sellerId",
			Message: "sellerId must be a positive integer",
		})
		return
	}

	transfers, err := c.engine.TransferToSeller(r.Context(), auth.CallerFrom(r.Context()), req.SellerID, req.Items)
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusCreated, transfers)
}

func (c *Controller) HandleReturn(w http.ResponseWriter, r *http.Request) {
	var req ReturnRequest
	if !commons.DecodeJSON(w, r, c.logger, &req) {
		return
	}
	if details := requireIDs(req.SellerID, req.ProductID); len(details) > 0 {
		commons.WriteValidationError(w, r, c.logger, "validation failed", details...)
		return
	}

	t, err := c.engine.ReturnFromSeller(r.Context(), auth.CallerFrom(r.Context()), req.SellerID, req.ProductID, req.Quantity)
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusCreated, t)
}

func (c *Controller) HandleSetQuantity(w http.ResponseWriter, r *http.Request) {
	stockID, err := commons.ParseID(chi.URLParam(r, "stockId"), "stockId")
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}

	var req SetQuantityRequest
	if !commons.DecodeJSON(w, r, c.logger, &req) {
		return
	}
	if req.Quantity == nil {
		commons.WriteValidationError(w, r, c.logger, "validation failed", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity is required",
		})
		return
	}

	result, err := c.engine.SetSellerStockQuantity(r.Context(), auth.CallerFrom(r.Context()), stockID, *req.Quantity)
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, result)
}

// HandleDeleteStock accepts ?unassign=true.
func (c *Controller) HandleDeleteStock(w http.ResponseWriter, r *http.Request) {
	stockID, err := commons.ParseID(chi.URLParam(r, "stockId"), "stockId")
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	unassign := commons.ParseBool(r.URL.Query().Get("unassign"))

	result, err := c.engine.DeleteSellerStock(r.Context(), auth.CallerFrom(r.Context()), stockID, unassign)
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, result)
}

func (c *Controller) HandleAssign(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if !commons.DecodeJSON(w, r, c.logger, &req) {
		return
	}
	if details := requireIDs(req.SellerID, req.ProductID); len(details) > 0 {
		commons.WriteValidationError(w, r, c.logger, "validation failed", details...)
		return
	}

	a, err := c.engine.AssignProduct(r.Context(), auth.CallerFrom(r.Context()), req.SellerID, req.ProductID)
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, a)
}

func (c *Controller) HandleUnassign(w http.ResponseWriter, r *http.Request) {
	var req UnassignRequest
	if !commons.DecodeJSON(w, r, c.logger, &req) {
		return
	}
	if details := requireIDs(req.SellerID, req.ProductID); len(details) > 0 {
		commons.WriteValidationError(w, r, c.logger, "validation failed", details...)
		return
	}

	result, err := c.engine.UnassignProduct(r.Context(), auth.CallerFrom(r.Context()), req.SellerID, req.ProductID, req.ReturnStock)
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, result)
}

// HandleListTransfers accepts ?sellerId=&productId=&type=transfer|return&limit=.
func (c *Controller) HandleListTransfers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter domain.TransferFilter
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

	switch t := domain.TransferType(q.Get("type")); t {
	case "", domain.TransferTypeTransfer, domain.TransferTypeReturn:
		filter.Type = t
	default:
		commons.WriteValidationError(w, r, c.logger, "validation failed", apperrors.ValidationDetail{
			Field:   "type",
			Message: "type must be transfer or return",
		})
		return
	}

	transfers, err := c.engine.ListTransfers(r.Context(), auth.CallerFrom(r.Context()), filter)
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, transfers)
}

func (c *Controller) HandleListSellerStocks(w http.ResponseWriter, r *http.Request) {
	sellerID, err := commons.OptionalID(r.URL.Query().Get("sellerId"), "sellerId")
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}

	stocks, err := c.engine.ListSellerStocks(r.Context(), auth.CallerFrom(r.Context()), sellerID)
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, stocks)
}

// HandleListAssignments accepts ?sellerId=&active=true.
func (c *Controller) HandleListAssignments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sellerID, err := commons.OptionalID(q.Get("sellerId"), "sellerId")
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}

	caller := auth.CallerFrom(r.Context())
	if sellerID == 0 {
		sellerID = caller.SellerID
	}

	assignments, err := c.engine.ListAssignments(r.Context(), caller, sellerID, commons.ParseBool(q.Get("active")))
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, assignments)
}

func requireIDs(sellerID, productID int64) []apperrors.ValidationDetail {
	var details []apperrors.ValidationDetail
	if sellerID <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "sellerId", Message: "sellerId must be a positive integer"})
	}
	if productID <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "productId", Message: "productId must be a positive integer"})
	}
	return details
}
