package product

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stockkeeper/internal/auth"
	"stockkeeper/internal/commons"
	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
)

type Controller struct {
	service *Service
	logger  *zap.Logger
}

func NewController(service *Service, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		logger:  logger,
	}
}

func (c *Controller) Routes(r chi.Router) {
	r.Get("/categories", c.HandleListCategories)
	r.Post("/categories", c.HandleCreateCategory)
	r.Get("/products", c.HandleSearchProducts)
	r.Post("/products", c.HandleCreateProduct)
	r.Get("/products/{productId}", c.HandleGetProduct)
	r.Patch("/products/{productId}", c.HandleUpdateProduct)
	r.Post("/products/{productId}/restock", c.HandleRestock)
}

func (c *Controller) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryInput
	if !commons.DecodeJSON(w, r, c.logger, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		commons.WriteValidationError(w, r, c.logger, "validation failed", apperrors.ValidationDetail{
			Field:   "name",
			Message: "name is required",
		})
		return
	}

	category, err := c.service.CreateCategory(r.Context(), auth.CallerFrom(r.Context()), req)
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusCreated, category)
}

func (c *Controller) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.service.ListCategories(r.Context())
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, categories)
}

func (c *Controller) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductInput
	if !commons.DecodeJSON(w, r, c.logger, &req) {
		return
	}
	if err := c.validateCreateProduct(req); err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}

	p, err := c.service.CreateProduct(r.Context(), auth.CallerFrom(r.Context()), req)
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusCreated, p)
}

func (c *Controller) validateCreateProduct(req CreateProductInput) error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(req.Name) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(req.SKU) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "sku", Message: "sku is required"})
	}
	if req.Price.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price must be non-negative"})
	}
	if req.CostPrice.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "costPrice", Message: "costPrice must be non-negative"})
	}
	if req.WarehouseQuantity < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "warehouseQuantity", Message: "warehouseQuantity must be non-negative"})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func (c *Controller) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := commons.ParseID(chi.URLParam(r, "productId"), "productId")
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}

	p, err := c.service.GetProduct(r.Context(), id)
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, p)
}

// HandleSearchProducts accepts ?ids=1,2,3&categoryId=4&active=true.
func (c *Controller) HandleSearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ProductFilter{ActiveOnly: commons.ParseBool(q.Get("active"))}

	categoryID, err := commons.OptionalID(q.Get("categoryId"), "categoryId")
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	filter.CategoryID = categoryID

	if raw := q.Get("ids"); raw != "" {
		parts := strings.Split(raw, ",")
		if len(parts) > 100 {
			commons.WriteValidationError(w, r, c.logger, "ids exceeds maximum of 100", apperrors.ValidationDetail{
				Field:   "ids",
				Message: "ids exceeds maximum of 100",
			})
			return
		}
		for _, part := range parts {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil || id <= 0 {
				commons.WriteValidationError(w, r, c.logger, "each id must be a positive integer", apperrors.ValidationDetail{
					Field:   "ids",
					Message: "each id must be a positive integer",
				})
				return
			}
			filter.IDs = append(filter.IDs, id)
		}
	}

	found, notFound, err := c.service.SearchProducts(r.Context(), filter)
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, SearchProductsResponse{Products: found, NotFound: notFound})
}

func (c *Controller) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := commons.ParseID(chi.URLParam(r, "productId"), "productId")
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}

	var req UpdateProductInput
	if !commons.DecodeJSON(w, r, c.logger, &req) {
		return
	}
	if (req.Price != nil && req.Price.IsNegative()) || (req.CostPrice != nil && req.CostPrice.IsNegative()) {
		commons.WriteValidationError(w, r, c.logger, "prices must be non-negative", apperrors.ValidationDetail{
			Field:   "price",
			Message: "prices must be non-negative",
		})
		return
	}

	p, err := c.service.UpdateProduct(r.Context(), auth.CallerFrom(r.Context()), id, req)
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, p)
}

func (c *Controller) HandleRestock(w http.ResponseWriter, r *http.Request) {
	id, err := commons.ParseID(chi.URLParam(r, "productId"), "productId")
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}

	var req RestockRequest
	if !commons.DecodeJSON(w, r, c.logger, &req) {
		return
	}

	p, err := c.service.Restock(r.Context(), auth.CallerFrom(r.Context()), id, req.Quantity)
	if err != nil {
		commons.WriteError(w, r, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, p)
}
