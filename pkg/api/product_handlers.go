package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shelfstack/catalog/pkg/httputil"
	"github.com/shelfstack/catalog/pkg/middleware"
	"github.com/shelfstack/catalog/pkg/observability"
	"github.com/shelfstack/catalog/pkg/storage"
)

// ProductHandlers handles product CRUD and listing
type ProductHandlers struct {
	products        ProductStore
	logger          *observability.Logger
	defaultPageSize int
	maxPageSize     int
}

// NewProductHandlers creates a new product handlers instance
func NewProductHandlers(products ProductStore, logger *observability.Logger, defaultPageSize, maxPageSize int) *ProductHandlers {
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &ProductHandlers{
		products:        products,
		logger:          logger,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// pagination is the listing metadata block
type pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type listResponse struct {
	Products   []*Product `json:"products"`
	Pagination pagination `json:"pagination"`
}

type productResponse struct {
	Message string   `json:"message"`
	Product *Product `json:"product"`
}

// list handles GET /products
func (h *ProductHandlers) list(w http.ResponseWriter, r *http.Request) {
	filter := ProductFilter{
		Category: httputil.ParseQueryString(r, "category", ""),
		Search:   httputil.ParseQueryString(r, "search", ""),
	}
	params := httputil.ParsePageParams(r, h.defaultPageSize, h.maxPageSize)

	items, total, err := h.products.ListProducts(r.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		h.logger.WithError(err).Error("product listing failed")
		httputil.WriteInternalError(w, "Server error fetching products")
		return
	}
	if items == nil {
		items = []*Product{}
	}

	totalPages := (total + params.Limit - 1) / params.Limit

	httputil.WriteSuccess(w, listResponse{
		Products: items,
		Pagination: pagination{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// get handles GET /products/{id}
func (h *ProductHandlers) get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParsePathInt64(r, "id")
	if err != nil {
		httputil.WriteValidationError(w, "Valid product id is required")
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFoundError(w, "Product not found")
			return
		}
		h.logger.WithError(err).Error("product fetch failed")
		httputil.WriteInternalError(w, "Server error fetching product")
		return
	}

	httputil.WriteSuccess(w, product)
}

// create handles POST /products
func (h *ProductHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if msg, ok := validateProduct(&req); !ok {
		httputil.WriteValidationError(w, msg)
		return
	}

	claims := middleware.GetClaims(r)
	if claims == nil {
		httputil.WriteUnauthorized(w, "Access token required")
		return
	}

	fields := req.fields()
	product := &Product{
		Name:        fields.Name,
		Price:       fields.Price,
		Category:    fields.Category,
		Description: fields.Description,
		OwnerID:     claims.UserID,
	}
	if err := h.products.CreateProduct(r.Context(), product); err != nil {
		h.logger.WithError(err).Error("product creation failed")
		httputil.WriteInternalError(w, "Server error creating product")
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"product_id": product.ID,
		"user_id":    claims.UserID,
	}).Info("product created")

	httputil.WriteCreated(w, productResponse{
		Message: "Product created successfully",
		Product: product,
	})
}

// update handles PUT /products/{id}
func (h *ProductHandlers) update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParsePathInt64(r, "id")
	if err != nil {
		httputil.WriteValidationError(w, "Valid product id is required")
		return
	}

	var req productRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if msg, ok := validateProduct(&req); !ok {
		httputil.WriteValidationError(w, msg)
		return
	}

	claims := middleware.GetClaims(r)
	if claims == nil {
		httputil.WriteUnauthorized(w, "Access token required")
		return
	}

	product, err := h.products.UpdateProduct(r.Context(), id, claims.UserID, req.fields())
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			httputil.WriteNotFoundError(w, "Product not found")
		case errors.Is(err, storage.ErrNotOwner):
			httputil.WriteForbidden(w, "Not authorized to update this product")
		default:
			h.logger.WithError(err).Error("product update failed")
			httputil.WriteInternalError(w, "Server error updating product")
		}
		return
	}

	httputil.WriteSuccess(w, productResponse{
		Message: "Product updated successfully",
		Product: product,
	})
}

// delete handles DELETE /products/{id}
func (h *ProductHandlers) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParsePathInt64(r, "id")
	if err != nil {
		httputil.WriteValidationError(w, "Valid product id is required")
		return
	}

	claims := middleware.GetClaims(r)
	if claims == nil {
		httputil.WriteUnauthorized(w, "Access token required")
		return
	}

	if err := h.products.DeleteProduct(r.Context(), id, claims.UserID); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			httputil.WriteNotFoundError(w, "Product not found")
		case errors.Is(err, storage.ErrNotOwner):
			httputil.WriteForbidden(w, "Not authorized to delete this product")
		default:
			h.logger.WithError(err).Error("product deletion failed")
			httputil.WriteInternalError(w, "Server error deleting product")
		}
		return
	}

	httputil.WriteSuccess(w, map[string]string{"message": "Product deleted successfully"})
}

// RegisterRoutes registers product routes on the given (already
// auth-protected) router
func (h *ProductHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/products", h.list).Methods(http.MethodGet)
	router.HandleFunc("/products", h.create).Methods(http.MethodPost)
	router.HandleFunc("/products/{id}", h.get).Methods(http.MethodGet)
	router.HandleFunc("/products/{id}", h.update).Methods(http.MethodPut)
	router.HandleFunc("/products/{id}", h.delete).Methods(http.MethodDelete)
}
