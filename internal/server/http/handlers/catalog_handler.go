package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zulfalsa/danusan-x/internal/server/http/dto"
	"github.com/zulfalsa/danusan-x/internal/server/http/middleware"
	"github.com/zulfalsa/danusan-x/internal/usecase"
)

// CatalogHandler serves the public catalog.
type CatalogHandler struct {
	facade CatalogFacade
}

func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// List handles GET /api/products.
func (h *CatalogHandler) List(c *gin.Context) {
	products, err := h.facade.Products(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productResponses(products))
}

// Show handles GET /api/products/:id.
func (h *CatalogHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.facade.Product(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productResponse(*product))
}

// ProductHandler manages the products of the authenticated seller.
type ProductHandler struct {
	facade    SellerFacade
	maxUpload int64
}

func NewProductHandler(facade SellerFacade, maxUpload int64) *ProductHandler {
	return &ProductHandler{facade: facade, maxUpload: maxUpload}
}

// List handles GET /api/seller/products.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.facade.SellerProducts(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productResponses(products))
}

// Create handles POST /api/seller/products.
func (h *ProductHandler) Create(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}
	product, err := h.facade.CreateProduct(c.Request.Context(), middleware.Principal(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, productResponse(*product))
}

// Update handles PUT /api/seller/products/:id. Sending no image keeps the
// current one.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	in, ok := h.bind(c)
	if !ok {
		return
	}
	product, err := h.facade.UpdateProduct(c.Request.Context(), middleware.Principal(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productResponse(*product))
}

// Delete handles DELETE /api/seller/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.facade.DeleteProduct(c.Request.Context(), middleware.Principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) bind(c *gin.Context) (usecase.ProductInput, bool) {
	var req dto.ProductRequest
	var image *usecase.Upload
	if isMultipart(c) {
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, "invalid product form")
			return usecase.ProductInput{}, false
		}
		upload, err := readUpload(c, "image", h.maxUpload)
		if err != nil {
			badRequest(c, "invalid image upload")
			return usecase.ProductInput{}, false
		}
		image = upload
	} else if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return usecase.ProductInput{}, false
	}

	return usecase.ProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Image:       image,
	}, true
}
