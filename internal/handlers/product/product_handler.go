package product

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"storefront-service/internal/domain/product"
	"storefront-service/internal/middleware"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/response"
	productUsecase "storefront-service/internal/service/product"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxImageSize caps uploads at 500KB. Listings carry a single JPEG.
const maxImageSize = 500 * 1024

type ProductHandler struct {
	svc    *productUsecase.ProductService
	images *productUsecase.ImageStore
	logger *zap.Logger
}

func NewProductHandler(svc *productUsecase.ProductService, images *productUsecase.ImageStore, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		svc:    svc,
		images: images,
		logger: logger,
	}
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req product.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid product payload", err)
		return
	}

	userID := middleware.MustGetUserID(c)

	p, err := h.svc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.logger.Error("failed to create product", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to create product", nil)
		return
	}

	response.Success(c, http.StatusCreated, "product created", p)
}

// List handles GET /products. ?status=available filters out sold
// listings.
func (h *ProductHandler) List(c *gin.Context) {
	availableOnly := c.Query("status") == "available"

	products, err := h.svc.List(c.Request.Context(), availableOnly)
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to list products", nil)
		return
	}

	response.Success(c, http.StatusOK, "products retrieved", products)
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		h.logger.Error("failed to get product", zap.Int64("product_id", id), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to get product", nil)
		return
	}

	response.Success(c, http.StatusOK, "product retrieved", p)
}

// Delete handles DELETE /products/:id. Only the owner may delete.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	userID := middleware.MustGetUserID(c)

	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		h.logger.Error("failed to delete product", zap.Int64("product_id", id), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to delete product", nil)
		return
	}

	response.Success(c, http.StatusOK, "product deleted", nil)
}

// UploadImage handles POST /products/:id/image. One JPEG per product,
// stored on disk as <productId><ext>.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	if _, err := h.svc.Get(c.Request.Context(), id); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		h.logger.Error("failed to load product for upload", zap.Int64("product_id", id), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to upload image", nil)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		response.ValidationError(c, "image file is required", err)
		return
	}

	if file.Size > maxImageSize {
		response.ValidationError(c, "image exceeds the 500KB limit", nil)
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".jpg" && ext != ".jpeg" {
		response.ValidationError(c, "only JPEG images are accepted", nil)
		return
	}

	// Replace any previous image so a stale extension never lingers.
	if err := h.images.Delete(id); err != nil {
		h.logger.Warn("failed to remove previous image", zap.Int64("product_id", id), zap.Error(err))
	}

	if err := c.SaveUploadedFile(file, h.images.Path(id, ext)); err != nil {
		h.logger.Error("failed to save product image", zap.Int64("product_id", id), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to save image", nil)
		return
	}

	h.svc.ImageUploaded(c.Request.Context())

	response.Success(c, http.StatusCreated, "image uploaded", nil)
}

// Image handles GET /products/:id/image
func (h *ProductHandler) Image(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	info := h.images.Info(id)
	if !info.Exists {
		response.NotFound(c, "image not found")
		return
	}

	c.File(h.images.Path(id, info.Extension))
}

func (h *ProductHandler) productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ValidationError(c, "invalid product id", err)
		return 0, false
	}
	return id, true
}
