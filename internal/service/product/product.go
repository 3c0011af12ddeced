package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/domain/product"
	xerrors "storefront-service/internal/pkg/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	listCacheKeyAll       = "products:list:all"
	listCacheKeyAvailable = "products:list:available"
	listCacheTTL          = 30 * time.Second
)

// ProductRepository is the persistence surface for listings.
type ProductRepository interface {
	Create(ctx context.Context, p *product.Product) error
	FindByID(ctx context.Context, id int64) (*product.Product, error)
	List(ctx context.Context, availableOnly bool) ([]*product.Product, error)
	MarkSold(ctx context.Context, id int64) error
	DeleteOwned(ctx context.Context, userID, id int64) error
}

// Notifier fans product change events out to connected clients.
type Notifier interface {
	NotifyProductUpdated()
}

type ProductService struct {
	repo     ProductRepository
	images   *ImageStore
	notifier Notifier
	cache    *redis.Client
	logger   *zap.Logger
}

func NewProductService(repo ProductRepository, images *ImageStore, notifier Notifier, cache *redis.Client, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		images:   images,
		notifier: notifier,
		cache:    cache,
		logger:   logger,
	}
}

// Create lists a new product owned by userID and notifies clients.
func (s *ProductService) Create(ctx context.Context, userID int64, req *product.CreateProductRequest) (*product.Product, error) {
	p := &product.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		UserID:      userID,
		Tags:        req.Tags,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)
	s.notifier.NotifyProductUpdated()

	return p, nil
}

// List returns products with image availability, optionally filtered to
// unsold listings. Results are cached briefly in Redis.
func (s *ProductService) List(ctx context.Context, availableOnly bool) ([]*product.ProductResponse, error) {
	cacheKey := listCacheKeyAll
	if availableOnly {
		cacheKey = listCacheKeyAvailable
	}

	if cached, err := s.cache.Get(ctx, cacheKey).Bytes(); err == nil {
		var out []*product.ProductResponse
		if err := json.Unmarshal(cached, &out); err == nil {
			return out, nil
		}
	}

	products, err := s.repo.List(ctx, availableOnly)
	if err != nil {
		return nil, err
	}

	out := make([]*product.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, s.withImage(p))
	}

	if data, err := json.Marshal(out); err == nil {
		if err := s.cache.Set(ctx, cacheKey, data, listCacheTTL).Err(); err != nil {
			s.logger.Warn("failed to cache product list", zap.Error(err))
		}
	}

	return out, nil
}

// Get returns one product with image availability.
func (s *ProductService) Get(ctx context.Context, id int64) (*product.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withImage(p), nil
}

// MarkSold flags a product as sold (checkout completion) and notifies
// clients.
func (s *ProductService) MarkSold(ctx context.Context, id int64) error {
	if err := s.repo.MarkSold(ctx, id); err != nil {
		return err
	}

	s.invalidateListCache(ctx)
	s.notifier.NotifyProductUpdated()
	return nil
}

// Delete removes a product the user owns, along with its image.
func (s *ProductService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.DeleteOwned(ctx, userID, id); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return fmt.Errorf("%w: product not found or not owned", xerrors.ErrNotFound)
		}
		return err
	}

	if err := s.images.Delete(id); err != nil {
		s.logger.Warn("failed to delete product image",
			zap.Int64("product_id", id),
			zap.Error(err),
		)
	}

	s.invalidateListCache(ctx)
	s.notifier.NotifyProductUpdated()
	return nil
}

// ImageUploaded records that a product image landed on disk.
func (s *ProductService) ImageUploaded(ctx context.Context) {
	s.invalidateListCache(ctx)
	s.notifier.NotifyProductUpdated()
}

func (s *ProductService) withImage(p *product.Product) *product.ProductResponse {
	info := s.images.Info(p.ID)
	return &product.ProductResponse{
		Product:        *p,
		ImageExists:    info.Exists,
		ImageExtension: info.Extension,
	}
}

func (s *ProductService) invalidateListCache(ctx context.Context) {
	if err := s.cache.Del(ctx, listCacheKeyAll, listCacheKeyAvailable).Err(); err != nil {
		s.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}
