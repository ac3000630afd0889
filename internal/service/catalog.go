package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const searchLimit = 500

type ProductSearcher interface {
	SearchIDs(ctx context.Context, query string, limit int) ([]uint, error)
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Files  FileStore
	Search ProductSearcher
}

type ProductInput struct {
	CategoryID  *uint
	Name        string
	Description string
	Price       int64
	Stock       int
	Image       *Upload
}

type ProductPatch struct {
	CategoryID  *uint
	Name        *string
	Description *string
	Price       *int64
	Stock       *int
	Image       *Upload
}

// ListProducts goes through the search index when one is configured and
// falls back to LIKE matching otherwise or when the index fails.
func (s *CatalogService) ListProducts(ctx context.Context, f repo.ProductFilter) ([]models.Product, int64, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.list_products")

	if f.Sort != "" && !repo.ValidProductSort(f.Sort) {
		return nil, 0, invalid("sort", "The selected sort is invalid.")
	}

	if f.Search != "" && s.Search != nil {
		ids, err := s.Search.SearchIDs(ctx, f.Search, searchLimit)
		if err == nil {
			f.IDs = ids
			if f.IDs == nil {
				f.IDs = []uint{}
			}
			f.Search = ""
		} else {
			l.Warn("search_index_failed", "reason", "falling back to LIKE", "error", err)
		}
	}
	return s.Repo.ListProducts(ctx, f)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return p, nil
}

func (s *CatalogService) checkCategory(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	if _, err := s.Repo.GetCategory(ctx, *id); err != nil {
		if isRecordNotFound(err) {
			return invalid("category_id", "The selected category id is invalid.")
		}
		return err
	}
	return nil
}

func checkProductFields(ve *ValidationError, price *int64, stock *int) {
	if price != nil && (*price < MinPrice || *price > MaxPrice) {
		ve.Add("price", fmt.Sprintf("The price field must be between %d and %d.", MinPrice, MaxPrice))
	}
	if stock != nil && *stock < 0 {
		ve.Add("stock", "The stock field must be at least 0.")
	}
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_product")

	ve := &ValidationError{}
	if in.Name == "" {
		ve.Add("name", "The name field is required.")
	}
	checkProductFields(ve, &in.Price, &in.Stock)
	checkUpload(ve, "image", in.Image, MaxProductImageSize, productImageExts)
	if err := ve.Err(); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	p := &models.Product{
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
	}
	if in.Image != nil {
		path, err := s.Files.Put(ProductImageDir, in.Image.Filename, in.Image.Reader)
		if err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		p.Image = &path
	}

	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		if p.Image != nil {
			_ = s.Files.Delete(*p.Image)
		}
		return nil, err
	}

	s.index(ctx, p)
	l.Info("product_created", "product_id", p.ID)
	return s.GetProduct(ctx, p.ID)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, in ProductPatch) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update_product", "product_id", id)

	ve := &ValidationError{}
	if in.Name != nil && *in.Name == "" {
		ve.Add("name", "The name field is required.")
	}
	checkProductFields(ve, in.Price, in.Stock)
	checkUpload(ve, "image", in.Image, MaxProductImageSize, productImageExts)
	if err := ve.Err(); err != nil {
		return nil, err
	}

	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	if in.CategoryID != nil {
		p.CategoryID = in.CategoryID
	}
	setString(&p.Name, in.Name)
	setString(&p.Description, in.Description)
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}

	var oldImage string
	if in.Image != nil {
		path, err := s.Files.Put(ProductImageDir, in.Image.Filename, in.Image.Reader)
		if err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		if p.Image != nil {
			oldImage = *p.Image
		}
		p.Image = &path
	}

	p.Category = nil
	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		if in.Image != nil {
			_ = s.Files.Delete(*p.Image)
		}
		return nil, err
	}
	if oldImage != "" {
		if err := s.Files.Delete(oldImage); err != nil {
			l.Warn("image_cleanup_failed", "path", oldImage, "error", err)
		}
	}

	s.index(ctx, p)
	l.Info("product_updated")
	return s.GetProduct(ctx, id)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete_product", "product_id", id)

	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return notFound(err, "product")
	}
	used, err := s.Repo.ProductReferenced(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return fmt.Errorf("%w: Cannot delete product that is used in orders.", ErrConflict)
	}
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return notFound(err, "product")
	}

	if p.Image != nil {
		if err := s.Files.Delete(*p.Image); err != nil {
			l.Warn("image_cleanup_failed", "path", *p.Image, "error", err)
		}
	}
	if s.Search != nil {
		if err := s.Search.DeleteProduct(ctx, id); err != nil {
			l.Warn("search_unindex_failed", "error", err)
		}
	}
	l.Info("product_deleted")
	return nil
}

func (s *CatalogService) index(ctx context.Context, p *models.Product) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
	}
}

func (s *CatalogService) ListCategories(ctx context.Context, search string, p repo.Page) ([]models.Category, int64, error) {
	return s.Repo.ListCategories(ctx, search, p)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}
	return c, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	if name == "" {
		return nil, invalid("name", "The name field is required.")
	}
	c := &models.Category{Name: name, Description: description}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		return nil, duplicate(err, "The name has already been taken.")
	}
	logging.FromContext(ctx).Info("category_created", "svc", "catalog.create_category", "category_id", c.ID)
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, name, description *string) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}
	if name != nil && *name == "" {
		return nil, invalid("name", "The name field is required.")
	}
	setString(&c.Name, name)
	setString(&c.Description, description)
	if err := s.Repo.SaveCategory(ctx, c); err != nil {
		return nil, duplicate(err, "The name has already been taken.")
	}
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.Repo.GetCategory(ctx, id); err != nil {
		return notFound(err, "category")
	}
	n, err := s.Repo.CountProductsInCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: Cannot delete category that still has products.", ErrConflict)
	}
	return notFound(s.Repo.DeleteCategory(ctx, id), "category")
}
