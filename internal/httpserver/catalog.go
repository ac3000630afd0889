package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/response"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	p := pageParams(c)
	items, total, err := h.Svc.ListProducts(ctx, repo.ProductFilter{
		CategoryID: parseOptionalUint(c.QueryParam("category_id")),
		Search:     c.QueryParam("search"),
		Sort:       c.QueryParam("sort"),
		Page:       p.Page,
	})
	if err != nil {
		return fail(l, "get_products_failed", err)
	}
	return paginated(c, "Products retrieved successfully", items, total, len(items), p)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	prod, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product_failed", err)
	}
	return response.Success(c, http.StatusOK, "Product retrieved successfully", prod)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.CreateProductRequest
	if err := bind(c, l, "product_create_failed", &req); err != nil {
		return err
	}
	img, closeImg, err := formUpload(c, "image")
	if err != nil {
		return err
	}
	defer closeImg()

	prod, err := h.Svc.CreateProduct(ctx, service.ProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Image:       img,
	})
	if err != nil {
		return fail(l, "product_create_failed", err)
	}

	l.Info("create_product_success", "product_id", prod.ID)
	return response.Success(c, http.StatusCreated, "Product created successfully", prod)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req transport.UpdateProductRequest
	if err := bind(c, l, "product_update_failed", &req); err != nil {
		return err
	}
	img, closeImg, err := formUpload(c, "image")
	if err != nil {
		return err
	}
	defer closeImg()

	prod, err := h.Svc.UpdateProduct(ctx, id, service.ProductPatch{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Image:       img,
	})
	if err != nil {
		return fail(l, "product_update_failed", err)
	}

	l.Info("update_product_success", "product_id", id)
	return response.Success(c, http.StatusOK, "Product updated successfully", prod)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return fail(l, "product_delete_failed", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return response.Success(c, http.StatusOK, "Product deleted successfully", nil)
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_categories")

	p := pageParams(c)
	if c.QueryParam("per_page") == "" && c.QueryParam("page") == "" {
		p.Page = repo.Page{}
	}
	items, total, err := h.Svc.ListCategories(ctx, c.QueryParam("search"), p.Page)
	if err != nil {
		return fail(l, "get_categories_failed", err)
	}
	if p.Limit == 0 {
		return response.Success(c, http.StatusOK, "Categories retrieved successfully", items)
	}
	return paginated(c, "Categories retrieved successfully", items, total, len(items), p)
}

func (h *CatalogHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_category")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	cat, err := h.Svc.GetCategory(ctx, id)
	if err != nil {
		return fail(l, "get_category_failed", err)
	}
	return response.Success(c, http.StatusOK, "Category retrieved successfully", cat)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create_category")

	var req transport.CategoryRequest
	if err := bind(c, l, "category_create_failed", &req); err != nil {
		return err
	}
	cat, err := h.Svc.CreateCategory(ctx, req.Name, req.Description)
	if err != nil {
		return fail(l, "category_create_failed", err)
	}
	return response.Success(c, http.StatusCreated, "Category created successfully", cat)
}

func (h *CatalogHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update_category")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req transport.UpdateCategoryRequest
	if err := bind(c, l, "category_update_failed", &req); err != nil {
		return err
	}
	cat, err := h.Svc.UpdateCategory(ctx, id, req.Name, req.Description)
	if err != nil {
		return fail(l, "category_update_failed", err)
	}
	return response.Success(c, http.StatusOK, "Category updated successfully", cat)
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete_category")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return fail(l, "category_delete_failed", err)
	}
	return response.Success(c, http.StatusOK, "Category deleted successfully", nil)
}
