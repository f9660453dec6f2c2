package services

import (
	"context"
	"math"
	"tech-store/models"
)

type ProductStore interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetAllProducts(ctx context.Context, page, limit int) ([]models.Product, int, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	GetProductDetail(ctx context.Context, id int) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int) error
}

type ProductService struct {
	productRepo ProductStore
}

func NewProductService(productRepo ProductStore) *ProductService {
	return &ProductService{productRepo: productRepo}
}

func (s *ProductService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	return s.productRepo.GetAllCategories(ctx)
}

func (s *ProductService) GetAllProducts(ctx context.Context, page, limit int) (*models.PaginationResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	products, total, err := s.productRepo.GetAllProducts(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	return &models.PaginationResponse{
		Success: true,
		Message: "Products retrieved successfully",
		Data:    products,
		Meta: models.MetaData{
			Page:       page,
			Limit:      limit,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *ProductService) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	return s.productRepo.GetProductDetail(ctx, id)
}

func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    true,
		ImageURL:    req.ImageURL,
	}

	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id int, req models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.CategoryID > 0 {
		product.CategoryID = req.CategoryID
	}
	if req.BrandID != nil {
		product.BrandID = req.BrandID
	}
	if req.Price > 0 {
		product.Price = req.Price
	}
	if req.Stock != nil && *req.Stock >= 0 {
		product.Stock = *req.Stock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.ImageURL != "" {
		product.ImageURL = req.ImageURL
	}

	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	return s.productRepo.DeleteProduct(ctx, id)
}
