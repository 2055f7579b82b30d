package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupReviewServiceTest(t *testing.T) (*ReviewService, *gorm.DB, *models.Order, *models.Product) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Review{}, &models.Order{}, &models.OrderItem{},
		&models.Product{}, &models.ProductImage{}, &models.ProductVariant{},
	); err != nil {
		t.Fatalf("migrate review models failed: %v", err)
	}

	product := &models.Product{Name: "Kopi", Category: "minuman", RegularPrice: amount(20000), Status: "active"}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	order := &models.Order{
		OrderNo: "TL20260101", CustomerName: "Budi", CustomerEmail: "budi@example.com",
		Status: "completed", TotalAmount: amount(20000),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}
	productID := product.ID
	if err := db.Create(&models.OrderItem{OrderID: order.ID, ProductID: &productID, ProductName: "Kopi", Quantity: 1, Price: amount(20000)}).Error; err != nil {
		t.Fatalf("seed order item failed: %v", err)
	}

	svc := NewReviewService(
		repository.NewReviewRepository(db),
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
	)
	return svc, db, order, product
}

func TestSubmitReviewUpserts(t *testing.T) {
	svc, db, order, product := setupReviewServiceTest(t)

	review, err := svc.SubmitReview(SubmitReviewInput{
		CustomerName: "Budi", CustomerEmail: "Budi@Example.com",
		OrderID: order.ID, ProductID: product.ID,
		Rating: 4, Comment: "Mantap",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if review.CustomerEmail != "budi@example.com" {
		t.Fatalf("email = %q, want lowercased", review.CustomerEmail)
	}

	// 同一 (邮箱, 订单, 商品) 重复提交是修改而不是新增
	updated, err := svc.SubmitReview(SubmitReviewInput{
		CustomerName: "Budi", CustomerEmail: "budi@example.com",
		OrderID: order.ID, ProductID: product.ID,
		Rating: 2, Comment: "Ternyata biasa saja",
	})
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if updated.ID != review.ID {
		t.Fatalf("resubmit created new row: %d != %d", updated.ID, review.ID)
	}

	var count int64
	if err := db.Model(&models.Review{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("reviews = %d, want 1", count)
	}
	var reloaded models.Review
	if err := db.First(&reloaded, review.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Rating != 2 || reloaded.Comment != "Ternyata biasa saja" {
		t.Fatalf("review not updated: %+v", reloaded)
	}
}

func TestSubmitReviewValidation(t *testing.T) {
	svc, _, order, product := setupReviewServiceTest(t)

	// 评分越界
	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.SubmitReview(SubmitReviewInput{
			CustomerName: "Budi", CustomerEmail: "budi@example.com",
			OrderID: order.ID, ProductID: product.ID, Rating: rating,
		}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("rating %d err = %v, want ErrInvalidInput", rating, err)
		}
	}

	// 订单不属于提交人
	if _, err := svc.SubmitReview(SubmitReviewInput{
		CustomerName: "Sari", CustomerEmail: "sari@example.com",
		OrderID: order.ID, ProductID: product.ID, Rating: 5,
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign order err = %v, want ErrNotFound", err)
	}

	// 订单里没有这个商品
	if _, err := svc.SubmitReview(SubmitReviewInput{
		CustomerName: "Budi", CustomerEmail: "budi@example.com",
		OrderID: order.ID, ProductID: product.ID + 100, Rating: 5,
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing product err = %v, want ErrNotFound", err)
	}
}

func TestProductRatingSummary(t *testing.T) {
	svc, db, order, product := setupReviewServiceTest(t)

	seeds := []models.Review{
		{CustomerName: "A", CustomerEmail: "a@example.com", OrderID: order.ID, ProductID: product.ID, Rating: 5},
		{CustomerName: "B", CustomerEmail: "b@example.com", OrderID: order.ID, ProductID: product.ID, Rating: 3},
	}
	for i := range seeds {
		if err := db.Create(&seeds[i]).Error; err != nil {
			t.Fatalf("seed review failed: %v", err)
		}
	}

	avg, count, err := svc.ProductRating(product.ID)
	if err != nil {
		t.Fatalf("rating failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if avg < 3.99 || avg > 4.01 {
		t.Fatalf("avg = %f, want 4.0", avg)
	}
}
