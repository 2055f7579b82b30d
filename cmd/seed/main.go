package main

import (
	"time"

	"github.com/tokoline/tokoline/internal/config"
	"github.com/tokoline/tokoline/internal/logger"
	"github.com/tokoline/tokoline/internal/models"
)

// 开发环境演示数据，幂等执行。
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库连接失败: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 分类
	categories := []models.Category{
		{Name: "Kopi", Description: "Biji kopi dan minuman kopi siap seduh", SortOrder: 1},
		{Name: "Snack", Description: "Camilan dan makanan ringan", SortOrder: 2},
		{Name: "Peralatan", Description: "Peralatan seduh dan aksesoris dapur", SortOrder: 3},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("name = ?", cat.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("创建分类 %s 失败: %v", cat.Name, err)
			} else {
				stdLog.Printf("已创建分类: %s", cat.Name)
			}
		} else {
			stdLog.Printf("分类已存在: %s", cat.Name)
		}
	}

	// 商品
	products := []models.Product{
		{
			Name:         "Kopi Susu Gula Aren 1L",
			Category:     "Kopi",
			RegularPrice: models.NewMoneyFromInt(95000),
			PromoPrice:   models.NewMoneyFromInt(85000),
			Stock:        120,
			Status:       "active",
			Description:  "Kopi susu kekinian dengan gula aren asli, botol 1 liter.",
			Variants: []models.ProductVariant{
				{Name: "Less Sugar", Price: models.NewMoneyFromInt(85000), Stock: 60},
				{Name: "Extra Shot", Price: models.NewMoneyFromInt(95000), Stock: 60},
			},
		},
		{
			Name:         "Biji Kopi Gayo 250g",
			Category:     "Kopi",
			RegularPrice: models.NewMoneyFromInt(78000),
			Stock:        80,
			Status:       "active",
			Description:  "Single origin Aceh Gayo, medium roast.",
		},
		{
			Name:         "Keripik Singkong Balado",
			Category:     "Snack",
			RegularPrice: models.NewMoneyFromInt(18000),
			PromoPrice:   models.NewMoneyFromInt(15000),
			Stock:        200,
			Status:       "active",
			Description:  "Keripik singkong pedas manis khas Padang.",
		},
		{
			Name:         "V60 Dripper Set",
			Category:     "Peralatan",
			RegularPrice: models.NewMoneyFromInt(145000),
			Stock:        35,
			Status:       "active",
			Description:  "Dripper, server dan filter kertas 40 lembar.",
		},
	}
	for _, p := range products {
		var existing models.Product
		if err := models.DB.Where("name = ?", p.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&p).Error; err != nil {
				stdLog.Printf("创建商品 %s 失败: %v", p.Name, err)
			} else {
				stdLog.Printf("已创建商品: %s", p.Name)
			}
		} else {
			stdLog.Printf("商品已存在: %s", p.Name)
		}
	}

	// 优惠券
	end := time.Now().AddDate(0, 1, 0)
	vouchers := []models.Voucher{
		{
			Code:          "HEMAT10",
			Description:   "Diskon 10% untuk semua pesanan",
			DiscountType:  "percentage",
			DiscountValue: models.NewMoneyFromInt(10),
			MinPurchase:   models.NewMoneyFromInt(50000),
			MaxDiscount:   models.NewMoneyFromInt(25000),
			UsageLimit:    100,
			EndDate:       &end,
			IsActive:      true,
		},
		{
			Code:          "ONGKIR5K",
			Description:   "Potongan tetap Rp5.000",
			DiscountType:  "fixed",
			DiscountValue: models.NewMoneyFromInt(5000),
			MinPurchase:   models.NewMoneyFromInt(30000),
			EndDate:       &end,
			IsActive:      true,
		},
	}
	for _, v := range vouchers {
		var existing models.Voucher
		if err := models.DB.Where("code = ?", v.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&v).Error; err != nil {
				stdLog.Printf("创建优惠券 %s 失败: %v", v.Code, err)
			} else {
				stdLog.Printf("已创建优惠券: %s", v.Code)
			}
		} else {
			stdLog.Printf("优惠券已存在: %s", v.Code)
		}
	}

	// 首页挂件
	widgets := []models.Widget{
		{Type: "banner", Title: "Promo Gajian", Content: "Diskon sampai 30% untuk kopi pilihan", LinkURL: "/products?category=Kopi", SortOrder: 1, IsActive: true},
		{Type: "announcement", Title: "Info Pengiriman", Content: "Pesanan sebelum jam 3 sore dikirim hari yang sama", SortOrder: 2, IsActive: true},
	}
	for _, w := range widgets {
		var existing models.Widget
		if err := models.DB.Where("type = ? AND title = ?", w.Type, w.Title).First(&existing).Error; err != nil {
			if err := models.DB.Create(&w).Error; err != nil {
				stdLog.Printf("创建挂件 %s 失败: %v", w.Title, err)
			} else {
				stdLog.Printf("已创建挂件: %s", w.Title)
			}
		} else {
			stdLog.Printf("挂件已存在: %s", w.Title)
		}
	}

	stdLog.Println("演示数据初始化完成")
}
