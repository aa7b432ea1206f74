package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/catalog"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCatalogRepository implements catalog.CatalogRepository using GORM
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GormCatalogRepository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// ReplaceShopCatalog rebuilds the offer set of the user's shop from feed in
// one transaction. Existing offers are deleted first; their parameters
// cascade and order lines pointing at them keep a NULL offer.
func (r *GormCatalogRepository) ReplaceShopCatalog(ctx context.Context, userID int64, sourceURL string, feed *catalog.Feed) (*catalog.ImportResult, error) {
	result := &catalog.ImportResult{ShopName: feed.Shop}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		shop, err := upsertShop(tx, userID, feed.Shop, sourceURL)
		if err != nil {
			return err
		}
		result.ShopID = shop.ID

		if err := upsertCategories(tx, shop.ID, feed.Categories); err != nil {
			return err
		}
		result.Categories = len(feed.Categories)

		if err := tx.Where("shop_id = ?", shop.ID).Delete(&models.ProductInfoModel{}).Error; err != nil {
			return fmt.Errorf("failed to purge offers: %w", err)
		}

		products := make(map[productKey]int64)
		params := make(map[string]int64)
		for i := range feed.Goods {
			n, err := createOffer(tx, shop.ID, &feed.Goods[i], products, params)
			if err != nil {
				return fmt.Errorf("goods[%d]: %w", i, err)
			}
			result.Offers++
			result.Parameters += n
		}
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	return result, nil
}

type productKey struct {
	name       string
	categoryID int64
}

// upsertShop finds the shop by (name, owner) or creates it. The unique owner
// column rejects a second shop for the same user.
func upsertShop(tx *gorm.DB, userID int64, name, sourceURL string) (*models.ShopModel, error) {
	var shop models.ShopModel
	err := tx.Where("name = ? AND user_id = ?", name, userID).First(&shop).Error
	switch {
	case err == nil:
		shop.URL = sourceURL
		shop.UpdatedAt = time.Now()
		if err := tx.Model(&shop).Updates(map[string]any{"url": shop.URL, "updated_at": shop.UpdatedAt}).Error; err != nil {
			return nil, fmt.Errorf("failed to update shop: %w", err)
		}
		return &shop, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	now := time.Now()
	owner := userID
	shop = models.ShopModel{
		BaseModel: models.BaseModel{CreatedAt: now, UpdatedAt: now},
		Name:      name,
		URL:       sourceURL,
		UserID:    &owner,
		State:     true,
	}
	if err := tx.Create(&shop).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, shared.NewConflictError("user already owns a shop with a different name")
		}
		return nil, fmt.Errorf("failed to create shop: %w", err)
	}
	return &shop, nil
}

func upsertCategories(tx *gorm.DB, shopID int64, categories []catalog.FeedCategory) error {
	for _, c := range categories {
		category := models.CategoryModel{ID: c.ID, Name: c.Name}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).Create(&category).Error; err != nil {
			return fmt.Errorf("failed to save category %d: %w", c.ID, err)
		}

		link := models.CategoryShopModel{CategoryID: c.ID, ShopID: shopID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return fmt.Errorf("failed to link category %d: %w", c.ID, err)
		}
	}
	return nil
}

// createOffer stores one good and its parameters, returning how many
// parameter values were written
func createOffer(tx *gorm.DB, shopID int64, good *catalog.FeedGood, products map[productKey]int64, params map[string]int64) (int, error) {
	key := productKey{name: good.Name, categoryID: good.Category}
	productID, ok := products[key]
	if !ok {
		product := models.ProductModel{Name: good.Name, CategoryID: good.Category}
		if err := tx.Where("name = ? AND category_id = ?", good.Name, good.Category).
			FirstOrCreate(&product).Error; err != nil {
			return 0, fmt.Errorf("failed to save product: %w", err)
		}
		productID = product.ID
		products[key] = productID
	}

	offer := models.ProductInfoModel{
		ProductID:  productID,
		ShopID:     shopID,
		ExternalID: good.ID,
		Model:      good.Model,
		Quantity:   good.Quantity,
		Price:      good.Price,
		PriceRRC:   good.PriceRRC,
	}
	if err := tx.Omit(clause.Associations).Create(&offer).Error; err != nil {
		return 0, fmt.Errorf("failed to save offer: %w", err)
	}

	values := good.SortedParameters()
	for _, p := range values {
		parameterID, ok := params[p.Name]
		if !ok {
			parameter := models.ParameterModel{Name: p.Name}
			if err := tx.Where("name = ?", p.Name).FirstOrCreate(&parameter).Error; err != nil {
				return 0, fmt.Errorf("failed to save parameter %q: %w", p.Name, err)
			}
			parameterID = parameter.ID
			params[p.Name] = parameterID
		}

		value := models.ProductParameterModel{
			ProductInfoID: offer.ID,
			ParameterID:   parameterID,
			Value:         p.Value,
		}
		if err := tx.Omit(clause.Associations).Create(&value).Error; err != nil {
			return 0, fmt.Errorf("failed to save parameter %q: %w", p.Name, err)
		}
	}
	return len(values), nil
}

// ListActiveShops returns shops accepting orders
func (r *GormCatalogRepository) ListActiveShops(ctx context.Context) ([]catalog.Shop, error) {
	var rows []models.ShopModel
	if err := r.db.WithContext(ctx).
		Where("state = ?", true).
		Order("name").Order("id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	shops := make([]catalog.Shop, 0, len(rows))
	for i := range rows {
		shops = append(shops, *rows[i].ToDomain())
	}
	return shops, nil
}

// ListCategories returns every category ordered by name
func (r *GormCatalogRepository) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).Order("name").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	categories := make([]catalog.Category, 0, len(rows))
	for i := range rows {
		categories = append(categories, *rows[i].ToDomain())
	}
	return categories, nil
}

// ListOffers returns offers of active shops, optionally narrowed to a shop
// and/or a category
func (r *GormCatalogRepository) ListOffers(ctx context.Context, filter catalog.OfferFilter) ([]catalog.ProductOffer, error) {
	query := r.offerQuery(ctx).
		Joins("JOIN shops ON shops.id = product_infos.shop_id AND shops.state = ?", true)
	if filter.ShopID != nil {
		query = query.Where("product_infos.shop_id = ?", *filter.ShopID)
	}
	if filter.CategoryID != nil {
		query = query.Where("product_infos.product_id IN (?)",
			r.db.Model(&models.ProductModel{}).Select("id").Where("category_id = ?", *filter.CategoryID))
	}

	var rows []models.ProductInfoModel
	if err := query.Order("product_infos.id").Find(&rows).Error; err != nil {
		return nil, err
	}
	offers := make([]catalog.ProductOffer, 0, len(rows))
	for i := range rows {
		offers = append(offers, *rows[i].ToDomain())
	}
	return offers, nil
}

// FindOfferByID loads an offer with its shop, product and parameters
func (r *GormCatalogRepository) FindOfferByID(ctx context.Context, id int64) (*catalog.ProductOffer, error) {
	var row models.ProductInfoModel
	if err := r.offerQuery(ctx).Where("product_infos.id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Product offer")
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

func (r *GormCatalogRepository) offerQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.ProductInfoModel{}).
		Preload("Product.Category").
		Preload("Shop").
		Preload("Parameters", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_parameters.id")
		}).
		Preload("Parameters.Parameter")
}

// GormShopRepository implements catalog.ShopRepository using GORM
type GormShopRepository struct {
	db *gorm.DB
}

// NewGormShopRepository creates a new GormShopRepository
func NewGormShopRepository(db *gorm.DB) *GormShopRepository {
	return &GormShopRepository{db: db}
}

// FindByUserID returns the shop owned by userID
func (r *GormShopRepository) FindByUserID(ctx context.Context, userID int64) (*catalog.Shop, error) {
	var row models.ShopModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Shop")
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// UpdateState persists the shop's ordering state
func (r *GormShopRepository) UpdateState(ctx context.Context, shop *catalog.Shop) error {
	result := r.db.WithContext(ctx).
		Model(&models.ShopModel{}).
		Where("id = ?", shop.ID).
		Updates(map[string]any{"state": shop.State, "updated_at": shop.UpdatedAt})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Shop")
	}
	return nil
}
