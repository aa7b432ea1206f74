package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/trade"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements trade.OrderRepository using GORM. Totals
// are computed by an aggregate query on every read and never stored.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// GetOrCreateCart returns the user's cart, creating it when missing. A
// concurrent creation loses on uniq_cart_per_user and re-reads the winner.
func (r *GormOrderRepository) GetOrCreateCart(ctx context.Context, userID int64) (*trade.Order, error) {
	cart, err := r.findCartRow(ctx, userID)
	if err == nil {
		return cart.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	row := models.OrderModel{
		UserID:    userID,
		State:     trade.OrderStateCart,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		if !isUniqueViolation(err) {
			return nil, translateError(err)
		}
		existing, findErr := r.findCartRow(ctx, userID)
		if findErr != nil {
			return nil, findErr
		}
		return existing.ToDomain(), nil
	}
	return row.ToDomain(), nil
}

// FindCart returns the user's cart with lines, offers and total
func (r *GormOrderRepository) FindCart(ctx context.Context, userID int64) (*trade.Order, error) {
	var rows []models.OrderModel
	if err := r.detailQuery(ctx, 0).
		Where("orders.user_id = ? AND orders.state = ?", userID, trade.OrderStateCart).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.NewNotFoundError("Cart")
	}
	orders, err := r.withTotals(ctx, rows, 0)
	if err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// openCartPredicate limits a write on order_items to lines of an order that
// is still a cart, so nothing changes after a concurrent PlaceCart
const openCartPredicate = "EXISTS (SELECT 1 FROM orders WHERE orders.id = order_items.order_id AND orders.state = ?)"

// addLineSQL inserts the line only while the order is a cart. The casts keep
// PostgreSQL from typing the SELECT list parameters as text.
const addLineSQL = `INSERT INTO order_items (order_id, product_info_id, quantity)
SELECT CAST(? AS BIGINT), CAST(? AS BIGINT), CAST(? AS INTEGER)
WHERE EXISTS (SELECT 1 FROM orders WHERE orders.id = ? AND orders.state = ?)
ON CONFLICT (order_id, product_info_id)
DO UPDATE SET quantity = order_items.quantity + excluded.quantity`

// AddLine inserts an offer into the cart or increases the quantity of the
// existing line for that offer
func (r *GormOrderRepository) AddLine(ctx context.Context, cartID, offerID int64, quantity int) error {
	result := r.db.WithContext(ctx).
		Exec(addLineSQL, cartID, offerID, quantity, cartID, trade.OrderStateCart)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return trade.ErrCartClosed
	}
	return nil
}

// UpdateLineQuantity sets the quantity of a line that belongs to cartID
func (r *GormOrderRepository) UpdateLineQuantity(ctx context.Context, cartID, lineID int64, quantity int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OrderItemModel{}).
		Where("id = ? AND order_id = ?", lineID, cartID).
		Where(openCartPredicate, trade.OrderStateCart).
		Update("quantity", quantity)
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteLines removes the listed lines of cartID
func (r *GormOrderRepository) DeleteLines(ctx context.Context, cartID int64, lineIDs []int64) (int64, error) {
	if len(lineIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("order_id = ? AND id IN ?", cartID, lineIDs).
		Where(openCartPredicate, trade.OrderStateCart).
		Delete(&models.OrderItemModel{})
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}

// PlaceCart moves the cart to state new in a single conditional UPDATE. The
// order must be the user's cart, hold at least one line, and the contact
// must belong to the same user; otherwise nothing changes and 0 is returned.
func (r *GormOrderRepository) PlaceCart(ctx context.Context, userID, orderID, contactID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND user_id = ? AND state = ?", orderID, userID, trade.OrderStateCart).
		Where("EXISTS (SELECT 1 FROM contacts WHERE contacts.id = ? AND contacts.user_id = ?)", contactID, userID).
		Where("EXISTS (SELECT 1 FROM order_items WHERE order_items.order_id = orders.id)").
		Updates(map[string]any{
			"state":      trade.OrderStateNew,
			"contact_id": contactID,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}

// ListForUser returns the user's placed orders, newest first
func (r *GormOrderRepository) ListForUser(ctx context.Context, userID int64) ([]trade.Order, error) {
	var rows []models.OrderModel
	if err := r.detailQuery(ctx, 0).
		Where("orders.user_id = ? AND orders.state <> ?", userID, trade.OrderStateCart).
		Order("orders.dt DESC").Order("orders.id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.withTotals(ctx, rows, 0)
}

// ListForShopOwner returns placed orders containing at least one offer of a
// shop owned by ownerID. Only that shop's lines are loaded and totalled.
func (r *GormOrderRepository) ListForShopOwner(ctx context.Context, ownerID int64) ([]trade.Order, error) {
	var rows []models.OrderModel
	if err := r.detailQuery(ctx, ownerID).
		Where("orders.state <> ?", trade.OrderStateCart).
		Where("EXISTS (?)", ownerLinesQuery(r.db, ownerID).Where("order_items.order_id = orders.id")).
		Order("orders.dt DESC").Order("orders.id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.withTotals(ctx, rows, ownerID)
}

// FindForShopOwner returns one placed order visible to the shop owner
func (r *GormOrderRepository) FindForShopOwner(ctx context.Context, ownerID, orderID int64) (*trade.Order, error) {
	var rows []models.OrderModel
	if err := r.detailQuery(ctx, ownerID).
		Where("orders.id = ? AND orders.state <> ?", orderID, trade.OrderStateCart).
		Where("EXISTS (?)", ownerLinesQuery(r.db, ownerID).Where("order_items.order_id = orders.id")).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.NewNotFoundError("Order")
	}
	orders, err := r.withTotals(ctx, rows, ownerID)
	if err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// UpdateState performs a compare-and-set of the order state
func (r *GormOrderRepository) UpdateState(ctx context.Context, orderID int64, from, to trade.OrderState) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND state = ?", orderID, from).
		Updates(map[string]any{"state": to, "updated_at": time.Now()})
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *GormOrderRepository) findCartRow(ctx context.Context, userID int64) (*models.OrderModel, error) {
	var row models.OrderModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND state = ?", userID, trade.OrderStateCart).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// detailQuery preloads lines with offer, product, category, shop and
// parameters. A non-zero ownerID restricts lines to that owner's shops.
func (r *GormOrderRepository) detailQuery(ctx context.Context, ownerID int64) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Preload("Contact").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			if ownerID != 0 {
				db = db.Where("order_items.product_info_id IN (?)", ownerOffersQuery(r.db, ownerID))
			}
			return db.Order("order_items.id")
		}).
		Preload("Items.ProductInfo.Product.Category").
		Preload("Items.ProductInfo.Shop").
		Preload("Items.ProductInfo.Parameters", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_parameters.id")
		}).
		Preload("Items.ProductInfo.Parameters.Parameter")
}

type orderTotal struct {
	OrderID int64
	Total   decimal.Decimal
}

// withTotals converts rows to domain orders and fills TotalPrice from
// SUM(quantity * price). Lines whose offer was purged contribute nothing.
func (r *GormOrderRepository) withTotals(ctx context.Context, rows []models.OrderModel, ownerID int64) ([]trade.Order, error) {
	orders := make([]trade.Order, 0, len(rows))
	if len(rows) == 0 {
		return orders, nil
	}

	ids := make([]int64, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}

	query := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.order_id AS order_id, COALESCE(SUM(order_items.quantity * product_infos.price), 0) AS total").
		Joins("JOIN product_infos ON product_infos.id = order_items.product_info_id").
		Where("order_items.order_id IN ?", ids).
		Group("order_items.order_id")
	if ownerID != 0 {
		query = query.Joins("JOIN shops ON shops.id = product_infos.shop_id AND shops.user_id = ?", ownerID)
	}

	var totals []orderTotal
	if err := query.Scan(&totals).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[int64]decimal.Decimal, len(totals))
	for _, t := range totals {
		byOrder[t.OrderID] = t.Total
	}

	for i := range rows {
		order := rows[i].ToDomain()
		order.TotalPrice = byOrder[order.ID]
		orders = append(orders, *order)
	}
	return orders, nil
}

func ownerOffersQuery(db *gorm.DB, ownerID int64) *gorm.DB {
	return db.Table("product_infos").
		Select("product_infos.id").
		Joins("JOIN shops ON shops.id = product_infos.shop_id").
		Where("shops.user_id = ?", ownerID)
}

func ownerLinesQuery(db *gorm.DB, ownerID int64) *gorm.DB {
	return db.Table("order_items").
		Select("1").
		Where("order_items.product_info_id IN (?)", ownerOffersQuery(db, ownerID))
}
