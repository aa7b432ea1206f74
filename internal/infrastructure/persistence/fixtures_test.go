package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/catalog"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/identity"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, email string, userType identity.UserType) int64 {
	t.Helper()
	now := time.Now()
	user := models.UserModel{
		BaseModel:    models.BaseModel{CreatedAt: now, UpdatedAt: now},
		Email:        email,
		Type:         userType,
		IsActive:     true,
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func seedContact(t *testing.T, db *gorm.DB, userID int64) int64 {
	t.Helper()
	city, street, phone := "Moscow", "Tverskaya", "+79990001122"
	contact, err := identity.NewContact(userID, identity.ContactFields{City: &city, Street: &street, Phone: &phone})
	require.NoError(t, err)
	require.NoError(t, NewGormContactRepository(db).Create(context.Background(), contact))
	return contact.ID
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// acmeFeed builds a feed for shop "Acme" containing the first n goods of a fixed list
func acmeFeed(n int) *catalog.Feed {
	goods := []catalog.FeedGood{
		{
			ID: 4216292, Category: 224, Model: "apple/iphone/xs-max", Name: "Смартфон Apple iPhone XS Max 512GB (золотистый)",
			Price: price("110000"), PriceRRC: price("116990"), Quantity: 14,
			Parameters: map[string]string{"Диагональ (дюйм)": "6.5", "Цвет": "золотистый"},
		},
		{
			ID: 4216313, Category: 224, Model: "apple/iphone/xr", Name: "Смартфон Apple iPhone XR 256GB (красный)",
			Price: price("65000.50"), PriceRRC: price("69990"), Quantity: 9,
			Parameters: map[string]string{"Диагональ (дюйм)": "6.1", "Цвет": "красный"},
		},
	}
	return &catalog.Feed{
		Shop:       "Acme",
		Categories: []catalog.FeedCategory{{ID: 224, Name: "Смартфоны"}},
		Goods:      goods[:n],
	}
}

// importFeed replaces the shop catalog of userID and returns its offers
func importFeed(t *testing.T, db *gorm.DB, userID int64, feed *catalog.Feed) []catalog.ProductOffer {
	t.Helper()
	repo := NewGormCatalogRepository(db)
	res, err := repo.ReplaceShopCatalog(context.Background(), userID, "https://acme.example/feed.yaml", feed)
	require.NoError(t, err)
	offers, err := repo.ListOffers(context.Background(), catalog.OfferFilter{ShopID: &res.ShopID})
	require.NoError(t, err)
	return offers
}
