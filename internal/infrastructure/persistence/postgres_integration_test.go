//go:build integration

package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/catalog"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/identity"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/notification"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/migration"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const migrationsDir = "../../../migrations"

// newPostgresDB starts a disposable PostgreSQL container and applies the
// migrations to it
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("retail_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, migrationsDir, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	return db
}

func TestPostgres_ImportTwiceReplacesOffers(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	repo := NewGormCatalogRepository(db)
	owner := seedUser(t, db, "partner@acme.example", identity.UserTypeShop)

	first, err := repo.ReplaceShopCatalog(ctx, owner, "https://acme.example/feed.yaml", acmeFeed(2))
	require.NoError(t, err)
	assert.Equal(t, 2, first.Offers)

	second, err := repo.ReplaceShopCatalog(ctx, owner, "https://acme.example/feed.yaml", acmeFeed(1))
	require.NoError(t, err)
	assert.Equal(t, first.ShopID, second.ShopID)

	offers, err := repo.ListOffers(ctx, catalog.OfferFilter{ShopID: &second.ShopID})
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, int64(4216292), offers[0].ExternalID)
	assert.NotEmpty(t, offers[0].Parameters)

	shops, err := repo.ListActiveShops(ctx)
	require.NoError(t, err)
	assert.Len(t, shops, 1)
}

func TestPostgres_AddToCartAndPlace(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "partner@acme.example", identity.UserTypeShop)
	buyer := seedUser(t, db, "buyer@example.com", identity.UserTypeBuyer)
	contact := seedContact(t, db, buyer)
	offers := importFeed(t, db, owner, acmeFeed(2))
	repo := NewGormOrderRepository(db)

	t.Run("concurrent carts collapse to one", func(t *testing.T) {
		var wg sync.WaitGroup
		ids := make([]int64, 8)
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				cart, err := repo.GetOrCreateCart(ctx, buyer)
				if assert.NoError(t, err) {
					ids[i] = cart.ID
				}
			}(i)
		}
		wg.Wait()
		for _, id := range ids {
			assert.Equal(t, ids[0], id)
		}
	})

	cart, err := repo.GetOrCreateCart(ctx, buyer)
	require.NoError(t, err)
	require.NoError(t, repo.AddLine(ctx, cart.ID, offers[0].ID, 2))
	require.NoError(t, repo.AddLine(ctx, cart.ID, offers[1].ID, 1))

	view, err := repo.FindCart(ctx, buyer)
	require.NoError(t, err)
	assert.True(t, view.TotalPrice.Equal(price("285000.50")), view.TotalPrice.String())

	n, err := repo.PlaceCart(ctx, buyer, cart.ID, contact)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.PlaceCart(ctx, buyer, cart.ID, contact)
	require.NoError(t, err)
	assert.Zero(t, n, "placing twice is a no-op")

	partnerOrders, err := repo.ListForShopOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, partnerOrders, 1)
	assert.Equal(t, cart.ID, partnerOrders[0].ID)
}

func TestPostgres_NotificationClaimIsExclusive(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	repo := NewGormNotificationTaskRepository(db)

	task, err := notification.NewTask(notification.TaskKindOrderPlaced, 1, 1,
		"buyer@example.com", "Changing the order status", "The order has been formed", 0)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, task))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		claimed int
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := repo.Claim(ctx, []uuid.UUID{task.ID})
			if assert.NoError(t, err) {
				mu.Lock()
				claimed += len(got)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, claimed)
}
