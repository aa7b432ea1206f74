package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/catalog"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/identity"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/logger"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/telemetry"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// FeedFetcher downloads a feed document
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ImportService replaces a partner's catalog from a published YAML feed
type ImportService struct {
	users          identity.UserRepository
	repo           catalog.CatalogRepository
	fetcher        FeedFetcher
	eventPublisher shared.EventPublisher
	validate       *validator.Validate
	logger         *zap.Logger
}

// NewImportService creates a new ImportService
func NewImportService(
	users identity.UserRepository,
	repo catalog.CatalogRepository,
	fetcher FeedFetcher,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		users:    users,
		repo:     repo,
		fetcher:  fetcher,
		validate: validator.New(),
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for integration events
func (s *ImportService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Import fetches the feed at rawURL and replaces the caller's shop catalog
// with it. Nothing is written unless the whole feed is stored.
func (s *ImportService) Import(ctx context.Context, userID int64, rawURL string) (*catalog.ImportResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "import",
		telemetry.SpanAttrUserID, userID, telemetry.SpanAttrURL, rawURL)
	defer span.End()

	result, err := s.importFeed(ctx, userID, rawURL)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrShopID, result.ShopID)
	return result, nil
}

func (s *ImportService) importFeed(ctx context.Context, userID int64, rawURL string) (*catalog.ImportResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.EnsureShop(); err != nil {
		return nil, err
	}

	rawURL = strings.TrimSpace(rawURL)
	if err := s.validateURL(rawURL); err != nil {
		return nil, err
	}

	data, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		logger.L(ctx).Warn("feed fetch failed", zap.String("url", rawURL), zap.Error(err))
		return nil, err
	}

	feed, err := catalog.ParseFeed(data)
	if err != nil {
		return nil, err
	}

	result, err := s.repo.ReplaceShopCatalog(ctx, userID, rawURL, feed)
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("import completed",
		zap.Int64("shop_id", result.ShopID),
		zap.String("shop", result.ShopName),
		zap.Int("categories", result.Categories),
		zap.Int("offers", result.Offers),
		zap.Int("parameters", result.Parameters),
	)

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, catalog.NewCatalogImportedEvent(userID, result)); err != nil {
			s.logger.Warn("failed to publish catalog imported event", zap.Error(err))
		}
	}
	return result, nil
}

func (s *ImportService) validateURL(rawURL string) error {
	if err := s.validate.Var(rawURL, "required,url"); err != nil {
		return shared.NewValidationError("url must be a valid URL")
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return shared.NewValidationError(fmt.Sprintf("unsupported feed url %q: only http and https are allowed", rawURL))
	}
	return nil
}
