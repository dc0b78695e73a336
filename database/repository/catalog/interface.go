package catalogRepo

import (
	"context"

	"barbook/models"
)

// CatalogRepository defines read access to the shop/service/barber catalog.
// Catalog data is fetched once per shop context and treated as read-only by
// the booking flow.
type CatalogRepository interface {
	GetShopByID(ctx context.Context, shopID string) (*models.Shop, error)
	GetBarberByID(ctx context.Context, barberID string) (*models.Barber, error)
	// GetServicesByIDs resolves the given service IDs, preserving the
	// requested order. Unknown or inactive IDs yield an error.
	GetServicesByIDs(ctx context.Context, serviceIDs []string) ([]models.Service, error)
	ListServicesByShop(ctx context.Context, shopID string, page, size int) ([]models.Service, int64, error)
	ListBarbersByShop(ctx context.Context, shopID string, page, size int) ([]models.Barber, int64, error)
}
