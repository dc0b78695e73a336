package catalogRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"barbook/database"
	"barbook/models"
)

type mongoCatalogRepo struct {
	shops    *mongo.Collection
	services *mongo.Collection
	barbers  *mongo.Collection
}

// NewMongoCatalogRepo returns a Mongo-backed catalog repository.
func NewMongoCatalogRepo() CatalogRepository {
	return &mongoCatalogRepo{
		shops:    database.Collection("shops"),
		services: database.Collection("services"),
		barbers:  database.Collection("barbers"),
	}
}

func (r *mongoCatalogRepo) GetShopByID(ctx context.Context, shopID string) (*models.Shop, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var shop models.Shop
	if err := r.shops.FindOne(ctx, bson.M{"id": shopID}).Decode(&shop); err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *mongoCatalogRepo) GetBarberByID(ctx context.Context, barberID string) (*models.Barber, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var barber models.Barber
	if err := r.barbers.FindOne(ctx, bson.M{"id": barberID}).Decode(&barber); err != nil {
		return nil, err
	}
	return &barber, nil
}

func (r *mongoCatalogRepo) GetServicesByIDs(ctx context.Context, serviceIDs []string) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bson.M{"$in": serviceIDs}, "active": true}
	cursor, err := r.services.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []models.Service
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}

	byID := make(map[string]models.Service, len(found))
	for _, svc := range found {
		byID[svc.ID] = svc
	}

	ordered := make([]models.Service, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		svc, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("service %s not found or inactive", id)
		}
		ordered = append(ordered, svc)
	}
	return ordered, nil
}

func (r *mongoCatalogRepo) ListServicesByShop(ctx context.Context, shopID string, page, size int) ([]models.Service, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"shopId": shopID, "active": true}
	total, err := r.services.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64(page * size)).
		SetLimit(int64(size))
	cursor, err := r.services.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, 0, err
	}
	return services, total, nil
}

func (r *mongoCatalogRepo) ListBarbersByShop(ctx context.Context, shopID string, page, size int) ([]models.Barber, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"shopId": shopID, "active": true}
	total, err := r.barbers.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64(page * size)).
		SetLimit(int64(size))
	cursor, err := r.barbers.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var barbers []models.Barber
	if err := cursor.All(ctx, &barbers); err != nil {
		return nil, 0, err
	}
	return barbers, total, nil
}
