package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	productsCollection = "products"
	ordersCollection   = "orders"
	settingsCollection = "settings"

	// settingsDocumentID is the _id of the singleton store settings document.
	settingsDocumentID = "store"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderNotPending = errors.New("order is not pending")
)

type MongoRepository struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
}

func NewMongoRepository(cfg *config.MongoDBConfig) (*MongoRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &MongoRepository{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// FindProducts loads every product in ids with one query. Unknown ids are
// simply absent from the result.
func (m *MongoRepository) FindProducts(ctx context.Context, ids []string) (map[string]models.Product, error) {
	ids = uniqueIDs(ids)
	products := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	cursor, err := m.database.Collection(productsCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	var found []models.Product
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	for _, p := range found {
		products[p.ID] = p
	}
	return products, nil
}

// GetSettingsDocument returns nil, nil when no settings document exists.
func (m *MongoRepository) GetSettingsDocument(ctx context.Context) (*models.StoreSettingsDocument, error) {
	var doc models.StoreSettingsDocument
	err := m.database.Collection(settingsCollection).FindOne(ctx, bson.M{"_id": settingsDocumentID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store settings: %w", err)
	}
	return &doc, nil
}

func (m *MongoRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	if _, err := m.database.Collection(ordersCollection).InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to insert order %s: %w", order.ID, err)
	}
	return nil
}

func (m *MongoRepository) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := m.database.Collection(ordersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read order %s: %w", id, err)
	}
	return &order, nil
}

// SettleOrder marks a pending order paid and decrements stock for its items
// in one transaction. If the order is no longer pending nothing is written
// and ErrOrderNotPending is returned.
func (m *MongoRepository) SettleOrder(ctx context.Context, orderID string, confirmation models.PaymentConfirmation, items []models.LineItem) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	orders := m.database.Collection(ordersCollection)
	products := m.database.Collection(productsCollection)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, settle(sc, orders, products, orderID, confirmation, items)
	}, txnOpts)
	return err
}

type updater interface {
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

// settle is the body of the settlement transaction. Stock is only touched
// after the order matched as pending.
func settle(ctx context.Context, orders, products updater, orderID string, confirmation models.PaymentConfirmation, items []models.LineItem) error {
	res, err := orders.UpdateOne(ctx, settleFilter(orderID), settleUpdate(confirmation))
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotPending
	}

	for productID, qty := range stockDecrements(items) {
		if _, err := products.UpdateOne(ctx, stockFilter(productID), stockUpdate(qty)); err != nil {
			return fmt.Errorf("failed to decrement stock for %s: %w", productID, err)
		}
	}
	return nil
}

func settleFilter(orderID string) bson.M {
	return bson.M{"_id": orderID, "status": models.OrderStatusPending}
}

func settleUpdate(c models.PaymentConfirmation) bson.M {
	return bson.M{"$set": bson.M{
		"status":            models.OrderStatusPaid,
		"razorpayOrderId":   c.GatewayOrderID,
		"razorpayPaymentId": c.PaymentID,
		"razorpaySignature": c.Signature,
		"paidAt":            c.PaidAt,
		"updatedAt":         c.PaidAt,
	}}
}

// stockFilter only matches stock-tracked products.
func stockFilter(productID string) bson.M {
	return bson.M{"_id": productID, "stock": bson.M{"$type": "number"}}
}

func stockUpdate(qty int64) bson.M {
	return bson.M{"$inc": bson.M{"stock": -qty}}
}

func stockDecrements(items []models.LineItem) map[string]int64 {
	out := make(map[string]int64, len(items))
	for _, item := range items {
		out[item.ProductID] += int64(item.Quantity)
	}
	return out
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (m *MongoRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	collection := m.database.Collection(m.config.AuditCollection)
	log.CreatedAt = time.Now()
	_, err := collection.InsertOne(ctx, log)
	return err
}
