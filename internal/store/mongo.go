package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"console-cafe-backend/internal/model"
)

// Collection names.
const (
	collDevices     = "devices"
	collSessions    = "sessions"
	collCafeOrders  = "cafe_orders"
	collInventory   = "inventory"
	collWithdrawals = "withdrawals"
	collSettings    = "settings"
)

// mongoStore implements the Store interface on a MongoDB database.
// Documents are addressed by their domain "id" field; the server-assigned
// _id is never read back.
type mongoStore struct {
	db           *mongo.Database
	transactions bool
}

// NewMongoStore creates a MongoDB-backed store. With transactions enabled,
// InTx runs inside a multi-document transaction, which requires a replica set.
func NewMongoStore(db *mongo.Database, transactions bool) Store {
	return &mongoStore{db: db, transactions: transactions}
}

func (s *mongoStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if !s.transactions {
		return fn(ctx, s)
	}

	sess, err := s.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s)
	})
	return err
}

func (s *mongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

func withoutID() *options.FindOptions {
	return options.Find().SetProjection(bson.M{"_id": 0})
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, append([]*options.FindOptions{withoutID()}, opts...)...)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	var out T
	err := coll.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 0})).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Devices ---

func (s *mongoStore) CountDevices(ctx context.Context) (int64, error) {
	n, err := s.db.Collection(collDevices).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count devices: %w", err)
	}
	return n, nil
}

func (s *mongoStore) CreateDevices(ctx context.Context, devices []model.Device) error {
	if len(devices) == 0 {
		return nil
	}
	docs := make([]interface{}, len(devices))
	for i := range devices {
		docs[i] = devices[i]
	}
	if _, err := s.db.Collection(collDevices).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("create %d devices: %w", len(devices), err)
	}
	return nil
}

func (s *mongoStore) ListDevices(ctx context.Context) ([]model.Device, error) {
	devices, err := findAll[model.Device](ctx, s.db.Collection(collDevices), bson.M{},
		options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return devices, nil
}

func (s *mongoStore) GetDevice(ctx context.Context, id string) (*model.Device, error) {
	device, err := findOne[model.Device](ctx, s.db.Collection(collDevices), bson.M{"id": id})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get device %s: %w", id, err)
	}
	return device, err
}

func (s *mongoStore) updateDevice(ctx context.Context, id string, set bson.M) error {
	res, err := s.db.Collection(collDevices).UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update device %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoStore) UpdateDeviceStatus(ctx context.Context, id string, status model.DeviceStatus) error {
	return s.updateDevice(ctx, id, bson.M{"status": status})
}

func (s *mongoStore) SetDeviceOccupancy(ctx context.Context, id string, status model.DeviceStatus, sessionID *string) error {
	return s.updateDevice(ctx, id, bson.M{"status": status, "current_session_id": sessionID})
}

func (s *mongoStore) OccupyDevice(ctx context.Context, id, sessionID string) error {
	coll := s.db.Collection(collDevices)
	res, err := coll.UpdateOne(ctx,
		bson.M{"id": id, "status": model.DeviceAvailable},
		bson.M{"$set": bson.M{"status": model.DeviceOccupied, "current_session_id": sessionID}})
	if err != nil {
		return fmt.Errorf("occupy device %s: %w", id, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := coll.CountDocuments(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("look up device %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

// --- Sessions ---

func (s *mongoStore) CreateSession(ctx context.Context, session *model.Session) error {
	session.StartTime = session.StartTime.UTC()
	session.EndTime = utcPtr(session.EndTime)
	if _, err := s.db.Collection(collSessions).InsertOne(ctx, session); err != nil {
		return fmt.Errorf("create session %s: %w", session.ID, err)
	}
	return nil
}

func (s *mongoStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	session, err := findOne[model.Session](ctx, s.db.Collection(collSessions), bson.M{"id": id})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return session, err
}

func sessionQuery(filter SessionFilter) bson.M {
	q := bson.M{}
	if filter.Status != "" {
		q["status"] = filter.Status
	}
	if filter.DeviceID != "" {
		q["device_id"] = filter.DeviceID
	}
	if filter.StartedFrom != nil {
		q["start_time"] = bson.M{"$gte": filter.StartedFrom.UTC()}
	}
	if filter.EndedFrom != nil {
		q["end_time"] = bson.M{"$gte": filter.EndedFrom.UTC()}
	}
	return q
}

func (s *mongoStore) ListSessions(ctx context.Context, filter SessionFilter) ([]model.Session, error) {
	sessions, err := findAll[model.Session](ctx, s.db.Collection(collSessions), sessionQuery(filter),
		options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *mongoStore) CompleteSession(ctx context.Context, id string, endTime time.Time, totalCost float64) error {
	coll := s.db.Collection(collSessions)
	res, err := coll.UpdateOne(ctx,
		bson.M{"id": id, "status": model.SessionActive},
		bson.M{"$set": bson.M{
			"end_time":   endTime.UTC(),
			"total_cost": totalCost,
			"status":     model.SessionCompleted,
		}})
	if err != nil {
		return fmt.Errorf("complete session %s: %w", id, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := coll.CountDocuments(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("look up session %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

// --- Café records ---

func (s *mongoStore) CreateCafeOrder(ctx context.Context, order *model.CafeOrder) error {
	order.CreatedAt = order.CreatedAt.UTC()
	if _, err := s.db.Collection(collCafeOrders).InsertOne(ctx, order); err != nil {
		return fmt.Errorf("create cafe order: %w", err)
	}
	return nil
}

func (s *mongoStore) ListCafeOrders(ctx context.Context) ([]model.CafeOrder, error) {
	orders, err := findAll[model.CafeOrder](ctx, s.db.Collection(collCafeOrders), bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list cafe orders: %w", err)
	}
	return orders, nil
}

func (s *mongoStore) CreateInventoryItem(ctx context.Context, item *model.InventoryItem) error {
	if _, err := s.db.Collection(collInventory).InsertOne(ctx, item); err != nil {
		return fmt.Errorf("create inventory item: %w", err)
	}
	return nil
}

func (s *mongoStore) ListInventoryItems(ctx context.Context) ([]model.InventoryItem, error) {
	items, err := findAll[model.InventoryItem](ctx, s.db.Collection(collInventory), bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return items, nil
}

func (s *mongoStore) CreateWithdrawal(ctx context.Context, w *model.Withdrawal) error {
	w.Date = w.Date.UTC()
	if _, err := s.db.Collection(collWithdrawals).InsertOne(ctx, w); err != nil {
		return fmt.Errorf("create withdrawal: %w", err)
	}
	return nil
}

func (s *mongoStore) ListWithdrawals(ctx context.Context) ([]model.Withdrawal, error) {
	withdrawals, err := findAll[model.Withdrawal](ctx, s.db.Collection(collWithdrawals), bson.M{},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	return withdrawals, nil
}

// --- Settings ---

func (s *mongoStore) GetSettings(ctx context.Context) (*model.Settings, error) {
	settings, err := findOne[model.Settings](ctx, s.db.Collection(collSettings), bson.M{"id": model.SettingsID})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return settings, err
}

func (s *mongoStore) SaveSettings(ctx context.Context, settings *model.Settings) error {
	settings.ID = model.SettingsID
	_, err := s.db.Collection(collSettings).ReplaceOne(ctx,
		bson.M{"id": model.SettingsID}, settings, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
