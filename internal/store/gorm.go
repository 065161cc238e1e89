package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"console-cafe-backend/internal/model"
)

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// InTx wraps fn in a database transaction.
func (s *gormStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &gormStore{db: tx})
	})
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// --- Devices ---

func (s *gormStore) CountDevices(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Device{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count devices: %w", err)
	}
	return n, nil
}

func (s *gormStore) CreateDevices(ctx context.Context, devices []model.Device) error {
	if len(devices) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&devices).Error; err != nil {
		return fmt.Errorf("create %d devices: %w", len(devices), err)
	}
	return nil
}

func (s *gormStore) ListDevices(ctx context.Context) ([]model.Device, error) {
	devices := make([]model.Device, 0)
	if err := s.db.WithContext(ctx).Order("id").Find(&devices).Error; err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return devices, nil
}

func (s *gormStore) GetDevice(ctx context.Context, id string) (*model.Device, error) {
	var device model.Device
	if err := s.db.WithContext(ctx).First(&device, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get device %s: %w", id, err)
	}
	return &device, nil
}

func (s *gormStore) UpdateDeviceStatus(ctx context.Context, id string, status model.DeviceStatus) error {
	res := s.db.WithContext(ctx).Model(&model.Device{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update status of device %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) SetDeviceOccupancy(ctx context.Context, id string, status model.DeviceStatus, sessionID *string) error {
	res := s.db.WithContext(ctx).Model(&model.Device{}).Where("id = ?", id).Updates(map[string]any{
		"status":             status,
		"current_session_id": sessionID,
	})
	if res.Error != nil {
		return fmt.Errorf("set occupancy of device %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) OccupyDevice(ctx context.Context, id, sessionID string) error {
	res := s.db.WithContext(ctx).Model(&model.Device{}).
		Where("id = ? AND status = ?", id, model.DeviceAvailable).
		Updates(map[string]any{
			"status":             model.DeviceOccupied,
			"current_session_id": sessionID,
		})
	if res.Error != nil {
		return fmt.Errorf("occupy device %s: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Device{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("look up device %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

// --- Sessions ---

// CreateSession stores session with its timestamps normalised to UTC.
func (s *gormStore) CreateSession(ctx context.Context, session *model.Session) error {
	session.StartTime = session.StartTime.UTC()
	session.EndTime = utcPtr(session.EndTime)
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("create session %s: %w", session.ID, err)
	}
	return nil
}

func (s *gormStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	if err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return &session, nil
}

func (s *gormStore) ListSessions(ctx context.Context, filter SessionFilter) ([]model.Session, error) {
	q := s.db.WithContext(ctx).Model(&model.Session{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DeviceID != "" {
		q = q.Where("device_id = ?", filter.DeviceID)
	}
	if filter.StartedFrom != nil {
		q = q.Where("start_time >= ?", filter.StartedFrom.UTC())
	}
	if filter.EndedFrom != nil {
		q = q.Where("end_time >= ?", filter.EndedFrom.UTC())
	}

	sessions := make([]model.Session, 0)
	if err := q.Order("start_time").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *gormStore) CompleteSession(ctx context.Context, id string, endTime time.Time, totalCost float64) error {
	res := s.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ? AND status = ?", id, model.SessionActive).
		Updates(map[string]any{
			"end_time":   endTime.UTC(),
			"total_cost": totalCost,
			"status":     model.SessionCompleted,
		})
	if res.Error != nil {
		return fmt.Errorf("complete session %s: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Nothing matched: tell a missing session apart from one already closed.
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Session{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("look up session %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

// --- Café records ---

func (s *gormStore) CreateCafeOrder(ctx context.Context, order *model.CafeOrder) error {
	order.CreatedAt = order.CreatedAt.UTC()
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("create cafe order: %w", err)
	}
	return nil
}

func (s *gormStore) ListCafeOrders(ctx context.Context) ([]model.CafeOrder, error) {
	orders := make([]model.CafeOrder, 0)
	if err := s.db.WithContext(ctx).Order("created_at").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list cafe orders: %w", err)
	}
	return orders, nil
}

func (s *gormStore) CreateInventoryItem(ctx context.Context, item *model.InventoryItem) error {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create inventory item: %w", err)
	}
	return nil
}

func (s *gormStore) ListInventoryItems(ctx context.Context) ([]model.InventoryItem, error) {
	items := make([]model.InventoryItem, 0)
	if err := s.db.WithContext(ctx).Order("name").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return items, nil
}

func (s *gormStore) CreateWithdrawal(ctx context.Context, w *model.Withdrawal) error {
	w.Date = w.Date.UTC()
	if err := s.db.WithContext(ctx).Create(w).Error; err != nil {
		return fmt.Errorf("create withdrawal: %w", err)
	}
	return nil
}

func (s *gormStore) ListWithdrawals(ctx context.Context) ([]model.Withdrawal, error) {
	withdrawals := make([]model.Withdrawal, 0)
	if err := s.db.WithContext(ctx).Order("date").Find(&withdrawals).Error; err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	return withdrawals, nil
}

// --- Settings ---

func (s *gormStore) GetSettings(ctx context.Context) (*model.Settings, error) {
	var settings model.Settings
	if err := s.db.WithContext(ctx).First(&settings, "id = ?", model.SettingsID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &settings, nil
}

// SaveSettings upserts the single settings record.
func (s *gormStore) SaveSettings(ctx context.Context, settings *model.Settings) error {
	settings.ID = model.SettingsID
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"hourly_rate", "currency", "cafe_name", "tax_rate"}),
	}).Create(settings).Error; err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
