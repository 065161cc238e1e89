package store_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"console-cafe-backend/internal/model"
	"console-cafe-backend/internal/store"
	"console-cafe-backend/internal/store/storetest"
)

func strPtr(s string) *string { return &s }

func seedDevices(t *testing.T, s store.Store, ids ...string) {
	t.Helper()
	devices := make([]model.Device, 0, len(ids))
	for _, id := range ids {
		devices = append(devices, model.Device{ID: id, Name: "Station " + id, Status: model.DeviceAvailable})
	}
	require.NoError(t, s.CreateDevices(context.Background(), devices))
}

func TestGormStore_Devices(t *testing.T) {
	ctx := context.Background()
	s, _ := storetest.NewSQLite(t)
	seedDevices(t, s, "device_1", "device_2")

	n, err := s.CountDevices(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	devices, err := s.ListDevices(ctx)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "device_1", devices[0].ID)
	assert.Nil(t, devices[0].CurrentSessionID)

	_, err = s.GetDevice(ctx, "device_9")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.UpdateDeviceStatus(ctx, "device_2", model.DeviceMaintenance))
	d, err := s.GetDevice(ctx, "device_2")
	require.NoError(t, err)
	assert.Equal(t, model.DeviceMaintenance, d.Status)

	assert.ErrorIs(t, s.UpdateDeviceStatus(ctx, "device_9", model.DeviceAvailable), store.ErrNotFound)

	require.NoError(t, s.SetDeviceOccupancy(ctx, "device_1", model.DeviceOccupied, strPtr("sess-1")))
	d, err = s.GetDevice(ctx, "device_1")
	require.NoError(t, err)
	assert.Equal(t, model.DeviceOccupied, d.Status)
	require.NotNil(t, d.CurrentSessionID)
	assert.Equal(t, "sess-1", *d.CurrentSessionID)

	require.NoError(t, s.SetDeviceOccupancy(ctx, "device_1", model.DeviceAvailable, nil))
	d, err = s.GetDevice(ctx, "device_1")
	require.NoError(t, err)
	assert.Equal(t, model.DeviceAvailable, d.Status)
	assert.Nil(t, d.CurrentSessionID)

	assert.ErrorIs(t, s.SetDeviceOccupancy(ctx, "device_9", model.DeviceAvailable, nil), store.ErrNotFound)
}

func TestGormStore_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s, _ := storetest.NewSQLite(t)
	start := time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC)

	session := &model.Session{
		ID:           "sess-1",
		DeviceID:     "device_1",
		CustomerName: "Omar",
		StartTime:    start,
		HourlyRate:   12.5,
		Status:       model.SessionActive,
	}
	require.NoError(t, s.CreateSession(ctx, session))

	got, err := s.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, model.SessionActive, got.Status)
	assert.Nil(t, got.EndTime)
	assert.Nil(t, got.TotalCost)
	assert.True(t, start.Equal(got.StartTime))

	end := start.Add(2 * time.Hour)
	require.NoError(t, s.CompleteSession(ctx, "sess-1", end, 25))

	got, err = s.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, model.SessionCompleted, got.Status)
	require.NotNil(t, got.EndTime)
	assert.True(t, end.Equal(*got.EndTime))
	require.NotNil(t, got.TotalCost)
	assert.Equal(t, 25.0, *got.TotalCost)

	assert.ErrorIs(t, s.CompleteSession(ctx, "sess-1", end.Add(time.Hour), 99), store.ErrConflict)
	assert.ErrorIs(t, s.CompleteSession(ctx, "missing", end, 1), store.ErrNotFound)

	_, err = s.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGormStore_ListSessionsFilters(t *testing.T) {
	ctx := context.Background()
	s, _ := storetest.NewSQLite(t)
	midnight := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	yesterday := &model.Session{ID: "a", DeviceID: "device_1", CustomerName: "A", StartTime: midnight.Add(-3 * time.Hour), HourlyRate: 10, Status: model.SessionActive}
	overnight := &model.Session{ID: "b", DeviceID: "device_2", CustomerName: "B", StartTime: midnight.Add(-time.Hour), HourlyRate: 10, Status: model.SessionActive}
	today := &model.Session{ID: "c", DeviceID: "device_1", CustomerName: "C", StartTime: midnight.Add(2 * time.Hour), HourlyRate: 10, Status: model.SessionActive}
	for _, sess := range []*model.Session{yesterday, overnight, today} {
		require.NoError(t, s.CreateSession(ctx, sess))
	}
	require.NoError(t, s.CompleteSession(ctx, "a", midnight.Add(-2*time.Hour), 10))
	require.NoError(t, s.CompleteSession(ctx, "b", midnight.Add(time.Hour), 20))

	all, err := s.ListSessions(ctx, store.SessionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := s.ListSessions(ctx, store.Active())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "c", active[0].ID)

	startedToday, err := s.ListSessions(ctx, store.SessionFilter{StartedFrom: &midnight})
	require.NoError(t, err)
	require.Len(t, startedToday, 1)
	assert.Equal(t, "c", startedToday[0].ID)

	endedToday, err := s.ListSessions(ctx, store.SessionFilter{Status: model.SessionCompleted, EndedFrom: &midnight})
	require.NoError(t, err)
	require.Len(t, endedToday, 1)
	assert.Equal(t, "b", endedToday[0].ID)

	onDevice1, err := s.ListSessions(ctx, store.SessionFilter{DeviceID: "device_1"})
	require.NoError(t, err)
	assert.Len(t, onDevice1, 2)

	// Filters given in another zone select the same instant.
	cairo := time.FixedZone("EET", 2*60*60)
	local := midnight.In(cairo)
	startedTodayLocal, err := s.ListSessions(ctx, store.SessionFilter{StartedFrom: &local})
	require.NoError(t, err)
	assert.Len(t, startedTodayLocal, 1)
}

func TestGormStore_InTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s, _ := storetest.NewSQLite(t)
	seedDevices(t, s, "device_1")

	boom := errors.New("boom")
	err := s.InTx(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.CreateSession(ctx, &model.Session{
			ID: "sess-1", DeviceID: "device_1", CustomerName: "X",
			StartTime: time.Now(), HourlyRate: 10, Status: model.SessionActive,
		}); err != nil {
			return err
		}
		if err := tx.SetDeviceOccupancy(ctx, "device_1", model.DeviceOccupied, strPtr("sess-1")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
	d, err := s.GetDevice(ctx, "device_1")
	require.NoError(t, err)
	assert.Equal(t, model.DeviceAvailable, d.Status)
	assert.Nil(t, d.CurrentSessionID)
}

func TestGormStore_CafeRecordsAndSettings(t *testing.T) {
	ctx := context.Background()
	s, _ := storetest.NewSQLite(t)
	now := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

	order := &model.CafeOrder{
		ID:           "order-1",
		CustomerName: "Mona",
		Items:        []model.OrderItem{{Name: "tea", Price: 5, Quantity: 2}, {Name: "chips", Price: 7.5, Quantity: 1}},
		TotalAmount:  17.5,
		Status:       model.OrderPending,
		CreatedAt:    now,
	}
	require.NoError(t, s.CreateCafeOrder(ctx, order))
	orders, err := s.ListCafeOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.Items, orders[0].Items)
	assert.Equal(t, model.OrderPending, orders[0].Status)

	require.NoError(t, s.CreateInventoryItem(ctx, &model.InventoryItem{
		ID: "item-1", Name: "cola", Category: model.CategoryDrinks, Quantity: 24, Price: 10, Cost: 6, ReorderLevel: 10,
	}))
	items, err := s.ListInventoryItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 24, items[0].Quantity)

	require.NoError(t, s.CreateWithdrawal(ctx, &model.Withdrawal{
		ID: "w-1", Amount: 200, Description: "electricity", Category: model.WithdrawalExpense, Date: now,
	}))
	withdrawals, err := s.ListWithdrawals(ctx)
	require.NoError(t, err)
	require.Len(t, withdrawals, 1)
	assert.True(t, now.Equal(withdrawals[0].Date))

	_, err = s.GetSettings(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.SaveSettings(ctx, &model.Settings{HourlyRate: 10, Currency: "EGP", CafeName: "Cafe", TaxRate: 0.14}))
	require.NoError(t, s.SaveSettings(ctx, &model.Settings{HourlyRate: 15, Currency: "EGP", CafeName: "Cafe", TaxRate: 0.1}))
	settings, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.SettingsID, settings.ID)
	assert.Equal(t, 15.0, settings.HourlyRate)
	assert.Equal(t, 0.1, settings.TaxRate)
}

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormStore_CompleteSession_SQL(t *testing.T) {
	testCases := []struct {
		name        string
		updated     int64
		existing    int
		expectedErr error
	}{
		{
			name:        "active session is closed",
			updated:     1,
			expectedErr: nil,
		},
		{
			name:        "completed session conflicts",
			updated:     0,
			existing:    1,
			expectedErr: store.ErrConflict,
		},
		{
			name:        "unknown session is not found",
			updated:     0,
			existing:    0,
			expectedErr: store.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gormDB, mock := newMockDB(t)
			s := store.NewGormStore(gormDB)

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(`UPDATE "sessions" SET`)).
				WithArgs(Any{}, model.SessionCompleted, 15.0, "sess-1", model.SessionActive).
				WillReturnResult(sqlmock.NewResult(0, tc.updated))
			mock.ExpectCommit()
			if tc.updated == 0 {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "sessions" WHERE id = $1`)).
					WithArgs("sess-1").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tc.existing))
			}

			err := s.CompleteSession(context.Background(), "sess-1", time.Now(), 15.0)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormStore_UpdateDeviceStatus_SQL(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := store.NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "devices" SET "status"=$1 WHERE id = $2`)).
		WithArgs(model.DeviceMaintenance, "device_7").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.UpdateDeviceStatus(context.Background(), "device_7", model.DeviceMaintenance)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_OccupyDevice_SQL(t *testing.T) {
	testCases := []struct {
		name        string
		updated     int64
		existing    int
		expectedErr error
	}{
		{
			name:        "available device is occupied",
			updated:     1,
			expectedErr: nil,
		},
		{
			name:        "busy device conflicts",
			updated:     0,
			existing:    1,
			expectedErr: store.ErrConflict,
		},
		{
			name:        "unknown device is not found",
			updated:     0,
			existing:    0,
			expectedErr: store.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gormDB, mock := newMockDB(t)
			s := store.NewGormStore(gormDB)

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(`UPDATE "devices" SET "current_session_id"=$1,"status"=$2 WHERE id = $3 AND status = $4`)).
				WithArgs("sess-1", model.DeviceOccupied, "device_1", model.DeviceAvailable).
				WillReturnResult(sqlmock.NewResult(0, tc.updated))
			mock.ExpectCommit()
			if tc.updated == 0 {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "devices" WHERE id = $1`)).
					WithArgs("device_1").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tc.existing))
			}

			err := s.OccupyDevice(context.Background(), "device_1", "sess-1")
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormStore_OccupyDevice(t *testing.T) {
	ctx := context.Background()
	s, _ := storetest.NewSQLite(t)
	seedDevices(t, s, "device_1", "device_2")
	require.NoError(t, s.UpdateDeviceStatus(ctx, "device_2", model.DeviceMaintenance))

	require.NoError(t, s.OccupyDevice(ctx, "device_1", "sess-1"))
	assert.ErrorIs(t, s.OccupyDevice(ctx, "device_1", "sess-2"), store.ErrConflict)
	assert.ErrorIs(t, s.OccupyDevice(ctx, "device_2", "sess-3"), store.ErrConflict)
	assert.ErrorIs(t, s.OccupyDevice(ctx, "device_9", "sess-4"), store.ErrNotFound)

	device, err := s.GetDevice(ctx, "device_1")
	require.NoError(t, err)
	assert.Equal(t, model.DeviceOccupied, device.Status)
	require.NotNil(t, device.CurrentSessionID)
	assert.Equal(t, "sess-1", *device.CurrentSessionID)
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}
