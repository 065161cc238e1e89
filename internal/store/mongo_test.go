package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"console-cafe-backend/internal/model"
	"console-cafe-backend/internal/store"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list devices decodes documents", func(mt *mtest.T) {
		s := store.NewMongoStore(mt.DB, false)
		ns := mt.DB.Name() + ".devices"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "id", Value: "device_1"}, {Key: "name", Value: "Device 1"}, {Key: "status", Value: "available"}, {Key: "current_session_id", Value: nil}},
			bson.D{{Key: "id", Value: "device_2"}, {Key: "name", Value: "Device 2"}, {Key: "status", Value: "occupied"}, {Key: "current_session_id", Value: "sess-1"}},
		))

		devices, err := s.ListDevices(context.Background())
		require.NoError(mt, err)
		require.Len(mt, devices, 2)
		assert.Equal(mt, model.DeviceAvailable, devices[0].Status)
		assert.Nil(mt, devices[0].CurrentSessionID)
		require.NotNil(mt, devices[1].CurrentSessionID)
		assert.Equal(mt, "sess-1", *devices[1].CurrentSessionID)
	})

	mt.Run("get missing device", func(mt *mtest.T) {
		s := store.NewMongoStore(mt.DB, false)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".devices", mtest.FirstBatch))

		_, err := s.GetDevice(context.Background(), "device_9")
		assert.ErrorIs(mt, err, store.ErrNotFound)
	})

	mt.Run("status update on unknown device", func(mt *mtest.T) {
		s := store.NewMongoStore(mt.DB, false)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := s.UpdateDeviceStatus(context.Background(), "device_9", model.DeviceMaintenance)
		assert.ErrorIs(mt, err, store.ErrNotFound)
	})

	mt.Run("complete already closed session", func(mt *mtest.T) {
		s := store.NewMongoStore(mt.DB, false)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, mt.DB.Name()+".sessions", mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
		)

		err := s.CompleteSession(context.Background(), "sess-1", time.Now(), 15)
		assert.ErrorIs(mt, err, store.ErrConflict)
	})

	mt.Run("occupy busy device", func(mt *mtest.T) {
		s := store.NewMongoStore(mt.DB, false)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, mt.DB.Name()+".devices", mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
		)

		err := s.OccupyDevice(context.Background(), "device_1", "sess-2")
		assert.ErrorIs(mt, err, store.ErrConflict)
	})

	mt.Run("without transactions InTx runs inline", func(mt *mtest.T) {
		s := store.NewMongoStore(mt.DB, false)
		called := false
		err := s.InTx(context.Background(), func(ctx context.Context, tx store.Store) error {
			called = true
			assert.Same(mt, s, tx)
			return nil
		})
		require.NoError(mt, err)
		assert.True(mt, called)
	})
}
