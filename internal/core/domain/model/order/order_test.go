package order_test

import (
	"testing"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()

	restaurant, err := kernel.NewGeoPoint(12.9352, 77.6245)
	require.NoError(t, err)
	delivery, err := kernel.NewGeoPoint(12.9716, 77.5946)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), restaurant, delivery)
	require.NoError(t, err)

	return o
}

func testPartnerPayload() order.PartnerPayload {
	return order.PartnerPayload{
		PartnerID:     kernel.NewUUID().String(),
		Name:          "Ravi Kumar",
		Phone:         "+91-9876543210",
		VehicleNumber: "KA-01-AB-1234",
		Rating:        4.8,
	}
}

func TestNewOrder(t *testing.T) {
	t.Run("should create order in Processing with empty history", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.Processing, o.Status())
		assert.Nil(t, o.PartnerID())
		assert.Nil(t, o.Location())
		assert.Nil(t, o.EstimatedDelivery())
		assert.Nil(t, o.DeliveredAt())
		assert.Empty(t, o.History())
		assert.EqualValues(t, 1, o.Version())
	})

	t.Run("should reject unconstructed customer id", func(t *testing.T) {
		point, err := kernel.NewGeoPoint(0, 0)
		require.NoError(t, err)

		_, err = order.NewOrder(kernel.NewUUID(), kernel.UUID{}, point, point)

		require.Error(t, err)
	})

	t.Run("should reject unconstructed locations", func(t *testing.T) {
		point, err := kernel.NewGeoPoint(0, 0)
		require.NoError(t, err)

		_, err = order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.GeoPoint{}, point)
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)

		_, err = order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), point, kernel.GeoPoint{})
		require.Error(t, err)
	})
}

func TestOrder_AssignPartner(t *testing.T) {
	t.Run("should dispatch order and compute ETA", func(t *testing.T) {
		o := newTestOrder(t)
		payload := testPartnerPayload()
		before := time.Now().UTC()

		err := o.AssignPartner(payload)

		require.NoError(t, err)
		assert.Equal(t, order.OutForDelivery, o.Status())
		require.NotNil(t, o.PartnerID())
		assert.Equal(t, payload.PartnerID, o.PartnerID().String())

		require.NotNil(t, o.EstimatedDelivery())
		eta := *o.EstimatedDelivery()
		assert.WithinDuration(t, before.Add(order.DefaultDeliveryWindow), eta, 2*time.Second)
	})

	t.Run("should append PartnerAssigned then StatusChange events", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.AssignPartner(testPartnerPayload()))

		history := o.History()
		require.Len(t, history, 2)
		assert.Equal(t, order.EventPartnerAssigned, history[0].Kind())
		assert.Equal(t, order.EventStatusChange, history[1].Kind())
	})

	t.Run("should reject assignment outside Processing", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.AssignPartner(testPartnerPayload()))

		err := o.AssignPartner(testPartnerPayload())

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("should leave version for the repository to bump", func(t *testing.T) {
		o := newTestOrder(t)
		v := o.Version()

		require.NoError(t, o.AssignPartner(testPartnerPayload()))

		assert.Equal(t, v, o.Version())
	})
}

func TestOrder_Complete(t *testing.T) {
	t.Run("should deliver a dispatched order and keep partner reference", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.AssignPartner(testPartnerPayload()))

		err := o.Complete("delivered at the door")

		require.NoError(t, err)
		assert.Equal(t, order.Delivered, o.Status())
		assert.NotNil(t, o.PartnerID())
		require.NotNil(t, o.DeliveredAt())

		history := o.History()
		last := history[len(history)-1]
		assert.Equal(t, order.EventDeliveryComplete, last.Kind())
	})

	t.Run("should reject completion from Processing", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.Complete("")

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("should cancel from Processing", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.Cancel("customer changed mind")

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
	})

	t.Run("should cancel mid delivery and clear partner reference", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.AssignPartner(testPartnerPayload()))

		err := o.Cancel("restaurant closed")

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
		assert.Nil(t, o.PartnerID())
	})

	t.Run("should reject cancelling a delivered order", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.AssignPartner(testPartnerPayload()))
		require.NoError(t, o.Complete(""))

		err := o.Cancel("too late")

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
	})
}

func TestOrder_Transition(t *testing.T) {
	t.Run("Delivered routes through Complete", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.AssignPartner(testPartnerPayload()))

		require.NoError(t, o.Transition(order.Delivered, ""))

		assert.Equal(t, order.Delivered, o.Status())
		assert.NotNil(t, o.DeliveredAt())
	})

	t.Run("OutForDelivery is rejected without a partner", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.Transition(order.OutForDelivery, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("Processing target is never reachable", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.AssignPartner(testPartnerPayload()))

		err := o.Transition(order.Processing, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
	})
}

func TestOrder_RecordLocation(t *testing.T) {
	t.Run("should update location and append event", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.AssignPartner(testPartnerPayload()))

		point, err := kernel.NewGeoPoint(12.98, 77.6)
		require.NoError(t, err)

		require.NoError(t, o.RecordLocation(point))

		require.NotNil(t, o.Location())
		equal, err := o.Location().IsEqual(point)
		require.NoError(t, err)
		assert.True(t, equal)

		history := o.History()
		last := history[len(history)-1]
		assert.Equal(t, order.EventLocationUpdate, last.Kind())

		payload, ok := last.Payload().(order.LocationPayload)
		require.True(t, ok)
		assert.InDelta(t, 12.98, payload.Lat, 1e-9)
	})

	t.Run("late ping after delivery still lands in history", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.AssignPartner(testPartnerPayload()))
		require.NoError(t, o.Complete(""))
		before := len(o.History())

		point, err := kernel.NewGeoPoint(13.0, 77.61)
		require.NoError(t, err)

		require.NoError(t, o.RecordLocation(point))

		assert.Len(t, o.History(), before+1)
		assert.Equal(t, order.Delivered, o.Status())
	})

	t.Run("should reject unconstructed point", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.RecordLocation(kernel.GeoPoint{})

		require.Error(t, err)
	})
}

func TestOrder_History(t *testing.T) {
	t.Run("history is append only and returned as a copy", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.AssignPartner(testPartnerPayload()))

		first := o.History()
		point, err := kernel.NewGeoPoint(12.99, 77.59)
		require.NoError(t, err)
		require.NoError(t, o.RecordLocation(point))

		second := o.History()
		require.Len(t, second, len(first)+1)
		for i := range first {
			assert.True(t, first[i].ID().IsEqual(second[i].ID()))
		}
	})

	t.Run("NewEvents returns only the unpersisted tail", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.AssignPartner(testPartnerPayload()))
		persisted := len(o.History())

		point, err := kernel.NewGeoPoint(12.99, 77.59)
		require.NoError(t, err)
		require.NoError(t, o.RecordLocation(point))

		tail := o.NewEvents(persisted)
		require.Len(t, tail, 1)
		assert.Equal(t, order.EventLocationUpdate, tail[0].Kind())

		assert.Nil(t, o.NewEvents(len(o.History())))
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("should restore a dispatched order", func(t *testing.T) {
		id := kernel.NewUUID()
		customerID := kernel.NewUUID()
		partnerID := kernel.NewUUID()
		restaurant, err := kernel.NewGeoPoint(12.9352, 77.6245)
		require.NoError(t, err)
		delivery, err := kernel.NewGeoPoint(12.9716, 77.5946)
		require.NoError(t, err)
		location, err := kernel.NewGeoPoint(12.98, 77.6)
		require.NoError(t, err)
		now := time.Now().UTC()
		eta := now.Add(order.DefaultDeliveryWindow)

		o, err := order.RestoreOrder(
			id, customerID, order.OutForDelivery,
			&partnerID, &location, restaurant, delivery,
			&eta, nil, nil, now, now, 3,
		)

		require.NoError(t, err)
		assert.Equal(t, order.OutForDelivery, o.Status())
		assert.EqualValues(t, 3, o.Version())
		assert.Empty(t, o.History())
	})

	t.Run("should reject invalid version", func(t *testing.T) {
		id := kernel.NewUUID()
		point, err := kernel.NewGeoPoint(0, 0)
		require.NoError(t, err)
		now := time.Now().UTC()

		_, err = order.RestoreOrder(
			id, kernel.NewUUID(), order.Processing,
			nil, nil, point, point, nil, nil, nil, now, now, 0,
		)

		require.Error(t, err)
	})
}
