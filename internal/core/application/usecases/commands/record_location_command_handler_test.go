package commands_test

import (
	"testing"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordLocationCommandHandler_Handle_SimulatedPing(t *testing.T) {
	// Arrange
	ctx := t.Context()
	partnerAggregate := makeAvailablePartner(t)
	orderAggregate := makeDispatchedOrder(t, partnerAggregate)
	point, err := kernel.NewGeoPoint(12.95, 77.61)
	require.NoError(t, err)

	cmd, err := commands.NewRecordLocationCommand(orderAggregate.ID(), point, nil)
	require.NoError(t, err)

	mockOrderRepo := new(MockOrderRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockUoWFactory)

	mockFactory.On("Create").Return(mockUoW).Once()
	mockUoW.On("Begin", ctx).Return(nil).Once()
	mockUoW.On("OrderRepository").Return(mockOrderRepo).Once()
	mockOrderRepo.On("Get", ctx, orderAggregate.ID()).Return(orderAggregate, nil).Once()
	mockOrderRepo.On("Update", ctx, orderAggregate).Return(nil).Once()
	mockUoW.On("Commit", ctx).Return(nil).Once()
	mockUoW.On("Rollback", ctx).Return(nil).Once()

	pub := new(MockEventPublisher)
	pub.On("PublishOrderEvent", orderAggregate.ID(), mock.MatchedBy(func(evt order.TrackingEvent) bool {
		return evt.Kind() == order.EventLocationUpdate
	})).Return(nil).Once()
	pub.On("PublishCustomerEvent", orderAggregate.CustomerID(), orderAggregate.ID(), mock.Anything).
		Return(nil).Once()

	handler := commands.NewRecordLocationCommandHandler(mockFactory, pub, testLogger())

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, orderAggregate.Location())
	pub.AssertExpectations(t)
	// No partner repository touched for simulated pings.
	mockUoW.AssertNotCalled(t, "PartnerRepository")
}

func TestRecordLocationCommandHandler_Handle_PartnerPingRefreshesPartner(t *testing.T) {
	// Arrange
	ctx := t.Context()
	partnerAggregate := makeAvailablePartner(t)
	orderAggregate := makeDispatchedOrder(t, partnerAggregate)
	point, err := kernel.NewGeoPoint(12.95, 77.61)
	require.NoError(t, err)

	partnerID := partnerAggregate.ID()
	cmd, err := commands.NewRecordLocationCommand(orderAggregate.ID(), point, &partnerID)
	require.NoError(t, err)

	mockOrderRepo := new(MockOrderRepository)
	mockPartnerRepo := new(MockPartnerRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockUoWFactory)

	mockFactory.On("Create").Return(mockUoW).Once()
	mockUoW.On("Begin", ctx).Return(nil).Once()
	mockUoW.On("OrderRepository").Return(mockOrderRepo).Once()
	mockUoW.On("PartnerRepository").Return(mockPartnerRepo).Once()
	mockOrderRepo.On("Get", ctx, orderAggregate.ID()).Return(orderAggregate, nil).Once()
	mockOrderRepo.On("Update", ctx, orderAggregate).Return(nil).Once()
	mockPartnerRepo.On("Get", ctx, partnerID).Return(partnerAggregate, nil).Once()
	mockPartnerRepo.On("Update", ctx, partnerAggregate).Return(nil).Once()
	mockUoW.On("Commit", ctx).Return(nil).Once()
	mockUoW.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewRecordLocationCommandHandler(mockFactory, publisherAcceptingAll(), testLogger())

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, partnerAggregate.Location())
	equal, err := partnerAggregate.Location().IsEqual(point)
	require.NoError(t, err)
	assert.True(t, equal)
	mockPartnerRepo.AssertExpectations(t)
}

func TestRecordLocationCommandHandler_Handle_AppendsInArrivalOrder(t *testing.T) {
	// Arrange
	ctx := t.Context()
	partnerAggregate := makeAvailablePartner(t)
	orderAggregate := makeDispatchedOrder(t, partnerAggregate)

	mockOrderRepo := new(MockOrderRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockUoWFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("OrderRepository").Return(mockOrderRepo)
	mockOrderRepo.On("Get", ctx, orderAggregate.ID()).Return(orderAggregate, nil)
	mockOrderRepo.On("Update", ctx, orderAggregate).Return(nil)
	mockUoW.On("Commit", ctx).Return(nil)
	mockUoW.On("Rollback", ctx).Return(nil)

	handler := commands.NewRecordLocationCommandHandler(mockFactory, publisherAcceptingAll(), testLogger())

	coords := [][2]float64{{12.95, 77.61}, {12.96, 77.60}, {12.94, 77.62}} // deliberately non-monotonic

	// Act
	for _, c := range coords {
		point, err := kernel.NewGeoPoint(c[0], c[1])
		require.NoError(t, err)
		cmd, err := commands.NewRecordLocationCommand(orderAggregate.ID(), point, nil)
		require.NoError(t, err)
		require.NoError(t, handler.Handle(ctx, cmd))
	}

	// Assert: pings land in arrival order, no reordering.
	history := orderAggregate.History()
	var lats []float64
	for _, evt := range history {
		if evt.Kind() == order.EventLocationUpdate {
			lats = append(lats, evt.Payload().(order.LocationPayload).Lat)
		}
	}
	assert.Equal(t, []float64{12.95, 12.96, 12.94}, lats)
}
