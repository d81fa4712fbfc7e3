package commands_test

import (
	"testing"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/domain/model/partner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTransitionOrderCommandHandler_Handle_CancelProcessingOrder(t *testing.T) {
	// Arrange
	ctx := t.Context()
	orderAggregate := makeOrder(t)

	cmd, err := commands.NewTransitionOrderCommand(orderAggregate.ID(), order.Cancelled, "customer changed mind")
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
	mockUoW.On("Commit", ctx).Return(nil).Once()
	mockUoW.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewTransitionOrderCommandHandler(
		mockFactory, publisherAcceptingAll(), dispatcherAcceptingAll(), testLogger())

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, orderAggregate.Status())
	mockPartnerRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestTransitionOrderCommandHandler_Handle_CancelReleasesPartner(t *testing.T) {
	// Arrange
	ctx := t.Context()
	partnerAggregate := makeAvailablePartner(t)
	orderAggregate := makeDispatchedOrder(t, partnerAggregate)

	cmd, err := commands.NewTransitionOrderCommand(orderAggregate.ID(), order.Cancelled, "restaurant closed")
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
	mock.InOrder(
		mockOrderRepo.On("Update", ctx, orderAggregate).Return(nil).Once(),
		mockPartnerRepo.On("Get", ctx, partnerAggregate.ID()).Return(partnerAggregate, nil).Once(),
		mockPartnerRepo.On("Update", ctx, partnerAggregate).Return(nil).Once(),
		mockUoW.On("Commit", ctx).Return(nil).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewTransitionOrderCommandHandler(
		mockFactory, publisherAcceptingAll(), dispatcherAcceptingAll(), testLogger())

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, orderAggregate.Status())
	assert.Nil(t, orderAggregate.PartnerID())
	assert.Equal(t, partner.Available, partnerAggregate.Status())
	assert.Nil(t, partnerAggregate.ActiveOrderID())
	assert.Zero(t, partnerAggregate.TotalDeliveries(), "cancellation must not credit a delivery")
	mockPartnerRepo.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_DeliveredRoutesThroughCompletion(t *testing.T) {
	// Arrange
	ctx := t.Context()
	partnerAggregate := makeAvailablePartner(t)
	orderAggregate := makeDispatchedOrder(t, partnerAggregate)

	cmd, err := commands.NewTransitionOrderCommand(orderAggregate.ID(), order.Delivered, "")
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
	mockPartnerRepo.On("Get", ctx, partnerAggregate.ID()).Return(partnerAggregate, nil).Once()
	mockPartnerRepo.On("Update", ctx, partnerAggregate).Return(nil).Once()
	mockUoW.On("Commit", ctx).Return(nil).Once()
	mockUoW.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewTransitionOrderCommandHandler(
		mockFactory, publisherAcceptingAll(), dispatcherAcceptingAll(), testLogger())

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, order.Delivered, orderAggregate.Status())
	assert.EqualValues(t, 1, partnerAggregate.TotalDeliveries(), "delivered via transition credits the partner")
	assert.Equal(t, partner.Available, partnerAggregate.Status())
}

func TestTransitionOrderCommandHandler_Handle_InvalidEdgeLeavesStateUnchanged(t *testing.T) {
	// Arrange
	ctx := t.Context()
	orderAggregate := makeOrder(t)
	require.NoError(t, orderAggregate.Cancel(""))
	versionBefore := orderAggregate.Version()
	historyBefore := len(orderAggregate.History())

	cmd, err := commands.NewTransitionOrderCommand(orderAggregate.ID(), order.Cancelled, "again")
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
	mockUoW.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewTransitionOrderCommandHandler(
		mockFactory, publisherAcceptingAll(), dispatcherAcceptingAll(), testLogger())

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, order.ErrInvalidTransition)

	var transitionErr *order.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, order.Cancelled, transitionErr.From)
	assert.Equal(t, order.Cancelled, transitionErr.To)

	assert.Equal(t, versionBefore, orderAggregate.Version())
	assert.Len(t, orderAggregate.History(), historyBefore)
	mockUoW.AssertNotCalled(t, "Commit", mock.Anything)
}
