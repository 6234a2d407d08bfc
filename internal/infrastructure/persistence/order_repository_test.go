package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulfillbridge/backend/internal/domain/fulfillment"
	"github.com/fulfillbridge/backend/tests/testutil"
)

func orderColumns() []string {
	return []string{
		"id", "merchant", "order_number", "line_item_count",
		"status", "created_at", "updated_at",
	}
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.NewMockDB(t)
	defer db.Close()
	repo := NewGormOrderRepository(db.DB)

	db.Mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1`).
		WithArgs("order/404", 1).
		WillReturnRows(sqlmock.NewRows(orderColumns()))

	order, err := repo.FindByID(context.Background(), "order/404")
	assert.Nil(t, order)
	assert.ErrorIs(t, err, fulfillment.ErrOrderNotFound)
	db.ExpectationsWereMet(t)
}

func TestOrderRepository_ListByMerchant_NewestFirst(t *testing.T) {
	db := testutil.NewMockDB(t)
	defer db.Close()
	repo := NewGormOrderRepository(db.DB)

	now := time.Now()
	rows := sqlmock.NewRows(orderColumns()).
		AddRow("order/2", "shop.example.com", "#1002", 2, "REQUESTED", now, now).
		AddRow("order/1", "shop.example.com", "#1001", 1, "FULFILLED", now.Add(-time.Hour), now.Add(-time.Hour))

	db.Mock.ExpectQuery(`SELECT \* FROM "orders" WHERE merchant = \$1 ORDER BY created_at DESC`).
		WithArgs("shop.example.com").
		WillReturnRows(rows)

	orders, err := repo.ListByMerchant(context.Background(), "shop.example.com")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "order/2", orders[0].ID)
	assert.Equal(t, fulfillment.OrderStatusRequested, orders[0].Status)
	assert.Equal(t, "order/1", orders[1].ID)
	db.ExpectationsWereMet(t)
}

func TestOrderRepository_UpdateStatus_Advances(t *testing.T) {
	db := testutil.NewMockDB(t)
	defer db.Close()
	repo := NewGormOrderRepository(db.DB)

	db.Mock.ExpectExec(`UPDATE "orders" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "order/1",
		fulfillment.OrderStatusCreated, fulfillment.OrderStatusRequested)
	require.NoError(t, err)
	db.ExpectationsWereMet(t)
}

func TestOrderRepository_UpdateStatus_AlreadyAdvancedIsNoop(t *testing.T) {
	db := testutil.NewMockDB(t)
	defer db.Close()
	repo := NewGormOrderRepository(db.DB)

	now := time.Now()
	db.Mock.ExpectExec(`UPDATE "orders" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	db.Mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1`).
		WithArgs("order/1", 1).
		WillReturnRows(sqlmock.NewRows(orderColumns()).
			AddRow("order/1", "shop.example.com", "#1001", 2, "REQUESTED", now, now))

	err := repo.UpdateStatus(context.Background(), "order/1",
		fulfillment.OrderStatusCreated, fulfillment.OrderStatusRequested)
	require.NoError(t, err)
	db.ExpectationsWereMet(t)
}

func TestOrderRepository_UpdateStatus_BackwardsRejected(t *testing.T) {
	db := testutil.NewMockDB(t)
	defer db.Close()
	repo := NewGormOrderRepository(db.DB)

	now := time.Now()
	db.Mock.ExpectExec(`UPDATE "orders" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	db.Mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1`).
		WithArgs("order/1", 1).
		WillReturnRows(sqlmock.NewRows(orderColumns()).
			AddRow("order/1", "shop.example.com", "#1001", 2, "FULFILLED", now, now))

	err := repo.UpdateStatus(context.Background(), "order/1",
		fulfillment.OrderStatusFulfilled, fulfillment.OrderStatusRequested)
	var transition *fulfillment.InvalidTransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, fulfillment.OrderStatusFulfilled, transition.From)
	assert.Equal(t, fulfillment.OrderStatusRequested, transition.To)
	db.ExpectationsWereMet(t)
}
