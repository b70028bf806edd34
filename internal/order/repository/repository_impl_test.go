package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	ipaddrdomain "github.com/smallbiznis/geotally/internal/ipaddr/domain"
	"github.com/smallbiznis/geotally/internal/order/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Order{}, &ipaddrdomain.IPRecord{}))
	return db
}

func strptr(s string) *string { return &s }

func TestInsertIgnore_NeverOverwrites(t *testing.T) {
	db := newTestDB(t)
	repo := Provide()
	ctx := context.Background()

	inserted, err := repo.InsertIgnore(ctx, db, []*domain.Order{
		{OrderNumber: "1001", Date: "2024-01-15", City: "Austin", SaleAmount: "$10"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, inserted)

	// Second load with different fields must be a no-op.
	inserted, err = repo.InsertIgnore(ctx, db, []*domain.Order{
		{OrderNumber: "1001", Date: "2030-12-31", City: "Elsewhere", SaleAmount: "$999"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, inserted)

	var order domain.Order
	require.NoError(t, db.First(&order, "order_number = ?", "1001").Error)
	assert.Equal(t, "Austin", order.City)
	assert.Equal(t, "$10", order.SaleAmount)
}

func TestAssignIPs_IgnoresUnknownOrders(t *testing.T) {
	db := newTestDB(t)
	repo := Provide()
	ctx := context.Background()

	_, err := repo.InsertIgnore(ctx, db, []*domain.Order{{OrderNumber: "1001"}})
	require.NoError(t, err)

	updated, err := repo.AssignIPs(ctx, db, []domain.IPAssignment{
		{OrderNumber: "1001", IPAddress: "8.8.8.8"},
		{OrderNumber: "9999", IPAddress: "1.1.1.1"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)

	var count int64
	require.NoError(t, db.Model(&domain.Order{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "mapping rows must never create orders")

	var order domain.Order
	require.NoError(t, db.First(&order, "order_number = ?", "1001").Error)
	require.NotNil(t, order.IPAddress)
	assert.Equal(t, "8.8.8.8", *order.IPAddress)
}

func TestPropagateLocations(t *testing.T) {
	db := newTestDB(t)
	repo := Provide()
	ctx := context.Background()

	_, err := repo.InsertIgnore(ctx, db, []*domain.Order{
		{OrderNumber: "1", City: "Old", State: "XX", Zip: "00000", IPAddress: strptr("8.8.8.8")},
		{OrderNumber: "2", City: "Kept", State: "YY", Zip: "11111", IPAddress: strptr("5.5.5.5")},
		{OrderNumber: "3", City: "Untouched", State: "ZZ", Zip: "22222"},
		{OrderNumber: "4", City: "Cleared", State: "WW", Zip: "33333", IPAddress: strptr("4.4.4.4")},
	})
	require.NoError(t, err)

	require.NoError(t, db.Create(&ipaddrdomain.IPRecord{
		IPAddress: "8.8.8.8",
		City:      "Mountain View",
		State:     "California",
		ZipCode:   "94043",
	}).Error)
	// Unresolved record: still overwrites, per the literal join.
	require.NoError(t, db.Create(&ipaddrdomain.IPRecord{IPAddress: "4.4.4.4"}).Error)

	updated, err := repo.PropagateLocations(ctx, db)
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated)

	var o1 domain.Order
	require.NoError(t, db.First(&o1, "order_number = ?", "1").Error)
	assert.Equal(t, "Mountain View", o1.City)
	assert.Equal(t, "California", o1.State)
	assert.Equal(t, "94043", o1.Zip)

	// IP with no store record leaves the order alone.
	var o2 domain.Order
	require.NoError(t, db.First(&o2, "order_number = ?", "2").Error)
	assert.Equal(t, "Kept", o2.City)

	// NULL ip_address leaves the order alone.
	var o3 domain.Order
	require.NoError(t, db.First(&o3, "order_number = ?", "3").Error)
	assert.Equal(t, "Untouched", o3.City)

	var o4 domain.Order
	require.NoError(t, db.First(&o4, "order_number = ?", "4").Error)
	assert.Equal(t, "", o4.City)
	assert.Equal(t, "", o4.State)
	assert.Equal(t, "", o4.Zip)
}
