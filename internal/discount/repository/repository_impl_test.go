package repository

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/printlabs/pressconfig/internal/discount/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.QtyDiscountTier{}))
	return db
}

func tier(id int64, productID *snowflake.ID, label string, qtyMin, qtyMax int, rate string) *domain.QtyDiscountTier {
	return &domain.QtyDiscountTier{
		ID:        snowflake.ID(id),
		ProductID: productID,
		Label:     label,
		QtyMin:    qtyMin,
		QtyMax:    qtyMax,
		Rate:      decimal.RequireFromString(rate),
		Active:    true,
	}
}

func TestTierCRUD(t *testing.T) {
	db := newTestDB(t)
	repo := Provide()
	ctx := context.Background()

	productID := snowflake.ID(42)
	otherID := snowflake.ID(43)
	require.NoError(t, repo.Insert(ctx, db, tier(1, &productID, "bulk 100", 100, 499, "0.05")))
	require.NoError(t, repo.Insert(ctx, db, tier(2, nil, "global 500", 500, 9999, "0.10")))
	require.NoError(t, repo.Insert(ctx, db, tier(3, &otherID, "other product", 1, 9999, "0.50")))

	tiers, err := repo.ListForProduct(ctx, db, productID)
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Equal(t, "bulk 100", tiers[0].Label)
	assert.Equal(t, "global 500", tiers[1].Label)

	require.NoError(t, repo.Delete(ctx, db, snowflake.ID(1)))
	tiers, err = repo.ListForProduct(ctx, db, productID)
	require.NoError(t, err)
	require.Len(t, tiers, 1)
	assert.Nil(t, tiers[0].ProductID)
}
