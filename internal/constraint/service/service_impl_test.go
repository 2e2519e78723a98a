package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/printlabs/pressconfig/internal/constraint/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Constraint{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{DB: db, Log: zap.NewNop(), GenID: node}), db
}

func excludeSpec(name, trigger, value, target string, excluded ...string) domain.RuleSpec {
	return domain.RuleSpec{
		Name:             name,
		TriggerOptionKey: trigger,
		TriggerOperator:  domain.OpEquals,
		TriggerValues:    []string{value},
		Actions: []domain.Action{{
			Type:            domain.ActionExcludeOptions,
			TargetOptionKey: target,
			ExcludedValues:  excluded,
		}},
	}
}

func TestCreateAndEvaluate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	productID := snowflake.ID(42)

	_, err := svc.Create(ctx, productID, excludeSpec("no glossy on recycled", "paper", "recycled", "lamination", "glossy"))
	require.NoError(t, err)

	res, err := svc.Evaluate(ctx, productID, domain.Selection{"paper": "recycled", "lamination": "glossy"})
	require.NoError(t, err)
	assert.False(t, res.Valid())
	require.Len(t, res.Violations, 1)
	assert.Equal(t, "lamination", res.Violations[0].OptionKey)
	assert.Equal(t, domain.ViolationValueExcluded, res.Violations[0].Reason)

	res, err = svc.Evaluate(ctx, productID, domain.Selection{"paper": "recycled", "lamination": "matte"})
	require.NoError(t, err)
	assert.True(t, res.Valid())
	assert.Equal(t, []string{"no glossy on recycled"}, res.FiredRuleNames)
}

func TestCreateRejectsInvalidSpec(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	spec := excludeSpec("bad", "paper", "recycled", "lamination", "glossy")
	spec.Actions = nil
	_, err := svc.Create(ctx, snowflake.ID(42), spec)
	assert.ErrorIs(t, err, domain.ErrEmptyActionSet)

	spec = excludeSpec("bad-op", "paper", "recycled", "lamination", "glossy")
	spec.TriggerOperator = "between"
	_, err = svc.Create(ctx, snowflake.ID(42), spec)
	assert.ErrorIs(t, err, domain.ErrInvalidTrigger)
}

func TestCycleGateBlocksCreate(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	productID := snowflake.ID(42)

	_, err := svc.Create(ctx, productID, excludeSpec("a", "paper", "recycled", "size", "a1"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, productID, excludeSpec("b", "size", "a4", "paper", "recycled"))
	assert.ErrorIs(t, err, domain.ErrCycleDetected)

	var count int64
	require.NoError(t, db.Model(&domain.Constraint{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "rejected rule must not persist")
}

func TestCycleGateCountsInactiveRules(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	productID := snowflake.ID(42)

	created, err := svc.Create(ctx, productID, excludeSpec("a", "paper", "recycled", "size", "a1"))
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(ctx, productID, created.ID, false))

	// Deactivated rules stay in the graph; re-activation must never be able
	// to introduce a cycle.
	_, err = svc.Create(ctx, productID, excludeSpec("b", "size", "a4", "paper", "recycled"))
	assert.ErrorIs(t, err, domain.ErrCycleDetected)

	// Evaluation, by contrast, ignores the inactive rule.
	res, err := svc.Evaluate(ctx, productID, domain.Selection{"paper": "recycled", "size": "a1"})
	require.NoError(t, err)
	assert.True(t, res.Valid())
	assert.Empty(t, res.FiredRuleNames)
}

func TestPreviewCycleDoesNotPersist(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	productID := snowflake.ID(42)

	_, err := svc.Create(ctx, productID, excludeSpec("a", "paper", "recycled", "size", "a1"))
	require.NoError(t, err)

	preview, err := svc.PreviewCycle(ctx, productID, excludeSpec("b", "size", "a4", "paper", "recycled"))
	require.NoError(t, err)
	assert.True(t, preview.WouldCreateCycle)
	assert.Equal(t, []string{"paper"}, preview.TargetKeys)

	preview, err = svc.PreviewCycle(ctx, productID, excludeSpec("c", "size", "a4", "binding", "spiral"))
	require.NoError(t, err)
	assert.False(t, preview.WouldCreateCycle)

	var count int64
	require.NoError(t, db.Model(&domain.Constraint{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateReplacesRuleAndRechecksCycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	productID := snowflake.ID(42)

	a, err := svc.Create(ctx, productID, excludeSpec("a", "paper", "recycled", "size", "a1"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, productID, excludeSpec("b", "size", "a4", "binding", "spiral"))
	require.NoError(t, err)

	// Retargeting a at binding is fine; retargeting b at paper would cycle.
	updated, err := svc.Update(ctx, productID, a.ID, excludeSpec("a", "paper", "recycled", "binding", "glue"))
	require.NoError(t, err)
	assert.Equal(t, a.ID, updated.ID)

	_, err = svc.Update(ctx, productID, a.ID, excludeSpec("a", "binding", "spiral", "size", "a1"))
	assert.ErrorIs(t, err, domain.ErrCycleDetected)
}

func TestDeleteRemovesRule(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	productID := snowflake.ID(42)

	a, err := svc.Create(ctx, productID, excludeSpec("a", "paper", "recycled", "size", "a1"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, productID, a.ID))

	items, err := svc.List(ctx, productID)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, svc.Delete(ctx, productID, a.ID), domain.ErrConstraintNotFound)
}
