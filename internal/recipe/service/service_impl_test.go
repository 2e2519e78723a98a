package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	optiondomain "github.com/printlabs/pressconfig/internal/option/domain"
	"github.com/printlabs/pressconfig/internal/recipe/domain"
	"github.com/printlabs/pressconfig/internal/recipe/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	optionrepository "github.com/printlabs/pressconfig/internal/option/repository"
)

type recipeFixture struct {
	svc   domain.Service
	repo  domain.Repository
	db    *gorm.DB
	genID *snowflake.Node
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&optiondomain.OptionType{}, &optiondomain.OptionChoice{},
		&domain.Recipe{}, &domain.Binding{}, &domain.ChoiceRestriction{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return &recipeFixture{
		svc:   New(Params{DB: db, Log: zap.NewNop(), GenID: node, OptionRepo: optionrepository.Provide()}),
		repo:  repository.Provide(),
		db:    db,
		genID: node,
	}
}

func (f *recipeFixture) seedType(t *testing.T, key string, codes ...string) {
	t.Helper()
	typ := &optiondomain.OptionType{ID: f.genID.Generate(), Key: key, Name: key, Active: true}
	require.NoError(t, f.db.Create(typ).Error)
	for _, code := range codes {
		require.NoError(t, f.db.Create(&optiondomain.OptionChoice{
			ID: f.genID.Generate(), TypeID: typ.ID, Code: code, Name: code, Active: true,
		}).Error)
	}
}

func TestCreateAndDefault(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	productID := snowflake.ID(7)
	f.seedType(t, "paper", "coated", "recycled")
	f.seedType(t, "size", "a4", "a5")

	rec, err := f.svc.Create(ctx, domain.CreateRequest{
		ProductID: productID,
		Name:      "flyer",
		IsDefault: true,
		Bindings: []domain.BindingSpec{
			{TypeKey: "paper", DisplayOrder: 1, Required: true},
			{TypeKey: "size", DisplayOrder: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Version)

	got, bindings, err := f.svc.Default(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	require.Len(t, bindings, 2)
	assert.Equal(t, "paper", bindings[0].TypeKey)
	assert.True(t, bindings[0].Required)
}

func TestCreateRejectsUnknownTypeKey(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateRequest{
		ProductID: 7,
		Name:      "flyer",
		Bindings:  []domain.BindingSpec{{TypeKey: "nonexistent"}},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownTypeKey)
}

func TestReplaceBindingsVersions(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	productID := snowflake.ID(7)
	f.seedType(t, "paper", "coated", "recycled")
	f.seedType(t, "size", "a4", "a5")

	v1, err := f.svc.Create(ctx, domain.CreateRequest{
		ProductID: productID,
		Name:      "flyer",
		IsDefault: true,
		Bindings:  []domain.BindingSpec{{TypeKey: "paper", DisplayOrder: 1}},
	})
	require.NoError(t, err)

	v2, err := f.svc.ReplaceBindings(ctx, domain.ReplaceBindingsRequest{
		ProductID: productID,
		RecipeID:  v1.ID,
		Bindings: []domain.BindingSpec{
			{TypeKey: "paper", DisplayOrder: 1},
			{TypeKey: "size", DisplayOrder: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, v2.Version)
	assert.NotEqual(t, v1.ID, v2.ID)
	assert.True(t, v2.IsDefault, "default flag carries to the new version")

	old, err := f.repo.FindByID(ctx, f.db, v1.ID)
	require.NoError(t, err)
	assert.True(t, old.Archived)

	// The archived version is frozen.
	_, err = f.svc.ReplaceBindings(ctx, domain.ReplaceBindingsRequest{
		ProductID: productID,
		RecipeID:  v1.ID,
		Bindings:  []domain.BindingSpec{{TypeKey: "paper"}},
	})
	assert.ErrorIs(t, err, domain.ErrArchivedRecipe)

	// Default now resolves to the new version.
	got, bindings, err := f.svc.Default(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, v2.ID, got.ID)
	assert.Len(t, bindings, 2)
}

func TestSetDefaultMovesFlag(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	productID := snowflake.ID(7)
	f.seedType(t, "paper", "coated")

	a, err := f.svc.Create(ctx, domain.CreateRequest{
		ProductID: productID, Name: "a", IsDefault: true,
		Bindings: []domain.BindingSpec{{TypeKey: "paper"}},
	})
	require.NoError(t, err)
	b, err := f.svc.Create(ctx, domain.CreateRequest{
		ProductID: productID, Name: "b",
		Bindings: []domain.BindingSpec{{TypeKey: "paper"}},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.SetDefault(ctx, productID, b.ID))

	got, _, err := f.svc.Default(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	prev, err := f.repo.FindByID(ctx, f.db, a.ID)
	require.NoError(t, err)
	assert.False(t, prev.IsDefault)
}

func TestChoiceSetsApplyRestrictions(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	productID := snowflake.ID(7)
	f.seedType(t, "paper", "coated", "recycled", "kraft")
	f.seedType(t, "lamination", "glossy", "matte")

	_, err := f.svc.Create(ctx, domain.CreateRequest{
		ProductID: productID,
		Name:      "flyer",
		IsDefault: true,
		Bindings: []domain.BindingSpec{
			{TypeKey: "paper", DisplayOrder: 1, AllowValues: []string{"coated", "recycled"}},
			{TypeKey: "lamination", DisplayOrder: 2, DenyValues: []string{"glossy"}},
		},
	})
	require.NoError(t, err)

	sets, err := f.svc.ChoiceSets(ctx, productID)
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, "paper", sets[0].TypeKey)
	assert.ElementsMatch(t, []string{"coated", "recycled"}, sets[0].Choices)
	assert.Equal(t, []string{"matte"}, sets[1].Choices)
}

func TestDefaultMissing(t *testing.T) {
	f := newRecipeFixture(t)
	_, _, err := f.svc.Default(context.Background(), snowflake.ID(99))
	assert.ErrorIs(t, err, domain.ErrNoDefaultRecipe)
}
