package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NurettinDemirhan/ecopacknav/internal/models"
)

func TestLookupItemLifecycle(t *testing.T) {
	db := setupTestDB(t)
	owner := "owner-1"

	item, err := CreateLookupItem(db, owner, models.LookupAdhesive, "  Hotmelt  ")
	require.NoError(t, err)
	assert.Equal(t, "Hotmelt", item.Name)

	_, err = CreateLookupItem(db, owner, models.LookupAdhesive, "Acrylic")
	require.NoError(t, err)

	items, err := ListLookupItems(db, owner, models.LookupAdhesive)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Acrylic", items[0].Name)
	assert.Equal(t, "Hotmelt", items[1].Name)

	require.NoError(t, UpdateLookupItem(db, owner, models.LookupAdhesive, item.ID, "Solvent"))
	items, _ = ListLookupItems(db, owner, models.LookupAdhesive)
	assert.Equal(t, "Solvent", items[1].Name)

	require.NoError(t, DeleteLookupItem(db, owner, models.LookupAdhesive, item.ID))
	items, _ = ListLookupItems(db, owner, models.LookupAdhesive)
	require.Len(t, items, 1)
}

func TestLookupItemUniquePerOwnerAndList(t *testing.T) {
	db := setupTestDB(t)

	first, err := CreateLookupItem(db, "owner-1", models.LookupCoating, "Wax")
	require.NoError(t, err)

	_, err = CreateLookupItem(db, "owner-1", models.LookupCoating, "Wax")
	assert.ErrorIs(t, err, ErrValidation)

	// Same name in another list or for another owner is fine
	_, err = CreateLookupItem(db, "owner-1", models.LookupAdhesive, "Wax")
	assert.NoError(t, err)
	_, err = CreateLookupItem(db, "owner-2", models.LookupCoating, "Wax")
	assert.NoError(t, err)

	// Renaming onto an existing name is rejected too
	second, err := CreateLookupItem(db, "owner-1", models.LookupCoating, "Varnish")
	require.NoError(t, err)
	assert.ErrorIs(t, UpdateLookupItem(db, "owner-1", models.LookupCoating, second.ID, "Wax"), ErrValidation)

	// Renaming to its own name is a no-op, not a conflict
	assert.NoError(t, UpdateLookupItem(db, "owner-1", models.LookupCoating, first.ID, "Wax"))
}

func TestLookupItemValidation(t *testing.T) {
	db := setupTestDB(t)
	owner := "owner-1"

	_, err := CreateLookupItem(db, owner, "bogus", "Name")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = CreateLookupItem(db, owner, models.LookupComponentType, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	assert.ErrorIs(t, UpdateLookupItem(db, owner, models.LookupComponentType, "no-such-id", "Name"), ErrNotFound)
	assert.ErrorIs(t, DeleteLookupItem(db, owner, models.LookupComponentType, "no-such-id"), ErrNotFound)

	// Other owners cannot touch the item
	item, err := CreateLookupItem(db, owner, models.LookupFoodContact, "Direct")
	require.NoError(t, err)
	assert.ErrorIs(t, DeleteLookupItem(db, "owner-2", models.LookupFoodContact, item.ID), ErrNotFound)
}

func TestListAllLookupItems(t *testing.T) {
	db := setupTestDB(t)
	owner := "owner-1"

	_, err := CreateLookupItem(db, owner, models.LookupComponentType, "Bottle")
	require.NoError(t, err)
	_, err = CreateLookupItem(db, owner, models.LookupCoating, "Wax")
	require.NoError(t, err)

	all, err := ListAllLookupItems(db, owner)
	require.NoError(t, err)
	require.Len(t, all, len(models.LookupKinds))
	assert.Len(t, all[models.LookupComponentType], 1)
	assert.Len(t, all[models.LookupCoating], 1)
	assert.Empty(t, all[models.LookupAdhesive])
}
