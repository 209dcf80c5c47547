package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDraftIsCreateMode(t *testing.T) {
	draft := NewDraft()
	assert.True(t, draft.IsCreate())
	assert.Empty(t, draft.ItemID())
	assert.False(t, draft.Changed())
}

func TestNewDraftForSeedsBaseValues(t *testing.T) {
	product := Product{ID: "p1", Name: "Basmati Rice", Category: "grains"}
	draft := NewDraftFor(product)

	assert.False(t, draft.IsCreate())
	assert.Equal(t, "p1", draft.ItemID())

	v, ok := draft.Field("name")
	require.True(t, ok)
	assert.Equal(t, "Basmati Rice", v)

	// Seeded values are not pending changes
	assert.False(t, draft.Changed())
	assert.Empty(t, draft.Changes())
}

func TestDraftChangesShadowBase(t *testing.T) {
	product := Product{ID: "p1", Name: "Basmati Rice"}
	draft := NewDraftFor(product)

	draft.Set("name", "Jasmine Rice")

	v, _ := draft.Field("name")
	assert.Equal(t, "Jasmine Rice", v)
	assert.True(t, draft.Changed())
	// Exactly the touched field is in the change set
	assert.Equal(t, Payload{"name": "Jasmine Rice"}, draft.Changes())
}

func TestDraftSliceSeedIsCopied(t *testing.T) {
	product := Product{ID: "p1", Name: "Basmati Rice", ImageURLs: []string{"a.jpg"}}
	draft := NewDraftFor(product)

	urls, ok := draft.Field("imageUrls")
	require.True(t, ok)
	list, ok := urls.([]string)
	require.True(t, ok)
	list[0] = "mutated.jpg"

	// The original item never sees draft-side mutation
	assert.Equal(t, "a.jpg", product.ImageURLs[0])
}

func TestDraftChangesReturnsCopy(t *testing.T) {
	draft := NewDraft()
	draft.Set("name", "Turmeric")

	changes := draft.Changes()
	changes["name"] = "tampered"

	v, _ := draft.Field("name")
	assert.Equal(t, "Turmeric", v)
}

func TestProductValidate(t *testing.T) {
	valid := Product{Name: "Basmati Rice", Category: "grains"}
	assert.NoError(t, valid.Validate())

	missingName := Product{Category: "grains"}
	assert.ErrorIs(t, missingName.Validate(), ErrProductNameEmpty)

	missingCategory := Product{Name: "Basmati Rice"}
	assert.ErrorIs(t, missingCategory.Validate(), ErrProductCategoryEmpty)
}

func TestReviewValidate(t *testing.T) {
	valid := Review{Author: "An importer", Message: "great", Rating: 5}
	assert.NoError(t, valid.Validate())

	badRating := Review{Author: "An importer", Message: "great", Rating: 6}
	assert.ErrorIs(t, badRating.Validate(), ErrReviewInvalidRating)

	badStatus := Review{Author: "An importer", Message: "great", Rating: 3, Status: "weird"}
	assert.Error(t, badStatus.Validate())
}

func TestRemoteErrorTaxonomy(t *testing.T) {
	netErr := NewRemoteError(FailureNetwork, "", nil)
	assert.True(t, IsNetworkFailure(netErr))
	assert.False(t, IsNotFound(netErr))

	missing := NewRemoteError(FailureNotFound, "gone", nil)
	assert.True(t, IsNotFound(missing))
	assert.Equal(t, "gone", RemoteMessage(missing, "fallback"))
	assert.Equal(t, "fallback", RemoteMessage(netErr, "fallback"))
}
