package risk

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryStartsEmpty(t *testing.T) {
	registry := NewRegistry()
	for _, bt := range AllBidTypes() {
		_, ok := registry.Get(bt)
		assert.False(t, ok, "category %s should start absent", bt)
	}
}

func TestRegistrySetReplacesSlot(t *testing.T) {
	registry := NewRegistry()

	registry.Set(&Artifact{BidType: MinRate, ModelName: "Linear"})
	registry.Set(&Artifact{BidType: MinRate, ModelName: "RandomForest"})

	got, ok := registry.Get(MinRate)
	require.True(t, ok)
	assert.Equal(t, "RandomForest", got.ModelName)
}

func TestRegistryModelsLoaded(t *testing.T) {
	registry := NewRegistry()
	registry.Set(&Artifact{BidType: MaxRate, ModelName: "Linear"})

	loaded := registry.ModelsLoaded()
	assert.Len(t, loaded, len(AllBidTypes()))
	assert.False(t, loaded["MinRate"])
	assert.True(t, loaded["MaxRate"])
	assert.False(t, loaded["FixRate"])
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			registry.Set(&Artifact{BidType: FixRate, ModelName: "Linear"})
		}()
		go func() {
			defer wg.Done()
			registry.Get(FixRate)
			registry.ModelsLoaded()
		}()
	}
	wg.Wait()

	got, ok := registry.Get(FixRate)
	require.True(t, ok)
	assert.Equal(t, "Linear", got.ModelName)
}
