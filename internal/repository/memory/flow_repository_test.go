package memory

import (
	"fmt"
	"sync"
	"testing"

	"feature-intake-bot/pkg/flow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowRepositoryRoundTrip(t *testing.T) {
	repo := NewFlowRepository()

	_, found := repo.Get("U1")
	assert.False(t, found, "fresh repo should have no flow")

	st := &flow.State{UserID: "U1", Step: flow.StepTitle, Fields: map[string]string{}}
	repo.Set(st)

	got, found := repo.Get("U1")
	require.True(t, found)
	assert.Equal(t, flow.StepTitle, got.Step)

	repo.Delete("U1")
	_, found = repo.Get("U1")
	assert.False(t, found, "deleted flow should be gone")
}

func TestFlowRepositoryDeleteAbsentIsNoop(t *testing.T) {
	repo := NewFlowRepository()
	repo.Delete("nobody")

	_, found := repo.Get("nobody")
	assert.False(t, found)
}

func TestFlowRepositoryConcurrentDistinctUsers(t *testing.T) {
	repo := NewFlowRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := fmt.Sprintf("U%d", i)
			repo.Set(&flow.State{UserID: userID, Step: flow.StepTitle, Fields: map[string]string{}})
			_, _ = repo.Get(userID)
			repo.Delete(userID)
		}(i)
	}
	wg.Wait()
}
