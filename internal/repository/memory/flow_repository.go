package memory

import (
	"feature-intake-bot/pkg/flow"

	"github.com/patrickmn/go-cache"
)

// FlowRepository keeps active flows in process memory. Entries never expire
// on their own: a flow lives until the user cancels or completes it. A
// production deployment should add an idle-timeout sweep; there is none yet.
type FlowRepository struct {
	cache *cache.Cache
}

func NewFlowRepository() *FlowRepository {
	c := cache.New(cache.NoExpiration, 0)
	return &FlowRepository{
		cache: c,
	}
}

func (r *FlowRepository) Set(state *flow.State) {
	r.cache.Set(state.UserID, state, cache.NoExpiration)
}

func (r *FlowRepository) Get(userID string) (*flow.State, bool) {
	if x, found := r.cache.Get(userID); found {
		return x.(*flow.State), true
	}
	return nil, false
}

func (r *FlowRepository) Delete(userID string) {
	r.cache.Delete(userID)
}
