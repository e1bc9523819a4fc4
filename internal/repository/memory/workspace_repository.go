package memory

import (
	"time"

	"stlc-manager-be/pkg/workspace"

	"github.com/patrickmn/go-cache"
)

// WorkspaceRepository keeps live workspaces in memory. Entries expire after
// ttl without access; Get refreshes the expiry.
type WorkspaceRepository struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewWorkspaceRepository(ttl time.Duration) *WorkspaceRepository {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &WorkspaceRepository{
		cache: cache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

func (r *WorkspaceRepository) Save(ws *workspace.Workspace) {
	r.cache.Set(ws.ID(), ws, cache.DefaultExpiration)
}

func (r *WorkspaceRepository) Get(workspaceID string) (*workspace.Workspace, bool) {
	x, found := r.cache.Get(workspaceID)
	if !found {
		return nil, false
	}
	ws := x.(*workspace.Workspace)
	// Active workspaces must not expire mid-run.
	r.cache.Set(workspaceID, ws, r.ttl)
	return ws, true
}

func (r *WorkspaceRepository) Delete(workspaceID string) {
	r.cache.Delete(workspaceID)
}

// OnEvicted registers fn for workspaces that expire or are deleted.
func (r *WorkspaceRepository) OnEvicted(fn func(workspaceID string)) {
	r.cache.OnEvicted(func(key string, _ interface{}) {
		fn(key)
	})
}

func (r *WorkspaceRepository) Count() int {
	return r.cache.ItemCount()
}
