// Package skills manages connected-skill manifests: loading, validation,
// routing lookups, the connected-skills file, and live reload.
package skills

import (
	"github.com/maestrokit/maestro/pkg/models"
)

// Router answers "which skill owns this?" lookups over an ordered manifest
// list. Registration order is load order; lookups return the first match.
type Router struct {
	manifests []models.SkillManifest
}

// NewRouter builds a router over the given manifests. The slice is copied,
// so later mutation of the argument does not affect the router.
func NewRouter(manifests []models.SkillManifest) *Router {
	copied := make([]models.SkillManifest, len(manifests))
	copy(copied, manifests)
	return &Router{manifests: copied}
}

// IsSkill returns the first registered manifest that declares the given
// action id. Matching is exact and case-sensitive. It never errors: an
// unknown action id simply reports false.
func (r *Router) IsSkill(actionID string) (*models.SkillManifest, bool) {
	for i := range r.manifests {
		if r.manifests[i].SupportsAction(actionID) {
			return &r.manifests[i], true
		}
	}
	return nil, false
}

// IdentifyRegisteredSkill resolves a dispatch intent to a manifest: first by
// declared dispatch intent, then by skill id.
func (r *Router) IdentifyRegisteredSkill(dispatchIntent string) (*models.SkillManifest, bool) {
	for i := range r.manifests {
		if r.manifests[i].Intent() == dispatchIntent {
			return &r.manifests[i], true
		}
	}
	for i := range r.manifests {
		if r.manifests[i].ID == dispatchIntent {
			return &r.manifests[i], true
		}
	}
	return nil, false
}

// Manifests returns the registered manifests in registration order.
func (r *Router) Manifests() []models.SkillManifest {
	out := make([]models.SkillManifest, len(r.manifests))
	copy(out, r.manifests)
	return out
}

// Len returns the number of registered skills.
func (r *Router) Len() int {
	return len(r.manifests)
}
