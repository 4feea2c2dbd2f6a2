package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// Module mounts its routes on the API group.
type Module interface{ MountAPI(*gin.RouterGroup) }

// A module may implement prioritizer to control mount order (lower first).
// The default is 100.
type prioritizer interface{ Priority() int }

// Registry collects route modules for one engine.
type Registry struct {
	mods []Module
}

func (r *Registry) Register(mods ...Module) {
	for _, m := range mods {
		if m != nil {
			r.mods = append(r.mods, m)
		}
	}
}

// MountAll mounts every registered module in priority order.
func (r *Registry) MountAll(g *gin.RouterGroup) {
	mods := append([]Module(nil), r.mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(g)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
