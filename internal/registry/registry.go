// Package registry merges the tool and prompt schemas advertised by all
// connected MCP servers into a single addressable catalog, and remembers
// which server owns which capability.
package registry

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/mcphub-dev/mcphub/internal/domain"
	internalerrors "github.com/mcphub-dev/mcphub/internal/errors"
)

// Separator joins the parts of a qualified name: server and bare name when
// two servers advertise the same bare name, plus the capability kind when one
// server advertises both a tool and a prompt under the same name. The format
// is an implementation choice, not a wire contract.
const Separator = "."

// Registry is the merged capability catalog. It is safe for concurrent use:
// readers never observe a partially applied rebuild.
type Registry struct {
	mu sync.RWMutex

	// byServer holds the capabilities each server advertised, replaced
	// wholesale on every successful (re)connect of that server.
	byServer map[string][]domain.Capability

	// catalog maps qualified name to capability. Recomputed in full on every
	// rebuild so that qualification stays deterministic regardless of the
	// order in which servers arrived.
	catalog map[string]domain.Capability
}

// NewRegistry creates an empty capability registry.
func NewRegistry() *Registry {
	return &Registry{
		byServer: make(map[string][]domain.Capability),
		catalog:  make(map[string]domain.Capability),
	}
}

// Rebuild atomically replaces all entries owned by serverName with the given
// capabilities, then requalifies the whole catalog. A newly arriving bare name
// may force an existing entry to requalify, and vice versa.
func (r *Registry) Rebuild(serverName string, capabilities []domain.Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]domain.Capability, len(capabilities))
	for i, c := range capabilities {
		c.Owner = serverName
		entries[i] = c
	}
	r.byServer[serverName] = entries

	r.requalify()
}

// Remove drops all entries owned by serverName and requalifies the remainder,
// which may restore a surviving holder's capability to its bare name.
func (r *Registry) Remove(serverName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byServer, serverName)

	r.requalify()
}

// Resolve returns the capability registered under the given qualified name.
func (r *Registry) Resolve(qualifiedName string) (domain.Capability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.catalog[qualifiedName]
	if !ok {
		return domain.Capability{}, fmt.Errorf("%w: %s", internalerrors.ErrCapabilityNotFound, qualifiedName)
	}

	return c, nil
}

// List returns a snapshot of the full merged catalog, sorted by qualified name.
func (r *Registry) List() []domain.Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Capability, 0, len(r.catalog))
	for _, c := range r.catalog {
		out = append(out, c)
	}

	slices.SortFunc(out, func(a, b domain.Capability) int {
		return strings.Compare(a.QualifiedName, b.QualifiedName)
	})

	return out
}

// CountFor returns the number of capabilities currently registered for a server.
func (r *Registry) CountFor(serverName string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byServer[serverName])
}

// requalify recomputes every qualified name from scratch. A bare name stays
// unqualified only while exactly one catalog entry carries it. When several
// servers carry it, each holder is exposed as "<server><Separator><name>";
// when a single server carries it under more than one kind, each entry is
// exposed as "<server><Separator><name><Separator><kind>". Every entry keeps
// a distinct qualified name. Callers must hold the write lock.
func (r *Registry) requalify() {
	byName := make(map[string]int)
	byOwnerName := make(map[string]int)
	for _, caps := range r.byServer {
		for _, c := range caps {
			byName[c.Name]++
			byOwnerName[c.Owner+Separator+c.Name]++
		}
	}

	catalog := make(map[string]domain.Capability, len(byName))
	for _, caps := range r.byServer {
		for _, c := range caps {
			switch {
			case byName[c.Name] == 1:
				c.QualifiedName = c.Name
			case byOwnerName[c.Owner+Separator+c.Name] == 1:
				c.QualifiedName = c.Owner + Separator + c.Name
			default:
				c.QualifiedName = c.Owner + Separator + c.Name + Separator + string(c.Kind)
			}
			catalog[c.QualifiedName] = c
		}
	}

	r.catalog = catalog
}
