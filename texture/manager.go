// SPDX-License-Identifier: GPL-2.0-or-later

package texture

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Manager keeps every texture requested by the model loaders.
type Manager struct {
	mu       sync.Mutex
	textures map[uuid.UUID]*Texture
}

func NewManager() *Manager {
	return &Manager{textures: make(map[uuid.UUID]*Texture)}
}

// LoadImage registers an image. A texture with the same name, source and
// offset is reused.
func (m *Manager) LoadImage(owner, name string, width, height int, typ ColorType,
	data []byte, source string, offset int, flags TexPref) *Texture {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.textures {
		if t.Name == name && t.Source == source && t.Offset == offset && t.Owner == owner {
			return t
		}
	}
	t := &Texture{
		ID:     uuid.Must(uuid.NewV7()),
		Name:   name,
		Owner:  owner,
		Width:  width,
		Height: height,
		Typ:    typ,
		Data:   data,
		Source: source,
		Offset: offset,
		flags:  flags,
	}
	m.textures[t.ID] = t
	return t
}

// FreeTexturesForOwner drops all textures created for owner.
func (m *Manager) FreeTexturesForOwner(owner string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.textures {
		if t.Owner == owner {
			delete(m.textures, id)
		}
	}
}

func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.textures)
}

// Each calls f for every texture ordered by name.
func (m *Manager) Each(f func(t *Texture)) {
	m.mu.Lock()
	list := make([]*Texture, 0, len(m.textures))
	for _, t := range m.textures {
		list = append(list, t)
	}
	m.mu.Unlock()
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name == list[j].Name {
			return list[i].ID.String() < list[j].ID.String()
		}
		return list[i].Name < list[j].Name
	})
	for _, t := range list {
		f(t)
	}
}
