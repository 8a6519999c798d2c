// SPDX-License-Identifier: GPL-2.0-or-later

package model

import (
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"quakemodel/cmd"
	"quakemodel/conlog"
	"quakemodel/cvar"
	"quakemodel/cvars"
	"quakemodel/texture"
)

var (
	ErrNotFound     = stderrors.New("model not found")
	ErrEmptyName    = stderrors.New("Mod_FindName: NULL name")
	ErrRegistryFull = stderrors.New("mod_numknown == MAX_MOD_KNOWN")
)

// Entry is one slot of the registry. Brush and sprite models stay pinned,
// alias models live in the cache and are reloaded on demand.
type Entry struct {
	name     string
	needLoad bool
	kind     Kind
	pathID   int
	model    Model
	handle   uuid.UUID
}

func (e *Entry) Name() string   { return e.name }
func (e *Entry) NeedLoad() bool { return e.needLoad }
func (e *Entry) Kind() Kind     { return e.kind }
func (e *Entry) PathID() int    { return e.pathID }

type Registry struct {
	entries  []*Entry
	files    Files
	textures *texture.Manager
	cache    *Cache
	// ServerMap is the model name of the map the local server runs.
	ServerMap string
	GameDir   string
}

func NewRegistry(files Files, textures *texture.Manager, cache *Cache) *Registry {
	if cache == nil {
		cache = NewCache(0)
	}
	return &Registry{
		entries:  make([]*Entry, 0, MaxModKnown),
		files:    files,
		textures: textures,
		cache:    cache,
	}
}

func (r *Registry) Cache() *Cache {
	return r.cache
}

func (r *Registry) Textures() *texture.Manager {
	return r.textures
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// FindName returns the entry for name, creating an unloaded one if needed.
func (r *Registry) FindName(name string) (*Entry, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) >= MaxQPath {
		name = name[:MaxQPath-1]
	}
	for _, e := range r.entries {
		if e.name == name {
			return e, nil
		}
	}
	if len(r.entries) == MaxModKnown {
		return nil, ErrRegistryFull
	}
	e := &Entry{name: name, needLoad: true}
	r.entries = append(r.entries, e)
	return e, nil
}

func (r *Registry) options() Options {
	return Options{
		ExternalEnts: cvars.ExternalEnts.Bool(),
		ExternalVis:  cvars.ExternalVis.Bool(),
		NoVis:        cvars.RNoVis.Bool(),
		ServerMap:    r.ServerMap,
		GameDir:      r.GameDir,
	}
}

// resident returns the loaded model of e without touching the disk.
func (r *Registry) resident(e *Entry) (Model, bool) {
	if e.needLoad {
		return nil, false
	}
	if e.kind != KindAlias {
		return e.model, true
	}
	v, ok := r.cache.Check(e.handle)
	if !ok {
		return nil, false
	}
	return v.(Model), true
}

func (r *Registry) store(e *Entry, m Model) {
	e.kind = m.Kind()
	e.needLoad = false
	if e.kind == KindAlias {
		r.cache.Evict(e.handle)
		e.handle = r.cache.Alloc(m)
		e.model = nil
		return
	}
	e.model = m
}

// Load returns the model of e, reading it if it is not resident. A missing
// file is an error only if mustExist is set, otherwise nil is returned.
func (r *Registry) Load(e *Entry, mustExist bool) (Model, error) {
	if m, ok := r.resident(e); ok {
		return m, nil
	}
	data, pathID, err := r.files.ReadFileWithID(e.name)
	if err != nil {
		if mustExist {
			return nil, errors.Wrapf(ErrNotFound, "Mod_LoadModel: %s not found", e.name)
		}
		return nil, nil
	}
	e.pathID = pathID
	kind := KindOf(magicOf(data))
	load, ok := loaders[kind]
	if !ok {
		return nil, errors.Errorf("Mod_LoadModel: no %s loader for %s", kind, e.name)
	}
	ctx := &LoadContext{
		Name:     e.name,
		Data:     data,
		PathID:   pathID,
		Files:    r.files,
		Textures: r.textures,
		Options:  r.options(),
	}
	models, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, errors.Errorf("Mod_LoadModel: %s produced no model", e.name)
	}
	for _, sub := range models[1:] {
		se, err := r.FindName(sub.Name())
		if err != nil {
			return nil, err
		}
		se.pathID = pathID
		r.store(se, sub)
	}
	r.store(e, models[0])
	return models[0], nil
}

// ForName loads a model by name.
func (r *Registry) ForName(name string, mustExist bool) (Model, error) {
	e, err := r.FindName(name)
	if err != nil {
		return nil, err
	}
	return r.Load(e, mustExist)
}

// TouchModel marks a cached alias model as recently used.
func (r *Registry) TouchModel(name string) error {
	e, err := r.FindName(name)
	if err != nil {
		return err
	}
	if !e.needLoad && e.kind == KindAlias {
		r.cache.Check(e.handle)
	}
	return nil
}

// Extradata returns the model of e, reloading evicted alias data.
func (r *Registry) Extradata(e *Entry) (Model, error) {
	if m, ok := r.resident(e); ok {
		return m, nil
	}
	m, err := r.Load(e, true)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("Mod_Extradata: caching failed")
	}
	return m, nil
}

// ClearAll marks every non alias model for reload and drops its textures.
func (r *Registry) ClearAll() {
	for _, e := range r.entries {
		if e.kind != KindAlias {
			e.needLoad = true
			e.model = nil
			if r.textures != nil {
				r.textures.FreeTexturesForOwner(e.name)
			}
		}
	}
}

// ResetAll forgets every model.
func (r *Registry) ResetAll() {
	for _, e := range r.entries {
		if !e.needLoad && r.textures != nil {
			r.textures.FreeTexturesForOwner(e.name)
		}
		if e.kind == KindAlias {
			r.cache.Evict(e.handle)
		}
	}
	r.entries = r.entries[:0]
}

// Print lists the known models on the console.
func (r *Registry) Print() {
	conlog.SafePrintf("Cached models:\n")
	for _, e := range r.entries {
		handle := "-"
		if !e.needLoad {
			if e.kind == KindAlias {
				if _, ok := r.cache.Check(e.handle); ok {
					handle = e.handle.String()[:8]
				}
			} else {
				handle = "pinned"
			}
		}
		conlog.SafePrintf("%8s : %s\n", handle, e.name)
	}
	conlog.SafePrintf("%d models\n", len(r.entries))
}

type extraFlagger interface {
	SetExtraFlags()
}

// UpdateExtraFlags reapplies the console model lists to resident models.
func (r *Registry) UpdateExtraFlags() {
	for _, e := range r.entries {
		m, ok := r.resident(e)
		if !ok {
			continue
		}
		if f, ok := m.(extraFlagger); ok {
			f.SetExtraFlags()
		}
	}
}

// AddCommands registers the mcache console command and follows changes
// of the model lists.
func (r *Registry) AddCommands(c cmd.Commands) error {
	update := func(*cvar.Cvar) { r.UpdateExtraFlags() }
	cvars.RNoLerpList.SetCallback(update)
	cvars.RFullBrightList.SetCallback(update)
	return c.Add("mcache", func(_ cmd.Arguments) error {
		r.Print()
		return nil
	})
}
