// Package registry holds the per-language phrase registry and the
// universal/per-language transform registry.
package registry

import (
	"golang.org/x/text/language"

	"github.com/napalu/rlf/errs"
	"github.com/napalu/rlf/rlffile"
	"github.com/napalu/rlf/types/orderedmap"
	"github.com/napalu/rlf/value"
)

// PhraseRegistry maps definition name to its parsed AST, plus a secondary
// PhraseId index so callers can look a definition up by its stable 64-bit
// hash. The name index is insertion-ordered so that Names (and with it
// every "did you mean" suggestion pool and coverage listing built from it)
// is deterministic across runs. Definitions are immutable once inserted
// (callers must not mutate a *rlffile.PhraseDefinition obtained from Get).
type PhraseRegistry struct {
	byName *orderedmap.OrderedMap[string, *rlffile.PhraseDefinition]
	byId   map[value.PhraseId]string
}

// NewPhraseRegistry returns an empty registry.
func NewPhraseRegistry() *PhraseRegistry {
	return &PhraseRegistry{
		byName: orderedmap.New[string, *rlffile.PhraseDefinition](),
		byId:   make(map[value.PhraseId]string),
	}
}

// Insert adds or replaces def. Re-insertion under the same name replaces
// the previous definition. A PhraseId collision between two different
// names is reported rather than silently overwriting the id index.
func (r *PhraseRegistry) Insert(def *rlffile.PhraseDefinition) error {
	id := value.PhraseIdFromName(def.Name)
	if existingName, ok := r.byId[id]; ok && existingName != def.Name {
		return &errs.Collision{Name: def.Name, OtherName: existingName}
	}
	r.byName.Set(def.Name, def)
	r.byId[id] = def.Name
	return nil
}

// Get looks up a definition by name.
func (r *PhraseRegistry) Get(name string) (*rlffile.PhraseDefinition, bool) {
	return r.byName.Get(name)
}

// GetById looks up a definition by its PhraseId.
func (r *PhraseRegistry) GetById(id value.PhraseId) (*rlffile.PhraseDefinition, bool) {
	name, ok := r.byId[id]
	if !ok {
		return nil, false
	}
	return r.Get(name)
}

// Names returns every registered name in insertion order.
func (r *PhraseRegistry) Names() []string {
	return r.byName.Keys()
}

// Len reports how many definitions are registered.
func (r *PhraseRegistry) Len() int { return r.byName.Len() }

// Clear empties the registry in place. Locale's per-language reload does
// not call it: it builds a fresh registry and swaps it in.
func (r *PhraseRegistry) Clear() {
	r.byName.Clear()
	r.byId = make(map[value.PhraseId]string)
}

// TransformContext carries a transform's resolved static and/or dynamic
// context.
type TransformContext struct {
	Static     string
	HasStatic  bool
	Dynamic    value.Value
	HasDynamic bool
}

// TransformFunc implements one transform: given the resolved Value it is
// applied to, its context, and the active language, produce the rendered
// string or fail.
type TransformFunc func(v value.Value, ctx TransformContext, lang language.Tag) (string, error)

// TransformRegistry holds universal transforms (apply regardless of
// language) plus per-language transforms, consulted language-specific
// first.
type TransformRegistry struct {
	universal   map[string]TransformFunc
	perLanguage map[string]map[string]TransformFunc
}

// NewTransformRegistry returns a registry seeded with the universal
// cap/upper/lower transforms.
func NewTransformRegistry() *TransformRegistry {
	r := &TransformRegistry{
		universal:   make(map[string]TransformFunc),
		perLanguage: make(map[string]map[string]TransformFunc),
	}
	r.RegisterUniversal("cap", capTransform)
	r.RegisterUniversal("upper", upperTransform)
	r.RegisterUniversal("lower", lowerTransform)
	return r
}

// RegisterUniversal adds or replaces a cross-language transform.
func (r *TransformRegistry) RegisterUniversal(name string, fn TransformFunc) {
	r.universal[name] = fn
}

// RegisterForLanguage adds or replaces a transform scoped to lang.
func (r *TransformRegistry) RegisterForLanguage(lang language.Tag, name string, fn TransformFunc) {
	base, _ := lang.Base()
	key := base.String()
	table, ok := r.perLanguage[key]
	if !ok {
		table = make(map[string]TransformFunc)
		r.perLanguage[key] = table
	}
	table[name] = fn
}

// Lookup resolves name for lang, trying the language-specific table
// first, then the universal table.
func (r *TransformRegistry) Lookup(name string, lang language.Tag) (TransformFunc, bool) {
	base, _ := lang.Base()
	if table, ok := r.perLanguage[base.String()]; ok {
		if fn, ok := table[name]; ok {
			return fn, true
		}
	}
	fn, ok := r.universal[name]
	return fn, ok
}
