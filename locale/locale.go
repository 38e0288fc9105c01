// Package locale is the engine's façade: it orchestrates loading a
// language's phrase definitions, owns the per-language PhraseRegistry plus
// the shared TransformRegistry, and exposes the evaluation entry points
// (GetPhrase/CallPhrase/EvalStr) other code actually calls. A Locale
// keeps no caches of its own beyond what package eval and package plural
// already maintain — it is a thin router over the real engine
// (value/rlftemplate/rlffile/validate/lint/eval).
package locale

import (
	"os"
	"sync"

	"golang.org/x/text/language"

	"github.com/napalu/rlf/errs"
	"github.com/napalu/rlf/eval"
	"github.com/napalu/rlf/lint"
	"github.com/napalu/rlf/registry"
	"github.com/napalu/rlf/rlffile"
	"github.com/napalu/rlf/rlftemplate"
	"github.com/napalu/rlf/validate"
	"github.com/napalu/rlf/value"
)

// languageState is everything Locale tracks for one loaded language.
type languageState struct {
	defs     []*rlffile.PhraseDefinition
	registry *registry.PhraseRegistry
	path     string
	hasPath  bool
}

// Locale owns one PhraseRegistry per language plus one shared
// TransformRegistry. Replacing a language's
// definitions is an atomic swap scoped to that language alone; reads
// from other languages are unaffected.
type Locale struct {
	mu           sync.RWMutex
	languages    map[string]*languageState
	transforms   *registry.TransformRegistry
	fallback     map[string]string
	defaultLang  language.Tag
	maxEvalDepth int
}

// Option configures a Locale at construction.
type Option func(*Locale)

// WithDefaultLanguage sets the language DefaultLanguage reports until
// SetLanguage changes it. GetPhrase, CallPhrase and EvalStr take their
// language as an argument and do not read this value.
func WithDefaultLanguage(lang language.Tag) Option {
	return func(l *Locale) { l.defaultLang = lang }
}

// WithMaxEvalDepth overrides the evaluator's recursion ceiling
// (default eval.DefaultMaxDepth).
func WithMaxEvalDepth(n int) Option {
	return func(l *Locale) { l.maxEvalDepth = n }
}

// New builds an empty Locale with a fresh TransformRegistry (universal
// cap/upper/lower already registered).
func New(opts ...Option) *Locale {
	l := &Locale{
		languages:    make(map[string]*languageState),
		transforms:   registry.NewTransformRegistry(),
		fallback:     make(map[string]string),
		defaultLang:  language.English,
		maxEvalDepth: eval.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Transforms exposes the shared TransformRegistry for user extension.
func (l *Locale) Transforms() *registry.TransformRegistry { return l.transforms }

// SetLanguage changes the language DefaultLanguage reports. The
// evaluation entry points take their language explicitly and do not read it.
func (l *Locale) SetLanguage(lang language.Tag) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.defaultLang = lang
}

// DefaultLanguage returns the current default language.
func (l *Locale) DefaultLanguage() language.Tag {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.defaultLang
}

// SetFallbackLanguage records that lookups in lang fall back to
// fallback on failure. Passing language.Und clears any
// previously set fallback for lang.
func (l *Locale) SetFallbackLanguage(lang, fallback language.Tag) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if fallback == language.Und {
		delete(l.fallback, lang.String())
		return
	}
	l.fallback[lang.String()] = fallback.String()
}

// LoadTranslations reads and parses a .rlf file and installs it as lang's
// definitions, replacing any previous ones atomically. The path is
// recorded to support ReloadTranslations.
func (l *Locale) LoadTranslations(lang language.Tag, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &errs.Io{Path: path, Cause: err}
	}
	return l.install(lang, string(data), path, true)
}

// LoadTranslationsStr installs text as lang's definitions directly,
// without an associated file path; ReloadTranslations will fail for a
// language loaded this way.
func (l *Locale) LoadTranslationsStr(lang language.Tag, text string) error {
	return l.install(lang, text, "", false)
}

// ReloadTranslations re-reads and re-parses the file lang was last loaded
// from. Fails with NoPathForReload if lang was loaded via
// LoadTranslationsStr or never loaded.
func (l *Locale) ReloadTranslations(lang language.Tag) error {
	l.mu.RLock()
	st, ok := l.languages[lang.String()]
	l.mu.RUnlock()
	if !ok || !st.hasPath {
		return &errs.NoPathForReload{Language: lang.String()}
	}
	return l.LoadTranslations(lang, st.path)
}

func (l *Locale) install(lang language.Tag, text, path string, hasPath bool) error {
	defs, err := rlffile.Parse(text)
	if err != nil {
		if pe, ok := err.(*errs.Parse); ok {
			pe.Path = path
			return pe
		}
		return err
	}

	reg := registry.NewPhraseRegistry()
	for _, def := range defs {
		if err := reg.Insert(def); err != nil {
			return err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.languages[lang.String()] = &languageState{defs: defs, registry: reg, path: path, hasPath: hasPath}
	return nil
}

// Validate runs the static validator over lang's currently
// loaded definitions.
func (l *Locale) Validate(lang language.Tag) []error {
	st, ok := l.stateFor(lang)
	if !ok {
		return nil
	}
	return validate.Validate(st.defs, st.registry, lang)
}

// Lint runs the linter over lang's currently loaded
// definitions.
func (l *Locale) Lint(lang language.Tag) []lint.Warning {
	st, ok := l.stateFor(lang)
	if !ok {
		return nil
	}
	return lint.Lint(st.defs, lang)
}

// PhraseNames returns every phrase/term name loaded for lang.
func (l *Locale) PhraseNames(lang language.Tag) []string {
	st, ok := l.stateFor(lang)
	if !ok {
		return nil
	}
	return st.registry.Names()
}

func (l *Locale) stateFor(lang language.Tag) (*languageState, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	st, ok := l.languages[lang.String()]
	return st, ok
}

// GetPhrase evaluates a zero-argument term/phrase by name in lang,
// falling back to lang's configured fallback language on failure.
func (l *Locale) GetPhrase(lang language.Tag, name string) (value.Phrase, error) {
	return l.CallPhrase(lang, name)
}

// CallPhrase evaluates name(args...) in lang, falling back to lang's
// configured fallback language on failure.
func (l *Locale) CallPhrase(lang language.Tag, name string, args ...value.Value) (value.Phrase, error) {
	st, ok := l.stateFor(lang)
	if !ok {
		return l.callPhraseFallback(lang, name, args, &errs.PhraseNotFound{Name: name})
	}
	ctx := eval.NewEvalContext(nil, lang, st.registry, l.transforms, eval.WithMaxDepth(l.maxEvalDepth))
	p, err := eval.EvalPhrase(ctx, name, args)
	if err != nil {
		return l.callPhraseFallback(lang, name, args, err)
	}
	return p, nil
}

func (l *Locale) callPhraseFallback(lang language.Tag, name string, args []value.Value, firstErr error) (value.Phrase, error) {
	l.mu.RLock()
	fallbackStr, ok := l.fallback[lang.String()]
	l.mu.RUnlock()
	if !ok {
		return value.Phrase{}, firstErr
	}
	fallbackLang, err := language.Parse(fallbackStr)
	if err != nil {
		return value.Phrase{}, firstErr
	}
	st, ok := l.stateFor(fallbackLang)
	if !ok {
		return value.Phrase{}, firstErr
	}
	ctx := eval.NewEvalContext(nil, fallbackLang, st.registry, l.transforms, eval.WithMaxDepth(l.maxEvalDepth))
	p, err := eval.EvalPhrase(ctx, name, args)
	if err != nil {
		return value.Phrase{}, firstErr
	}
	return p, nil
}

// EvalStr parses template and evaluates it against params in lang,
// falling back the same way CallPhrase does.
func (l *Locale) EvalStr(lang language.Tag, template string, params map[string]value.Value) (string, error) {
	tmpl, err := rlftemplate.Parse(template)
	if err != nil {
		return "", err
	}

	st, ok := l.stateFor(lang)
	if ok {
		ctx := eval.NewEvalContext(params, lang, st.registry, l.transforms, eval.WithMaxDepth(l.maxEvalDepth))
		s, err := eval.EvalTemplate(ctx, tmpl)
		if err == nil {
			return s, nil
		}
		if s2, err2 := l.evalStrFallback(lang, tmpl, params); err2 == nil {
			return s2, nil
		}
		return "", err
	}

	s, err := l.evalStrFallback(lang, tmpl, params)
	if err != nil {
		return "", err
	}
	return s, nil
}

func (l *Locale) evalStrFallback(lang language.Tag, tmpl *rlftemplate.Template, params map[string]value.Value) (string, error) {
	l.mu.RLock()
	fallbackStr, ok := l.fallback[lang.String()]
	l.mu.RUnlock()
	if !ok {
		return "", &errs.PhraseNotFound{Name: ""}
	}
	fallbackLang, err := language.Parse(fallbackStr)
	if err != nil {
		return "", err
	}
	st, ok := l.stateFor(fallbackLang)
	if !ok {
		return "", &errs.PhraseNotFound{Name: ""}
	}
	ctx := eval.NewEvalContext(params, fallbackLang, st.registry, l.transforms, eval.WithMaxDepth(l.maxEvalDepth))
	return eval.EvalTemplate(ctx, tmpl)
}
