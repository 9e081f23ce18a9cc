// Package pathconv maps source identifiers reported by a debugged process
// onto paths the debugger client can open.
//
// Resolution goes through an optional Converter hook, or the '@' sentinel
// convention when none is configured, then through the sourcemap Table, and
// falls back to lexical normalization. Results are memoized per raw
// identifier until the coding or the sourcemap changes.
//
// A Resolver is not safe for concurrent use; wrap it in a SyncResolver.
package pathconv

import (
	"srcpath/internal/logging"
)

var (
	logger = logging.GetLogger().WithPrefix("pathconv")
)

// Converter is a debugger-supplied hook that turns a raw source identifier
// into a server path. It reports false when it has no mapping.
type Converter interface {
	Convert(raw string) (string, bool)
}

// ConverterFunc adapts a function to Converter.
type ConverterFunc func(raw string) (string, bool)

// Convert implements Converter.
func (f ConverterFunc) Convert(raw string) (string, bool) {
	return f(raw)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithConverter installs a hook that overrides the sentinel convention.
func WithConverter(c Converter) Option {
	return func(r *Resolver) { r.converter = c }
}

// WithDecoder replaces the text decoder used for virtual identifiers.
func WithDecoder(d Decoder) Option {
	return func(r *Resolver) { r.decoder = d }
}

// WithDirProvider replaces the current-directory provider.
func WithDirProvider(d DirProvider) Option {
	return func(r *Resolver) { r.normalizer.Dir = d }
}

// WithSeparator sets the separator of produced client paths.
func WithSeparator(sep byte) Option {
	return func(r *Resolver) { r.normalizer.Separator = sep }
}

// WithCoding sets the initial coding.
func WithCoding(c Coding) Option {
	return func(r *Resolver) { r.coding = c }
}

// Resolver turns raw source identifiers into client paths.
type Resolver struct {
	normalizer *Normalizer
	table      Table
	cache      *Cache
	coding     Coding
	decoder    Decoder
	converter  Converter
}

// NewResolver creates a Resolver with ANSI coding, no rules and no hook.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		normalizer: NewNormalizer(OSDir{}),
		cache:      NewCache(),
		coding:     CodingANSI,
		decoder:    &TextDecoder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetCoding changes the coding and drops cached results.
func (r *Resolver) SetCoding(c Coding) {
	logger.Debug("Setting source coding to %s", c)
	r.coding = c
	r.cache.Clear()
}

// Coding returns the current coding.
func (r *Resolver) Coding() Coding {
	return r.coding
}

// AddSourcemap appends a rule and drops cached results.
func (r *Resolver) AddSourcemap(server, client string) {
	logger.Debug("Adding sourcemap: %q -> %q", server, client)
	r.table.Add(server, client)
	r.cache.Clear()
}

// ClearSourcemap removes all rules and drops cached results.
func (r *Resolver) ClearSourcemap() {
	logger.Debug("Clearing %d sourcemap rules", r.table.Len())
	r.table.Clear()
	r.cache.Clear()
}

// Sourcemaps returns the rules in match order.
func (r *Resolver) Sourcemaps() []Rule {
	return r.table.Rules()
}

// Normalize exposes the normalizer without sourcemaps or caching.
func (r *Resolver) Normalize(path string) string {
	return r.normalizer.Normalize(path)
}

// Map rewrites a server path with the sourcemap, or normalizes it when no
// rule matches.
func (r *Resolver) Map(server string) string {
	if cli, ok := r.table.Match(server); ok {
		logger.Trace("Sourcemap hit: %q -> %q", server, cli)
		return cli
	}
	return r.normalizer.Normalize(server)
}

// Resolve returns the client path for raw and whether one exists. A
// successful result is never empty. Results, failures included, are cached
// by raw.
func (r *Resolver) Resolve(raw string) (string, bool) {
	if path, ok, found := r.cache.Get(raw); found {
		return path, ok
	}
	logger.Trace("Resolving %q", raw)

	path, ok := r.resolve(raw)
	r.cache.Put(raw, path, ok)
	return path, ok
}

func (r *Resolver) resolve(raw string) (string, bool) {
	var server string
	if r.converter != nil {
		converted, ok := r.converter.Convert(raw)
		if !ok {
			logger.Trace("Converter has no mapping for %q", raw)
			return "", false
		}
		server = converted
	} else {
		id := ParseSourceID(raw)
		if id.Kind != Virtual {
			return "", false
		}
		server = r.decoder.Decode([]byte(id.Text), r.coding)
	}

	// A rule with an empty client prefix can map a path to nothing
	client := r.Map(server)
	if client == "" {
		logger.Debug("Source %q maps to an empty path", raw)
		return "", false
	}
	return client, true
}
