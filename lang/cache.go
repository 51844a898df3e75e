package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// globalCache stores compiled trees keyed by source and compile options.
// Trees are immutable, so one cached tree may back any number of programs.
var globalCache sync.Map

// entry tracks the compilation of one cache key.
type entry struct {
	once sync.Once
	tree *Gex
	err  error
}

// hashOptions encodes compile options using gob and hashes with xxh3.
// Returns a hash that uniquely identifies the options configuration.
func hashOptions(opts compileOptions) uint64 {
	var buf bytes.Buffer

	_ = gob.NewEncoder(&buf).Encode(opts)

	return xxh3.Hash(buf.Bytes())
}

// cacheKey combines the source hash with the options hash.
func cacheKey(source string, opts compileOptions) string {
	return strconv.FormatUint(xxh3.HashString(source)^hashOptions(opts), 36)
}

// CompileCached is like [Compile] but reuses the tree compiled for an
// identical source and identical compile options. Evaluation options apply
// to the returned program only. Compile errors are cached as well.
func CompileCached(
	ctx context.Context,
	source string,
	opts ...Option,
) (*Program, error) {
	o := makeOptions(opts...)
	key := cacheKey(source, o.compile)

	value, hit := globalCache.LoadOrStore(key, new(entry))

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("key", key),
		slog.Bool("cache_hit", hit),
	)

	e, ok := value.(*entry)
	if !ok {
		return nil, NewError("invalid cache entry").With(slog.String("key", key))
	}

	e.once.Do(func() {
		e.tree, e.err = compileTree(ctx, source, o)
	})

	if e.err != nil {
		return nil, e.err
	}

	return &Program{source: source, tree: e.tree, opts: o}, nil
}

// ClearCache drops every cached tree.
func ClearCache() {
	globalCache.Clear()
}
