package catalog

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source is the backend view the loader needs.
//
// ListNames returns the technical names of every entry of a kind. Detail
// fetches the full definition of one entry. The gateway package implements it.
type Source interface {
	ListNames(ctx context.Context, kind Kind) ([]string, error)
	Detail(ctx context.Context, kind Kind, name string) (Entry, error)
}

// Loader populates a [Catalog] from a [Source].
//
// The three kinds are fetched concurrently. Within a kind, details are fetched
// one after another in listing order. A failed listing yields an empty kind and
// a failed detail drops that entry; both are logged and never fail the load.
type Loader struct {
	src Source
	log *zap.SugaredLogger
}

// NewLoader creates a [Loader]. A nil logger discards log output.
func NewLoader(src Source, log *zap.SugaredLogger) *Loader {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Loader{src: src, log: log}
}

// Load fetches all three catalogs. It only returns an error when ctx is done.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	results := make([][]Entry, len(Kinds))

	var g errgroup.Group
	for i, kind := range Kinds {
		g.Go(func() error {
			results[i] = l.LoadKind(ctx, kind)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []Entry
	for _, es := range results {
		all = append(all, es...)
	}
	return New(all...), nil
}

// LoadKind fetches one catalog kind sequentially, dropping entries that fail.
func (l *Loader) LoadKind(ctx context.Context, kind Kind) []Entry {
	names, err := l.src.ListNames(ctx, kind)
	if err != nil {
		l.log.Warnw("catalog listing unavailable", "kind", kind, "error", err)
		return nil
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		if ctx.Err() != nil {
			return entries
		}
		e, err := l.src.Detail(ctx, kind, name)
		if err != nil {
			l.log.Warnw("dropping catalog entry", "kind", kind, "name", name, "error", err)
			continue
		}
		e.Kind = kind
		if e.Name == "" {
			e.Name = name
		}
		entries = append(entries, e)
	}
	l.log.Debugw("catalog loaded", "kind", kind, "listed", len(names), "kept", len(entries))
	return entries
}
