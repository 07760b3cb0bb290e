package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Tuyet3005/english-vocab-tracker/cache"
	"github.com/Tuyet3005/english-vocab-tracker/vocab"
)

// WholeWorkbookKey is the cache key suffix used when no worksheet is named.
const WholeWorkbookKey = "*"

// ErrUpstream marks failures of the workbook source, as opposed to bad input
// or cache problems.
var ErrUpstream = errors.New("workbook source request failed")

// Source is where raw worksheets come from: the Graph client or a local file.
type Source interface {
	FetchWorkbook(ctx context.Context, sheetNames []string) (*vocab.RawDocument, error)
	WorksheetNames(ctx context.Context) ([]string, error)
}

type Options struct {
	// TTL bounds how long a cached worksheet is served; zero never expires.
	TTL time.Duration
	// Namespace separates cache keys of different workbooks sharing a store.
	Namespace string
	// DefaultSheets is used when a load names no worksheet.
	DefaultSheets []string
	Logger        *slog.Logger
	Now           func() time.Time
}

type Service struct {
	source        Source
	store         cache.Store
	ttl           time.Duration
	namespace     string
	defaultSheets []string
	logger        *slog.Logger
	now           func() time.Time

	fetches singleflight.Group
}

func NewService(source Source, store cache.Store, opts Options) *Service {
	if store == nil {
		store = cache.NoopStore{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		source:        source,
		store:         store,
		ttl:           opts.TTL,
		namespace:     strings.TrimSpace(opts.Namespace),
		defaultSheets: normalizeSheets(opts.DefaultSheets),
		logger:        logger,
		now:           now,
	}
}

// ParseSheetList splits a comma-separated worksheet list, trimming entries and
// dropping empty and repeated names.
func ParseSheetList(value string) []string {
	return normalizeSheets(strings.Split(value, ","))
}

func normalizeSheets(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func (s *Service) resolveSheets(sheetNames []string) []string {
	names := normalizeSheets(sheetNames)
	if len(names) == 0 {
		return s.defaultSheets
	}
	return names
}

func (s *Service) cacheKey(sheet string) string {
	return s.namespace + "|" + sheet
}

type sheetResult struct {
	doc    *vocab.RawDocument
	cached bool
	at     time.Time
}

// LoadRaw returns the raw payload for the named worksheets, serving each from
// the cache while it is fresh. refresh bypasses the cache for every named
// worksheet.
func (s *Service) LoadRaw(ctx context.Context, sheetNames []string, refresh bool) (*vocab.RawDocument, error) {
	names := s.resolveSheets(sheetNames)

	type unit struct {
		key    string
		sheets []string
	}
	units := make([]unit, 0, len(names))
	if len(names) == 0 {
		units = append(units, unit{key: s.cacheKey(WholeWorkbookKey)})
	}
	for _, name := range names {
		units = append(units, unit{key: s.cacheKey(name), sheets: []string{name}})
	}

	results := make([]sheetResult, len(units))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, u := range units {
		group.Go(func() error {
			result, err := s.loadUnit(groupCtx, u.key, u.sheets, refresh)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return mergeResults(results), nil
}

func (s *Service) loadUnit(ctx context.Context, key string, sheets []string, refresh bool) (sheetResult, error) {
	if !refresh {
		entry, found, err := s.store.Get(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn("cache read failed", "key", key, "error", err)
		case found && entry.Document != nil && s.fresh(entry.CachedAt):
			s.logger.Debug("cache hit", "key", key, "cached_at", entry.CachedAt)
			return sheetResult{doc: entry.Document, cached: true, at: entry.CachedAt}, nil
		}
	}

	ch := s.fetches.DoChan(key, func() (any, error) {
		return s.fetch(context.WithoutCancel(ctx), key, sheets)
	})
	select {
	case <-ctx.Done():
		return sheetResult{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return sheetResult{}, res.Err
		}
		return res.Val.(sheetResult), nil
	}
}

func (s *Service) fetch(ctx context.Context, key string, sheets []string) (sheetResult, error) {
	started := s.now()
	doc, err := s.source.FetchWorkbook(ctx, sheets)
	if err != nil {
		return sheetResult{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if doc == nil {
		return sheetResult{}, fmt.Errorf("%w: empty response for %s", ErrUpstream, key)
	}

	fetchedAt := s.now()
	s.logger.Info(
		"fetched worksheets",
		"key", key,
		"worksheets", len(doc.Worksheets),
		"duration", fetchedAt.Sub(started),
	)

	if hasErrors(doc) {
		s.logger.Warn("not caching payload with failed worksheets", "key", key)
	} else if err := s.store.Put(ctx, cache.Entry{Key: key, Document: doc, CachedAt: fetchedAt}); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}

	return sheetResult{doc: doc, at: fetchedAt}, nil
}

func (s *Service) fresh(cachedAt time.Time) bool {
	if s.ttl <= 0 {
		return true
	}
	return s.now().Sub(cachedAt) < s.ttl
}

func hasErrors(doc *vocab.RawDocument) bool {
	for _, sheet := range doc.Worksheets {
		if sheet.Error != "" {
			return true
		}
	}
	return false
}

// mergeResults joins per-worksheet payloads in request order. The document is
// reported as cached only when every part came from the cache.
func mergeResults(results []sheetResult) *vocab.RawDocument {
	merged := &vocab.RawDocument{Worksheets: make([]vocab.RawWorksheet, 0, len(results))}

	allCached := true
	var oldestCached, newestFetch time.Time
	var latest time.Time
	for _, result := range results {
		doc := result.doc
		merged.Worksheets = append(merged.Worksheets, doc.Worksheets...)

		if merged.FileName == "" || result.at.After(latest) {
			merged.FileName = doc.FileName
			merged.FileSize = doc.FileSize
			latest = result.at
		}

		if result.cached {
			if oldestCached.IsZero() || result.at.Before(oldestCached) {
				oldestCached = result.at
			}
			continue
		}
		allCached = false
		if result.at.After(newestFetch) {
			newestFetch = result.at
		}
	}

	merged.Cached = &allCached
	if !oldestCached.IsZero() {
		at := oldestCached
		merged.CachedAt = &at
	}
	if !newestFetch.IsZero() {
		at := newestFetch
		merged.FetchedAt = &at
	}
	return merged
}

// Load returns the structured document for the named worksheets.
func (s *Service) Load(ctx context.Context, sheetNames []string, refresh bool) (*vocab.Document, error) {
	raw, err := s.LoadRaw(ctx, sheetNames, refresh)
	if err != nil {
		return nil, err
	}
	return vocab.Transform(raw), nil
}

// Cached returns the structured document from the cache alone, ignoring the
// TTL. found is false unless every requested worksheet is cached.
func (s *Service) Cached(ctx context.Context, sheetNames []string) (*vocab.Document, bool, error) {
	names := s.resolveSheets(sheetNames)
	keys := make([]string, 0, len(names))
	if len(names) == 0 {
		keys = append(keys, s.cacheKey(WholeWorkbookKey))
	}
	for _, name := range names {
		keys = append(keys, s.cacheKey(name))
	}

	results := make([]sheetResult, 0, len(keys))
	for _, key := range keys {
		entry, found, err := s.store.Get(ctx, key)
		if err != nil {
			return nil, false, fmt.Errorf("read cache entry %s: %w", key, err)
		}
		if !found || entry.Document == nil {
			return nil, false, nil
		}
		results = append(results, sheetResult{doc: entry.Document, cached: true, at: entry.CachedAt})
	}
	return vocab.Transform(mergeResults(results)), true, nil
}

// Invalidate drops cached worksheets. With no names the whole cache is
// cleared.
func (s *Service) Invalidate(ctx context.Context, sheetNames []string) (int, error) {
	names := normalizeSheets(sheetNames)
	if len(names) == 0 {
		removed, err := s.store.Clear(ctx)
		if err != nil {
			return 0, fmt.Errorf("clear cache: %w", err)
		}
		s.logger.Info("cache cleared", "entries", removed)
		return removed, nil
	}

	keys := append([]string{WholeWorkbookKey}, names...)
	for _, name := range keys {
		if err := s.store.Delete(ctx, s.cacheKey(name)); err != nil {
			return 0, fmt.Errorf("delete cache entry %s: %w", name, err)
		}
	}
	s.logger.Info("cache invalidated", "worksheets", names)
	return len(names), nil
}

func (s *Service) ListWorksheets(ctx context.Context) ([]string, error) {
	names, err := s.source.WorksheetNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return names, nil
}
