package scanner

import (
	"context"
	"fmt"
	"sync"

	"github.com/sigil-dev/sigil/pkg/matcher"
	"github.com/sigil-dev/sigil/pkg/signature"
	"github.com/sigil-dev/sigil/pkg/store"
	"github.com/sigil-dev/sigil/pkg/types"
)

var (
	cachedBuiltinSigs []*types.Signature
	cachedSigsErr     error
	cacheOnce         sync.Once
)

// loadBuiltinCached loads the builtin catalog once per process.
func loadBuiltinCached() ([]*types.Signature, error) {
	cacheOnce.Do(func() {
		loader := signature.NewLoader()
		cachedBuiltinSigs, cachedSigsErr = loader.LoadBuiltin()
	})
	return cachedBuiltinSigs, cachedSigsErr
}

// GetBuiltinSignatures returns the builtin signature catalog (cached).
func GetBuiltinSignatures() ([]*types.Signature, error) {
	return loadBuiltinCached()
}

// Config wires a Core together.
type Config struct {
	// Signatures to scan with; nil loads the builtin catalog.
	Signatures []*types.Signature

	// Store for results; nil creates an in-memory store owned by the Core.
	Store store.Store

	// Step, ExcerptBytes, MaxMatchesPerSignature, and DisablePrefilter
	// pass through to the matching engine.
	Step                   int
	ExcerptBytes           int
	MaxMatchesPerSignature int
	DisablePrefilter       bool

	// Payloads enables recursion into compressed and archived blobs.
	Payloads bool

	// DecompressLimit caps the expanded size of one payload
	// (0 = DefaultDecompressLimit).
	DecompressLimit int64

	// MaxPayloadDepth caps container nesting (0 = DefaultMaxPayloadDepth).
	MaxPayloadDepth int

	// Incremental skips blobs the store has already seen and reports
	// their stored matches instead of rescanning.
	Incremental bool

	Logger DebugLogger
}

// Core binds the matching engine to a store and drives scans.
type Core struct {
	matcher     matcher.Matcher
	store       store.Store
	ownStore    bool
	extractor   *Extractor
	maxDepth    int
	incremental bool
	logger      DebugLogger
}

// NewCore creates a scanning core from the configuration.
func NewCore(cfg Config) (*Core, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = NoopLogger{}
	}

	sigs := cfg.Signatures
	if sigs == nil {
		var err error
		sigs, err = loadBuiltinCached()
		if err != nil {
			return nil, fmt.Errorf("loading builtin signatures: %w", err)
		}
		logger.Log("loaded %d builtin signatures", len(sigs))
	}

	m, err := matcher.New(matcher.Config{
		Signatures:             sigs,
		Step:                   cfg.Step,
		ExcerptBytes:           cfg.ExcerptBytes,
		MaxMatchesPerSignature: cfg.MaxMatchesPerSignature,
		DisablePrefilter:       cfg.DisablePrefilter,
	})
	if err != nil {
		return nil, fmt.Errorf("creating matcher: %w", err)
	}

	s := cfg.Store
	ownStore := false
	if s == nil {
		s, err = store.New(store.Config{Path: ":memory:"})
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("creating store: %w", err)
		}
		ownStore = true
	}

	for _, sig := range sigs {
		if err := s.AddSignature(sig); err != nil {
			logger.Log("recording signature %s: %v", sig.ID, err)
		}
	}

	core := &Core{
		matcher:     m,
		store:       s,
		ownStore:    ownStore,
		incremental: cfg.Incremental,
		logger:      logger,
	}

	if cfg.Payloads {
		core.extractor = NewExtractor(cfg.DecompressLimit)
		core.maxDepth = cfg.MaxPayloadDepth
		if core.maxDepth <= 0 {
			core.maxDepth = DefaultMaxPayloadDepth
		}
	}

	return core, nil
}

// Store exposes the underlying store, for reporting after a scan.
func (c *Core) Store() store.Store {
	return c.store
}

// Scan runs one blob through the engine, persists the results, and
// recurses into payloads when enabled.
func (c *Core) Scan(content []byte, prov types.Provenance) (*ScanResult, error) {
	return c.scan(content, prov, 0)
}

func (c *Core) scan(content []byte, prov types.Provenance, depth int) (*ScanResult, error) {
	blobID := types.ComputeBlobID(content)
	result := &ScanResult{Source: prov.Path(), BlobID: blobID}

	if c.incremental {
		exists, err := c.store.BlobExists(blobID)
		if err != nil {
			return nil, fmt.Errorf("checking blob %s: %w", blobID.Short(), err)
		}
		if exists {
			// Already scanned with these signatures; report stored state.
			matches, err := c.store.GetMatches(blobID)
			if err != nil {
				return nil, fmt.Errorf("loading stored matches for %s: %w", blobID.Short(), err)
			}
			result.Skipped = true
			result.Matches = matches

			// New provenance for an old blob is still worth recording.
			if err := c.store.AddProvenance(blobID, prov); err != nil {
				return nil, fmt.Errorf("recording provenance: %w", err)
			}
			return result, nil
		}
	}

	matches, err := c.matcher.MatchWithBlobID(content, blobID)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", prov.Path(), err)
	}
	result.Matches = matches

	if err := c.persist(blobID, int64(len(content)), prov, matches); err != nil {
		return nil, err
	}

	if c.extractor != nil && depth < c.maxDepth {
		for _, p := range c.extractor.Extract(content) {
			childProv := types.PayloadProvenance{
				ContainerPath: prov.Path(),
				Codec:         p.Codec,
				MemberPath:    p.Member,
				Depth:         depth + 1,
			}
			c.logger.Log("recursing into %s payload of %s", p.Codec, prov.Path())

			child, err := c.scan(p.Content, childProv, depth+1)
			if err != nil {
				return nil, err
			}
			result.Payloads = append(result.Payloads, child)
		}
	}

	return result, nil
}

func (c *Core) persist(blobID types.BlobID, size int64, prov types.Provenance, matches []*types.Match) error {
	if err := c.store.AddBlob(blobID, size); err != nil {
		return fmt.Errorf("recording blob %s: %w", blobID.Short(), err)
	}
	if err := c.store.AddProvenance(blobID, prov); err != nil {
		return fmt.Errorf("recording provenance: %w", err)
	}

	for _, m := range matches {
		if err := c.store.AddMatch(m); err != nil {
			return fmt.Errorf("recording match: %w", err)
		}
	}

	for _, f := range types.GroupMatches(matches) {
		exists, err := c.store.FindingExists(f.ID)
		if err != nil {
			return fmt.Errorf("checking finding %s: %w", f.ID, err)
		}
		if exists {
			continue
		}
		if err := c.store.AddFinding(f); err != nil {
			return fmt.Errorf("recording finding: %w", err)
		}
	}

	return nil
}

// ScanBatch scans a slice of items, continuing past items that fail.
func (c *Core) ScanBatch(items []ContentItem) (*BatchScanResult, error) {
	batch := &BatchScanResult{}

	for _, item := range items {
		result, err := c.Scan(item.Content, types.StreamProvenance{Name: item.Source})
		if err != nil {
			c.logger.Log("skipping %s: %v", item.Source, err)
			continue
		}

		batch.Results = append(batch.Results, result)
		batch.Total += result.TotalMatches()
	}

	return batch, nil
}

// ScanSource drains an enumerator through the core.
func (c *Core) ScanSource(ctx context.Context, enum Enumerator) (*BatchScanResult, error) {
	batch := &BatchScanResult{}
	var mu sync.Mutex

	err := enum.Enumerate(ctx, func(content []byte, blobID types.BlobID, prov types.Provenance) error {
		result, err := c.Scan(content, prov)
		if err != nil {
			return err
		}

		mu.Lock()
		defer mu.Unlock()
		batch.Results = append(batch.Results, result)
		batch.Total += result.TotalMatches()
		return nil
	})
	if err != nil {
		return batch, err
	}

	return batch, nil
}

// Close releases the matcher and, when the Core created it, the store.
func (c *Core) Close() {
	if c.matcher != nil {
		c.matcher.Close()
	}
	if c.store != nil && c.ownStore {
		c.store.Close()
	}
}
