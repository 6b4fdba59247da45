package view

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindmap/pkg/io"
	"github.com/matzehuels/mindmap/pkg/storage"
)

// Persister saves and restores coordinator snapshots in a store.
type Persister struct {
	Store  storage.Store
	Key    string
	Logger *log.Logger
}

// NewPersister creates a persister for s. An empty key uses
// storage.DefaultKey and a nil logger uses log.Default.
func NewPersister(s storage.Store, key string, logger *log.Logger) *Persister {
	if key == "" {
		key = storage.DefaultKey
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Persister{Store: s, Key: key, Logger: logger}
}

// Save writes the coordinator's snapshot. A storage failure is logged as a
// warning and returned; the session keeps running without persistence.
func (p *Persister) Save(ctx context.Context, c *Coordinator) error {
	data, err := io.EncodeJSON(c.Snapshot())
	if err != nil {
		p.Logger.Warn("encode snapshot", "err", err)
		return err
	}
	if err := p.Store.Set(ctx, p.Key, data); err != nil {
		p.Logger.Warn("save snapshot", "key", p.Key, "err", err)
		return err
	}
	p.Logger.Debug("snapshot saved", "key", p.Key, "bytes", len(data))
	return nil
}

// Restore loads the stored snapshot into c and reports whether it did.
//
// With no stored snapshot, or one that does not decode, the coordinator's
// current forest becomes the baseline: the first node is selected and a save
// is scheduled, which replaces an unreadable snapshot. Only a failing store
// read is returned as an error.
func (p *Persister) Restore(ctx context.Context, c *Coordinator) (bool, error) {
	data, err := storage.Load(ctx, p.Store, p.Key)
	if errors.Is(err, storage.ErrNotFound) {
		p.Logger.Debug("no snapshot, starting from the current map", "key", p.Key)
		p.baseline(c)
		return false, nil
	}
	if err != nil {
		p.Logger.Error("read snapshot", "key", p.Key, "err", err)
		return false, err
	}
	if err := c.LoadData(io.FormatJSON, data); err != nil {
		p.Logger.Warn("discarding unreadable snapshot", "key", p.Key, "err", err)
		p.baseline(c)
		return false, nil
	}
	return true, nil
}

func (p *Persister) baseline(c *Coordinator) {
	c.selectFirst()
	c.changed()
}

// Clear removes the stored snapshot.
func (p *Persister) Clear(ctx context.Context) error {
	return p.Store.Delete(ctx, p.Key)
}
