package storage

import (
	"context"
	"time"

	apperr "github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/observability"
)

type instrumented struct {
	Store
	backend string
}

// Instrument validates keys and reports every read and write of s to the
// registered storage hooks. Backend errors are wrapped with the STORAGE
// code.
func Instrument(s Store) Store {
	if _, ok := s.(*instrumented); ok {
		return s
	}
	return &instrumented{Store: s, backend: BackendName(s)}
}

func (s *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := apperr.ValidateStorageKey(key); err != nil {
		return nil, false, err
	}
	data, found, err := s.Store.Get(ctx, key)
	if err != nil {
		err = apperr.Wrap(apperr.ErrCodeStorage, err, "%s: load %s", s.backend, key)
	}
	observability.Storage().OnLoad(ctx, s.backend, key, found, len(data), err)
	return data, found, err
}

func (s *instrumented) Set(ctx context.Context, key string, data []byte) error {
	if err := apperr.ValidateStorageKey(key); err != nil {
		return err
	}
	start := time.Now()
	err := s.Store.Set(ctx, key, data)
	if err != nil {
		err = apperr.Wrap(apperr.ErrCodeStorage, err, "%s: save %s", s.backend, key)
	}
	observability.Storage().OnSave(ctx, s.backend, key, len(data), time.Since(start), err)
	return err
}

func (s *instrumented) Delete(ctx context.Context, key string) error {
	if err := apperr.ValidateStorageKey(key); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, key); err != nil {
		return apperr.Wrap(apperr.ErrCodeStorage, err, "%s: delete %s", s.backend, key)
	}
	return nil
}
