package importer

import (
	"context"
	"time"

	"github.com/disgoorg/keybot/keybot/logger"
)

// KeyAdder stores new keys and reports how many were not already present.
type KeyAdder interface {
	AddKeys(ctx context.Context, codes []string) (int, error)
}

type Importer struct {
	source Source
	keys   KeyAdder
}

func New(source Source, keys KeyAdder) *Importer {
	return &Importer{source: source, keys: keys}
}

func (i *Importer) Source() Source {
	return i.source
}

// ImportOnce reads the source and stores every code it has not seen before.
func (i *Importer) ImportOnce(ctx context.Context) (int, error) {
	start := time.Now()

	codes, err := i.source.Read(ctx)
	if err != nil {
		logger.LogImport(i.source.Name(), 0, 0, time.Since(start), err)
		return 0, err
	}
	if len(codes) == 0 {
		logger.LogImport(i.source.Name(), 0, 0, time.Since(start), nil)
		return 0, nil
	}

	inserted, err := i.keys.AddKeys(ctx, codes)
	logger.LogImport(i.source.Name(), len(codes), inserted, time.Since(start), err)
	return inserted, err
}

// Run imports immediately and then on every tick until ctx is done. Failed
// passes are logged and retried on the next tick.
func (i *Importer) Run(ctx context.Context, interval time.Duration) error {
	_, _ = i.ImportOnce(ctx)
	if interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, _ = i.ImportOnce(ctx)
		}
	}
}
