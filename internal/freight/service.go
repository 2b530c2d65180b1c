package freight

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fretecalc/internal"
	"fretecalc/internal/aggregate"
	"fretecalc/internal/config"
	"fretecalc/internal/storage"
	"fretecalc/internal/util"
	"fretecalc/internal/vtex"
)

type simulator interface {
	Simulate(ctx context.Context, store, cep, sku string) internal.StoreResult
	StockLevel(ctx context.Context, store, sku string) internal.StockLevel
}

// Service runs the two aggregation flows the tool exposes: the full
// freight simulation and the stock-only query. Validation happens before
// any network call; each run's trace id and counters are recorded, the
// per-store results are not.
type Service struct {
	db  *storage.DB
	cfg config.Config
	sim simulator
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, cfg: cfg, sim: vtex.NewSimulator(cfg)}
}

func (s *Service) RunFreightSimulation(ctx context.Context, cep, sku string, stores []string, workers int) (<-chan aggregate.Event[internal.StoreResult], error) {
	cep = strings.TrimSpace(cep)
	sku = strings.TrimSpace(sku)

	if !util.ValidateCEP(cep) {
		return nil, fmt.Errorf("invalid CEP %q: expected format 00000-000", cep)
	}
	if err := s.validateCommon(sku, stores); err != nil {
		return nil, err
	}

	_ = s.db.PushRecentSKU(sku, s.cfg.MaxRecentSKUs)

	events := aggregate.Run(ctx, stores, workers, func(ctx context.Context, store string) (internal.StoreResult, error) {
		return s.sim.Simulate(ctx, store, cep, sku), nil
	})
	return recordRun(s.db, events, "simulation", cep, sku), nil
}

func (s *Service) RunStockQuery(ctx context.Context, sku string, stores []string, workers int) (<-chan aggregate.Event[internal.StockLevel], error) {
	sku = strings.TrimSpace(sku)

	if err := s.validateCommon(sku, stores); err != nil {
		return nil, err
	}

	_ = s.db.PushRecentSKU(sku, s.cfg.MaxRecentSKUs)

	events := aggregate.Run(ctx, stores, workers, func(ctx context.Context, store string) (internal.StockLevel, error) {
		return s.sim.StockLevel(ctx, store, sku), nil
	})
	return recordRun(s.db, events, "stock", "", sku), nil
}

func (s *Service) validateCommon(sku string, stores []string) error {
	if sku == "" {
		return errors.New("sku must not be empty")
	}
	if len(stores) == 0 {
		return errors.New("no stores selected")
	}
	return s.cfg.RequireVTEX()
}

// recordRun re-emits the event stream and, when the run completes,
// writes one trace row with counters and elapsed time.
func recordRun[T any](db *storage.DB, events <-chan aggregate.Event[T], kind, cep, sku string) <-chan aggregate.Event[T] {
	out := make(chan aggregate.Event[T], cap(events))

	go func() {
		defer close(out)
		start := time.Now()
		taskErrors := 0

		for ev := range events {
			if ev.Kind == aggregate.EventTaskError {
				taskErrors++
			}
			if ev.Kind == aggregate.EventCompleted {
				counts := map[string]int{
					"stores":    ev.Total,
					"completed": len(ev.Results),
					"errors":    taskErrors,
				}
				_ = db.InsertRun(uuid.NewString(), kind, cep, sku, counts, time.Since(start))
			}
			out <- ev
		}
	}()

	return out
}
