package app

import (
	"context"
	"database/sql"
	"delivery-route-sim/internal/adapters/csvsource"
	"delivery-route-sim/internal/adapters/repositories"
	"delivery-route-sim/internal/config"
	"delivery-route-sim/internal/domain"
	"delivery-route-sim/internal/platform/db"
	"delivery-route-sim/internal/platform/logger"
	"delivery-route-sim/internal/platform/metrics"
	"delivery-route-sim/internal/ports"
	"delivery-route-sim/internal/services"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// App is the composition root shared by the binaries. It wires the record
// store and network source named in the config behind their ports.
type App struct {
	Config  *config.Config
	Store   ports.PackageRecordStore
	Network ports.NetworkSource
	Metrics *metrics.SimulationMetrics

	log     logger.Logger
	closers []func() error
}

// New opens the configured store. reg may be nil for the default registerer.
func New(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, log logger.Logger) (*App, error) {
	if log == nil {
		log = logger.NopLogger{}
	}

	a := &App{
		Config:  cfg,
		Network: csvsource.NewNetworkSource(cfg.Data.Addresses, cfg.Data.Distances),
		log:     log,
	}

	store, closer, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	a.Store = store
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	m, err := metrics.NewSimulationMetrics(reg)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("app: %w", err)
	}
	a.Metrics = m

	log.Infof("app: store backend=%s", cfg.Store.Backend)
	return a, nil
}

// OpenStore builds the record store for the configured backend. The returned
// closer is nil for backends holding no connection.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (ports.PackageRecordStore, func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return repositories.NewMemoryRecordStore(), nil, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("open store: redis %s: %w", cfg.RedisAddr, err)
		}
		return repositories.NewRedisRecordStore(client, cfg.RedisKey), client.Close, nil

	case config.BackendSQLite, config.BackendPostgres:
		var (
			conn    *sql.DB
			err     error
			dialect = repositories.SQLite
		)
		if cfg.Backend == config.BackendPostgres {
			dialect = repositories.Postgres
			conn, err = db.Open(cfg.DSN)
		} else {
			conn, err = db.OpenSQLite(cfg.DSN)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		if err := repositories.InitSchema(ctx, conn); err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return repositories.NewSQLRecordStore(conn, dialect), conn.Close, nil

	default:
		return nil, nil, fmt.Errorf("open store: unknown backend %q", cfg.Backend)
	}
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Seed stages the package CSV into the store and returns the row count.
func (a *App) Seed(ctx context.Context) (int, error) {
	records, err := csvsource.ReadPackageRecords(a.Config.Data.Packages)
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	if err := repositories.SeedRecords(ctx, a.Store, records); err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	a.log.Infof("seed: staged %d package records from %s", len(records), a.Config.Data.Packages)
	return len(records), nil
}

// SeedIfEmpty seeds only when the store holds no records yet.
func (a *App) SeedIfEmpty(ctx context.Context) (int, error) {
	existing, err := a.Store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: list records: %w", err)
	}
	if len(existing) > 0 {
		a.log.Debugf("seed: store already holds %d records", len(existing))
		return 0, nil
	}
	return a.Seed(ctx)
}

// Run simulates the configured day and publishes its metrics. Consistency
// problems are logged, not returned; callers inspect Result.Verify.
func (a *App) Run(ctx context.Context) (*services.Result, error) {
	if _, err := a.SeedIfEmpty(ctx); err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	req, err := BuildRequest(a.Config)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	res, err := services.PlanDeliveries(ctx, req, a.Store, a.Network, a.log)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	if err := res.Verify(); err != nil {
		a.log.Warnf("run: consistency check: %v", err)
	}
	a.Metrics.Record(Samples(res))
	return res, nil
}

// BuildRequest resolves the configured clock strings against the service day.
func BuildRequest(cfg *config.Config) (services.PlanDeliveriesRequest, error) {
	day, err := cfg.Day.ServiceDay()
	if err != nil {
		return services.PlanDeliveriesRequest{}, fmt.Errorf("build request: %w", err)
	}
	start, err := cfg.Day.StartTime()
	if err != nil {
		return services.PlanDeliveriesRequest{}, fmt.Errorf("build request: %w", err)
	}
	cutoff, err := domain.ParseClock(day, cfg.Loading.EarlyReturnCutoff)
	if err != nil {
		return services.PlanDeliveriesRequest{}, fmt.Errorf("build request: early return cutoff: %w", err)
	}

	req := services.PlanDeliveriesRequest{
		Day:      day,
		DayStart: start,
		Fleet: services.Fleet{
			Capacity:         cfg.Fleet.Capacity,
			SpeedMPH:         cfg.Fleet.SpeedMPH,
			EarlyTruckID:     cfg.Fleet.EarlyTruck,
			DualRouteTruckID: cfg.Fleet.DualRouteTruck,
			LateTruckID:      cfg.Fleet.LateTruck,
		},
		Proximity: services.ProximityRule{
			MinLoad:      cfg.Loading.MinEarlyLoad,
			ReturnCutoff: cutoff,
		},
	}

	if c := cfg.Correction; !c.Disabled {
		at, err := domain.ParseClock(day, c.At)
		if err != nil {
			return services.PlanDeliveriesRequest{}, fmt.Errorf("build request: correction time: %w", err)
		}
		req.Correction = &services.Correction{PackageID: c.PackageID, At: at, Address: c.Address()}
	}
	return req, nil
}

// Samples summarises a result for the metrics gauges.
func Samples(res *services.Result) ([]metrics.TruckSample, int) {
	byTruck := make(map[int]*metrics.TruckSample, len(res.Trucks))
	samples := make([]metrics.TruckSample, len(res.Trucks))
	for i, t := range res.Trucks {
		samples[i] = metrics.TruckSample{TruckID: t.TruckID, Miles: t.Mileage(), Remaining: t.CargoLen()}
		byTruck[t.TruckID] = &samples[i]
	}

	unassigned := 0
	for _, p := range res.Packages {
		s, ok := byTruck[p.TruckID()]
		if !ok {
			unassigned++
			continue
		}
		at, delivered := p.DeliveredAt()
		switch {
		case !delivered:
		case p.Deadline().Met(at):
			s.OnTime++
		default:
			s.Late++
		}
	}
	return samples, unassigned
}
