package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// TruckSample is one truck's end-of-day figures.
type TruckSample struct {
	TruckID   int
	Miles     float64
	OnTime    int
	Late      int
	Remaining int
}

// SimulationMetrics exposes the outcome of a simulated day as Prometheus gauges.
type SimulationMetrics struct {
	mileage    *prometheus.GaugeVec
	delivered  *prometheus.GaugeVec
	remaining  *prometheus.GaugeVec
	fleetMiles prometheus.Gauge
	unassigned prometheus.Gauge
}

// NewSimulationMetrics registers the collectors on reg. If reg is nil, the
// default registerer is used. Collectors that are already registered are reused.
func NewSimulationMetrics(reg prometheus.Registerer) (*SimulationMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	mileage := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "delivery_truck_mileage_miles",
		Help: "Miles driven by each truck during the simulated day",
	}, []string{"truck"})
	delivered := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "delivery_packages_delivered",
		Help: "Packages delivered per truck, split by deadline outcome",
	}, []string{"truck", "on_time"})
	remaining := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "delivery_packages_remaining",
		Help: "Packages still in a truck's cargo at the end of the day",
	}, []string{"truck"})
	fleetMiles := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "delivery_fleet_mileage_miles",
		Help: "Total miles driven by the fleet",
	})
	unassigned := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "delivery_packages_unassigned",
		Help: "Packages the loading stages could not place on any truck",
	})

	m := &SimulationMetrics{}
	var err error
	if m.mileage, err = register(reg, mileage); err != nil {
		return nil, err
	}
	if m.delivered, err = register(reg, delivered); err != nil {
		return nil, err
	}
	if m.remaining, err = register(reg, remaining); err != nil {
		return nil, err
	}
	if m.fleetMiles, err = register(reg, fleetMiles); err != nil {
		return nil, err
	}
	if m.unassigned, err = register(reg, unassigned); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Record overwrites the gauges with the figures of one simulated day.
func (m *SimulationMetrics) Record(trucks []TruckSample, unassigned int) {
	var total float64
	for _, t := range trucks {
		id := strconv.Itoa(t.TruckID)
		m.mileage.WithLabelValues(id).Set(t.Miles)
		m.delivered.WithLabelValues(id, "true").Set(float64(t.OnTime))
		m.delivered.WithLabelValues(id, "false").Set(float64(t.Late))
		m.remaining.WithLabelValues(id).Set(float64(t.Remaining))
		total += t.Miles
	}
	m.fleetMiles.Set(total)
	m.unassigned.Set(float64(unassigned))
}
