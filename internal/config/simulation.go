package config

import (
	"delivery-route-sim/internal/domain"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DayConfig fixes the simulated service day.
type DayConfig struct {
	Date  string `json:"date"`
	Start string `json:"start"`
}

func (c *DayConfig) SetDefaults() {
	if c.Date == "" {
		c.Date = "2023-01-01"
	}
	if c.Start == "" {
		c.Start = "08:00"
	}
}

func (c DayConfig) Validate() error {
	if _, err := c.ServiceDay(); err != nil {
		return err
	}
	_, err := c.StartTime()
	return err
}

// ServiceDay is midnight UTC of the configured date.
func (c DayConfig) ServiceDay() (time.Time, error) {
	d, err := time.Parse(dateLayout, c.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", c.Date, err)
	}
	return d, nil
}

func (c DayConfig) StartTime() (time.Time, error) {
	day, err := c.ServiceDay()
	if err != nil {
		return time.Time{}, err
	}
	return domain.ParseClock(day, c.Start)
}

type FleetConfig struct {
	Capacity int     `json:"capacity"`
	SpeedMPH float64 `json:"speed_mph"`
	// Truck ids for the three daily roles.
	EarlyTruck     int `json:"early_truck"`
	DualRouteTruck int `json:"dual_route_truck"`
	LateTruck      int `json:"late_truck"`
}

func (c *FleetConfig) SetDefaults() {
	if c.Capacity == 0 {
		c.Capacity = domain.DefaultCapacity
	}
	if c.SpeedMPH == 0 {
		c.SpeedMPH = domain.DefaultSpeedMPH
	}
	if c.EarlyTruck == 0 {
		c.EarlyTruck = 1
	}
	if c.DualRouteTruck == 0 {
		c.DualRouteTruck = 2
	}
	if c.LateTruck == 0 {
		c.LateTruck = 3
	}
}

func (c FleetConfig) Validate() error {
	if c.Capacity < 1 {
		return fmt.Errorf("capacity must be positive")
	}
	if c.SpeedMPH <= 0 {
		return fmt.Errorf("speed_mph must be positive")
	}
	if c.EarlyTruck == c.DualRouteTruck || c.EarlyTruck == c.LateTruck || c.DualRouteTruck == c.LateTruck {
		return fmt.Errorf("truck roles need distinct ids")
	}
	return nil
}

// LoadingConfig holds the early truck's stopping rule.
type LoadingConfig struct {
	// MinEarlyLoad is the cargo size the early truck must reach.
	MinEarlyLoad int `json:"min_early_load"`
	// EarlyReturnCutoff is the projected return time loading must pass.
	EarlyReturnCutoff string `json:"early_return_cutoff"`
}

func (c *LoadingConfig) SetDefaults() {
	if c.MinEarlyLoad == 0 {
		c.MinEarlyLoad = 9
	}
	if c.EarlyReturnCutoff == "" {
		c.EarlyReturnCutoff = "09:05"
	}
}

func (c LoadingConfig) Validate() error {
	if c.MinEarlyLoad < 0 {
		return fmt.Errorf("min_early_load must not be negative")
	}
	if _, err := domain.ParseClock(time.Time{}, c.EarlyReturnCutoff); err != nil {
		return fmt.Errorf("early_return_cutoff: %w", err)
	}
	return nil
}

// CorrectionConfig is the address fix that arrives during the day.
type CorrectionConfig struct {
	Disabled  bool   `json:"disabled"`
	PackageID string `json:"package_id"`
	At        string `json:"at"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
}

func (c *CorrectionConfig) SetDefaults() {
	if c.Disabled {
		return
	}
	if c.PackageID == "" {
		c.PackageID = "9"
	}
	if c.At == "" {
		c.At = "10:20"
	}
	if c.Street == "" {
		c.Street = "410 S State St"
		c.City = "Salt Lake City"
		c.State = "UT"
		c.Zip = "84111"
	}
}

func (c CorrectionConfig) Validate() error {
	if c.Disabled {
		return nil
	}
	if _, err := domain.ParseClock(time.Time{}, c.At); err != nil {
		return fmt.Errorf("at: %w", err)
	}
	return nil
}

func (c CorrectionConfig) Address() domain.Address {
	return domain.Address{Street: c.Street, City: c.City, State: c.State, Zip: c.Zip}
}
