package api

import (
	"context"
	"delivery-route-sim/internal/adapters/distance"
	"delivery-route-sim/internal/adapters/repositories"
	"delivery-route-sim/internal/api/dto"
	"delivery-route-sim/internal/domain"
	"delivery-route-sim/internal/platform/metrics"
	"delivery-route-sim/internal/services"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

func testResult(t *testing.T) *services.Result {
	t.Helper()
	ctx := context.Background()

	network, err := distance.NewStaticNetwork(
		[]string{"4001 South 700 East", "1 A St", "2 B St"},
		[]distance.Pair{
			{From: "4001 South 700 East", To: "1 A St", Miles: 2},
			{From: "4001 South 700 East", To: "2 B St", Miles: 5},
			{From: "1 A St", To: "2 B St", Miles: 4},
		},
	)
	require.NoError(t, err)

	store := repositories.NewMemoryRecordStore()
	require.NoError(t, store.Put(ctx, domain.PackageRecord{PackageID: "1", Street: "1 A St", Deadline: "10:30 AM", Weight: "3"}))
	require.NoError(t, store.Put(ctx, domain.PackageRecord{PackageID: "2", Street: "2 B St", Deadline: "EOD", Weight: "7"}))

	res, err := services.PlanDeliveries(ctx, services.PlanDeliveriesRequest{
		Day:       testDay,
		DayStart:  domain.At(testDay, 8, 0),
		Fleet:     services.Fleet{Capacity: 16, SpeedMPH: 10, EarlyTruckID: 1, DualRouteTruckID: 2, LateTruckID: 3},
		Proximity: services.ProximityRule{MinLoad: 1, ReturnCutoff: domain.At(testDay, 8, 0)},
	}, store, network, nil)
	require.NoError(t, err)
	require.NoError(t, res.Verify())
	return res
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	res := testResult(t)

	reg := prometheus.NewRegistry()
	m, err := metrics.NewSimulationMetrics(reg)
	require.NoError(t, err)
	m.Record([]metrics.TruckSample{{TruckID: 1, Miles: res.Mileage().Total}}, 0)

	return NewRouter(res, reg, nil)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)

	rec := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestGetPackage(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name    string
		target  string
		status  string
		truckID int
		summary string
	}{
		{name: "before loading", target: "/packages/1?at=07:00", status: "at the hub", summary: "at the hub"},
		{name: "en route", target: "/packages/1?at=08:05", status: "en route", truckID: 1, summary: "en route on truck 1 since 08:00 AM"},
		{name: "delivered", target: "/packages/1?at=9:00%20am", status: "delivered", truckID: 1, summary: "delivered at 08:12 AM"},
		{name: "end of day by default", target: "/packages/2", status: "delivered", truckID: 2, summary: "delivered at 08:30 AM"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, h, tc.target)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			res := decode[dto.PackageStatusResponse](t, rec)
			assert.Equal(t, tc.status, res.Status)
			assert.Equal(t, tc.summary, res.Summary)
			if tc.truckID == 0 {
				assert.Nil(t, res.TruckID)
			} else {
				require.NotNil(t, res.TruckID)
				assert.Equal(t, tc.truckID, *res.TruckID)
			}
		})
	}
}

func TestGetPackageErrors(t *testing.T) {
	h := newTestRouter(t)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/packages/404").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/packages/1?at=soon").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/status?at=25:99").Code)
}

func TestListPackages(t *testing.T) {
	rec := get(t, newTestRouter(t), "/packages?at=08:20")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.ListPackagesResponse](t, rec)
	require.Len(t, res.Packages, 2)
	assert.Equal(t, "1", res.Packages[0].PackageID)
	assert.Equal(t, "delivered", res.Packages[0].Status)
	assert.Equal(t, "10:30 AM", res.Packages[0].Deadline)
	assert.Equal(t, "en route", res.Packages[1].Status)
	assert.Equal(t, "EOD", res.Packages[1].Deadline)
	assert.InDelta(t, 7.0, res.Packages[1].Weight, 1e-9)
}

func TestStatus(t *testing.T) {
	rec := get(t, newTestRouter(t), "/status?at=08:20")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.FleetStatusResponse](t, rec)
	assert.Equal(t, []string{"1"}, res.Delivered)
	assert.Equal(t, []string{}, res.AtHub)
	assert.Equal(t, []string{}, res.ByTruck["1"])
	assert.Equal(t, []string{"2"}, res.ByTruck["2"])
	assert.Equal(t, []string{}, res.ByTruck["3"])
}

func TestMileageAndRoutes(t *testing.T) {
	h := newTestRouter(t)

	rec := get(t, h, "/mileage")
	require.Equal(t, http.StatusOK, rec.Code)
	mileage := decode[dto.MileageResponse](t, rec)
	require.Len(t, mileage.Trucks, 3)
	assert.InDelta(t, 9.0, mileage.TotalMiles, 1e-9)
	assert.InDelta(t, 4.0, mileage.Trucks[0].Miles, 1e-9)

	rec = get(t, h, "/routes")
	require.Equal(t, http.StatusOK, rec.Code)
	routes := decode[dto.ListRoutesResponse](t, rec)
	assert.NotEmpty(t, routes.RunID)
	require.Len(t, routes.Routes, 3)

	early := routes.Routes[0]
	require.Len(t, early.Stops, 2)
	assert.Equal(t, "1 A St", early.Stops[0].Address)
	assert.Equal(t, []string{"1"}, early.Stops[0].PackageIDs)
	assert.Equal(t, 0, early.Stops[1].Location)
	assert.Equal(t, []string{}, early.Stops[1].PackageIDs)
	assert.Empty(t, routes.Routes[2].Stops)
}

func TestRequestID(t *testing.T) {
	h := newTestRouter(t)

	rec := get(t, h, "/health")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestRouter(t), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "delivery_fleet_mileage_miles 9")
}
