package console

import (
	"bytes"
	"context"
	"delivery-route-sim/internal/adapters/distance"
	"delivery-route-sim/internal/adapters/repositories"
	"delivery-route-sim/internal/domain"
	"delivery-route-sim/internal/services"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

// twoStopDay: truck 1 takes package 1 to "1 A St" and returns at 08:24,
// truck 2 takes package 2 to "2 B St" by 08:30, truck 3 stays empty.
func twoStopDay(t *testing.T) *services.Result {
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
	require.NoError(t, store.Put(ctx, domain.PackageRecord{PackageID: "1", Street: "1 A St", City: "Salt Lake City", State: "UT", Zip: "84115", Deadline: "10:30 AM", Weight: "3"}))
	require.NoError(t, store.Put(ctx, domain.PackageRecord{PackageID: "2", Street: "2 B St", Deadline: "EOD", Weight: "7"}))

	res, err := services.PlanDeliveries(ctx, services.PlanDeliveriesRequest{
		Day:       testDay,
		DayStart:  domain.At(testDay, 8, 0),
		Fleet:     services.Fleet{Capacity: 16, SpeedMPH: 10, EarlyTruckID: 1, DualRouteTruckID: 2, LateTruckID: 3},
		Proximity: services.ProximityRule{MinLoad: 1, ReturnCutoff: domain.At(testDay, 8, 0)},
	}, store, network, nil)
	require.NoError(t, err)
	return res
}

func runConsole(t *testing.T, ctx context.Context, input string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := New(twoStopDay(t), strings.NewReader(input), &out, nil).Run(ctx)
	return out.String(), err
}

func TestConsoleCommands(t *testing.T) {
	input := strings.Join([]string{
		"lookup 1 08:05",
		"LOOKUP 1 9:00 am",
		"lookup 404 09:00",
		"status 25:99",
		"status",
		"08:20",
		"",
		"mileage",
		"bogus",
		"exit",
		"mileage",
	}, "\n")

	out, err := runConsole(t, context.Background(), input)
	require.NoError(t, err)

	assert.Contains(t, out, "Package 1: 1 A St, Salt Lake City, UT 84115 | deadline 10:30 AM | weight 3 | at 08:05 AM: en route on truck 1 since 08:00 AM\n")
	assert.Contains(t, out, "at 09:00 AM: delivered at 08:12 AM\n")
	assert.Contains(t, out, "No package found with ID 404.\n")
	assert.Contains(t, out, `Invalid time "25:99"`)
	assert.Contains(t, out, "Truck 2 cargo at 08:20 AM: 2\n")
	assert.Contains(t, out, "Delivered by 08:20 AM: 1\n")
	assert.Contains(t, out, "Truck 1: 4.0 miles\n")
	assert.Contains(t, out, `Unknown command "bogus"`)
	assert.Equal(t, 1, strings.Count(out, "Fleet total: 9.0 miles"), "commands after exit must not run")
}

func TestConsolePromptsForMissingArguments(t *testing.T) {
	out, err := runConsole(t, context.Background(), "lookup\n2\n08:20\nexit\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Enter package ID: ")
	assert.Contains(t, out, "Enter time (HH:MM): ")
	assert.Contains(t, out, "Package 2: 2 B St | deadline EOD | weight 7 | at 08:20 AM: en route on truck 2 since 08:00 AM\n")
}

func TestConsoleEndOfInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "during lookup id prompt", input: "lookup"},
		{name: "during time prompt", input: "lookup 1"},
		{name: "during status prompt", input: "status\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runConsole(t, context.Background(), tc.input)
			assert.NoError(t, err)
		})
	}
}

func TestConsoleStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runConsole(t, ctx, "mileage\n")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrintReport(t *testing.T) {
	res := twoStopDay(t)

	var out bytes.Buffer
	require.NoError(t, PrintReport(&out, services.BuildReport(res), res.Addresses))

	report := out.String()
	assert.Contains(t, report, "Run "+res.RunID+"\n")
	assert.Contains(t, report, "ID 1: truck 1, delivered 08:12 AM, deadline 10:30 AM, on time yes, correct address yes\n")
	assert.Contains(t, report, "ID 2: truck 2, delivered 08:30 AM, deadline EOD, on time yes, correct address yes\n")
	assert.Contains(t, report, "Truck 1 route 08:00 AM - 08:24 AM, 4.0 miles\n")
	assert.Contains(t, report, "  08:12 AM 1 A St [1]\n")
	assert.Contains(t, report, "  08:24 AM 4001 South 700 East\n")
	assert.Contains(t, report, "Fleet total: 9.0 miles\n")
}
