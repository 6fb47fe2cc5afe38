package console

import (
	"delivery-route-sim/internal/domain"
	"delivery-route-sim/internal/services"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// PrintLookup writes one package's point-in-time status.
func PrintLookup(w io.Writer, res *services.Result, id string, at time.Time) error {
	st, err := res.LookupPackage(id, at)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "Package %s: %s | deadline %s | weight %s | at %s: %s\n",
		st.PackageID,
		formatAddress(st.Address),
		st.Deadline,
		strconv.FormatFloat(st.Weight, 'f', -1, 64),
		domain.FormatClock(at),
		st.Describe(),
	)
	return err
}

// PrintStatus writes which packages each truck carries at a given time, then
// the delivered ones and those still at the hub.
func PrintStatus(w io.Writer, res *services.Result, at time.Time) error {
	fs := res.StatusAt(at)
	clock := domain.FormatClock(at)

	var b strings.Builder
	for _, t := range res.Trucks {
		fmt.Fprintf(&b, "Truck %d cargo at %s: %s\n", t.TruckID, clock, strings.Join(fs.ByTruck[t.TruckID], ", "))
	}
	fmt.Fprintf(&b, "Delivered by %s: %s\n", clock, strings.Join(fs.Delivered, ", "))
	fmt.Fprintf(&b, "At the hub at %s: %s\n", clock, strings.Join(fs.AtHub, ", "))

	_, err := io.WriteString(w, b.String())
	return err
}

func PrintMileage(w io.Writer, res *services.Result) error {
	m := res.Mileage()

	var b strings.Builder
	for _, t := range m.Trucks {
		fmt.Fprintf(&b, "Truck %d: %.1f miles\n", t.TruckID, t.Miles)
	}
	fmt.Fprintf(&b, "Fleet total: %.1f miles\n", m.Total)

	_, err := io.WriteString(w, b.String())
	return err
}

// PrintReport writes the end-of-day outcome of every package followed by
// each route and the fleet mileage.
func PrintReport(w io.Writer, rep services.DayReport, book *domain.AddressBook) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s\n", rep.RunID)

	for _, p := range rep.Packages {
		if !p.Delivered {
			fmt.Fprintf(&b, "ID %s: not delivered, deadline %s\n", p.PackageID, p.Deadline)
			continue
		}
		fmt.Fprintf(&b, "ID %s: truck %d, delivered %s, deadline %s, on time %s, correct address %s\n",
			p.PackageID, p.TruckID, domain.FormatClock(p.DeliveredAt), p.Deadline, yesNo(p.OnTime), yesNo(p.CorrectAddress))
	}

	for _, r := range rep.Routes {
		fmt.Fprintf(&b, "Truck %d route %s - %s, %.1f miles\n",
			r.TruckID, domain.FormatClock(r.DepartAt), domain.FormatClock(r.FinishAt), r.TotalMiles)
		for _, s := range r.Stops {
			fmt.Fprintf(&b, "  %s %s", domain.FormatClock(s.ArriveAt), book.Street(s.Location))
			if len(s.PackageIDs) > 0 {
				fmt.Fprintf(&b, " [%s]", strings.Join(s.PackageIDs, ", "))
			}
			b.WriteByte('\n')
		}
	}
	fmt.Fprintf(&b, "Fleet total: %.1f miles\n", rep.Mileage.Total)

	_, err := io.WriteString(w, b.String())
	return err
}

func formatAddress(a domain.Address) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.Street, a.City, strings.TrimSpace(a.State + " " + a.Zip)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func yesNo(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}
