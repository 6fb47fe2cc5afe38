package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	truckOnlyRe = regexp.MustCompile(`(?i)can only be on truck\s+(\d+)`)
	delayedRe   = regexp.MustCompile(`(?i)delayed`)
	arrivalRe   = regexp.MustCompile(`(?i)until\s+(\d{1,2}:\d{2}\s*[ap]m)`)
	wrongAddrRe = regexp.MustCompile(`(?i)wrong address listed`)
	linkedRe    = regexp.MustCompile(`(?i)must be delivered with\s+(.+)$`)
)

// Parsed form of a package's free-text special instructions.
type Instructions struct {
	Raw string
	// TruckID restricts the package to one truck; 0 means unrestricted.
	TruckID int
	// Delayed packages are not at the hub at the start of the day.
	Delayed bool
	// ArrivesAt is when a delayed package reaches the hub, zero if unknown.
	ArrivesAt    time.Time
	WrongAddress bool
	// LinkedIDs names packages that must travel on the same truck.
	LinkedIDs []string
}

func ParseInstructions(day time.Time, raw string) Instructions {
	raw = strings.TrimSpace(raw)
	ins := Instructions{Raw: raw}
	if raw == "" {
		return ins
	}

	if m := truckOnlyRe.FindStringSubmatch(raw); m != nil {
		ins.TruckID, _ = strconv.Atoi(m[1])
	}

	if delayedRe.MatchString(raw) {
		ins.Delayed = true
		if m := arrivalRe.FindStringSubmatch(raw); m != nil {
			if t, err := ParseClock(day, m[1]); err == nil {
				ins.ArrivesAt = t
			}
		}
	}

	ins.WrongAddress = wrongAddrRe.MatchString(raw)

	if m := linkedRe.FindStringSubmatch(raw); m != nil {
		for _, id := range strings.Split(m[1], ",") {
			if id = strings.TrimSpace(id); id != "" {
				ins.LinkedIDs = append(ins.LinkedIDs, id)
			}
		}
	}

	return ins
}

// Constrained reports whether the package must go on a designated truck:
// an explicit truck restriction, a delayed arrival, or an unusable address.
func (i Instructions) Constrained() bool {
	return i.TruckID > 0 || i.Delayed || i.WrongAddress
}
