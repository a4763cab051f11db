package availability

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	maxSuggestions = 5
	defaultZone    = "America/Los_Angeles"
)

var (
	slotHours      = []int{9, 10, 11, 12, 13, 14, 15, 16}
	slotMinutes    = []int{0, 30}
	neighborOffset = []int{-3, -2, -1, 1, 2, 3}

	ErrInvalidDate = errors.New("invalid date")
)

type Config struct {
	Timezone string `envconfig:"TIMEZONE" default:"America/Los_Angeles"`
}

// Location resolves the configured zone, falling back to the default zone.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		name = defaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load calendar timezone %q: %w", name, err)
	}
	return loc, nil
}

// Result is what checkDesiredDate hands back to the call.
type Result struct {
	IsExactAvailable bool        `json:"isExactAvailable"`
	SuggestedTimes   []time.Time `json:"suggestedTimes"`
}

// Probe is a deterministic stand-in for a calendar. Slots depend only on the
// calendar date, read in the probe's location.
type Probe struct {
	loc *time.Location
}

func New(loc *time.Location) *Probe {
	if loc == nil {
		loc = time.UTC
	}
	return &Probe{loc: loc}
}

func (p *Probe) Location() *time.Location {
	return p.loc
}

// Slots returns the open slots on the calendar date of day.
func (p *Probe) Slots(day time.Time) []time.Time {
	day = day.In(p.loc)
	y, m, d := day.Date()
	seed := d + int(m) + y%100
	if seed%5 == 0 {
		return nil
	}
	limit := 3 + seed%3

	out := make([]time.Time, 0, limit)
	for _, hour := range slotHours {
		if (hour+seed)%3 == 0 {
			continue
		}
		for _, minute := range slotMinutes {
			if (minute+d)%2 == 0 && hour%2 == 1 {
				continue
			}
			out = append(out, time.Date(y, m, d, hour, minute, 0, 0, p.loc))
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}

// Check returns the exact day's slots, or up to five slots from the three
// days either side when the day is closed.
func (p *Probe) Check(date time.Time) Result {
	day := p.midnight(date)
	if exact := p.Slots(day); len(exact) > 0 {
		return Result{IsExactAvailable: true, SuggestedTimes: exact}
	}

	suggested := make([]time.Time, 0, maxSuggestions)
	for _, offset := range neighborOffset {
		suggested = append(suggested, p.Slots(day.AddDate(0, 0, offset))...)
		if len(suggested) >= maxSuggestions {
			break
		}
	}
	sort.SliceStable(suggested, func(i, j int) bool {
		return suggested[i].Before(suggested[j])
	})
	if len(suggested) > maxSuggestions {
		suggested = suggested[:maxSuggestions]
	}
	return Result{IsExactAvailable: false, SuggestedTimes: suggested}
}

// CheckRaw parses raw and checks it. Unparsable input means no availability.
func (p *Probe) CheckRaw(raw string) Result {
	date, err := p.ParseDate(raw)
	if err != nil {
		return Result{IsExactAvailable: false, SuggestedTimes: []time.Time{}}
	}
	return p.Check(date)
}

var zonelessLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts RFC 3339 timestamps and a few zone-less ISO 8601 forms,
// which are read in the probe's location.
func (p *Probe) ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

func (p *Probe) midnight(t time.Time) time.Time {
	y, m, d := t.In(p.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.loc)
}
