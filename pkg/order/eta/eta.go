// Package eta derives an order's time key: the estimated delivery time in
// minutes, from preparation time plus the distance to the delivery district.
package eta

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"pizzaflow/pkg/order"
)

// Config parameterizes the estimate.
type Config struct {
	PrepMinutes     int            `mapstructure:"prep_minutes"`
	MinutesPerKm    int            `mapstructure:"minutes_per_km"`
	DefaultKm       int            `mapstructure:"default_km"`
	ExtraMinutes    int            `mapstructure:"extra_minutes"`
	MaxTypoDistance int            `mapstructure:"max_typo_distance"`
	Districts       map[string]int `mapstructure:"districts"`
}

// DefaultDistricts maps delivery districts to their distance in km.
func DefaultDistricts() map[string]int {
	return map[string]int{
		"asa norte":    2,
		"asa sul":      5,
		"lago norte":   7,
		"lago sul":     12,
		"sudoeste":     10,
		"cruzeiro":     11,
		"noroeste":     4,
		"águas claras": 23,
		"taguatinga":   25,
		"samambaia":    30,
		"ceilândia":    35,
		"gama":         40,
	}
}

// DefaultConfig returns the stock pizzeria parameters.
func DefaultConfig() Config {
	return Config{
		PrepMinutes:     15,
		MinutesPerKm:    2,
		DefaultKm:       10,
		ExtraMinutes:    1,
		MaxTypoDistance: 2,
		Districts:       DefaultDistricts(),
	}
}

// Estimator computes delivery estimates. It is safe for concurrent use.
type Estimator struct {
	cfg       Config
	districts map[string]int
}

// New builds an Estimator; district names are matched accent- and
// case-insensitively.
func New(cfg Config) *Estimator {
	e := &Estimator{cfg: cfg, districts: make(map[string]int, len(cfg.Districts))}
	for name, km := range cfg.Districts {
		e.districts[normalize(name)] = km
	}
	return e
}

// Estimate returns the delivery estimate in minutes for an order of kind
// shipped to address.
func (e *Estimator) Estimate(address string, kind order.Kind) int64 {
	km, _, _ := e.Distance(address)
	minutes := e.cfg.PrepMinutes + km*e.cfg.MinutesPerKm
	if kind != nil {
		minutes += len(kind.Extras()) * e.cfg.ExtraMinutes
	}
	return int64(minutes)
}

// Distance resolves address to a district. It tries an exact match, then the
// longest district name contained in the address, then the closest name
// within MaxTypoDistance edits (fewer for short names). Unknown addresses
// get DefaultKm.
func (e *Estimator) Distance(address string) (km int, district string, ok bool) {
	addr := normalize(address)
	if km, ok := e.districts[addr]; ok {
		return km, addr, true
	}

	for name, d := range e.districts {
		if strings.Contains(addr, name) && longer(name, district) {
			km, district = d, name
		}
	}
	if district != "" {
		return km, district, true
	}

	best := e.cfg.MaxTypoDistance + 1
	for name, d := range e.districts {
		dist := levenshtein.ComputeDistance(addr, name)
		if dist > typoBudget(name, e.cfg.MaxTypoDistance) {
			continue
		}
		if dist < best || (dist == best && district != "" && name < district) {
			best, km, district = dist, d, name
		}
	}
	if district != "" {
		return km, district, true
	}
	return e.cfg.DefaultKm, "", false
}

// typoBudget is the number of edits tolerated against name: one per four
// runes, capped at limit. Short names like "gama" then reject "casa".
func typoBudget(name string, limit int) int {
	return min(limit, utf8.RuneCountInString(name)/4)
}

// longer prefers the longer name, breaking ties by name so map iteration
// order never leaks into the result.
func longer(name, current string) bool {
	if len(name) != len(current) {
		return len(name) > len(current)
	}
	return name < current
}

func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
