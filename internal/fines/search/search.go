// Package search matches traffic fines against the three search inputs.
//
// A single criterion is an exact equality filter on its field. Two or more
// criteria switch to a union: a fine matches when ANY supplied field is equal.
// The multi-criteria search is therefore looser than each single-criterion
// search it is made of. Callers depend on both behaviours, so keep them as is.
package search

import (
	"slices"

	"github.com/aussiebroadwan/finepay/internal/fines/domain"
)

// Params are the optional search inputs. Empty strings are ignored.
type Params struct {
	IDNumber            string
	NoticeNumber        string
	VehicleRegistration string
}

// Mode describes which matching policy a set of params selects.
type Mode string

const (
	ModeNone   Mode = "none"
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

// Active returns how many of the params are non-empty.
func (p Params) Active() int {
	n := 0
	for _, v := range []string{p.IDNumber, p.NoticeNumber, p.VehicleRegistration} {
		if v != "" {
			n++
		}
	}
	return n
}

// Mode reports the matching policy Match applies to p.
func (p Params) Mode() Mode {
	switch p.Active() {
	case 0:
		return ModeNone
	case 1:
		return ModeSingle
	default:
		return ModeMulti
	}
}

// Match returns the records selected by params, in input order. It never
// returns every record for empty params, and the result is never nil.
func Match(params Params, records []domain.TrafficFine) []domain.TrafficFine {
	out := make([]domain.TrafficFine, 0)
	if params.Mode() == ModeNone {
		return out
	}

	// With one active param the OR below degenerates into an equality filter
	// on that field, which is exactly the single-criterion policy.
	for _, f := range records {
		if matchesAny(params, f) {
			out = append(out, f)
		}
	}
	return out
}

func matchesAny(p Params, f domain.TrafficFine) bool {
	if p.IDNumber != "" && f.DriverIDNumber == p.IDNumber {
		return true
	}
	if p.NoticeNumber != "" && f.NoticeNumber == p.NoticeNumber {
		return true
	}
	if p.VehicleRegistration != "" && f.VehicleRegistration == p.VehicleRegistration {
		return true
	}
	return false
}

// MatchOwner returns the fines issued to idNumber or to any of the given
// vehicle registrations, in input order.
func MatchOwner(idNumber string, registrations []string, records []domain.TrafficFine) []domain.TrafficFine {
	out := make([]domain.TrafficFine, 0)
	for _, f := range records {
		if (idNumber != "" && f.DriverIDNumber == idNumber) ||
			slices.Contains(registrations, f.VehicleRegistration) {
			out = append(out, f)
		}
	}
	return out
}
