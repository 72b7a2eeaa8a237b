package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/alokshah14/LeapTracking/internal/kv"
	"github.com/alokshah14/LeapTracking/internal/tracking"
)

// Calibration is stored as one flat key per float: five baseline and five
// pressed angles plus three palm position components per hand, and a saved
// flag that marks the set complete.
const (
	keyPrefix    = "calibration:"
	savedFlagKey = keyPrefix + "saved"
)

var positionAxes = [3]string{"x", "y", "z"}

func angleKey(side tracking.Side, kind string, finger int) string {
	return fmt.Sprintf("%s%s:%s:%d", keyPrefix, side, kind, finger)
}

func positionKey(side tracking.Side, axis string) string {
	return fmt.Sprintf("%s%s:position:%s", keyPrefix, side, axis)
}

func formatFloat(v float64) []byte {
	return []byte(strconv.FormatFloat(v, 'g', -1, 64))
}

func parseFloat(b []byte) (float64, error) {
	return strconv.ParseFloat(string(b), 64)
}

// profileEntries flattens a profile into its stored key-value pairs,
// including the saved flag.
func profileEntries(p *Profile) []kv.Entry {
	entries := make([]kv.Entry, 0, 27)

	for side := tracking.Side(0); side < tracking.SideCount; side++ {
		for f := 0; f < int(tracking.FingerCount); f++ {
			entries = append(entries,
				kv.Entry{Key: angleKey(side, "baseline", f), Value: formatFloat(p.baseline[side][f])},
				kv.Entry{Key: angleKey(side, "pressed", f), Value: formatFloat(p.pressed[side][f])},
			)
		}

		pos := [3]float64{p.position[side].X, p.position[side].Y, p.position[side].Z}
		for i, axis := range positionAxes {
			entries = append(entries, kv.Entry{Key: positionKey(side, axis), Value: formatFloat(pos[i])})
		}
	}

	entries = append(entries, kv.Entry{Key: savedFlagKey, Value: []byte("true")})
	return entries
}

// profileKeys returns every key the profile occupies in the store.
func profileKeys() []string {
	keys := make([]string, 0, 27)
	for side := tracking.Side(0); side < tracking.SideCount; side++ {
		for f := 0; f < int(tracking.FingerCount); f++ {
			keys = append(keys, angleKey(side, "baseline", f), angleKey(side, "pressed", f))
		}
		for _, axis := range positionAxes {
			keys = append(keys, positionKey(side, axis))
		}
	}
	return append(keys, savedFlagKey)
}

// saveProfile writes the profile and saved flag atomically.
func saveProfile(ctx context.Context, store kv.Store, p *Profile) error {
	if store == nil {
		return errors.New("engine: no calibration store configured")
	}
	return store.BatchSet(ctx, profileEntries(p))
}

// loadProfile reads a saved profile. It returns false when no complete
// saved profile exists or any stored value fails to parse.
func loadProfile(ctx context.Context, store kv.Store) (*Profile, bool) {
	if store == nil {
		return nil, false
	}

	flag, err := store.Get(ctx, savedFlagKey)
	if err != nil || string(flag) != "true" {
		return nil, false
	}

	p := NewProfile()
	readAngle := func(key string) (float64, bool) {
		raw, err := store.Get(ctx, key)
		if err != nil {
			return 0, false
		}
		v, err := parseFloat(raw)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	for side := tracking.Side(0); side < tracking.SideCount; side++ {
		for f := 0; f < int(tracking.FingerCount); f++ {
			b, ok := readAngle(angleKey(side, "baseline", f))
			if !ok {
				return nil, false
			}
			pr, ok := readAngle(angleKey(side, "pressed", f))
			if !ok {
				return nil, false
			}
			p.baseline[side][f] = b
			p.pressed[side][f] = pr
		}

		var pos [3]float64
		for i, axis := range positionAxes {
			v, ok := readAngle(positionKey(side, axis))
			if !ok {
				return nil, false
			}
			pos[i] = v
		}
		p.position[side] = tracking.Vector3{X: pos[0], Y: pos[1], Z: pos[2]}
	}

	return p, true
}

// hasSavedProfile reports whether a completed profile is stored.
func hasSavedProfile(ctx context.Context, store kv.Store) bool {
	if store == nil {
		return false
	}
	flag, err := store.Get(ctx, savedFlagKey)
	return err == nil && string(flag) == "true"
}

// clearSavedProfile removes all stored calibration keys.
func clearSavedProfile(ctx context.Context, store kv.Store) error {
	if store == nil {
		return nil
	}
	return store.BatchDelete(ctx, profileKeys())
}
