// README: Shareable link encoding of trip parameters as URL query values.
package trip

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tripcost/internal/types"
)

// TravelTimeLayout matches the value of an HTML datetime-local input.
const TravelTimeLayout = "2006-01-02T15:04"

const (
	qOriginLat   = "olat"
	qOriginLng   = "olng"
	qDestLat     = "dlat"
	qDestLng     = "dlng"
	qOriginAddr  = "oaddr"
	qDestAddr    = "daddr"
	qBrand       = "brand"
	qModel       = "model"
	qConsumption = "consumption"
	qFuel        = "fuel"
	qPassengers  = "passengers"
	qRoundTrip   = "roundtrip"
	qDiscount    = "discount"
	qMode        = "mode"
	qTime        = "time"
)

// EncodeQuery renders p as share-link query values. Unset optional fields are omitted.
func EncodeQuery(p Params, loc *time.Location) url.Values {
	v := url.Values{}
	coord := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	if !p.Origin.IsZero() {
		v.Set(qOriginLat, coord(p.Origin.Lat))
		v.Set(qOriginLng, coord(p.Origin.Lng))
	}
	if !p.Destination.IsZero() {
		v.Set(qDestLat, coord(p.Destination.Lat))
		v.Set(qDestLng, coord(p.Destination.Lng))
	}
	setIf := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	setIf(qOriginAddr, p.OriginAddress)
	setIf(qDestAddr, p.DestinationAddress)
	setIf(qBrand, p.Brand)
	setIf(qModel, p.Model)
	if p.Consumption > 0 {
		v.Set(qConsumption, coord(p.Consumption))
	}
	if p.FuelPrice > 0 {
		v.Set(qFuel, coord(p.FuelPrice))
	}
	if p.Passengers > 0 {
		v.Set(qPassengers, strconv.Itoa(p.Passengers))
	}
	if p.RoundTrip {
		v.Set(qRoundTrip, "1")
	}
	if p.TollDiscount {
		v.Set(qDiscount, "1")
	}
	if p.Mode.Scheduled() {
		v.Set(qMode, string(p.Mode))
		if !p.TravelTime.IsZero() {
			if loc == nil {
				loc = time.UTC
			}
			v.Set(qTime, p.TravelTime.In(loc).Format(TravelTimeLayout))
		}
	}
	return v
}

// ShareURL appends the encoded parameters to base.
func ShareURL(base string, p Params, loc *time.Location) string {
	q := EncodeQuery(p, loc).Encode()
	if q == "" {
		return base
	}
	if strings.Contains(base, "?") {
		return base + "&" + q
	}
	return base + "?" + q
}

// ParseQuery overlays share-link or form values on defaults. Absent fields keep
// the default; present but malformed numbers become invalid values so that
// Validate reports them. The bool reports whether both endpoints were present,
// which is what triggers an automatic calculation.
func ParseQuery(v url.Values, defaults Params, loc *time.Location) (Params, bool) {
	p := defaults

	origin, okO := parsePoint(v.Get(qOriginLat), v.Get(qOriginLng))
	if okO {
		p = p.WithOrigin(origin, v.Get(qOriginAddr))
	}
	dest, okD := parsePoint(v.Get(qDestLat), v.Get(qDestLng))
	if okD {
		p = p.WithDestination(dest, v.Get(qDestAddr))
	}

	if b, m := v.Get(qBrand), v.Get(qModel); b != "" || m != "" {
		p = p.WithVehicle(b, m)
	}
	if raw := strings.TrimSpace(v.Get(qConsumption)); raw != "" {
		p = p.WithConsumption(parseNumber(raw))
	}
	if raw := strings.TrimSpace(v.Get(qFuel)); raw != "" {
		p = p.WithFuelPrice(parseNumber(raw))
	}
	if raw := strings.TrimSpace(v.Get(qPassengers)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			n = 0
		}
		p = p.WithPassengers(n)
	}
	if v.Has(qRoundTrip) {
		p = p.WithRoundTrip(parseFlag(v.Get(qRoundTrip)))
	}
	if v.Has(qDiscount) {
		p = p.WithTollDiscount(parseFlag(v.Get(qDiscount)))
	}
	if mode := TravelMode(v.Get(qMode)); mode.Valid() {
		at, _ := ParseTravelTime(v.Get(qTime), loc)
		p = p.WithTravel(mode, at)
	}
	return p, okO && okD
}

// ParseTravelTime accepts a datetime-local value in loc or an RFC3339 timestamp.
// An empty string yields the zero time without error.
func ParseTravelTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(TravelTimeLayout, s, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func parsePoint(lat, lng string) (types.Point, bool) {
	if lat == "" || lng == "" {
		return types.Point{}, false
	}
	la, err1 := strconv.ParseFloat(lat, 64)
	ln, err2 := strconv.ParseFloat(lng, 64)
	if err1 != nil || err2 != nil {
		return types.Point{}, false
	}
	p := types.Point{Lat: la, Lng: ln}
	if !p.Valid() || p.IsZero() {
		return types.Point{}, false
	}
	return p, true
}

// parseNumber accepts a decimal comma. Unparseable input maps to -1.
func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return -1
	}
	return f
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes", "si", "sí":
		return true
	}
	return false
}
