package models

import (
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Location is the canonical coordinate pair used by every location-based view.
type Location struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// NormalizeLocation reconciles the historical location formats found in the
// collections into a canonical pair. Shapes are tried in strict priority
// order:
//
//  1. location as a "lat, lng" string
//  2. location object with lat/lng
//  3. location object with latitude/longitude
//  4. top-level lat/lng
//  5. top-level latitude/longitude
//
// Returns nil when no usable coordinates are found; callers drop such
// documents from map views. A location string that fails to parse blocks the
// remaining fallbacks, matching how these documents have always been read.
func NormalizeLocation(doc bson.M) *Location {
	if raw, ok := doc["location"]; ok && raw != nil {
		switch loc := raw.(type) {
		case string:
			if loc != "" {
				return parseCoordString(loc)
			}
		case bson.M:
			if l := coordPair(loc, "lat", "lng"); l != nil {
				return l
			}
			if l := coordPair(loc, "latitude", "longitude"); l != nil {
				return l
			}
		case bson.D:
			m := loc.Map()
			if l := coordPair(m, "lat", "lng"); l != nil {
				return l
			}
			if l := coordPair(m, "latitude", "longitude"); l != nil {
				return l
			}
		case Location:
			return &Location{Lat: loc.Lat, Lng: loc.Lng}
		case *Location:
			if loc != nil {
				return &Location{Lat: loc.Lat, Lng: loc.Lng}
			}
		}
	}
	if l := coordPair(doc, "lat", "lng"); l != nil {
		return l
	}
	return coordPair(doc, "latitude", "longitude")
}

func parseCoordString(s string) *Location {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil || math.IsNaN(lat) || math.IsNaN(lng) {
		return nil
	}
	return &Location{Lat: lat, Lng: lng}
}

func coordPair(m bson.M, latKey, lngKey string) *Location {
	lat, ok1 := numericValue(m[latKey])
	lng, ok2 := numericValue(m[lngKey])
	if !ok1 || !ok2 {
		return nil
	}
	return &Location{Lat: lat, Lng: lng}
}

// numericValue accepts the numeric types the BSON decoder may produce.
func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
