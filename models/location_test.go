package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		name string
		doc  bson.M
		want *Location
	}{
		{
			name: "comma separated string",
			doc:  bson.M{"location": "24.579804, 73.612041"},
			want: &Location{Lat: 24.579804, Lng: 73.612041},
		},
		{
			name: "string without spaces",
			doc:  bson.M{"location": "12.9716,77.5946"},
			want: &Location{Lat: 12.9716, Lng: 77.5946},
		},
		{
			name: "object with lat lng",
			doc:  bson.M{"location": bson.M{"lat": 24.5, "lng": 73.6}},
			want: &Location{Lat: 24.5, Lng: 73.6},
		},
		{
			name: "object with latitude longitude",
			doc:  bson.M{"location": bson.M{"latitude": 12.9, "longitude": 77.5}},
			want: &Location{Lat: 12.9, Lng: 77.5},
		},
		{
			name: "top level lat lng",
			doc:  bson.M{"lat": 1.5, "lng": 2.5},
			want: &Location{Lat: 1.5, Lng: 2.5},
		},
		{
			name: "top level latitude longitude",
			doc:  bson.M{"latitude": 12.9, "longitude": 77.5},
			want: &Location{Lat: 12.9, Lng: 77.5},
		},
		{
			name: "lat lng preferred over latitude longitude inside object",
			doc:  bson.M{"location": bson.M{"lat": 1.0, "lng": 2.0, "latitude": 9.0, "longitude": 9.0}},
			want: &Location{Lat: 1.0, Lng: 2.0},
		},
		{
			name: "object without coordinates falls through to top level",
			doc:  bson.M{"location": bson.M{"address": "Main St"}, "lat": 3.0, "lng": 4.0},
			want: &Location{Lat: 3.0, Lng: 4.0},
		},
		{
			name: "bson.D object shape",
			doc:  bson.M{"location": bson.D{{Key: "lat", Value: 24.5}, {Key: "lng", Value: 73.6}}},
			want: &Location{Lat: 24.5, Lng: 73.6},
		},
		{
			name: "int32 coordinates from the decoder",
			doc:  bson.M{"location": bson.M{"lat": int32(24), "lng": int32(73)}},
			want: &Location{Lat: 24, Lng: 73},
		},
		{
			name: "unparseable string",
			doc:  bson.M{"location": "abc"},
			want: nil,
		},
		{
			name: "half parseable string",
			doc:  bson.M{"location": "24.5, abc"},
			want: nil,
		},
		{
			name: "unparseable string blocks top level fallback",
			doc:  bson.M{"location": "nowhere", "lat": 1.0, "lng": 2.0},
			want: nil,
		},
		{
			name: "empty string falls through to top level",
			doc:  bson.M{"location": "", "lat": 1.0, "lng": 2.0},
			want: &Location{Lat: 1.0, Lng: 2.0},
		},
		{
			name: "three comma parts",
			doc:  bson.M{"location": "1.0, 2.0, 3.0"},
			want: nil,
		},
		{
			name: "no location at all",
			doc:  bson.M{"title": "Pothole"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLocation(tt.doc)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want.Lat, got.Lat)
			assert.Equal(t, tt.want.Lng, got.Lng)
		})
	}
}
