package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewName(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr []string
	}{
		{name: "trims spaces", raw: "  Fazenda Boa Vista  ", want: "Fazenda Boa Vista"},
		{name: "accents allowed", raw: "Sítio São João", want: "Sítio São João"},
		{name: "empty", raw: "   ", wantErr: []string{"Name.Required"}},
		{name: "too short", raw: "A", wantErr: []string{"Name.TooShort"}},
		{name: "short and invalid", raw: "@", wantErr: []string{"Name.TooShort", "Name.InvalidFormat"}},
		{name: "too long", raw: strings.Repeat("a", 201), wantErr: []string{"Name.TooLong"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewName(tt.raw)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, violationCodes(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestName_EqualIgnoresCase(t *testing.T) {
	a, _ := NewName("North Field")
	b, _ := NewName("north field")
	assert.True(t, a.Equal(b))
}

func TestNewArea(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		want    float64
		wantErr string
	}{
		{name: "rounds to four decimals", value: 12.345678, want: 12.3457},
		{name: "minimum", value: 0.01, want: 0.01},
		{name: "maximum", value: 1_000_000, want: 1_000_000},
		{name: "zero", value: 0, wantErr: "Area.InvalidValue"},
		{name: "negative", value: -3, wantErr: "Area.InvalidValue"},
		{name: "too small", value: 0.005, wantErr: "Area.TooSmall"},
		{name: "too large", value: 1_000_000.5, wantErr: "Area.TooLarge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewArea(tt.value)
			if tt.wantErr != "" {
				assert.Equal(t, []string{tt.wantErr}, violationCodes(t, err))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got.Hectares(), 1e-9)
		})
	}
}

func TestNewLocation_AccumulatesEveryError(t *testing.T) {
	_, err := NewLocation("", " ", strings.Repeat("s", 101), "", ptr(91.0), ptr(-181.0))

	assert.Equal(t, []string{
		"Location.AddressRequired",
		"Location.CityRequired",
		"Location.StateTooLong",
		"Location.CountryRequired",
		"Location.InvalidLatitude",
		"Location.InvalidLongitude",
	}, violationCodes(t, err))
}

func TestNewLocation_CopiesCoordinates(t *testing.T) {
	lat := -23.5
	loc, err := NewLocation("Rua A, 10", "Campinas", "SP", "Brazil", &lat, nil)
	require.NoError(t, err)

	lat = 0
	require.NotNil(t, loc.Latitude())
	assert.Equal(t, -23.5, *loc.Latitude())
	assert.Nil(t, loc.Longitude())

	other, _ := NewLocation("Rua A, 10", "Campinas", "SP", "Brazil", ptr(-23.5), nil)
	assert.True(t, loc.Equal(other))
}

func TestNewCropType(t *testing.T) {
	soy, err := NewCropType(" Soy ")
	require.NoError(t, err)
	assert.Equal(t, "Soy", soy.String())

	lower, _ := NewCropType("soy")
	assert.True(t, soy.Equal(lower))

	_, err = NewCropType("")
	assert.Equal(t, []string{"CropType.Required"}, violationCodes(t, err))

	_, err = NewCropType("Soy!")
	assert.Equal(t, []string{"CropType.InvalidValue"}, violationCodes(t, err))

	_, err = NewCropType(strings.Repeat("c", 101))
	assert.Equal(t, []string{"CropType.TooLong"}, violationCodes(t, err))
}

func TestParseSensorType(t *testing.T) {
	got, err := ParseSensorType(" soilmoisture ")
	require.NoError(t, err)
	assert.Equal(t, SensorSoilMoisture, got)

	_, err = ParseSensorType("")
	assert.Equal(t, []string{"SensorType.Required"}, violationCodes(t, err))

	_, err = ParseSensorType("Radar")
	assert.Equal(t, []string{"SensorType.InvalidValue"}, violationCodes(t, err))
}

func TestParseSensorStatus(t *testing.T) {
	for raw, want := range map[string]SensorStatus{
		"active":      StatusActive,
		"INACTIVE":    StatusInactive,
		"Maintenance": StatusMaintenance,
		"faulty":      StatusFaulty,
	} {
		got, err := ParseSensorStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	_, err := ParseSensorStatus("broken")
	assert.Equal(t, []string{"SensorStatus.InvalidValue"}, violationCodes(t, err))
}
