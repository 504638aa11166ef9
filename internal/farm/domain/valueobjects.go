package domain

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	shared "github.com/davicafu/agrofarm/internal/shared/domain"
)

// ---------------- Name ----------------

const (
	nameMinLength = 2
	nameMaxLength = 200
)

var namePattern = regexp.MustCompile(`^[a-zA-ZÀ-ÿ0-9\s\-.,']+$`)

// Name es un nombre validado (propiedad, parcela o etiqueta de sensor).
type Name struct {
	value string
}

func NewName(raw string) (Name, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Name{}, shared.Validation(ErrNameRequired)
	}

	var errs shared.Violations
	length := utf8.RuneCountInString(value)
	if length < nameMinLength {
		errs.Add(ErrNameTooShort)
	}
	if length > nameMaxLength {
		errs.Add(ErrNameTooLong)
	}
	if !namePattern.MatchString(value) {
		errs.Add(ErrNameInvalidFormat)
	}
	if err := errs.Err(); err != nil {
		return Name{}, err
	}
	return Name{value: value}, nil
}

// nameFrom reconstruye un valor ya validado (eventos o almacenamiento).
func nameFrom(value string) Name { return Name{value: value} }

func (n Name) String() string { return n.value }

// Equal compara sin distinguir mayúsculas.
func (n Name) Equal(other Name) bool { return strings.EqualFold(n.value, other.value) }

// Key es la forma normalizada con la que se indexa la unicidad.
func (n Name) Key() string { return NameKey(n.value) }

// NameKey pliega mayúsculas en Go: LOWER() de SQLite solo pliega ASCII.
func NameKey(raw string) string { return strings.ToLower(strings.TrimSpace(raw)) }

// ---------------- Area ----------------

const (
	areaMin = 0.01
	areaMax = 1_000_000
)

// Area en hectáreas, redondeada a 4 decimales.
type Area struct {
	hectares float64
}

func NewArea(hectares float64) (Area, error) {
	if math.IsNaN(hectares) || math.IsInf(hectares, 0) || hectares <= 0 {
		return Area{}, shared.Validation(ErrAreaInvalidValue)
	}
	if hectares < areaMin {
		return Area{}, shared.Validation(ErrAreaTooSmall)
	}
	if hectares > areaMax {
		return Area{}, shared.Validation(ErrAreaTooLarge)
	}
	return Area{hectares: math.Round(hectares*10_000) / 10_000}, nil
}

func areaFrom(hectares float64) Area { return Area{hectares: hectares} }

func (a Area) Hectares() float64 { return a.hectares }

// ---------------- Location ----------------

const (
	addressMaxLength = 500
	regionMaxLength  = 100
)

type Location struct {
	address   string
	city      string
	state     string
	country   string
	latitude  *float64
	longitude *float64
}

// NewLocation valida todos los campos y acumula cada error.
func NewLocation(address, city, state, country string, latitude, longitude *float64) (Location, error) {
	var errs shared.Violations

	address = strings.TrimSpace(address)
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	country = strings.TrimSpace(country)

	checkText(&errs, address, addressMaxLength, ErrAddressRequired, ErrAddressTooLong)
	checkText(&errs, city, regionMaxLength, ErrCityRequired, ErrCityTooLong)
	checkText(&errs, state, regionMaxLength, ErrStateRequired, ErrStateTooLong)
	checkText(&errs, country, regionMaxLength, ErrCountryRequired, ErrCountryTooLong)

	if latitude != nil && (math.IsNaN(*latitude) || *latitude < -90 || *latitude > 90) {
		errs.Add(ErrInvalidLatitude)
	}
	if longitude != nil && (math.IsNaN(*longitude) || *longitude < -180 || *longitude > 180) {
		errs.Add(ErrInvalidLongitude)
	}
	if err := errs.Err(); err != nil {
		return Location{}, err
	}

	return Location{
		address:   address,
		city:      city,
		state:     state,
		country:   country,
		latitude:  copyFloat(latitude),
		longitude: copyFloat(longitude),
	}, nil
}

func checkText(errs *shared.Violations, value string, max int, required, tooLong shared.Violation) {
	switch {
	case value == "":
		errs.Add(required)
	case utf8.RuneCountInString(value) > max:
		errs.Add(tooLong)
	}
}

func locationFrom(address, city, state, country string, latitude, longitude *float64) Location {
	return Location{
		address:   address,
		city:      city,
		state:     state,
		country:   country,
		latitude:  copyFloat(latitude),
		longitude: copyFloat(longitude),
	}
}

func (l Location) Address() string     { return l.address }
func (l Location) City() string        { return l.city }
func (l Location) State() string       { return l.state }
func (l Location) Country() string     { return l.country }
func (l Location) Latitude() *float64  { return copyFloat(l.latitude) }
func (l Location) Longitude() *float64 { return copyFloat(l.longitude) }

func (l Location) Equal(other Location) bool {
	return l.address == other.address &&
		l.city == other.city &&
		l.state == other.state &&
		l.country == other.country &&
		equalFloat(l.latitude, other.latitude) &&
		equalFloat(l.longitude, other.longitude)
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func equalFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ---------------- CropType ----------------

const cropTypeMaxLength = 100

var cropTypePattern = regexp.MustCompile(`^[a-zA-ZÀ-ÿ0-9\s\-]+$`)

// CommonCropTypes son sugerencias; se acepta cualquier cultivo con formato válido.
var CommonCropTypes = []string{
	"Soy", "Corn", "Wheat", "Cotton", "Sugarcane", "Coffee",
	"Rice", "Beans", "Cassava", "Orange", "Eucalyptus", "Pasture",
}

type CropType struct {
	value string
}

func NewCropType(raw string) (CropType, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return CropType{}, shared.Validation(ErrCropTypeRequired)
	}

	var errs shared.Violations
	if utf8.RuneCountInString(value) > cropTypeMaxLength {
		errs.Add(ErrCropTypeTooLong)
	}
	if !cropTypePattern.MatchString(value) {
		errs.Add(ErrCropTypeInvalidValue)
	}
	if err := errs.Err(); err != nil {
		return CropType{}, err
	}
	return CropType{value: value}, nil
}

func cropTypeFrom(value string) CropType { return CropType{value: value} }

func (c CropType) String() string { return c.value }

func (c CropType) Equal(other CropType) bool { return strings.EqualFold(c.value, other.value) }

// ---------------- SensorType ----------------

type SensorType string

const (
	SensorTemperature    SensorType = "Temperature"
	SensorHumidity       SensorType = "Humidity"
	SensorSoilMoisture   SensorType = "SoilMoisture"
	SensorRainfall       SensorType = "Rainfall"
	SensorWindSpeed      SensorType = "WindSpeed"
	SensorSolarRadiation SensorType = "SolarRadiation"
	SensorPh             SensorType = "Ph"
)

var sensorTypes = []SensorType{
	SensorTemperature, SensorHumidity, SensorSoilMoisture, SensorRainfall,
	SensorWindSpeed, SensorSolarRadiation, SensorPh,
}

// ParseSensorType normaliza el valor a su forma canónica.
func ParseSensorType(raw string) (SensorType, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", shared.Validation(ErrSensorTypeRequired)
	}
	for _, t := range sensorTypes {
		if strings.EqualFold(string(t), value) {
			return t, nil
		}
	}
	return "", shared.Validation(ErrSensorTypeInvalidValue)
}

// ---------------- SensorStatus ----------------

type SensorStatus string

const (
	StatusActive      SensorStatus = "Active"
	StatusInactive    SensorStatus = "Inactive"
	StatusMaintenance SensorStatus = "Maintenance"
	StatusFaulty      SensorStatus = "Faulty"
)

var sensorStatuses = []SensorStatus{StatusActive, StatusInactive, StatusMaintenance, StatusFaulty}

func ParseSensorStatus(raw string) (SensorStatus, error) {
	value := strings.TrimSpace(raw)
	for _, s := range sensorStatuses {
		if strings.EqualFold(string(s), value) {
			return s, nil
		}
	}
	return "", shared.Validation(ErrSensorStatusInvalid)
}

// alreadyIn devuelve el error de transición identidad de cada estado.
func (s SensorStatus) alreadyIn() shared.Violation {
	switch s {
	case StatusActive:
		return ErrSensorAlreadyActive
	case StatusInactive:
		return ErrSensorAlreadyInactive
	case StatusMaintenance:
		return ErrSensorAlreadyMaintenance
	case StatusFaulty:
		return ErrSensorAlreadyFaulty
	default:
		return ErrSensorStatusInvalid
	}
}
