package domain

import (
	"sort"

	shared "github.com/davicafu/agrofarm/internal/shared/domain"
)

func violation(code, message string) shared.Violation {
	return shared.Violation{Code: code, Message: message}
}

// ---------------- Value objects ----------------

var (
	ErrNameRequired      = violation("Name.Required", "Name is required.")
	ErrNameTooShort      = violation("Name.TooShort", "Name must be at least 2 characters long.")
	ErrNameTooLong       = violation("Name.TooLong", "Name must be at most 200 characters long.")
	ErrNameInvalidFormat = violation("Name.InvalidFormat", "Name contains invalid characters.")
	ErrNameDuplicate     = violation("Name.Duplicate", "Name is already in use.")
	ErrLabelDuplicate    = violation("Label.Duplicate", "Label is already in use on this plot.")

	ErrAreaInvalidValue = violation("Area.InvalidValue", "Area must be a positive number.")
	ErrAreaTooSmall     = violation("Area.TooSmall", "Area must be at least 0.01 hectares.")
	ErrAreaTooLarge     = violation("Area.TooLarge", "Area must be at most 1,000,000 hectares.")

	ErrAddressRequired  = violation("Location.AddressRequired", "Address is required.")
	ErrAddressTooLong   = violation("Location.AddressTooLong", "Address must be at most 500 characters long.")
	ErrCityRequired     = violation("Location.CityRequired", "City is required.")
	ErrCityTooLong      = violation("Location.CityTooLong", "City must be at most 100 characters long.")
	ErrStateRequired    = violation("Location.StateRequired", "State is required.")
	ErrStateTooLong     = violation("Location.StateTooLong", "State must be at most 100 characters long.")
	ErrCountryRequired  = violation("Location.CountryRequired", "Country is required.")
	ErrCountryTooLong   = violation("Location.CountryTooLong", "Country must be at most 100 characters long.")
	ErrInvalidLatitude  = violation("Location.InvalidLatitude", "Latitude must be between -90 and 90.")
	ErrInvalidLongitude = violation("Location.InvalidLongitude", "Longitude must be between -180 and 180.")

	ErrCropTypeRequired     = violation("CropType.Required", "Crop type is required.")
	ErrCropTypeTooLong      = violation("CropType.TooLong", "Crop type must be at most 100 characters long.")
	ErrCropTypeInvalidValue = violation("CropType.InvalidValue", "Crop type contains invalid characters.")

	ErrSensorTypeRequired     = violation("SensorType.Required", "Sensor type is required.")
	ErrSensorTypeInvalidValue = violation("SensorType.InvalidValue", "Sensor type is not supported.")
	ErrSensorStatusInvalid    = violation("SensorStatus.InvalidValue", "Sensor status is not supported.")
)

// ---------------- Property ----------------

var (
	ErrPropertyOwnerRequired      = violation("Property.OwnerIdRequired", "Owner id is required.")
	ErrPropertyNotFound           = violation("Property.NotFound", "Property not found.")
	ErrPropertyNotAuthorized      = violation("Property.NotAuthorized", "You are not allowed to manage this property.")
	ErrPropertyAlreadyActivated   = violation("Property.AlreadyActivated", "Property is already active.")
	ErrPropertyAlreadyDeactivated = violation("Property.AlreadyDeactivated", "Property is already deactivated.")
	ErrPropertyUnchanged          = violation("Property.Unchanged", "Update does not change the property.")
	ErrPropertyConcurrentUpdate   = violation("Property.ConcurrentUpdate", "Property was modified by another request.")
)

// ---------------- Plot ----------------

var (
	ErrPlotPropertyRequired   = violation("Plot.PropertyIdRequired", "Property id is required.")
	ErrPlotNotFound           = violation("Plot.NotFound", "Plot not found.")
	ErrPlotAlreadyActivated   = violation("Plot.AlreadyActivated", "Plot is already active.")
	ErrPlotAlreadyDeactivated = violation("Plot.AlreadyDeactivated", "Plot is already deactivated.")
	ErrPlotUnchanged          = violation("Plot.Unchanged", "Update does not change the plot.")
	ErrPlotCropTypeUnchanged  = violation("Plot.CropTypeUnchanged", "Plot already has this crop type.")
	ErrPlotConcurrentUpdate   = violation("Plot.ConcurrentUpdate", "Plot was modified by another request.")
)

// ---------------- Sensor ----------------

var (
	ErrSensorPlotRequired       = violation("Sensor.PlotIdRequired", "Plot id is required.")
	ErrSensorNotFound           = violation("Sensor.NotFound", "Sensor not found.")
	ErrSensorAlreadyActive      = violation("Sensor.AlreadyActive", "Sensor status is already Active.")
	ErrSensorAlreadyInactive    = violation("Sensor.AlreadyInactive", "Sensor status is already Inactive.")
	ErrSensorAlreadyMaintenance = violation("Sensor.AlreadyInMaintenance", "Sensor is already in maintenance.")
	ErrSensorAlreadyFaulty      = violation("Sensor.AlreadyFaulty", "Sensor is already marked as faulty.")
	ErrSensorAlreadyActivated   = violation("Sensor.AlreadyActivated", "Sensor is already active.")
	ErrSensorAlreadyDeactivated = violation("Sensor.AlreadyDeactivated", "Sensor is already deactivated.")
	ErrSensorLabelUnchanged     = violation("Sensor.LabelUnchanged", "Sensor already has this label.")
	ErrSensorConcurrentUpdate   = violation("Sensor.ConcurrentUpdate", "Sensor was modified by another request.")
)

// catalog se construye una vez al cargar el paquete y nunca se modifica.
var catalog = func() map[string]shared.Violation {
	all := []shared.Violation{
		ErrNameRequired, ErrNameTooShort, ErrNameTooLong, ErrNameInvalidFormat, ErrNameDuplicate, ErrLabelDuplicate,
		ErrAreaInvalidValue, ErrAreaTooSmall, ErrAreaTooLarge,
		ErrAddressRequired, ErrAddressTooLong, ErrCityRequired, ErrCityTooLong,
		ErrStateRequired, ErrStateTooLong, ErrCountryRequired, ErrCountryTooLong,
		ErrInvalidLatitude, ErrInvalidLongitude,
		ErrCropTypeRequired, ErrCropTypeTooLong, ErrCropTypeInvalidValue,
		ErrSensorTypeRequired, ErrSensorTypeInvalidValue, ErrSensorStatusInvalid,
		ErrPropertyOwnerRequired, ErrPropertyNotFound, ErrPropertyNotAuthorized,
		ErrPropertyAlreadyActivated, ErrPropertyAlreadyDeactivated, ErrPropertyUnchanged, ErrPropertyConcurrentUpdate,
		ErrPlotPropertyRequired, ErrPlotNotFound, ErrPlotAlreadyActivated, ErrPlotAlreadyDeactivated,
		ErrPlotUnchanged, ErrPlotCropTypeUnchanged, ErrPlotConcurrentUpdate,
		ErrSensorPlotRequired, ErrSensorNotFound, ErrSensorAlreadyActive, ErrSensorAlreadyInactive,
		ErrSensorAlreadyMaintenance, ErrSensorAlreadyFaulty, ErrSensorAlreadyActivated,
		ErrSensorAlreadyDeactivated, ErrSensorLabelUnchanged, ErrSensorConcurrentUpdate,
	}
	m := make(map[string]shared.Violation, len(all))
	for _, v := range all {
		m[v.Code] = v
	}
	return m
}()

// LookupViolation busca un código en el catálogo.
func LookupViolation(code string) (shared.Violation, bool) {
	v, ok := catalog[code]
	return v, ok
}

// ViolationCodes lista todos los códigos conocidos, ordenados.
func ViolationCodes() []string {
	codes := make([]string, 0, len(catalog))
	for code := range catalog {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
