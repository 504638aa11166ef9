package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	shared "github.com/davicafu/agrofarm/internal/shared/domain"
)

const SensorKind = "sensor"

// Sensor tiene dos ejes independientes: el estado operativo (Status) y la
// baja lógica (IsActive). Cambiar uno nunca toca el otro.
type Sensor struct {
	shared.Root
	plotID      uuid.UUID
	sensorType  SensorType
	status      SensorStatus
	label       *Name
	installedAt time.Time
}

func (s *Sensor) Kind() string           { return SensorKind }
func (s *Sensor) PlotID() uuid.UUID      { return s.plotID }
func (s *Sensor) Type() SensorType       { return s.sensorType }
func (s *Sensor) Status() SensorStatus   { return s.status }
func (s *Sensor) InstalledAt() time.Time { return s.installedAt }

// Label devuelve "" si el sensor no tiene etiqueta.
func (s *Sensor) Label() string {
	if s.label == nil {
		return ""
	}
	return s.label.String()
}

// ---------------- Events ----------------

// SensorEvent es el conjunto cerrado de eventos de Sensor.
//
//sumtype:decl
type SensorEvent interface {
	shared.DomainEvent
	isSensorEvent()
}

type SensorRegistered struct {
	shared.EventHeader
	PlotID uuid.UUID    `json:"plotId"`
	Type   SensorType   `json:"type"`
	Status SensorStatus `json:"status"`
	Label  *string      `json:"label,omitempty"`
}

type SensorLabelUpdated struct {
	shared.EventHeader
	Label *string `json:"label,omitempty"`
}

type SensorStatusChanged struct {
	shared.EventHeader
	PreviousStatus SensorStatus `json:"previousStatus"`
	Status         SensorStatus `json:"status"`
}

type SensorDeactivated struct {
	shared.EventHeader
}

type SensorActivated struct {
	shared.EventHeader
}

func (SensorRegistered) EventName() string    { return "SensorRegistered" }
func (SensorLabelUpdated) EventName() string  { return "SensorLabelUpdated" }
func (SensorStatusChanged) EventName() string { return "SensorStatusChanged" }
func (SensorDeactivated) EventName() string   { return "SensorDeactivated" }
func (SensorActivated) EventName() string     { return "SensorActivated" }

func (SensorRegistered) isSensorEvent()    {}
func (SensorLabelUpdated) isSensorEvent()  {}
func (SensorStatusChanged) isSensorEvent() {}
func (SensorDeactivated) isSensorEvent()   {}
func (SensorActivated) isSensorEvent()     {}

// ---------------- Factory & commands ----------------

func parseLabel(raw *string) (*Name, error) {
	if raw == nil {
		return nil, nil
	}
	name, err := NewName(*raw)
	if err != nil {
		return nil, err
	}
	return &name, nil
}

func labelString(n *Name) *string {
	if n == nil {
		return nil
	}
	v := n.String()
	return &v
}

// ValidateSensorInput comprueba tipo y etiqueta sin construir nada.
func ValidateSensorInput(rawType string, label *string) error {
	var errs shared.Violations
	_, err := ParseSensorType(rawType)
	errs.Merge(err)
	_, err = parseLabel(label)
	errs.Merge(err)
	return errs.Err()
}

// RegisterSensor da de alta un sensor en estado Active.
func RegisterSensor(plotID uuid.UUID, rawType string, label *string) (*Sensor, error) {
	var errs shared.Violations

	if plotID == uuid.Nil {
		errs.Add(ErrSensorPlotRequired)
	}
	sensorType, err := ParseSensorType(rawType)
	errs.Merge(err)
	name, err := parseLabel(label)
	errs.Merge(err)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	s := &Sensor{}
	s.raise(SensorRegistered{
		EventHeader: shared.NewEventHeader(uuid.New()),
		PlotID:      plotID,
		Type:        sensorType,
		Status:      StatusActive,
		Label:       labelString(name),
	})
	return s, nil
}

// UpdateLabel cambia o elimina (nil) la etiqueta.
func (s *Sensor) UpdateLabel(raw *string) error {
	name, err := parseLabel(raw)
	if err != nil {
		return err
	}
	if s.Label() == derefLabel(name) {
		return shared.Validation(ErrSensorLabelUnchanged)
	}
	s.raise(SensorLabelUpdated{
		EventHeader: shared.NewEventHeader(s.ID()),
		Label:       labelString(name),
	})
	return nil
}

func derefLabel(n *Name) string {
	if n == nil {
		return ""
	}
	return n.String()
}

// ChangeStatus rechaza la transición a su mismo estado.
func (s *Sensor) ChangeStatus(status SensorStatus) error {
	target, err := ParseSensorStatus(string(status))
	if err != nil {
		return err
	}
	if s.status == target {
		return shared.Validation(target.alreadyIn())
	}
	s.raise(SensorStatusChanged{
		EventHeader:    shared.NewEventHeader(s.ID()),
		PreviousStatus: s.status,
		Status:         target,
	})
	return nil
}

func (s *Sensor) SetActive() error      { return s.ChangeStatus(StatusActive) }
func (s *Sensor) SetInactive() error    { return s.ChangeStatus(StatusInactive) }
func (s *Sensor) SetMaintenance() error { return s.ChangeStatus(StatusMaintenance) }
func (s *Sensor) SetFaulty() error      { return s.ChangeStatus(StatusFaulty) }

func (s *Sensor) Deactivate() error {
	if !s.IsActive() {
		return shared.Validation(ErrSensorAlreadyDeactivated)
	}
	s.raise(SensorDeactivated{EventHeader: shared.NewEventHeader(s.ID())})
	return nil
}

func (s *Sensor) Activate() error {
	if s.IsActive() {
		return shared.Validation(ErrSensorAlreadyActivated)
	}
	s.raise(SensorActivated{EventHeader: shared.NewEventHeader(s.ID())})
	return nil
}

// ---------------- Event application ----------------

func (s *Sensor) raise(e SensorEvent) {
	s.Record(e)
	s.apply(e)
}

func (s *Sensor) apply(e SensorEvent) {
	switch e := e.(type) {
	case SensorRegistered:
		s.Born(e.ID, e.At)
		s.plotID = e.PlotID
		s.sensorType = e.Type
		s.status = e.Status
		s.label = labelFrom(e.Label)
		s.installedAt = e.At
	case SensorLabelUpdated:
		s.label = labelFrom(e.Label)
		s.Touch(e.At)
	case SensorStatusChanged:
		s.status = e.Status
		s.Touch(e.At)
	case SensorDeactivated:
		s.MarkActive(false)
		s.Touch(e.At)
	case SensorActivated:
		s.MarkActive(true)
		s.Touch(e.At)
	default:
		panic(fmt.Sprintf("sensor: unhandled event %T", e))
	}
}

func labelFrom(raw *string) *Name {
	if raw == nil {
		return nil
	}
	n := nameFrom(*raw)
	return &n
}

func ReplaySensor(history ...SensorEvent) *Sensor {
	s := &Sensor{}
	for _, e := range history {
		s.apply(e)
	}
	return s
}

// ---------------- Persistence ----------------

type SensorSnapshot struct {
	shared.RootSnapshot
	PlotID      uuid.UUID
	Type        SensorType
	Status      SensorStatus
	Label       *string
	InstalledAt time.Time
}

func (s *Sensor) Snapshot() SensorSnapshot {
	return SensorSnapshot{
		RootSnapshot: shared.RootSnapshot{
			ID:        s.ID(),
			Version:   s.Version(),
			IsActive:  s.IsActive(),
			CreatedAt: s.CreatedAt(),
			UpdatedAt: s.UpdatedAt(),
		},
		PlotID:      s.plotID,
		Type:        s.sensorType,
		Status:      s.status,
		Label:       labelString(s.label),
		InstalledAt: s.installedAt,
	}
}

func RestoreSensor(snap SensorSnapshot) *Sensor {
	s := &Sensor{
		plotID:      snap.PlotID,
		sensorType:  snap.Type,
		status:      snap.Status,
		label:       labelFrom(snap.Label),
		installedAt: snap.InstalledAt,
	}
	s.Restore(snap.RootSnapshot)
	return s
}
