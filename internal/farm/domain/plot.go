package domain

import (
	"fmt"

	"github.com/google/uuid"

	shared "github.com/davicafu/agrofarm/internal/shared/domain"
)

const PlotKind = "plot"

type PlotInput struct {
	Name         string
	CropType     string
	AreaHectares float64
}

type plotFields struct {
	name     Name
	cropType CropType
	area     Area
}

func parsePlotInput(in PlotInput) (plotFields, error) {
	var errs shared.Violations

	name, err := NewName(in.Name)
	errs.Merge(err)
	cropType, err := NewCropType(in.CropType)
	errs.Merge(err)
	area, err := NewArea(in.AreaHectares)
	errs.Merge(err)

	if err := errs.Err(); err != nil {
		return plotFields{}, err
	}
	return plotFields{name: name, cropType: cropType, area: area}, nil
}

func ValidatePlotInput(in PlotInput) error {
	_, err := parsePlotInput(in)
	return err
}

// Plot es una parcela dentro de una propiedad. Solo guarda el id del padre.
type Plot struct {
	shared.Root
	propertyID uuid.UUID
	name       Name
	cropType   CropType
	area       Area
}

func (p *Plot) Kind() string          { return PlotKind }
func (p *Plot) PropertyID() uuid.UUID { return p.propertyID }
func (p *Plot) Name() Name            { return p.name }
func (p *Plot) CropType() CropType    { return p.cropType }
func (p *Plot) Area() Area            { return p.area }

// ---------------- Events ----------------

// PlotEvent es el conjunto cerrado de eventos de Plot.
//
//sumtype:decl
type PlotEvent interface {
	shared.DomainEvent
	isPlotEvent()
}

type PlotCreated struct {
	shared.EventHeader
	PropertyID   uuid.UUID `json:"propertyId"`
	Name         string    `json:"name"`
	CropType     string    `json:"cropType"`
	AreaHectares float64   `json:"areaHectares"`
}

type PlotUpdated struct {
	shared.EventHeader
	Name         string  `json:"name"`
	CropType     string  `json:"cropType"`
	AreaHectares float64 `json:"areaHectares"`
}

type PlotCropTypeChanged struct {
	shared.EventHeader
	PreviousCropType string `json:"previousCropType"`
	CropType         string `json:"cropType"`
}

type PlotDeactivated struct {
	shared.EventHeader
}

type PlotActivated struct {
	shared.EventHeader
}

func (PlotCreated) EventName() string         { return "PlotCreated" }
func (PlotUpdated) EventName() string         { return "PlotUpdated" }
func (PlotCropTypeChanged) EventName() string { return "PlotCropTypeChanged" }
func (PlotDeactivated) EventName() string     { return "PlotDeactivated" }
func (PlotActivated) EventName() string       { return "PlotActivated" }

func (PlotCreated) isPlotEvent()         {}
func (PlotUpdated) isPlotEvent()         {}
func (PlotCropTypeChanged) isPlotEvent() {}
func (PlotDeactivated) isPlotEvent()     {}
func (PlotActivated) isPlotEvent()       {}

// ---------------- Factory & commands ----------------

func CreatePlot(propertyID uuid.UUID, in PlotInput) (*Plot, error) {
	var errs shared.Violations

	if propertyID == uuid.Nil {
		errs.Add(ErrPlotPropertyRequired)
	}
	fields, err := parsePlotInput(in)
	errs.Merge(err)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	p := &Plot{}
	p.raise(PlotCreated{
		EventHeader:  shared.NewEventHeader(uuid.New()),
		PropertyID:   propertyID,
		Name:         fields.name.String(),
		CropType:     fields.cropType.String(),
		AreaHectares: fields.area.Hectares(),
	})
	return p, nil
}

func (p *Plot) Update(in PlotInput) error {
	fields, err := parsePlotInput(in)
	if err != nil {
		return err
	}
	if fields.name.String() == p.name.String() &&
		fields.cropType.String() == p.cropType.String() &&
		fields.area == p.area {
		return shared.Validation(ErrPlotUnchanged)
	}

	p.raise(PlotUpdated{
		EventHeader:  shared.NewEventHeader(p.ID()),
		Name:         fields.name.String(),
		CropType:     fields.cropType.String(),
		AreaHectares: fields.area.Hectares(),
	})
	return nil
}

func (p *Plot) ChangeCropType(raw string) error {
	cropType, err := NewCropType(raw)
	if err != nil {
		return err
	}
	if cropType.Equal(p.cropType) {
		return shared.Validation(ErrPlotCropTypeUnchanged)
	}

	p.raise(PlotCropTypeChanged{
		EventHeader:      shared.NewEventHeader(p.ID()),
		PreviousCropType: p.cropType.String(),
		CropType:         cropType.String(),
	})
	return nil
}

func (p *Plot) Deactivate() error {
	if !p.IsActive() {
		return shared.Validation(ErrPlotAlreadyDeactivated)
	}
	p.raise(PlotDeactivated{EventHeader: shared.NewEventHeader(p.ID())})
	return nil
}

func (p *Plot) Activate() error {
	if p.IsActive() {
		return shared.Validation(ErrPlotAlreadyActivated)
	}
	p.raise(PlotActivated{EventHeader: shared.NewEventHeader(p.ID())})
	return nil
}

// ---------------- Event application ----------------

func (p *Plot) raise(e PlotEvent) {
	p.Record(e)
	p.apply(e)
}

func (p *Plot) apply(e PlotEvent) {
	switch e := e.(type) {
	case PlotCreated:
		p.Born(e.ID, e.At)
		p.propertyID = e.PropertyID
		p.name = nameFrom(e.Name)
		p.cropType = cropTypeFrom(e.CropType)
		p.area = areaFrom(e.AreaHectares)
	case PlotUpdated:
		p.name = nameFrom(e.Name)
		p.cropType = cropTypeFrom(e.CropType)
		p.area = areaFrom(e.AreaHectares)
		p.Touch(e.At)
	case PlotCropTypeChanged:
		p.cropType = cropTypeFrom(e.CropType)
		p.Touch(e.At)
	case PlotDeactivated:
		p.MarkActive(false)
		p.Touch(e.At)
	case PlotActivated:
		p.MarkActive(true)
		p.Touch(e.At)
	default:
		panic(fmt.Sprintf("plot: unhandled event %T", e))
	}
}

func ReplayPlot(history ...PlotEvent) *Plot {
	p := &Plot{}
	for _, e := range history {
		p.apply(e)
	}
	return p
}

// ---------------- Persistence ----------------

type PlotSnapshot struct {
	shared.RootSnapshot
	PropertyID   uuid.UUID
	Name         string
	CropType     string
	AreaHectares float64
}

func (p *Plot) Snapshot() PlotSnapshot {
	return PlotSnapshot{
		RootSnapshot: shared.RootSnapshot{
			ID:        p.ID(),
			Version:   p.Version(),
			IsActive:  p.IsActive(),
			CreatedAt: p.CreatedAt(),
			UpdatedAt: p.UpdatedAt(),
		},
		PropertyID:   p.propertyID,
		Name:         p.name.String(),
		CropType:     p.cropType.String(),
		AreaHectares: p.area.Hectares(),
	}
}

func RestorePlot(s PlotSnapshot) *Plot {
	p := &Plot{
		propertyID: s.PropertyID,
		name:       nameFrom(s.Name),
		cropType:   cropTypeFrom(s.CropType),
		area:       areaFrom(s.AreaHectares),
	}
	p.Restore(s.RootSnapshot)
	return p
}
