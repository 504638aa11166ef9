package application

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/davicafu/agrofarm/internal/farm/domain"
	shared "github.com/davicafu/agrofarm/internal/shared/domain"
)

func TestTranslateFarmEvent(t *testing.T) {
	id := uuid.New()
	header := shared.NewEventHeader(id)

	tests := []struct {
		name     string
		event    shared.DomainEvent
		wantType string
		payload  any
	}{
		{
			name:     "plot crop type",
			event:    domain.PlotCropTypeChanged{EventHeader: header, PreviousCropType: "Soy", CropType: "Corn"},
			wantType: domain.PlotCropTypeChangedEvent,
			payload:  domain.PlotCropTypePayload{PlotID: id, PreviousCropType: "Soy", CropType: "Corn"},
		},
		{
			name:     "sensor status",
			event:    domain.SensorStatusChanged{EventHeader: header, PreviousStatus: domain.StatusActive, Status: domain.StatusFaulty},
			wantType: domain.SensorStatusChangedEvent,
			payload:  domain.SensorStatusPayload{SensorID: id, PreviousStatus: domain.StatusActive, Status: domain.StatusFaulty},
		},
		{
			name:     "property deactivated",
			event:    domain.PropertyDeactivated{EventHeader: header},
			wantType: domain.PropertyDeactivatedEvent,
			payload:  domain.LifecyclePayload{ID: id, IsActive: false},
		},
		{
			name:     "sensor activated",
			event:    domain.SensorActivated{EventHeader: header},
			wantType: domain.SensorActivatedEvent,
			payload:  domain.LifecyclePayload{ID: id, IsActive: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventType, payload, ok := translateFarmEvent(tt.event)

			assert.True(t, ok)
			assert.Equal(t, tt.wantType, eventType)
			assert.Equal(t, tt.payload, payload)
		})
	}
}

func TestTranslateFarmEvent_LabelUpdateStaysInternal(t *testing.T) {
	_, _, ok := translateFarmEvent(domain.SensorLabelUpdated{EventHeader: shared.NewEventHeader(uuid.New())})
	assert.False(t, ok)
}

func TestTranslateFarmEvent_EveryPublishedTypeIsRegistered(t *testing.T) {
	registry := domain.NewEventRegistry()
	p, err := domain.CreateProperty(domain.PropertyInput{
		Name: "Fazenda", Address: "Rua 1", City: "Goiânia", State: "GO", Country: "Brazil", AreaHectares: 10,
	}, uuid.New())
	assert.NoError(t, err)

	for _, evt := range p.UncommittedEvents() {
		eventType, _, ok := translateFarmEvent(evt)
		assert.True(t, ok)
		assert.Contains(t, registry, eventType)
	}
}
