package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSensor(t *testing.T, label *string) *Sensor {
	t.Helper()
	s, err := RegisterSensor(uuid.New(), "Temperature", label)
	require.NoError(t, err)
	return s
}

func TestRegisterSensor(t *testing.T) {
	plotID := uuid.New()

	s, err := RegisterSensor(plotID, "humidity", ptr("  Estação 1 "))

	require.NoError(t, err)
	assert.Equal(t, plotID, s.PlotID())
	assert.Equal(t, SensorHumidity, s.Type())
	assert.Equal(t, StatusActive, s.Status())
	assert.Equal(t, "Estação 1", s.Label())
	assert.True(t, s.IsActive())
	assert.Equal(t, s.CreatedAt(), s.InstalledAt())
}

func TestRegisterSensor_AccumulatesErrors(t *testing.T) {
	_, err := RegisterSensor(uuid.Nil, "Radar", ptr(""))

	assert.Equal(t, []string{
		"Sensor.PlotIdRequired",
		"SensorType.InvalidValue",
		"Name.Required",
	}, violationCodes(t, err))
}

func TestSensor_UpdateLabel(t *testing.T) {
	tests := []struct {
		name    string
		current *string
		next    *string
		want    string
		wantErr string
	}{
		{name: "set label", current: nil, next: ptr("Norte"), want: "Norte"},
		{name: "remove label", current: ptr("Norte"), next: nil, want: ""},
		{name: "same label", current: ptr("Norte"), next: ptr(" Norte "), wantErr: "Sensor.LabelUnchanged"},
		{name: "still no label", current: nil, next: nil, wantErr: "Sensor.LabelUnchanged"},
		{name: "invalid label", current: nil, next: ptr("N"), wantErr: "Name.TooShort"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSensor(t, tt.current)

			err := s.UpdateLabel(tt.next)

			if tt.wantErr != "" {
				assert.Equal(t, []string{tt.wantErr}, violationCodes(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Label())
			assert.IsType(t, SensorLabelUpdated{}, s.UncommittedEvents()[1])
		})
	}
}

func TestSensor_ChangeStatus(t *testing.T) {
	s := newTestSensor(t, nil)

	assert.Equal(t, []string{"Sensor.AlreadyActive"}, violationCodes(t, s.SetActive()))

	require.NoError(t, s.SetMaintenance())
	assert.Equal(t, []string{"Sensor.AlreadyInMaintenance"}, violationCodes(t, s.SetMaintenance()))

	require.NoError(t, s.SetFaulty())
	assert.Equal(t, []string{"Sensor.AlreadyFaulty"}, violationCodes(t, s.SetFaulty()))

	require.NoError(t, s.SetInactive())
	assert.Equal(t, []string{"Sensor.AlreadyInactive"}, violationCodes(t, s.SetInactive()))

	assert.Equal(t, []string{"SensorStatus.InvalidValue"}, violationCodes(t, s.ChangeStatus("Broken")))

	last := s.UncommittedEvents()[3].(SensorStatusChanged)
	assert.Equal(t, StatusFaulty, last.PreviousStatus)
	assert.Equal(t, StatusInactive, last.Status)
}

func TestSensor_ChangeStatus_CanonicalizesRawValue(t *testing.T) {
	s := newTestSensor(t, nil)

	assert.Equal(t, []string{"Sensor.AlreadyActive"}, violationCodes(t, s.ChangeStatus("active")))
	assert.Len(t, s.UncommittedEvents(), 1)

	require.NoError(t, s.ChangeStatus(" maintenance "))
	assert.Equal(t, StatusMaintenance, s.Status())
	changed := s.UncommittedEvents()[1].(SensorStatusChanged)
	assert.Equal(t, StatusMaintenance, changed.Status)
}

func TestSensor_StatusAndActivationAreIndependent(t *testing.T) {
	s := newTestSensor(t, nil)

	require.NoError(t, s.Deactivate())
	assert.Equal(t, StatusActive, s.Status())
	assert.False(t, s.IsActive())

	require.NoError(t, s.SetMaintenance())
	assert.False(t, s.IsActive())

	assert.Equal(t, []string{"Sensor.AlreadyDeactivated"}, violationCodes(t, s.Deactivate()))
	require.NoError(t, s.Activate())
	assert.Equal(t, StatusMaintenance, s.Status())
	assert.Equal(t, []string{"Sensor.AlreadyActivated"}, violationCodes(t, s.Activate()))
}

func TestReplaySensor_MatchesLiveState(t *testing.T) {
	s := newTestSensor(t, ptr("Sul"))
	require.NoError(t, s.UpdateLabel(nil))
	require.NoError(t, s.SetFaulty())
	require.NoError(t, s.Deactivate())

	var history []SensorEvent
	for _, e := range s.UncommittedEvents() {
		history = append(history, e.(SensorEvent))
	}

	assert.Equal(t, s.Snapshot(), ReplaySensor(history...).Snapshot())
	assert.Equal(t, s.Snapshot(), RestoreSensor(s.Snapshot()).Snapshot())
}
