package domain

import (
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	shared "github.com/davicafu/agrofarm/internal/shared/domain"
)

func TestViolationCatalog(t *testing.T) {
	v, ok := LookupViolation("Sensor.AlreadyInMaintenance")
	assert.True(t, ok)
	assert.Equal(t, ErrSensorAlreadyMaintenance, v)

	_, ok = LookupViolation("Sensor.Exploded")
	assert.False(t, ok)

	codes := ViolationCodes()
	assert.True(t, sort.StringsAreSorted(codes))
	assert.Len(t, codes, len(catalog))
	assert.Contains(t, codes, "Property.ConcurrentUpdate")
}

func TestUniquenessCriteria(t *testing.T) {
	owner := uuid.New()
	self := uuid.New()

	fresh := PropertyNameTaken(owner, "Fazenda", uuid.Nil).ToConditions()
	assert.Equal(t, []shared.Criterion{
		{Field: "owner_id", Op: shared.OpEq, Value: owner.String()},
		{Field: "name_key", Op: shared.OpEq, Value: "fazenda"},
		{Field: "is_active", Op: shared.OpEq, Value: true},
	}, fresh)

	existing := SensorLabelTaken(owner, "Norte", self).ToConditions()
	assert.Len(t, existing, 4)
	assert.Contains(t, existing, shared.Criterion{Field: "id", Op: shared.OpNeq, Value: self.String()})
}

func TestEventRegistry(t *testing.T) {
	registry := NewEventRegistry()

	assert.Len(t, registry, 13)
	for eventType, meta := range registry {
		assert.Equal(t, FarmTopic, meta.Topic, eventType)
	}
	_, ok := registry["sensor.label-updated"]
	assert.False(t, ok)
}

func TestCacheKeyByID(t *testing.T) {
	id := uuid.MustParse("7d9f3c1e-0b5a-4a8e-9c2f-1e2d3c4b5a69")

	assert.Equal(t, "properties:by-id:"+id.String(), CacheKeyByID(PropertyKind, id))
	assert.Equal(t, "plots:by-id:"+id.String(), CacheKeyByID(PlotKind, id))
	assert.Equal(t, "sensors:by-id:"+id.String(), CacheKeyByID(SensorKind, id))
}
