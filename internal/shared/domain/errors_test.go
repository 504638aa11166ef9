package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type pinged struct{ EventHeader }

func (pinged) EventName() string { return "Pinged" }

var (
	errA = Violation{Code: "A.Bad", Message: "a is bad"}
	errB = Violation{Code: "B.Bad", Message: "b is bad"}
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"validation", Validation(errA), KindValidation},
		{"wrapped not found", fmt.Errorf("ctx: %w", NotFound(errA)), KindNotFound},
		{"forbidden", Forbidden(errA), KindForbidden},
		{"conflict", Conflict(errA, errors.New("stale")), KindConflict},
		{"plain error", errors.New("boom"), KindUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestUnexpected_KeepsExistingDomainError(t *testing.T) {
	nf := NotFound(errA)
	got := Unexpected(fmt.Errorf("wrapped: %w", nf))
	assert.Equal(t, KindNotFound, got.Kind)

	plain := errors.New("disk full")
	got = Unexpected(plain)
	assert.Equal(t, KindUnexpected, got.Kind)
	assert.ErrorIs(t, got, plain)
}

func TestViolations_Accumulate(t *testing.T) {
	var vs Violations
	assert.NoError(t, vs.Err())

	vs.Add(errA)
	assert.True(t, vs.Merge(Validation(errB)))
	assert.True(t, vs.Merge(nil))
	assert.False(t, vs.Merge(NotFound(errA)), "only validation errors merge")
	assert.False(t, vs.Merge(errors.New("io")))

	err := vs.Err()
	var dErr *Error
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, KindValidation, dErr.Kind)
	assert.Equal(t, []Violation{errA, errB}, dErr.Violations)
	assert.True(t, dErr.HasCode("B.Bad"))
	assert.False(t, dErr.HasCode("C.Bad"))
}

func TestError_Message(t *testing.T) {
	err := Conflict(errA, errors.New("version 3"))
	assert.Equal(t, "CONFLICT: A.Bad: a is bad: version 3", err.Error())
	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindValidation))
}

func TestActor_CanManage(t *testing.T) {
	owner := uuid.New()

	assert.True(t, Actor{ID: owner, Role: RoleProducer}.CanManage(owner))
	assert.False(t, Actor{ID: uuid.New(), Role: RoleProducer}.CanManage(owner))
	assert.True(t, Actor{ID: uuid.New(), Role: RoleAdmin}.CanManage(owner))
	assert.False(t, Actor{ID: uuid.Nil, Role: RoleUser}.CanManage(uuid.Nil), "nil owner never matches")

	role, ok := ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, role)
	_, ok = ParseRole("root")
	assert.False(t, ok)
}

func TestRoot_RecordAndCommit(t *testing.T) {
	var r Root
	r.Born(uuid.New(), fixedTime)
	r.Record(pinged{EventHeader{ID: r.ID(), At: fixedTime}})

	events := r.UncommittedEvents()
	require.Len(t, events, 1)
	events[0] = nil
	assert.NotNil(t, r.UncommittedEvents()[0], "UncommittedEvents returns a copy")

	r.MarkCommitted()
	assert.Empty(t, r.UncommittedEvents())
	assert.Equal(t, 1, r.Version())
}

func TestRoot_Restore(t *testing.T) {
	id := uuid.New()
	updated := fixedTime.Add(time.Hour)

	var r Root
	r.Record(pinged{})
	r.Restore(RootSnapshot{ID: id, Version: 4, IsActive: false, CreatedAt: fixedTime, UpdatedAt: &updated})

	assert.Equal(t, id, r.ID())
	assert.Equal(t, 4, r.Version())
	assert.False(t, r.IsActive())
	assert.False(t, r.HasUncommitted())
	require.NotNil(t, r.UpdatedAt())
	assert.True(t, updated.Equal(*r.UpdatedAt()))
}
