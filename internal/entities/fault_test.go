package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivedEquipmentStatus(t *testing.T) {
	assert.Equal(t, EquipmentStatusActive, DerivedEquipmentStatus(nil))

	mild := Fault{Estado: FaultStatusOpen, Prioridad: PriorityNormal, Impacto: ImpactLow}
	assert.Equal(t, EquipmentStatusFaulty, DerivedEquipmentStatus([]Fault{mild}))

	byPriority := Fault{Estado: FaultStatusOpen, Prioridad: PriorityCritical, Impacto: ImpactLow}
	assert.Equal(t, EquipmentStatusOutOfService, DerivedEquipmentStatus([]Fault{mild, byPriority}))

	byImpact := Fault{Estado: FaultStatusInProgress, Prioridad: PriorityLow, Impacto: ImpactCritical}
	assert.Equal(t, EquipmentStatusOutOfService, DerivedEquipmentStatus([]Fault{byImpact}))
}

func TestFaultTransitions(t *testing.T) {
	open := Fault{Estado: FaultStatusOpen}
	assert.True(t, open.CanTransitionTo(FaultStatusInProgress))
	assert.True(t, open.CanTransitionTo(FaultStatusResolved))
	assert.True(t, open.CanTransitionTo(FaultStatusCancelled))

	inProgress := Fault{Estado: FaultStatusInProgress}
	assert.False(t, inProgress.CanTransitionTo(FaultStatusOpen))
	assert.True(t, inProgress.CanTransitionTo(FaultStatusResolved))

	for _, terminal := range []string{FaultStatusResolved, FaultStatusCancelled} {
		f := Fault{Estado: terminal}
		assert.True(t, f.IsTerminal())
		assert.False(t, f.CanTransitionTo(FaultStatusOpen))
		assert.False(t, f.CanTransitionTo(FaultStatusInProgress))
	}
}

func TestIsSevere(t *testing.T) {
	assert.True(t, (&Fault{Prioridad: PriorityCritical}).IsSevere())
	assert.True(t, (&Fault{Impacto: ImpactCritical}).IsSevere())
	assert.False(t, (&Fault{Prioridad: PriorityHigh, Impacto: ImpactHigh}).IsSevere())
}
