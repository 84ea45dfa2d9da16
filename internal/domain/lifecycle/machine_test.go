package lifecycle_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/lifecycle"
)

func newTransformationMachine() *lifecycle.Machine[string] {
	return lifecycle.NewMachine("transformation_order", map[string][]string{
		entity.StatusDraft:     {entity.StatusPreparing, entity.StatusCancelled},
		entity.StatusPreparing: {entity.StatusCompleted, entity.StatusCancelled},
	})
}

func TestMachine_TransicionesPermitidas(t *testing.T) {
	m := newTransformationMachine()

	require.NoError(t, m.Transition(entity.StatusDraft, entity.StatusPreparing))
	require.NoError(t, m.Transition(entity.StatusDraft, entity.StatusCancelled))
	require.NoError(t, m.Transition(entity.StatusPreparing, entity.StatusCompleted))
}

func TestMachine_TransicionRechazada(t *testing.T) {
	m := newTransformationMachine()

	// PREPARING no puede volver a DRAFT
	err := m.Transition(entity.StatusPreparing, entity.StatusDraft)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	var typed *domain.InvalidTransitionError
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, entity.StatusPreparing, typed.From)
	assert.Equal(t, entity.StatusDraft, typed.To)
}

func TestMachine_EstadosTerminales(t *testing.T) {
	m := newTransformationMachine()

	assert.True(t, m.IsTerminal(entity.StatusCompleted))
	assert.True(t, m.IsTerminal(entity.StatusCancelled))
	assert.False(t, m.IsTerminal(entity.StatusDraft))

	// Un documento COMPLETED rechaza cualquier transición posterior.
	for _, target := range []string{entity.StatusDraft, entity.StatusPreparing, entity.StatusCancelled} {
		assert.ErrorIs(t, m.Transition(entity.StatusCompleted, target), domain.ErrInvalidTransition)
	}
}
