package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polisai/primecore/pkg/domain"
	"github.com/polisai/primecore/pkg/validate"
)

func TestFactorizeBatch(t *testing.T) {
	e := newTestEngine(t, Config{Workers: 2})

	inputs := []validate.Number{
		validate.Uint(12),
		validate.Float(2.5),
		validate.Uint(1000003 * 1009),
		validate.Int(-4),
		validate.Uint(1),
	}

	results, err := e.FactorizeBatch(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, results, len(inputs))

	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, inputs[i].String(), r.Input)
	}

	assert.Equal(t, []domain.Bounded64{2, 2, 3}, results[0].Factors)
	assert.ErrorIs(t, results[1].Err, domain.ErrNotIntegral)
	assert.Equal(t, []domain.Bounded64{1009, 1000003}, results[2].Factors)
	assert.ErrorIs(t, results[3].Err, domain.ErrOutOfRange)
	assert.Empty(t, results[4].Factors)
	assert.NoError(t, results[4].Err)
}

func TestFactorizeBatch_Empty(t *testing.T) {
	e := newTestEngine(t, Config{})

	results, err := e.FactorizeBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFactorizeBatch_Cancelled(t *testing.T) {
	e := newTestEngine(t, Config{Workers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := e.FactorizeBatch(ctx, []validate.Number{validate.Uint(10), validate.Uint(15)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}
