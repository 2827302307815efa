package costing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestToBase(t *testing.T) {
	tests := []struct {
		amount float64
		unit   Unit
		want   float64
		base   BaseUnit
	}{
		{2, UnitKg, 2000, BaseGram},
		{500, UnitMg, 0.5, BaseGram},
		{1, UnitLb, 453.59237, BaseGram},
		{2, UnitTbsp, 29.5735295625, BaseMl},
		{1.5, UnitL, 1500, BaseMl},
		{1, UnitGallon, 3785.411784, BaseMl},
		{12, UnitEach, 12, BaseEach},
		{8, UnitSlices, 8, BaseSlices},
	}
	for _, tt := range tests {
		t.Run(string(tt.unit), func(t *testing.T) {
			q, err := ToBase(tt.amount, tt.unit)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, q.Amount, 1e-9)
			assert.Equal(t, tt.base, q.Unit)
		})
	}
}

func TestToBase_UnknownUnit(t *testing.T) {
	_, err := ToBase(1, Unit("furlong"))
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestRoundTripEveryUnit(t *testing.T) {
	amounts := []float64{0.001, 0.5, 1, 3.25, 250, 12345.678}
	for _, u := range Units() {
		for _, x := range amounts {
			q, err := ToBase(x, u)
			require.NoError(t, err)
			back, err := FromBase(q.Amount, q.Unit, u, nil)
			require.NoError(t, err)
			assert.LessOrEqual(t, math.Abs(back-x)/x, 1e-9, "unit %s amount %v", u, x)
		}
	}
}

func TestEveryUnitLandsInBase(t *testing.T) {
	for _, u := range Units() {
		base, err := BaseOf(u)
		require.NoError(t, err)
		assert.True(t, IsBaseUnit(base), "%s maps to non-base %s", u, base)
	}
	assert.Len(t, Units(), 16)
}

func TestFromBase(t *testing.T) {
	t.Run("same kind", func(t *testing.T) {
		v, err := FromBase(1500, BaseGram, UnitKg, nil)
		require.NoError(t, err)
		assert.InDelta(t, 1.5, v, 1e-12)
	})

	t.Run("mass to volume without density", func(t *testing.T) {
		_, err := FromBase(100, BaseGram, UnitCup, nil)
		assert.ErrorIs(t, err, ErrIncompatibleUnitKind)
	})

	t.Run("mass to volume with density", func(t *testing.T) {
		v, err := FromBase(206, BaseGram, UnitMl, ptr(1.03))
		require.NoError(t, err)
		assert.InDelta(t, 200, v, 1e-9)
	})

	t.Run("count never bridges", func(t *testing.T) {
		_, err := FromBase(3, BaseEach, UnitSlices, ptr(1))
		assert.ErrorIs(t, err, ErrIncompatibleUnitKind)
		_, err = FromBase(3, BaseEach, UnitG, ptr(1))
		assert.ErrorIs(t, err, ErrIncompatibleUnitKind)
	})

	t.Run("non base source", func(t *testing.T) {
		_, err := FromBase(3, UnitKg, UnitG, nil)
		assert.ErrorIs(t, err, ErrUnknownUnit)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := FromBase(3, BaseGram, Unit("stone"), nil)
		assert.True(t, errors.Is(err, ErrUnknownUnit))
	})
}

func TestConvert(t *testing.T) {
	v, err := Convert(1, UnitCup, UnitTbsp, nil)
	require.NoError(t, err)
	assert.InDelta(t, 16, v, 1e-9)

	v, err = Convert(1, UnitLb, UnitOz, nil)
	require.NoError(t, err)
	assert.InDelta(t, 16, v, 1e-9)

	v, err = Convert(1, UnitCup, UnitG, ptr(0.5))
	require.NoError(t, err)
	assert.InDelta(t, 118.29411825, v, 1e-9)
}

func TestParseUnit(t *testing.T) {
	tests := map[string]Unit{
		"g":       UnitG,
		" KG ":    UnitKg,
		"Grams":   UnitG,
		"fl oz":   UnitFlOz,
		"fl-oz":   UnitFlOz,
		"lbs":     UnitLb,
		"pcs":     UnitEach,
		"slice":   UnitSlices,
		"Gallons": UnitGallon,
	}
	for in, want := range tests {
		got, err := ParseUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseUnit("handful")
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestKindOf(t *testing.T) {
	k, err := KindOf(UnitTsp)
	require.NoError(t, err)
	assert.Equal(t, KindVolume, k)
	assert.Equal(t, "volume", k.String())

	_, err = KindOf("")
	assert.ErrorIs(t, err, ErrUnknownUnit)
}
