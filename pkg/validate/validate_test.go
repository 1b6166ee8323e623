package validate

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/polisai/primecore/pkg/domain"
)

func TestBounded(t *testing.T) {
	tooBig, _ := new(big.Int).SetString("18446744073709551616", 10)

	tests := []struct {
		name    string
		in      Number
		want    domain.Bounded64
		wantErr error
	}{
		{name: "zero int", in: Int(0), want: 0},
		{name: "positive int", in: Int(97), want: 97},
		{name: "negative int", in: Int(-1), wantErr: domain.ErrOutOfRange},
		{name: "max uint", in: Uint(math.MaxUint64), want: domain.MaxBounded64},
		{name: "integral float", in: Float(60.0), want: 60},
		{name: "negative zero float", in: Float(math.Copysign(0, -1)), want: 0},
		{name: "fractional float", in: Float(2.5), wantErr: domain.ErrNotIntegral},
		{name: "negative fractional float", in: Float(-2.5), wantErr: domain.ErrNotIntegral},
		{name: "nan", in: Float(math.NaN()), wantErr: domain.ErrNotIntegral},
		{name: "inf", in: Float(math.Inf(1)), wantErr: domain.ErrNotIntegral},
		{name: "negative float", in: Float(-3), wantErr: domain.ErrOutOfRange},
		{name: "float at 2^64", in: Float(two64), wantErr: domain.ErrOutOfRange},
		{name: "large exact float", in: Float(1 << 63), want: 1 << 63},
		{name: "big max", in: Big(new(big.Int).SetUint64(math.MaxUint64)), want: domain.MaxBounded64},
		{name: "big 2^64", in: Big(tooBig), wantErr: domain.ErrOutOfRange},
		{name: "big negative", in: Big(big.NewInt(-7)), wantErr: domain.ErrOutOfRange},
		{name: "zero value", in: Number{}, wantErr: domain.ErrNotIntegral},
		{name: "nil big", in: Big(nil), wantErr: domain.ErrNotIntegral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Bounded("n")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	n, err := Parse("n", " 18446744073709551615 ")
	require.NoError(t, err)
	assert.Equal(t, KindBig, n.Kind())
	v, err := n.Bounded("n")
	require.NoError(t, err)
	assert.Equal(t, domain.MaxBounded64, v)

	n, err = Parse("n", "18446744073709551616")
	require.NoError(t, err)
	_, err = n.Bounded("n")
	assert.ErrorIs(t, err, domain.ErrOutOfRange)

	n, err = Parse("n", "1e3")
	require.NoError(t, err)
	assert.Equal(t, KindFloat, n.Kind())
	v, err = n.Bounded("n")
	require.NoError(t, err)
	assert.Equal(t, domain.Bounded64(1000), v)

	n, err = Parse("n", "12.5")
	require.NoError(t, err)
	_, err = n.Bounded("n")
	assert.ErrorIs(t, err, domain.ErrNotIntegral)

	_, err = Parse("start", "twelve")
	assert.ErrorIs(t, err, domain.ErrNotIntegral)
	assert.Contains(t, err.Error(), "start")

	_, err = Parse("n", "   ")
	assert.ErrorIs(t, err, domain.ErrNotIntegral)
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("abc") })
	assert.NotPanics(t, func() { MustParse("42") })
}

func TestErrorNamesParameter(t *testing.T) {
	_, err := Int(-5).Bounded("diff")
	require.Error(t, err)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "diff", ve.Param)
	assert.Equal(t, "-5", ve.Value)
}

func TestBoundedProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		u := rapid.Uint64().Draw(t, "u")

		got, err := Uint(u).Bounded("n")
		if err != nil || got.Uint64() != u {
			t.Fatalf("Uint(%d) = %d, %v", u, got, err)
		}

		got, err = Big(new(big.Int).SetUint64(u)).Bounded("n")
		if err != nil || got.Uint64() != u {
			t.Fatalf("Big(%d) = %d, %v", u, got, err)
		}

		parsed, err := Parse("n", Uint(u).String())
		if err != nil {
			t.Fatalf("Parse(%d): %v", u, err)
		}
		got, err = parsed.Bounded("n")
		if err != nil || got.Uint64() != u {
			t.Fatalf("Parse(%d).Bounded() = %d, %v", u, got, err)
		}
	})
}

func TestNegativeIntsRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		i := rapid.Int64Max(-1).Draw(t, "i")
		if _, err := Int(i).Bounded("n"); err == nil {
			t.Fatalf("Int(%d) accepted", i)
		}
	})
}
