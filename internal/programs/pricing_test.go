package programs

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestComputeSurchargesExtraChildOnly(t *testing.T) {
	got := ComputeSurcharges(3, 0)

	require.True(t, got.ChildFee.Equal(decimal.NewFromInt(20)), "child fee: %s", got.ChildFee)
	require.True(t, got.ClassFee.IsZero(), "class fee: %s", got.ClassFee)
	require.True(t, got.Total().Equal(decimal.NewFromInt(20)))
}

func TestComputeSurchargesExtraClassesOnly(t *testing.T) {
	got := ComputeSurcharges(2, 4)

	require.True(t, got.ChildFee.IsZero(), "child fee: %s", got.ChildFee)
	require.True(t, got.ClassFee.Equal(decimal.NewFromInt(200)), "class fee: %s", got.ClassFee)
}

func TestComputeSurchargesWithinAllowances(t *testing.T) {
	got := ComputeSurcharges(2, 0)

	require.True(t, got.ChildFee.IsZero())
	require.True(t, got.ClassFee.IsZero())
	require.True(t, got.Total().IsZero())
}

func TestComputeSurchargesClampsNegativeInputs(t *testing.T) {
	got := ComputeSurcharges(-1, -5)

	require.True(t, got.ChildFee.IsZero())
	require.True(t, got.ClassFee.IsZero())
}

func TestExtraClassCountPerChildAllowance(t *testing.T) {
	// Allowances do not pool: 2+4 has one extra class even though the first
	// child left a slot unused.
	require.Equal(t, 1, ExtraClassCount([]int{2, 4}))
	require.Equal(t, 0, ExtraClassCount([]int{3, 3}))
	require.Equal(t, 3, ExtraClassCount([]int{5, 4}))
	require.Equal(t, 0, ExtraClassCount(nil))
}
