package programs

import "github.com/shopspring/decimal"

// Program pricing includes two children and three classes per child in the
// base subscription. Families beyond that pay flat recurring surcharges.
const (
	IncludedChildren        = 2
	IncludedClassesPerChild = 3
)

var (
	additionalChildFee = decimal.NewFromInt(20) // per extra child, per cycle
	additionalClassFee = decimal.NewFromInt(50) // per extra class, per cycle
)

// Surcharges is the recurring amount owed on top of the base program price,
// in major currency units.
type Surcharges struct {
	ChildFee decimal.Decimal
	ClassFee decimal.Decimal
}

// ComputeSurcharges prices the extra children and extra classes for one
// billing cycle. Pure function of the counts; negative inputs are clamped.
func ComputeSurcharges(childCount, extraClassCount int) Surcharges {
	extraChildren := childCount - IncludedChildren
	if extraChildren < 0 {
		extraChildren = 0
	}
	if extraClassCount < 0 {
		extraClassCount = 0
	}
	return Surcharges{
		ChildFee: additionalChildFee.Mul(decimal.NewFromInt(int64(extraChildren))),
		ClassFee: additionalClassFee.Mul(decimal.NewFromInt(int64(extraClassCount))),
	}
}

// ExtraClassCount totals the classes beyond the included allowance across
// children. Each child carries their own allowance; unused slots do not
// transfer between siblings.
func ExtraClassCount(classCountsPerChild []int) int {
	extra := 0
	for _, count := range classCountsPerChild {
		if count > IncludedClassesPerChild {
			extra += count - IncludedClassesPerChild
		}
	}
	return extra
}

// Total is the combined surcharge for one cycle.
func (s Surcharges) Total() decimal.Decimal {
	return s.ChildFee.Add(s.ClassFee)
}
