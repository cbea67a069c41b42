package enums

import "fmt"

// ClassCategory groups the weekly classes a child can be enrolled in.
type ClassCategory string

const (
	ClassCategoryPunjabi ClassCategory = "punjabi"
	ClassCategoryMath    ClassCategory = "math"
	ClassCategoryCoding  ClassCategory = "coding"
)

var validClassCategories = []ClassCategory{
	ClassCategoryPunjabi,
	ClassCategoryMath,
	ClassCategoryCoding,
}

// String implements fmt.Stringer.
func (c ClassCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is known.
func (c ClassCategory) IsValid() bool {
	for _, candidate := range validClassCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseClassCategory converts raw input into a ClassCategory.
func ParseClassCategory(value string) (ClassCategory, error) {
	for _, candidate := range validClassCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid class category %q", value)
}
