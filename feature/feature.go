package feature

import (
	"fmt"
	"math"
)

// Kind enumerates the kinds of feature sylva can work with.
type Kind int

const (
	// Discrete features take one value out of a finite set of
	// symbolic values, addressed by index.
	Discrete Kind = iota
	// Integer features take whole numeric values.
	Integer
	// Continuous features take arbitrary numeric values.
	Continuous
)

/*
NoValue is the index a discrete observation takes when the value
is unknown.
*/
const NoValue = -1

/*
NullNumber returns the sentinel a numeric observation takes when
the value is unknown.
*/
func NullNumber() float64 {
	return math.NaN()
}

/*
IsNullValue takes a discrete value index and returns whether it
represents an unknown observation.
*/
func IsNullValue(i int) bool {
	return i < 0
}

/*
IsNullNumber takes a numeric value and returns whether it represents
an unknown observation.
*/
func IsNullNumber(v float64) bool {
	return math.IsNaN(v)
}

/*
Feature represents a property that can be observed: a named column
of a dataset together with its kind and, for discrete features, its
domain of admissible values.
*/
type Feature struct {
	name   string
	kind   Kind
	values []string
}

/*
NewDiscrete takes a name string and a slice of available value strings
and returns a discrete feature with the given name and values.
*/
func NewDiscrete(name string, values []string) *Feature {
	return &Feature{name: name, kind: Discrete, values: values}
}

/*
NewInteger takes a name string and returns an integer feature with
the given name.
*/
func NewInteger(name string) *Feature {
	return &Feature{name: name, kind: Integer}
}

/*
NewContinuous takes a name string and returns a continuous feature
with the given name.
*/
func NewContinuous(name string) *Feature {
	return &Feature{name: name, kind: Continuous}
}

/*
Name returns a string with the name of the feature.
*/
func (f *Feature) Name() string {
	return f.name
}

/*
Kind returns the kind of the feature.
*/
func (f *Feature) Kind() Kind {
	return f.kind
}

/*
Metric returns whether the feature takes numeric values, that is,
whether it is an integer or continuous feature.
*/
func (f *Feature) Metric() bool {
	return f.kind != Discrete
}

/*
Values returns a string slice with the values available for the
feature. It is nil for metric features.
*/
func (f *Feature) Values() []string {
	return f.values
}

/*
ValueCount returns the number of values available for the feature,
0 for metric features.
*/
func (f *Feature) ValueCount() int {
	return len(f.values)
}

/*
Index takes a value string and returns the index of that value in
the feature domain, or NoValue if the value does not belong to it.
*/
func (f *Feature) Index(value string) int {
	for i, v := range f.values {
		if v == value {
			return i
		}
	}
	return NoValue
}

/*
Value takes a value index and returns the value string it stands
for, or an error if the index is out of the feature domain.
*/
func (f *Feature) Value(i int) (string, error) {
	if i < 0 || i >= len(f.values) {
		return "", fmt.Errorf("feature %s has no value with index %d", f.name, i)
	}
	return f.values[i], nil
}

func (f *Feature) String() string {
	return f.name
}

/*
Find takes a slice of features and a name and returns the index of
the feature with that name in the slice, or -1 if no feature has it.
*/
func Find(features []*Feature, name string) int {
	for i, f := range features {
		if f.Name() == name {
			return i
		}
	}
	return -1
}
