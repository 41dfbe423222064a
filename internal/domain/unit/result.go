package unit

// Result is the outcome of an Action: either a produced value that becomes
// the unit's entry in the namespace tree, or no value, in which case the
// placeholder branch at the unit's path is kept. The two cases are explicit
// rather than a nullable-return convention so that "produced nil" and
// "produced nothing" stay distinguishable.
type Result struct {
	value    any
	produced bool
}

// Value returns a Result carrying a produced value.
func Value(v any) Result {
	return Result{value: v, produced: true}
}

// NoValue returns a Result that keeps the placeholder at the unit's path.
func NoValue() Result {
	return Result{}
}
