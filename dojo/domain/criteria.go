package domain

// LongFilter holds the optional predicates on a numeric field.
// All set predicates must hold.
type LongFilter struct {
	Equals             *int64
	NotEquals          *int64
	In                 []int64
	GreaterThan        *int64
	LessThan           *int64
	GreaterThanOrEqual *int64
	LessThanOrEqual    *int64
	Specified          *bool
}

// StringFilter holds the optional predicates on a text field.
// Contains matches case-insensitively.
type StringFilter struct {
	Equals    *string
	NotEquals *string
	Contains  *string
	In        []string
	Specified *bool
}
