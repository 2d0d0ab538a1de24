package utils

// Ptr returns a pointer to v. Optional JSON fields are modelled as pointers
// so that "absent" stays distinguishable from "zero"; Ptr makes those fields
// assignable from a literal without an intermediate variable:
//
//	payload.Hint = utils.Ptr("check the docs")
func Ptr[T any](v T) *T {
	return &v
}
