package shop

// Page is one page of a paginated listing. It is replaced wholesale on
// every successful fetch and never mutated in place.
type Page[T any] struct {
	Items         []T   `json:"items"`
	TotalPages    int   `json:"total_pages"`
	TotalElements int64 `json:"total_elements"`
}

// EmptyPage returns a page with no items. Listing failures degrade to this
// rather than surfacing an error to the rendering layer.
func EmptyPage[T any]() Page[T] {
	return Page[T]{Items: []T{}}
}
