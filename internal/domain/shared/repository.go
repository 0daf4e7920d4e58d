package shared

// Filter represents query filter options shared by catalog listings
type Filter struct {
	Limit    int
	OrderBy  string
	OrderDir string
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
}

// WithLimit returns a copy of the filter bounded to n rows
func (f Filter) WithLimit(n int) Filter {
	f.Limit = n
	return f
}
