package domain

// Page is an offset window derived from the (from, size) pair clients send.
type Page struct {
	From int
	Size int
}

// NewPage validates from/size and returns the window.
func NewPage(from, size int) (Page, error) {
	if from < 0 {
		return Page{}, NewValidationError("parameter 'from' must not be negative")
	}
	if size <= 0 {
		return Page{}, NewValidationError("parameter 'size' must be positive")
	}
	return Page{From: from, Size: size}, nil
}

// Offset aligns From down to a page boundary: page = from / size.
func (p Page) Offset() int {
	return (p.From / p.Size) * p.Size
}

// Limit returns the page size.
func (p Page) Limit() int {
	return p.Size
}
