package domain

// CartLine is one logical cart entry: a product snapshot plus a quantity.
// Quantity is always >= 1 for a line that exists.
type CartLine struct {
	Product  ProductRef `json:"product"`
	Quantity int        `json:"quantity"`
}

// CartState holds the ordered line collection. Lines keep arrival order for
// display; identity keys are unique across lines.
type CartState struct {
	Lines []CartLine `json:"lines"`
}

// Find returns the index of the line matching key, or -1.
func (c CartState) Find(key LineKey) int {
	for i, line := range c.Lines {
		if line.Product.Key() == key {
			return i
		}
	}
	return -1
}

// Total is the sum of price*quantity over all lines, recomputed on every
// call.
func (c CartState) Total() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.Product.Price * float64(line.Quantity)
	}
	return total
}

// ItemCount is the sum of quantities over all lines.
func (c CartState) ItemCount() int {
	var count int
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c CartState) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone returns a copy whose line slice is independent of the receiver's.
func (c CartState) Clone() CartState {
	if c.Lines == nil {
		return CartState{}
	}
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return CartState{Lines: lines}
}
