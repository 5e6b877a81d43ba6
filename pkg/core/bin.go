package core

// Bin is an item in the packing heap: one candidate sub-suite accumulating
// tests while the splitter runs.
type Bin struct {
	Index     int
	Members   []TestRef
	TotalCost float64
	MaxCost   float64
}

// Add appends a test to the bin and updates its accumulated cost.
func (b *Bin) Add(test TestRef, cost float64) {
	b.Members = append(b.Members, test)
	b.TotalCost += cost
	if cost > b.MaxCost {
		b.MaxCost = cost
	}
}
