package models

import "strconv"

// StatusCounts aggregates PEPs per detail status, remembering first-seen order
type StatusCounts struct {
	order  []string
	counts map[string]int
}

// NewStatusCounts creates an empty aggregate
func NewStatusCounts() *StatusCounts {
	return &StatusCounts{counts: make(map[string]int)}
}

// Add increments the count for status
func (c *StatusCounts) Add(status string) {
	if _, seen := c.counts[status]; !seen {
		c.order = append(c.order, status)
	}
	c.counts[status]++
}

// Get returns the count for status (0 if never seen)
func (c *StatusCounts) Get(status string) int {
	return c.counts[status]
}

// Statuses returns the distinct statuses in first-seen order
func (c *StatusCounts) Statuses() []string {
	return append([]string(nil), c.order...)
}

// Total returns the sum of all counts
func (c *StatusCounts) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Table converts the aggregate into (Status, Count) rows followed by a (Total, N) row
func (c *StatusCounts) Table() *Table {
	table := NewTable("Status", "Count")
	for _, status := range c.order {
		table.Rows = append(table.Rows, []string{status, strconv.Itoa(c.counts[status])})
	}
	table.Rows = append(table.Rows, []string{"Total", strconv.Itoa(c.Total())})
	return table
}
