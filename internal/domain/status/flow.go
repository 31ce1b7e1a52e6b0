// Package status holds the order status labels and the table of allowed
// transitions between them.
package status

import "fmt"

const (
	Pending    = "Pending"
	InProgress = "In progress"
	Delivered  = "Delivered"
	Cancelled  = "Cancelled"

	// DefaultID is the order_statuses row every new order starts in.
	DefaultID = 1
)

// Flow decides whether an order may move from one known status to another.
type Flow interface {
	Allowed(from, to string) bool
	Name() string
}

type openFlow struct{}

func (openFlow) Allowed(from, to string) bool { return true }
func (openFlow) Name() string                 { return "open" }

// Open permits every transition between known statuses.
func Open() Flow { return openFlow{} }

// Table is an explicit transition table keyed by the current status.
type Table struct {
	name  string
	edges map[string]map[string]bool
}

func NewTable(name string, edges map[string][]string) *Table {
	t := &Table{name: name, edges: make(map[string]map[string]bool, len(edges))}
	for from, tos := range edges {
		set := make(map[string]bool, len(tos))
		for _, to := range tos {
			set[to] = true
		}
		t.edges[from] = set
	}
	return t
}

func (t *Table) Allowed(from, to string) bool { return t.edges[from][to] }
func (t *Table) Name() string                 { return t.name }

// Forward only lets an order advance towards delivery or be cancelled
// before it is delivered.
func Forward() Flow {
	return NewTable("forward", map[string][]string{
		Pending:    {InProgress, Cancelled},
		InProgress: {Delivered, Cancelled},
	})
}

func Parse(name string) (Flow, error) {
	switch name {
	case "", "open":
		return Open(), nil
	case "forward":
		return Forward(), nil
	default:
		return nil, fmt.Errorf("unknown status flow %q", name)
	}
}
