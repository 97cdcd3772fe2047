package game

import "fmt"

// QueueOrder appends a validated order to the player's list, enforcing the
// per-fleet exclusivity group: a fleet holds at most one of move, fire,
// ambush and conditional fire per turn.
func (p *Player) QueueOrder(o *Order) error {
	if o.Exclusive() {
		for _, q := range p.Orders {
			if q.Exclusive() && q.Fleet == o.Fleet {
				return &ValidationError{Message: fmt.Sprintf(
					"Fleet %d already has order %q; cancel it first", o.Fleet, q.Normalized())}
			}
		}
	}
	p.Orders = append(p.Orders, o)
	return nil
}

// CancelOrder removes the order at the 1-based position shown in the
// queued-order list and returns it.
func (p *Player) CancelOrder(index int) (*Order, error) {
	if index < 1 || index > len(p.Orders) {
		return nil, &ValidationError{Message: fmt.Sprintf("No queued order %d", index)}
	}
	o := p.Orders[index-1]
	p.Orders = append(p.Orders[:index-1], p.Orders[index:]...)
	return o, nil
}

// OrdersOfKind returns the player's queued orders matching any given kind,
// in queue order.
func (p *Player) OrdersOfKind(kinds ...OrderKind) []*Order {
	var out []*Order
	for _, o := range p.Orders {
		for _, k := range kinds {
			if o.Kind == k {
				out = append(out, o)
				break
			}
		}
	}
	return out
}

// ClearOrders empties the queue after a turn has consumed it.
func (p *Player) ClearOrders() {
	p.Orders = p.Orders[:0]
}
