package controller

import "siftview/internal/domain"

// The selection set is independent of the displayed view: filtering,
// searching, sorting or even replacing the collection never removes a
// member. Only the explicit deselect operations do. Selection events
// fire only when membership actually changes.

// Select adds an item to the selection set
func (c *Controller[T]) Select(item T) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	added := c.selectLocked(item)
	total := len(c.selection)
	c.mu.Unlock()
	if added {
		c.publish([]domain.DomainEvent{domain.SelectionChangedEvent{Added: 1, Total: total}})
	}
}

// Deselect removes an item from the selection set
func (c *Controller[T]) Deselect(item T) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	removed := c.deselectLocked(item)
	total := len(c.selection)
	c.mu.Unlock()
	if removed {
		c.publish([]domain.DomainEvent{domain.SelectionChangedEvent{Removed: 1, Total: total}})
	}
}

// Toggle flips an item's selection state
func (c *Controller[T]) Toggle(item T) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	var event domain.SelectionChangedEvent
	if _, ok := c.selection[item]; ok {
		c.deselectLocked(item)
		event.Removed = 1
	} else {
		c.selectLocked(item)
		event.Added = 1
	}
	event.Total = len(c.selection)
	c.mu.Unlock()
	c.publish([]domain.DomainEvent{event})
}

// SelectAll selects every currently displayed item
func (c *Controller[T]) SelectAll() {
	c.SelectWhere(func(T) bool { return true })
}

// DeselectAll deselects every currently displayed item
func (c *Controller[T]) DeselectAll() {
	c.DeselectWhere(func(T) bool { return true })
}

// SelectWhere selects the displayed items matching pred
func (c *Controller[T]) SelectWhere(pred Predicate[T]) {
	c.mu.Lock()
	if c.disposed || pred == nil {
		c.mu.Unlock()
		return
	}
	added := 0
	for _, item := range c.displayed {
		if pred(item) && c.selectLocked(item) {
			added++
		}
	}
	total := len(c.selection)
	c.mu.Unlock()
	if added > 0 {
		c.publish([]domain.DomainEvent{domain.SelectionChangedEvent{Added: added, Total: total}})
	}
}

// DeselectWhere deselects the displayed items matching pred
func (c *Controller[T]) DeselectWhere(pred Predicate[T]) {
	c.mu.Lock()
	if c.disposed || pred == nil {
		c.mu.Unlock()
		return
	}
	removed := 0
	for _, item := range c.displayed {
		if pred(item) && c.deselectLocked(item) {
			removed++
		}
	}
	total := len(c.selection)
	c.mu.Unlock()
	if removed > 0 {
		c.publish([]domain.DomainEvent{domain.SelectionChangedEvent{Removed: removed, Total: total}})
	}
}

// IsSelected reports whether an item is in the selection set
func (c *Controller[T]) IsSelected(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.selection[item]
	return ok
}

func (c *Controller[T]) selectLocked(item T) bool {
	if _, ok := c.selection[item]; ok {
		return false
	}
	c.selection[item] = struct{}{}
	c.selOrder = append(c.selOrder, item)
	return true
}

func (c *Controller[T]) deselectLocked(item T) bool {
	if _, ok := c.selection[item]; !ok {
		return false
	}
	delete(c.selection, item)
	for i, sel := range c.selOrder {
		if sel == item {
			c.selOrder = append(c.selOrder[:i], c.selOrder[i+1:]...)
			break
		}
	}
	return true
}
