// internal/progress/items.go
//
// Ordered level/world collections with a selected entry and bulk lock/unlock.

package progress

import (
	"fmt"

	"github.com/robalobadob/gameprogress/internal/prefs"
)

// GameItem is implemented by *Level and *World.
type GameItem interface {
	base() *Item
	UpdatePlayerPrefs(p prefs.Preferences)
	LoadPlayerPrefs(p prefs.Preferences)
}

// Items is an ordered collection of levels or worlds with one selected entry.
type Items[T GameItem] struct {
	items    []T
	selected int // index into items
}

// NewItems builds a collection; the first item starts selected.
func NewItems[T GameItem](items ...T) *Items[T] {
	return &Items[T]{items: items}
}

func (c *Items[T]) All() []T { return c.items }
func (c *Items[T]) Len() int { return len(c.items) }

// Selected returns the selected item, or the zero T when empty.
func (c *Items[T]) Selected() T {
	var zero T
	if len(c.items) == 0 {
		return zero
	}
	return c.items[c.selected]
}

// Select makes the item with the given number the selected one.
func (c *Items[T]) Select(number int) error {
	for i, it := range c.items {
		if it.base().Number == number {
			c.selected = i
			return nil
		}
	}
	return fmt.Errorf("no item numbered %d", number)
}

func (c *Items[T]) ByNumber(number int) (T, bool) {
	for _, it := range c.items {
		if it.base().Number == number {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// SetAllUnlocked sets both lock flags on every item and writes each to p.
// It does not flush; callers Save once afterwards.
func (c *Items[T]) SetAllUnlocked(unlocked bool, p prefs.Preferences) {
	for _, it := range c.items {
		b := it.base()
		b.IsUnlocked = unlocked
		b.IsUnlockedAnimationShown = unlocked
		it.UpdatePlayerPrefs(p)
	}
}

// ExtraValueNeededToUnlock returns how many more coins than coins are needed
// to buy the cheapest locked coin-unlockable item. It returns 0 when one can be
// bought already and -1 when nothing is left to unlock with coins.
func (c *Items[T]) ExtraValueNeededToUnlock(coins int) int {
	best := -1
	for _, it := range c.items {
		b := it.base()
		if b.IsUnlocked || !b.UnlockWithCoins {
			continue
		}
		need := b.ValueToUnlock - coins
		if need < 0 {
			need = 0
		}
		if best == -1 || need < best {
			best = need
		}
	}
	return best
}
