// Package showlist is the staging cache of one group edit session: the
// categories the user added or removed before saving the group.
package showlist

import (
	"sync"

	"github.com/passy1977/pocket-web-backend/internal/client/models"
)

type ShowList struct {
	mu     sync.Mutex
	items  map[int64]*models.GroupField
	order  []int64
	nextID int64
}

func New() *ShowList {
	return &ShowList{items: make(map[int64]*models.GroupField)}
}

// Add stores gf under its id, replacing any entry with the same id. It
// reports false for a null entry.
func (l *ShowList) Add(gf *models.GroupField) bool {
	if gf.IsNull() {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.items[gf.ID]; !ok {
		l.order = append(l.order, gf.ID)
	}
	l.items[gf.ID] = gf
	return true
}

func (l *ShowList) Remove(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.items[id]; !ok {
		return
	}
	delete(l.items, id)
	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

func (l *ShowList) Get(id int64) (*models.GroupField, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	gf, ok := l.items[id]
	return gf, ok
}

func (l *ShowList) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

func (l *ShowList) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.items)
	l.order = l.order[:0]
	l.nextID = 0
}

// Items returns the entries in the order they were first added.
func (l *ShowList) Items() []*models.GroupField {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*models.GroupField, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.items[id])
	}
	return out
}

// NextTempID hands out -1, -2, ... for entries not yet persisted. The
// sequence restarts after Clear.
func (l *ShowList) NextTempID() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID--
	return l.nextID
}
