package cart

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Line describes what the shopper picked. A line without TierID is a
// flat-price purchase of the product.
type Line struct {
	ProductID    string
	TierID       string
	PackQuantity int
	PackUnit     string
	BaseName     string
	Price        int
	Image        string
}

// Item is one cart line. Quantity counts how many times this exact line was
// added, so Price*Quantity is the line total regardless of PackQuantity.
type Item struct {
	ID           string `json:"id"`
	ProductID    string `json:"productId"`
	TierID       string `json:"tierId,omitempty"`
	PackQuantity int    `json:"packQuantity"`
	PackUnit     string `json:"packUnit,omitempty"`
	BaseName     string `json:"baseName"`
	Price        int    `json:"price"`
	Quantity     int    `json:"quantity"`
	Image        string `json:"image,omitempty"`
}

// LineID builds the key that identifies a cart line.
func LineID(productID, tierID string) string {
	if tierID == "" {
		return productID
	}
	return productID + ":" + tierID
}

// Name renders the display name. Tier lines carry the pack size.
func (i Item) Name() string {
	if i.TierID == "" {
		return i.BaseName
	}
	return fmt.Sprintf("%s x%d", i.BaseName, i.PackQuantity)
}

func (i Item) LineTotal() int {
	return i.Price * i.Quantity
}

// Units is the number of physical units the line represents.
func (i Item) Units() int {
	pack := i.PackQuantity
	if pack <= 0 {
		pack = 1
	}
	return pack * i.Quantity
}

// Store is a single shopper's cart. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	sessionID string
	items     []Item
}

func NewStore(sessionID string) *Store {
	return &Store{sessionID: sessionID}
}

func (s *Store) SessionID() string {
	return s.sessionID
}

// AddItem increments the quantity of an existing line or appends a new one.
// Display fields of an existing line are left untouched.
func (s *Store) AddItem(line Line) Notice {
	id := LineID(line.ProductID, line.TierID)

	s.mu.Lock()
	defer s.mu.Unlock()

	for idx := range s.items {
		if s.items[idx].ID == id {
			s.items[idx].Quantity++
			return newNotice(EventQuantityIncreased, s.items[idx])
		}
	}

	pack := line.PackQuantity
	if pack <= 0 {
		pack = 1
	}
	item := Item{
		ID:           id,
		ProductID:    line.ProductID,
		TierID:       line.TierID,
		PackQuantity: pack,
		PackUnit:     line.PackUnit,
		BaseName:     line.BaseName,
		Price:        line.Price,
		Quantity:     1,
		Image:        line.Image,
	}
	s.items = append(s.items, item)
	return newNotice(EventItemAdded, item)
}

// RemoveItem deletes the line if present. Unknown ids are ignored.
func (s *Store) RemoveItem(id string) Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	for idx, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:idx], s.items[idx+1:]...)
			return newNotice(EventItemRemoved, item)
		}
	}
	return Notice{Event: EventNoop, ItemID: id}
}

// UpdateQuantity overwrites the quantity of a line. Zero or negative removes it.
func (s *Store) UpdateQuantity(id string, quantity int) Notice {
	if quantity <= 0 {
		return s.RemoveItem(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for idx := range s.items {
		if s.items[idx].ID == id {
			s.items[idx].Quantity = quantity
			return newNotice(EventQuantityUpdated, s.items[idx])
		}
	}
	return Notice{Event: EventNoop, ItemID: id}
}

func (s *Store) Clear() Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return Notice{Event: EventCartCleared, Message: "Cart cleared"}
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// TotalPrice sums price*quantity over every line.
func (s *Store) TotalPrice() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, item := range s.items {
		total += item.LineTotal()
	}
	return total
}

// Count is the badge count: the sum of line quantities.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items) == 0
}

type storeSnapshot struct {
	SessionID string `json:"sessionId"`
	Items     []Item `json:"items"`
}

func (s *Store) MarshalJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.items
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(storeSnapshot{SessionID: s.sessionID, Items: items})
}

func (s *Store) UnmarshalJSON(data []byte) error {
	var snap storeSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = snap.SessionID
	s.items = snap.Items
	return nil
}
