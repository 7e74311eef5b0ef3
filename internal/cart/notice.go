package cart

import "fmt"

// Event classifies the confirmation shown after a cart mutation.
type Event string

const (
	EventItemAdded         Event = "item_added"
	EventQuantityIncreased Event = "quantity_increased"
	EventItemRemoved       Event = "item_removed"
	EventQuantityUpdated   Event = "quantity_updated"
	EventCartCleared       Event = "cart_cleared"
	EventNoop              Event = "noop"
)

// Notice is the user-facing confirmation for a cart mutation.
type Notice struct {
	Event   Event  `json:"event"`
	ItemID  string `json:"itemId,omitempty"`
	Message string `json:"message,omitempty"`
}

// Changed reports whether the mutation altered the cart.
func (n Notice) Changed() bool {
	return n.Event != EventNoop && n.Event != ""
}

func newNotice(event Event, item Item) Notice {
	var msg string
	switch event {
	case EventItemAdded:
		msg = fmt.Sprintf("%s added to cart", item.Name())
	case EventQuantityIncreased:
		msg = fmt.Sprintf("%s quantity increased to %d", item.Name(), item.Quantity)
	case EventItemRemoved:
		msg = fmt.Sprintf("%s removed from cart", item.Name())
	case EventQuantityUpdated:
		msg = fmt.Sprintf("%s quantity set to %d", item.Name(), item.Quantity)
	}
	return Notice{Event: event, ItemID: item.ID, Message: msg}
}
