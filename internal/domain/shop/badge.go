package shop

// Badge is the display metadata for an order status. Keeping the mapping in
// one exhaustive table stops status strings from being compared all over the
// presentation layer.
type Badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var orderBadges = map[OrderStatus]Badge{
	OrderStatusPending:   {Label: "Pending", Color: "amber", Icon: "clock"},
	OrderStatusConfirmed: {Label: "Confirmed", Color: "blue", Icon: "check-circle"},
	OrderStatusShipped:   {Label: "Shipped", Color: "indigo", Icon: "truck"},
	OrderStatusDelivered: {Label: "Delivered", Color: "green", Icon: "package-check"},
	OrderStatusCancelled: {Label: "Cancelled", Color: "red", Icon: "x-circle"},
}

// BadgeFor returns the badge for a status. Unknown statuses fall back to a
// neutral badge carrying the raw status string so nothing renders blank.
func BadgeFor(status OrderStatus) Badge {
	if b, ok := orderBadges[status]; ok {
		return b
	}
	return Badge{Label: string(status), Color: "gray", Icon: "help-circle"}
}
