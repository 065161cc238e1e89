package model

// All lists every persisted record type, in migration order.
func All() []any {
	return []any{
		&Device{},
		&Session{},
		&CafeOrder{},
		&InventoryItem{},
		&Withdrawal{},
		&Settings{},
	}
}
