package ledger

// DefaultUsers returns the users seeded when the store has none. Transaction
// entry needs at least one person to book against.
func DefaultUsers() []User {
	return []User{
		{Name: "Ana", Avatar: "A"},
		{Name: "Rafael", Avatar: "R"},
	}
}
