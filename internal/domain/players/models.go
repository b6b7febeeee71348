package players

// Player is the minimal roster record the pipeline needs (balldontlie-aligned).
type Player struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// FullName joins first and last name with a single space.
func (p Player) FullName() string {
	return p.FirstName + " " + p.LastName
}
