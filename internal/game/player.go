package game

// PlayerID identifies a participant at a table. Human players carry their
// positive database user id; bots get negative ids from a per-table counter.
type PlayerID int

func (id PlayerID) IsBot() bool { return id < 0 }
