package main

// AssignSlot decides the role and team for a new connection given who is
// already present. The first free combat slot wins, red before blue;
// with both taken the connection spectates. Slots free up only when the
// holder disconnects, and waiting spectators are never promoted.
func AssignSlot(players map[string]*Player) (Role, Team) {
	var redTaken, blueTaken bool
	for _, p := range players {
		if p.Role != RolePlayer {
			continue
		}
		switch p.Team {
		case TeamRed:
			redTaken = true
		case TeamBlue:
			blueTaken = true
		}
	}
	if !redTaken {
		return RolePlayer, TeamRed
	}
	if !blueTaken {
		return RolePlayer, TeamBlue
	}
	return RoleSpectator, TeamNone
}

// Roster lists every connection in join order.
func (w *World) Roster() []RosterEntry {
	players := w.playersInJoinOrder()
	out := make([]RosterEntry, 0, len(players))
	for _, p := range players {
		out = append(out, RosterEntry{
			ID:   p.ID,
			Name: p.Name,
			Role: uint8(p.Role),
			Team: uint8(p.Team),
		})
	}
	return out
}
