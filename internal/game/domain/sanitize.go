package domain

// SanitizeForPlayer returns a copy of the game where every hand except the
// viewer's is hidden. This is the only shape of the state that may leave the
// server for a given player while a round is live.
func (g Game) SanitizeForPlayer(viewerID string) Game {
	out := g.Clone()
	for i := range out.Players {
		if out.Players[i].ID != viewerID {
			out.Players[i].Dice = []int{}
		}
	}
	return out
}
