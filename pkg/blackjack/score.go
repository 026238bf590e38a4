package blackjack

import "cardtable-server/pkg/deck"

// blackjack is the score a hand may never exceed
const blackjack = 21

// dealerStandScore is the score the dealer must reach before standing
const dealerStandScore = 17

// Score returns the blackjack value of a hand. Face cards count 10, aces
// count 11 and are demoted to 1 one at a time while the hand would bust.
func Score(hand []*deck.Card) int {
	total := 0
	softAces := 0

	for _, card := range hand {
		switch {
		case card.Rank == deck.Ace:
			total += 11
			softAces++
		case card.Rank >= 10:
			total += 10
		default:
			total += card.Rank
		}
	}

	for total > blackjack && softAces > 0 {
		total -= 10
		softAces--
	}

	return total
}

// IsNaturalBlackjack returns true for a two-card hand scoring exactly 21
func IsNaturalBlackjack(hand []*deck.Card) bool {
	return len(hand) == 2 && Score(hand) == blackjack
}
