package deck

import (
	"crypto/sha1" // nolint:gosec
	"encoding/hex"
	"errors"
	"math/rand"

	"cardtable-server/internal/rng"
)

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// DefaultLowWaterMark is the remaining-card count below which Draw() replaces
// the stock with a freshly shuffled 52-card set
const DefaultLowWaterMark = 10

// Deck represents a playing deck. Cards are drawn from the tail so that
// ReturnCards() and Draw() stay symmetric.
type Deck struct {
	Cards []*Card `json:"cards"`

	lowWaterMark int
	rng          rng.Generator
}

// New returns a new deck of cards.
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
func New() *Deck {
	d := &Deck{
		lowWaterMark: DefaultLowWaterMark,
		rng:          rng.Crypto{},
	}

	d.buildDeck()
	return d
}

// SetSeed swaps the crypto random source for a deterministic one.
// This should only be used by tests.
func (d *Deck) SetSeed(seed int64) {
	d.rng = rand.New(rand.NewSource(seed))
}

// SetLowWaterMark overrides the threshold for the draw-time auto-reshuffle.
// A low-water mark of 0 disables it entirely, in which case Draw() on an empty
// deck returns ErrEndOfDeck.
func (d *Deck) SetLowWaterMark(n int) {
	if n < 0 {
		panic("low-water mark cannot be < 0")
	}

	d.lowWaterMark = n
}

func (d *Deck) buildDeck() {
	cards := make([]*Card, 0, 52)
	for _, suit := range []Suit{Clubs, Diamonds, Hearts, Spades} {
		for rank := 2; rank <= 14; rank++ {
			cards = append(cards, &Card{
				Rank: rank,
				Suit: suit,
			})
		}
	}

	d.Cards = cards
}

// Shuffle replaces the contents with a freshly built, Fisher-Yates shuffled
// 52-card set. Any cards still out in hands are NOT reclaimed.
func (d *Deck) Shuffle() {
	d.buildDeck()
	d.shuffle(d.Cards)
}

// ShuffleRemaining shuffles the current stock in place without rebuilding it.
// Use after ReturnCards() when the outstanding cards must be preserved.
func (d *Deck) ShuffleRemaining() {
	d.shuffle(d.Cards)
}

func (d *Deck) shuffle(cards []*Card) {
	for j := len(cards) - 1; j > 0; j-- {
		i := d.rng.Intn(j + 1)

		cards[i], cards[j] = cards[j], cards[i]
	}
}

// HashCode returns a SHA1 hash code of the deck.
func (d *Deck) HashCode() string {
	hash := sha1.New() // nolint:gosec
	for _, card := range d.Cards {
		_, _ = hash.Write([]byte(card.String()))
	}

	return hex.EncodeToString(hash.Sum(nil)[:])
}

// Draw removes and returns the last card in the deck.
// If the remaining stock is below the low-water mark, the deck is first
// replaced with a freshly shuffled 52-card set.
func (d *Deck) Draw() (*Card, error) {
	if len(d.Cards) < d.lowWaterMark {
		d.Shuffle()
	}

	if len(d.Cards) == 0 {
		return nil, ErrEndOfDeck
	}

	card := d.Cards[len(d.Cards)-1]
	d.Cards = d.Cards[:len(d.Cards)-1]

	return card, nil
}

// ReturnCards appends the cards back onto the deck
func (d *Deck) ReturnCards(cards []*Card) {
	d.Cards = append(d.Cards, cards...)
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return len(d.Cards) >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}
