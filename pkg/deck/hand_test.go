package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHand(t *testing.T) {
	a := assert.New(t)

	hand := Hand{}
	a.Nil(hand.FirstCard())

	hand.AddCard(CardFromString("14s"))
	hand.AddCard(CardFromString("13h"))

	a.Equal("14s", CardToString(hand.FirstCard()))
	a.Equal("14s,13h", hand.String())

	clone := hand.Clone()
	clone.AddCard(CardFromString("2c"))
	a.Equal(2, len(hand))
	a.Equal(3, len(clone))
}
