package quoter

import (
	"sort"

	"main/internal/model"
)

// priceLadder is one side of the book as a sorted set of price levels.
type priceLadder struct {
	prices []model.Number
}

func (l *priceLadder) search(p model.Number) int {
	return sort.Search(len(l.prices), func(i int) bool {
		return !l.prices[i].Less(p)
	})
}

func (l *priceLadder) Insert(p model.Number) {
	i := l.search(p)
	if i < len(l.prices) && !l.prices[i].Ne(p) {
		return
	}

	l.prices = append(l.prices, p)
	copy(l.prices[i+1:], l.prices[i:len(l.prices)-1])
	l.prices[i] = p
}

func (l *priceLadder) Remove(p model.Number) {
	i := l.search(p)
	if i >= len(l.prices) || l.prices[i].Ne(p) {
		return
	}

	l.prices = append(l.prices[:i], l.prices[i+1:]...)
}

func (l *priceLadder) Empty() bool {
	return len(l.prices) == 0
}

func (l *priceLadder) Min() model.Number {
	return l.prices[0]
}

func (l *priceLadder) Max() model.Number {
	return l.prices[len(l.prices)-1]
}
