package storage

import (
	"slices"
	"strings"

	"github.com/mcoot/rinkbook/internal/model"
)

// SortByGameDateDesc orders games most recent first. Games on the same
// date fall back to creation time, then id, so listings are stable.
func SortByGameDateDesc(games []*model.Game) {
	slices.SortStableFunc(games, func(a, b *model.Game) int {
		if c := b.GameDate.Compare(a.GameDate); c != 0 {
			return c
		}
		if c := b.DateCreated.Compare(a.DateCreated); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})
}
