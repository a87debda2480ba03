// Package timeline merges a portfolio's transactions and snapshots into one walk by day.
package timeline

import (
	"sort"
	"time"

	"github.com/MrJamesThe3rd/stash/internal/portfolio"
	"github.com/MrJamesThe3rd/stash/internal/transaction"
)

// Point groups everything that happened on one calendar day.
type Point struct {
	Date         time.Time
	Transactions []*transaction.Transaction
	Snapshot     *portfolio.Snapshot
}

// Normalize returns one point per distinct day found in either input, strictly
// ascending. Transactions keep their input order within a day. When several snapshots
// share a day the one chosen by portfolio.Snapshot.Supersedes is kept.
func Normalize(txs []*transaction.Transaction, snaps []*portfolio.Snapshot) []Point {
	byDay := make(map[string]*Point)

	point := func(d time.Time) *Point {
		key := d.Format(time.DateOnly)

		p, ok := byDay[key]
		if !ok {
			p = &Point{Date: truncate(d)}
			byDay[key] = p
		}

		return p
	}

	for _, tx := range txs {
		p := point(tx.Date)
		p.Transactions = append(p.Transactions, tx)
	}

	for _, s := range snaps {
		p := point(s.Date)
		if p.Snapshot == nil || s.Supersedes(p.Snapshot) {
			p.Snapshot = s
		}
	}

	points := make([]Point, 0, len(byDay))
	for _, p := range byDay {
		points = append(points, *p)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	return points
}

func truncate(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
