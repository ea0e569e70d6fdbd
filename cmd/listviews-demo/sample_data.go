package main

import (
	"time"

	"github.com/goliatone/go-listviews/pkg/store"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}

// sampleStore seeds the memory backend with a small catalogue, a month of
// events relative to now and one order.
func sampleStore(now time.Time) *store.MemoryStore {
	month := time.Date(now.Year(), now.Month(), 1, 9, 0, 0, 0, time.UTC)
	at := func(offset int) time.Time { return month.AddDate(0, 0, offset) }

	return store.NewMemoryStore(
		store.WithTable("products",
			store.Record{"id": "p1", "name": "Anvil", "brand": "acme", "price": 120.0, "released": day(2023, time.March, 1)},
			store.Record{"id": "p2", "name": "Rocket skates", "brand": "acme", "price": 450.0, "released": day(2024, time.January, 15)},
			store.Record{"id": "p3", "name": "Bird seed", "brand": "warner", "price": 4.5, "released": day(2022, time.June, 30)},
			store.Record{"id": "p4", "name": "Giant magnet", "brand": "acme", "price": 89.0},
			store.Record{"id": "p5", "name": "Tornado seeds", "brand": "warner", "price": 12.0, "released": day(2024, time.January, 2)},
			store.Record{"id": "p6", "name": "Earthquake pills", "brand": "acme", "price": 35.0, "released": day(2021, time.October, 9)},
		),
		store.WithTable("events",
			store.Record{"id": "e1", "title": "Planning", "starts": at(0), "ends": at(0)},
			store.Record{"id": "e2", "title": "Offsite", "starts": at(9), "ends": at(11)},
			store.Record{"id": "e3", "title": "Migration", "starts": at(-3), "ends": at(2)},
			store.Record{"id": "e4", "title": "Launch", "starts": at(20)},
			store.Record{"id": "e5", "title": "Sprint", "starts": at(24), "ends": at(35)},
		),
		store.WithTable("orders",
			store.Record{"id": "o1", "customer": "Road Runner", "status": "open"},
		),
		store.WithTable("order_lines",
			store.Record{"id": "l1", "order": "o1", "sku": "p3", "qty": "12"},
			store.Record{"id": "l2", "order": "o1", "sku": "p5", "qty": "2"},
		),
	)
}
