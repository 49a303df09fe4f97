package scraper

import (
	"strconv"
	"strings"

	"sjsage522/deliveryscraper/pkg/errors"
)

// Aggregate annotates every record with the mean position and delivery cost
// of all records sharing its id. It emits one row per input record: groups
// in order of first appearance, members in input order.
//
// Position and delivery cost must be numeric on every record.
func Aggregate(records []RestaurantRecord) ([]AggregatedRecord, error) {
	type group struct {
		members  []int
		position float64
		cost     float64
	}

	groups := make(map[string]*group)
	var order []string

	for i, r := range records {
		position, err := parseNumeric(r.Position)
		if err != nil {
			return nil, errors.NewAggregationPrecondition(r.ID, "position is not numeric: "+strconv.Quote(r.Position), err)
		}
		cost, err := parseNumeric(r.DeliveryCost)
		if err != nil {
			return nil, errors.NewAggregationPrecondition(r.ID, "deliveryCost is not numeric: "+strconv.Quote(r.DeliveryCost), err)
		}

		g, ok := groups[r.ID]
		if !ok {
			g = &group{}
			groups[r.ID] = g
			order = append(order, r.ID)
		}
		g.members = append(g.members, i)
		g.position += position
		g.cost += cost
	}

	out := make([]AggregatedRecord, 0, len(records))
	for _, id := range order {
		g := groups[id]
		n := float64(len(g.members))
		avgPosition := g.position / n
		avgCost := g.cost / n

		for _, i := range g.members {
			r := records[i]
			out = append(out, AggregatedRecord{
				ID:                   r.ID,
				Name:                 r.Name,
				UniqueName:           r.UniqueName,
				AveragePosition:      avgPosition,
				AverageDeliveryCost:  avgCost,
				MinimumDeliveryValue: r.MinimumDeliveryValue,
				Address:              r.Address,
				StarRating:           r.StarRating,
				RatingCount:          r.RatingCount,
				CuisineType1:         r.CuisineType1,
				CuisineType2:         r.CuisineType2,
			})
		}
	}

	return out, nil
}

// UniqueIDs counts the distinct restaurant ids of records
func UniqueIDs(records []AggregatedRecord) int {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r.ID] = struct{}{}
	}
	return len(seen)
}

func parseNumeric(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// formatMean renders a mean with at least one decimal place ("5.0", "2.25")
func formatMean(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
