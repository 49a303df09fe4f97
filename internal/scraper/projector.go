package scraper

import (
	"fmt"

	"sjsage522/deliveryscraper/internal/state"
)

// Project assembles the record of restaurant id from every sub-mapping of s.
// Anything missing at any depth renders as "". The id must be a key of the
// restaurants mapping.
func Project(s *state.RawState, id string) RestaurantRecord {
	if !s.HasRestaurant(id) {
		panic(fmt.Sprintf("scraper: project unknown restaurant id %q", id))
	}

	rest := s.Restaurants().Get(id)
	times := s.RestaurantTimes().Get(id)
	ratings := s.Ratings().Get(id)
	cuisines := s.Cuisines().Get(id)
	analytics := s.Analytics().Get(id)

	return RestaurantRecord{
		ID:                     id,
		Name:                   rest.Get("name").Text(),
		UniqueName:             rest.Get("uniqueName").Text(),
		IsTemporaryBoost:       rest.Get("isTemporaryBoost").Text(),
		IsTemporarilyOffline:   rest.Get("isTemporarilyOffline").Text(),
		IsPremier:              rest.Get("isPremier").Text(),
		DefaultPromoted:        s.Promoted().Path(id, "defaultPromoted").Text(),
		IsNew:                  rest.Get("isNew").Text(),
		Position:               rest.Get("position").Text(),
		DeliveryCost:           analytics.Get("deliveryCost").Text(),
		MinimumDeliveryValue:   analytics.Get("minimumDeliveryValue").Text(),
		Address:                rest.Get("address").Text(),
		StarRating:             ratings.Get("starRating").Text(),
		RatingCount:            ratings.Get("ratingCount").Text(),
		IsOpenNowForCollection: times.Get("isOpenNowForCollection").Text(),
		IsOpenNowForDelivery:   times.Get("isOpenNowForDelivery").Text(),
		IsOpenNowForPreOrder:   times.Get("isOpenNowForPreOrder").Text(),
		NextOpeningTime:        times.Get("nextOpeningTime").Text(),
		NextDeliveryTime:       times.Get("nextDeliveryTime").Text(),
		CuisineType1:           cuisines.Index(0).Text(),
		CuisineType2:           cuisines.Index(1).Text(),
	}
}

// ProjectAll projects every restaurant of s in id order
func ProjectAll(s *state.RawState) []RestaurantRecord {
	ids := s.RestaurantIDs()
	records := make([]RestaurantRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, Project(s, id))
	}
	return records
}
