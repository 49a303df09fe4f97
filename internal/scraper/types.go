package scraper

import "time"

// PostalRange is the positional first/last postal code listed for a city
type PostalRange struct {
	City  string `json:"city"`
	Lower int    `json:"lowerBound"`
	Upper int    `json:"upperBound"`
}

// RestaurantRecord is the flat projection of one restaurant for one postal code.
// Every field is always present; values missing from the page state are "".
type RestaurantRecord struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	UniqueName             string `json:"uniqueName"`
	IsTemporaryBoost       string `json:"isTemporaryBoost"`
	IsTemporarilyOffline   string `json:"isTemporarilyOffline"`
	IsPremier              string `json:"isPremier"`
	DefaultPromoted        string `json:"defaultPromoted"`
	IsNew                  string `json:"isNew"`
	Position               string `json:"position"`
	DeliveryCost           string `json:"deliveryCost"`
	MinimumDeliveryValue   string `json:"minimumDeliveryValue"`
	Address                string `json:"address"`
	StarRating             string `json:"starRating"`
	RatingCount            string `json:"ratingCount"`
	IsOpenNowForCollection string `json:"isOpenNowForCollection"`
	IsOpenNowForDelivery   string `json:"isOpenNowForDelivery"`
	IsOpenNowForPreOrder   string `json:"isOpenNowForPreOrder"`
	NextOpeningTime        string `json:"nextOpeningTime"`
	NextDeliveryTime       string `json:"nextDeliveryTime"`
	CuisineType1           string `json:"cuisineTypes_1"`
	CuisineType2           string `json:"cuisineTypes_2"`
}

var restaurantHeader = []string{
	"id", "name", "uniqueName", "isTemporaryBoost", "isTemporarilyOffline", "isPremier",
	"defaultPromoted", "isNew", "position", "deliveryCost", "minimumDeliveryValue", "address",
	"starRating", "ratingCount", "isOpenNowForCollection", "isOpenNowForDelivery",
	"isOpenNowForPreOrder", "nextOpeningTime", "nextDeliveryTime", "cuisineTypes_1", "cuisineTypes_2",
}

// Header returns the CSV column names in field order
func (RestaurantRecord) Header() []string {
	return append([]string(nil), restaurantHeader...)
}

// Row returns the field values in Header order
func (r RestaurantRecord) Row() []string {
	return []string{
		r.ID, r.Name, r.UniqueName, r.IsTemporaryBoost, r.IsTemporarilyOffline, r.IsPremier,
		r.DefaultPromoted, r.IsNew, r.Position, r.DeliveryCost, r.MinimumDeliveryValue, r.Address,
		r.StarRating, r.RatingCount, r.IsOpenNowForCollection, r.IsOpenNowForDelivery,
		r.IsOpenNowForPreOrder, r.NextOpeningTime, r.NextDeliveryTime, r.CuisineType1, r.CuisineType2,
	}
}

// AggregatedRecord is a RestaurantRecord annotated with the means of its id group
// and stripped of the volatile status fields.
type AggregatedRecord struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	UniqueName           string  `json:"uniqueName"`
	AveragePosition      float64 `json:"averagePosition"`
	AverageDeliveryCost  float64 `json:"averageDeliveryCost"`
	MinimumDeliveryValue string  `json:"minimumDeliveryValue"`
	Address              string  `json:"address"`
	StarRating           string  `json:"starRating"`
	RatingCount          string  `json:"ratingCount"`
	CuisineType1         string  `json:"cuisineTypes_1"`
	CuisineType2         string  `json:"cuisineTypes_2"`
}

var aggregatedHeader = []string{
	"id", "name", "uniqueName", "averagePosition", "averageDeliveryCost", "minimumDeliveryValue",
	"address", "starRating", "ratingCount", "cuisineTypes_1", "cuisineTypes_2",
}

// Header returns the CSV column names in field order
func (AggregatedRecord) Header() []string {
	return append([]string(nil), aggregatedHeader...)
}

// Row returns the field values in Header order
func (r AggregatedRecord) Row() []string {
	return []string{
		r.ID, r.Name, r.UniqueName, formatMean(r.AveragePosition), formatMean(r.AverageDeliveryCost),
		r.MinimumDeliveryValue, r.Address, r.StarRating, r.RatingCount, r.CuisineType1, r.CuisineType2,
	}
}

// Result is the outcome of scraping one postal code. Err is set when the
// postal code failed and Records was downgraded to empty.
type Result struct {
	PostalCode string
	Records    []RestaurantRecord
	File       string
	Err        error
	Elapsed    time.Duration
}

// RunInfo identifies one run: the city and the timestamp shared by every file it writes
type RunInfo struct {
	City      string
	Timestamp string
	Dir       string
}

// RecordTable is a list of restaurant records written as one table
type RecordTable []RestaurantRecord

// Header returns the record column names
func (RecordTable) Header() []string { return RestaurantRecord{}.Header() }

// Rows returns one row per record
func (t RecordTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, r := range t {
		rows[i] = r.Row()
	}
	return rows
}

// AggregatedTable is a list of aggregated records written as one table
type AggregatedTable []AggregatedRecord

// Header returns the aggregated column names
func (AggregatedTable) Header() []string { return AggregatedRecord{}.Header() }

// Rows returns one row per record
func (t AggregatedTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, r := range t {
		rows[i] = r.Row()
	}
	return rows
}
