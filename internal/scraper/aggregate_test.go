package scraper

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/deliveryscraper/pkg/errors"
)

func rec(id, position, cost string) RestaurantRecord {
	return RestaurantRecord{
		ID:           id,
		Name:         "R" + id,
		Position:     position,
		DeliveryCost: cost,
		IsNew:        "true",
		IsPremier:    "false",
	}
}

func TestAggregateAveragesPerGroup(t *testing.T) {
	input := []RestaurantRecord{rec("42", "3", "1"), rec("42", "7", "2")}

	out, err := Aggregate(input)
	require.NoError(t, err)
	require.Len(t, out, 2)

	for _, r := range out {
		assert.Equal(t, "42", r.ID)
		assert.Equal(t, 5.0, r.AveragePosition)
		assert.Equal(t, 1.5, r.AverageDeliveryCost)
	}
	assert.Equal(t, "5.0", out[0].Row()[3])
	assert.Equal(t, "1.5", out[0].Row()[4])
}

func TestAggregateMeanCorrectness(t *testing.T) {
	input := []RestaurantRecord{
		rec("1", "1", "0.5"),
		rec("2", "10", "2"),
		rec("1", "2", "1"),
		rec("3", "4", "0"),
		rec("1", "6", "3.25"),
		rec("2", "11", "2.5"),
	}

	out, err := Aggregate(input)
	require.NoError(t, err)

	want := map[string][2]float64{
		"1": {3, 1.5833333333333333},
		"2": {10.5, 2.25},
		"3": {4, 0},
	}
	for _, r := range out {
		assert.InDelta(t, want[r.ID][0], r.AveragePosition, 1e-9, "position of %s", r.ID)
		assert.InDelta(t, want[r.ID][1], r.AverageDeliveryCost, 1e-9, "cost of %s", r.ID)
	}
}

func TestAggregatePreservesRowCountAndOrder(t *testing.T) {
	input := []RestaurantRecord{
		rec("b", "1", "1"),
		rec("a", "2", "1"),
		rec("b", "3", "1"),
		rec("c", "4", "1"),
		rec("a", "5", "1"),
	}

	out, err := Aggregate(input)
	require.NoError(t, err)
	assert.Len(t, out, len(input))

	var ids []string
	for _, r := range out {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"b", "b", "a", "a", "c"}, ids)
	assert.Equal(t, 3, UniqueIDs(out))

	again, err := Aggregate(input)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestAggregateDropsVolatileFields(t *testing.T) {
	dropped := []string{
		"isTemporaryBoost", "isTemporarilyOffline", "isPremier", "defaultPromoted", "isNew",
		"isOpenNowForCollection", "isOpenNowForDelivery", "isOpenNowForPreOrder",
		"nextOpeningTime", "nextDeliveryTime", "position", "deliveryCost",
	}

	header := AggregatedRecord{}.Header()
	typ := reflect.TypeOf(AggregatedRecord{})
	require.Equal(t, typ.NumField(), len(header))
	for i := 0; i < typ.NumField(); i++ {
		assert.Equal(t, header[i], typ.Field(i).Tag.Get("json"))
		assert.NotContains(t, dropped, header[i])
	}
	assert.Equal(t, []string{
		"id", "name", "uniqueName", "averagePosition", "averageDeliveryCost", "minimumDeliveryValue",
		"address", "starRating", "ratingCount", "cuisineTypes_1", "cuisineTypes_2",
	}, header)
}

func TestAggregateCarriesStableFields(t *testing.T) {
	r := RestaurantRecord{
		ID: "9", Name: "Trattoria", UniqueName: "trattoria", Position: "2", DeliveryCost: "1",
		MinimumDeliveryValue: "15", Address: "Via Po 3", StarRating: "4.1", RatingCount: "33",
		CuisineType1: "pasta", CuisineType2: "pesce",
	}

	out, err := Aggregate([]RestaurantRecord{r})
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "Trattoria", "trattoria", "2.0", "1.0", "15", "Via Po 3", "4.1", "33", "pasta", "pesce"}, out[0].Row())
}

func TestAggregateRejectsNonNumeric(t *testing.T) {
	tests := []struct {
		name  string
		input []RestaurantRecord
	}{
		{"empty position", []RestaurantRecord{rec("1", "", "1")}},
		{"empty cost", []RestaurantRecord{rec("1", "1", "")}},
		{"text cost", []RestaurantRecord{rec("1", "1", "1"), rec("2", "2", "free")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Aggregate(tt.input)
			assert.Nil(t, out)
			assert.True(t, stderrors.Is(err, errors.ErrAggregationPrecondition), "got %v", err)
		})
	}
}

func TestAggregateEmpty(t *testing.T) {
	out, err := Aggregate(nil)
	assert.NoError(t, err)
	assert.Empty(t, out)
}

func TestExpandRange(t *testing.T) {
	assert.Equal(t, []string{"00100", "00101", "00102"}, ExpandRange(PostalRange{Lower: 100, Upper: 102}, 5))
	assert.Equal(t, []string{"20121"}, ExpandRange(PostalRange{Lower: 20121, Upper: 20121}, 5))
	assert.Equal(t, []string{"123456"}, ExpandRange(PostalRange{Lower: 123456, Upper: 123456}, 5))
	assert.Empty(t, ExpandRange(PostalRange{Lower: 20, Upper: 10}, 5))
}
