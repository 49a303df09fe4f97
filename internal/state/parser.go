// Package state decodes the application state a listing page embeds in an
// inline script and exposes it through null-tolerant accessors.
package state

import (
	"strings"

	"github.com/titanous/json5"

	"sjsage522/deliveryscraper/pkg/errors"
)

// Marker is the prefix of the inline script carrying the page state
const Marker = `window["__INITIAL_STATE__"]`

// Top-level members the projector reads
const (
	keyRestaurants     = "restaurants"
	keyRestaurantTimes = "restaurantTimes"
	keyRatings         = "ratings"
	keyCuisines        = "restaurantCuisines"
)

// RawState is the decoded page state of one listing response
type RawState struct {
	root Value
}

// Parse extracts the object literal wrapped in the marker script and decodes it.
//
// The literal is the text between the first '(' and the last ')'. When it is a
// quoted string (the page ships JSON.parse("...")) the string is decoded first.
// Bare undefined, NaN and Infinity tokens decode to null, !0 and !1 to booleans
// and new Date(x) to x.
func Parse(blob string) (*RawState, error) {
	literal, err := extractLiteral(blob)
	if err != nil {
		return nil, err
	}

	if isQuoted(literal) {
		var inner string
		if err := json5.Unmarshal([]byte(literal), &inner); err != nil {
			return nil, errors.NewMalformedState("failed to decode quoted state literal", err)
		}
		literal = strings.TrimSpace(inner)
	}

	var root interface{}
	if err := json5.Unmarshal([]byte(normalizeLiterals(literal)), &root); err != nil {
		return nil, errors.NewMalformedState("failed to decode state literal", err)
	}

	return FromValue(Wrap(root))
}

// FromValue validates an already decoded tree as page state
func FromValue(root Value) (*RawState, error) {
	if root.Kind() != KindObject {
		return nil, errors.NewMalformedState("state root is not an object", nil)
	}
	if root.Get(keyRestaurants).Kind() != KindObject {
		return nil, errors.NewMalformedState("state has no restaurants mapping", nil)
	}
	return &RawState{root: root}, nil
}

func extractLiteral(blob string) (string, error) {
	open := strings.IndexByte(blob, '(')
	closing := strings.LastIndexByte(blob, ')')
	if open < 0 || closing <= open {
		return "", errors.NewMalformedState("state script has no parenthesised literal", nil)
	}
	literal := strings.TrimSpace(blob[open+1 : closing])
	if literal == "" {
		return "", errors.NewMalformedState("state literal is empty", nil)
	}
	return literal, nil
}

func isQuoted(s string) bool {
	return len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0]
}

// Restaurants returns the restaurants mapping keyed by restaurant id
func (s *RawState) Restaurants() Value { return s.root.Get(keyRestaurants) }

// RestaurantTimes returns the opening times mapping
func (s *RawState) RestaurantTimes() Value { return s.root.Get(keyRestaurantTimes) }

// Ratings returns the ratings mapping
func (s *RawState) Ratings() Value { return s.root.Get(keyRatings) }

// Cuisines returns the cuisine tag lists mapping
func (s *RawState) Cuisines() Value { return s.root.Get(keyCuisines) }

// Analytics returns additionalAnalytics.restaurantAnalytics
func (s *RawState) Analytics() Value {
	return s.root.Path("additionalAnalytics", "restaurantAnalytics")
}

// Promoted returns promotedPlacement.defaultPromotedRestaurants
func (s *RawState) Promoted() Value {
	return s.root.Path("promotedPlacement", "defaultPromotedRestaurants")
}

// RestaurantIDs lists every restaurant id in id order
func (s *RawState) RestaurantIDs() []string {
	return s.Restaurants().Keys()
}

// HasRestaurant reports whether id is a key of the restaurants mapping
func (s *RawState) HasRestaurant(id string) bool {
	return s.Restaurants().Has(id)
}
