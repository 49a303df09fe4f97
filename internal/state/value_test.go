package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueAccessorsTolerateMissingPaths(t *testing.T) {
	v := Wrap(map[string]interface{}{
		"a": map[string]interface{}{"b": []interface{}{"x", 2.5}},
	})

	assert.Equal(t, KindObject, v.Kind())
	assert.Equal(t, KindArray, v.Path("a", "b").Kind())
	assert.Equal(t, "x", v.Path("a", "b").Index(0).Text())
	assert.Equal(t, "2.5", v.Path("a", "b").Index(1).Text())
	assert.True(t, v.Path("a", "b").Index(2).IsNull())
	assert.True(t, v.Path("a", "missing", "deeper").IsNull())
	assert.True(t, v.Get("a").Index(0).IsNull())
	assert.Equal(t, "", v.Path("nope").Text())
	assert.Equal(t, 0, v.Path("nope").Len())
	assert.Nil(t, v.Path("nope").Keys())
}

func TestValueText(t *testing.T) {
	tests := []struct {
		raw  interface{}
		want string
	}{
		{nil, ""},
		{"Pizza", "Pizza"},
		{3.0, "3"},
		{0.1, "0.1"},
		{1e21, "1000000000000000000000"},
		{true, "true"},
		{false, "false"},
		{[]interface{}{"a", 1.0}, `["a",1]`},
		{map[string]interface{}{"k": "v"}, `{"k":"v"}`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Wrap(tt.raw).Text())
	}
}

func TestValueKeysIDOrder(t *testing.T) {
	v := Wrap(map[string]interface{}{
		"100": nil, "9": nil, "20": nil, "b": nil, "a": nil,
	})
	assert.Equal(t, []string{"9", "20", "100", "a", "b"}, v.Keys())
}

func TestValueKeysEqualNumbersTieBreak(t *testing.T) {
	v := Wrap(map[string]interface{}{
		"1": nil, "01": nil, "001": nil, "2": nil,
	})
	for i := 0; i < 20; i++ {
		assert.Equal(t, []string{"001", "01", "1", "2"}, v.Keys())
	}
}
