package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesign_JSONRoundTrip(t *testing.T) {
	rec := validRecord()
	rec.Extra = PtrTo("blocking recommended")
	rec.SleeveLength = nil
	original, err := rec.ToDesign()
	require.NoError(t, err)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Design
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
	assert.Nil(t, decoded.Yarn)
	_, ok := decoded.Size.SleeveLength().Value()
	assert.False(t, ok)
}

func TestDesign_MarshalJSON_NullsAreExplicit(t *testing.T) {
	d, err := validRecord().ToDesign()
	require.NoError(t, err)

	data, err := json.Marshal(d)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, key := range []string{"yarn", "extra"} {
		v, present := raw[key]
		assert.True(t, present, "%s must be present", key)
		assert.Nil(t, v, "%s must be null", key)
	}
	assert.Equal(t, "Sweater", raw["designType"])
	assert.Equal(t, "Text", raw["patternType"])
	assert.Equal(t, map[string]any{"stitches": 23.5, "rows": 25.0}, raw["gauge"])
	assert.Equal(t, map[string]any{"value": 0.0}, raw["price"])
	assert.Equal(t, map[string]any{"value": "# Step1. 코를 10개 잡습니다."}, raw["pattern"])
	assert.Equal(t, "2021-03-14T09:30:00Z", raw["createdAt"])

	size := raw["size"].(map[string]any)
	assert.Equal(t, map[string]any{"value": 1.0}, size["totalLength"])
	assert.Equal(t, map[string]any{"value": 5.0}, size["armholeDepth"])
}

func TestDesign_MarshalJSON_AbsentSizeIsNullValue(t *testing.T) {
	rec := validRecord()
	rec.BottomWidth = nil
	d, err := rec.ToDesign()
	require.NoError(t, err)

	data, err := json.Marshal(d.Size)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"bottomWidth":{"value":null}`)
}

func TestDesign_UnmarshalJSON_Rejects(t *testing.T) {
	d, err := validRecord().ToDesign()
	require.NoError(t, err)
	data, err := json.Marshal(d)
	require.NoError(t, err)

	var base map[string]any
	require.NoError(t, json.Unmarshal(data, &base))

	tests := []struct {
		name   string
		mutate func(m map[string]any)
		check  func(t *testing.T, err error)
	}{
		{
			name:   "negative price",
			mutate: func(m map[string]any) { m["price"] = map[string]any{"value": -1} },
			check: func(t *testing.T, err error) {
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
			},
		},
		{
			name:   "zero gauge rows",
			mutate: func(m map[string]any) { m["gauge"] = map[string]any{"stitches": 20, "rows": 0} },
			check: func(t *testing.T, err error) {
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
			},
		},
		{
			name:   "unknown design type",
			mutate: func(m map[string]any) { m["designType"] = "Scarf" },
			check: func(t *testing.T, err error) {
				var merr *MappingError
				assert.ErrorAs(t, err, &merr)
			},
		},
		{
			name:   "empty name",
			mutate: func(m map[string]any) { m["name"] = "" },
			check: func(t *testing.T, err error) {
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
			},
		},
		{
			name:   "missing name",
			mutate: func(m map[string]any) { delete(m, "name") },
			check: func(t *testing.T, err error) {
				var merr *MappingError
				assert.ErrorAs(t, err, &merr)
			},
		},
		{
			name:   "missing pattern",
			mutate: func(m map[string]any) { delete(m, "pattern") },
			check: func(t *testing.T, err error) {
				var merr *MappingError
				assert.ErrorAs(t, err, &merr)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := make(map[string]any, len(base))
			for k, v := range base {
				m[k] = v
			}
			tt.mutate(m)
			payload, err := json.Marshal(m)
			require.NoError(t, err)

			var out Design
			tt.check(t, json.Unmarshal(payload, &out))
		})
	}
}
