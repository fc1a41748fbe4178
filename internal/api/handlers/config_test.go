package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumHistory(t *testing.T) {
	valid := map[string]int{
		`0`:          0,
		`12`:         12,
		`7.99`:       7,
		`"4"`:        4,
		`" 6 "`:      6,
		`-2`:         -2,
		`1e2`:        100,
		`"-1"`:       -1,
		`3.0`:        3,
		`2147483647`: 2147483647,
	}
	for raw, want := range valid {
		got, err := parseNumHistory(json.RawMessage(raw))
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{`null`, `true`, `"x"`, `"1.5"`, `[]`, `{}`, `99999999999`} {
		_, err := parseNumHistory(json.RawMessage(raw))
		assert.Error(t, err, raw)
	}
}
