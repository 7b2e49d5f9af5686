package raw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixAndGet(t *testing.T) {
	t.Setenv("SYL_LOG_LEVEL", "  info ")
	c := New().Prefix("SYL_").Prefix("LOG_")

	assert.Equal(t, "SYL_LOG_LEVEL", c.Key("LEVEL"))
	assert.Equal(t, "info", c.Get("LEVEL", "debug"))
	assert.Equal(t, "debug", c.Get("MISSING", "debug"))
}

func TestGetBool(t *testing.T) {
	for v, want := range map[string]bool{"1": true, "TRUE": true, "yes": true, "no": false, "0": false} {
		t.Setenv("FLAG", v)
		assert.Equal(t, want, New().GetBool("FLAG", !want), v)
	}
	assert.True(t, New().GetBool("UNSET_FLAG", true))
}

func TestGetInt(t *testing.T) {
	t.Setenv("N", "42")
	assert.Equal(t, 42, New().GetInt("N", 1))

	t.Setenv("N", "4x")
	assert.Equal(t, 1, New().GetInt("N", 1))

	t.Setenv("N", "-3")
	assert.Equal(t, 1, New().GetInt("N", 1))

	assert.Equal(t, 7, New().GetInt("UNSET_N", 7))
}
