package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMustString(t *testing.T) {
	t.Setenv("CORE_API_PORT", " 4000 ")
	c := New().Prefix("CORE_").Prefix("API_")

	assert.Equal(t, "4000", c.MustString("PORT"))
	assert.Panics(t, func() { c.MustString("MISSING") })
}

func TestMayInt(t *testing.T) {
	c := New().Prefix("WALK_")
	assert.Equal(t, 5, c.MayInt("COUNT", 5))

	t.Setenv("WALK_COUNT", "12")
	assert.Equal(t, 12, c.MayInt("COUNT", 5))

	t.Setenv("WALK_COUNT", "twelve")
	assert.Equal(t, 5, c.MayInt("COUNT", 5))
}

func TestMayBool(t *testing.T) {
	c := New()
	assert.True(t, c.MayBool("SWAGGER_UNSET", true))

	t.Setenv("SWAGGER", "false")
	assert.False(t, c.MayBool("SWAGGER", true))

	t.Setenv("SWAGGER", "maybe")
	assert.True(t, c.MayBool("SWAGGER", true))
}

func TestMayEnum(t *testing.T) {
	c := New()
	assert.Equal(t, "file", c.MayEnum("SOURCE", "file", "file", "sqlite", "pg"))

	t.Setenv("SOURCE", "SQLite")
	assert.Equal(t, "SQLite", c.MayEnum("SOURCE", "file", "file", "sqlite", "pg"))

	t.Setenv("SOURCE", "mysql")
	assert.Panics(t, func() { c.MayEnum("SOURCE", "file", "file", "sqlite", "pg") })

	assert.Equal(t, "", c.MayEnum("EMPTY_UNSET", "", "a"))
}
