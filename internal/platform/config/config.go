// Package config reads typed settings from prefixed environment variables
//
// Required values panic when absent. Optional values fall back to a default
// and warn when present but malformed.
package config

import (
	"strconv"
	"strings"

	"sylwalk/internal/platform/config/raw"
	"sylwalk/internal/platform/logger"
)

// Conf is a prefixed view, e.g. New().Prefix("CORE_API_")
type Conf struct{ env raw.Conf }

// New returns the unprefixed view
func New() Conf { return Conf{env: raw.New()} }

// Prefix returns a child view with p appended
func (c Conf) Prefix(p string) Conf { return Conf{env: c.env.Prefix(p)} }

// MustString panics if key is unset or blank
func (c Conf) MustString(key string) string {
	v, ok := c.env.Lookup(key)
	if !ok {
		logger.Get().Panic().Str("key", c.env.Key(key)).Msg("missing required env")
	}
	return v
}

// MayString returns the value or def
func (c Conf) MayString(key, def string) string { return c.env.Get(key, def) }

// MayInt returns the value or def
func (c Conf) MayInt(key string, def int) int {
	return may(c, key, def, strconv.Atoi)
}

// MayBool accepts anything strconv.ParseBool does
func (c Conf) MayBool(key string, def bool) bool {
	return may(c, key, def, strconv.ParseBool)
}

// MayEnum returns the value when it matches one of allowed, ignoring case
// the value is returned as written; an unlisted value panics
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return v
		}
	}
	logger.Get().Panic().Str("key", c.env.Key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}

func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s, ok := c.env.Lookup(key)
	if !ok {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.env.Key(key)).Str("value", s).Interface("default", def).Msg("invalid value; using default")
		return def
	}
	return v
}
