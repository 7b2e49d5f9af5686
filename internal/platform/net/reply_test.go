package net

import (
	"errors"
	"net/http"
	"testing"

	perr "sylwalk/internal/platform/errors"
)

func TestReply(t *testing.T) {
	w := Reply(http.StatusCreated, map[string]int{"n": 1}, "r-1")
	if w.StatusCode != 201 || w.Status != "Created" || w.RequestID != "r-1" || w.Data == nil {
		t.Fatalf("unexpected wire %+v", w)
	}
	if w.Code != perr.ErrorCodeUnknown || w.Error != "" {
		t.Fatalf("success wire carries error fields: %+v", w)
	}
}

func TestFail(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   perr.ErrorCode
	}{
		{perr.DeadEndf("dead end at step 2"), http.StatusUnprocessableEntity, perr.ErrorCodeDeadEnd},
		{perr.NotFoundf("syllable %q", "zz"), http.StatusNotFound, perr.ErrorCodeNotFound},
		{perr.JSONErrf("empty body"), http.StatusBadRequest, perr.ErrorCodeJSON},
		{errors.New("boom"), http.StatusInternalServerError, perr.ErrorCodeUnknown},
	}
	for _, c := range cases {
		status, w := Fail(c.err, "r-2")
		if status != c.status || w.StatusCode != c.status {
			t.Fatalf("%v: status %d/%d want %d", c.err, status, w.StatusCode, c.status)
		}
		if w.Code != c.code {
			t.Fatalf("%v: code %d want %d", c.err, w.Code, c.code)
		}
		if w.Error == "" || w.RequestID != "r-2" || w.Data != nil {
			t.Fatalf("%v: unexpected wire %+v", c.err, w)
		}
	}
}

func TestFailNil(t *testing.T) {
	status, w := Fail(nil, "")
	if status != http.StatusOK || w.StatusCode != http.StatusOK {
		t.Fatalf("nil error should be 200, got %d", status)
	}
}
