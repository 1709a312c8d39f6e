package rbridge_test

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/oruby/rbridge"
	"github.com/oruby/rbridge/internal/assert"
	_ "github.com/oruby/rbridge/rsim"
)

func TestOpen(t *testing.T) {
	assert.Expect(t, rbridge.BackendExists("sim"), "sim backend should be registered")
	assert.Include(t, "sim", toIntf(rbridge.Backends())...)

	var buf bytes.Buffer
	conf := rbridge.DefaultConfig()
	conf.Trace = log.New(&buf, "", 0)

	st, err := rbridge.Open("sim", conf)
	assert.NilError(t, err)
	defer st.Close()

	x, err := st.R("c", 1, 2)
	assert.NilError(t, err)
	assert.Equal(t, gz(t, st, x), []float64{1, 2})
	assert.Expect(t, strings.Contains(buf.String(), "eval c"), "trace should log round trips, got %q", buf.String())
}

func TestOpenUnknown(t *testing.T) {
	_, err := rbridge.Open("nope", rbridge.DefaultConfig())
	assert.ErrorIs(t, err, rbridge.ErrUnknownBackend)
}

func TestRegisterPanics(t *testing.T) {
	open := func(conf rbridge.Config) (rbridge.Interop, error) { return nil, nil }

	for _, c := range []struct {
		name string
		open rbridge.OpenFunc
	}{
		{"", open},
		{"sim", open},
		{"nilopen", nil},
	} {
		func() {
			defer func() {
				assert.Expect(t, recover() != nil, "Register(%q) should panic", c.name)
			}()
			rbridge.Register(c.name, c.open)
		}()
	}
}

func TestDefaultConfig(t *testing.T) {
	setenv(t, "RBRIDGE_RSCRIPT", "/opt/R/bin/Rscript")
	setenv(t, "RBRIDGE_TIMEOUT", "2")

	conf := rbridge.DefaultConfig()
	assert.Equal(t, conf.Command, "/opt/R/bin/Rscript")
	assert.Equal(t, conf.Timeout.Seconds(), 2.0)

	setenv(t, "RBRIDGE_TIMEOUT", "1500ms")
	assert.Equal(t, rbridge.DefaultConfig().Timeout.Milliseconds(), int64(1500))
}

func toIntf(ss []string) []interface{} {
	ret := make([]interface{}, len(ss))
	for i, s := range ss {
		ret[i] = s
	}
	return ret
}

func setenv(t *testing.T, key, value string) {
	old, had := os.LookupEnv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}
