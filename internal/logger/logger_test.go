package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LocalIsTextWithDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, EnvLocal)

	log.Debug("dbg", "a", 1)

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "msg=dbg")
	assert.Contains(t, out, "a=1")
}

func TestNew_DevIsJSONWithDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, EnvDev)

	log.Debug("dbg", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, "v", rec["k"])
}

func TestNew_ProdAndUnknownDropDebug(t *testing.T) {
	for _, env := range []string{EnvProd, "staging"} {
		t.Run(env, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(&buf, env)

			log.Debug("hidden")
			assert.Empty(t, buf.String())

			log.Info("shown")
			var rec map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
			assert.Equal(t, "shown", rec["msg"])
		})
	}
}
