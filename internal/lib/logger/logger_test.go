package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		wantJSON  bool
		wantDebug bool
	}{
		{name: "local is text with debug", env: envLocal, wantJSON: false, wantDebug: true},
		{name: "dev is text with debug", env: envDev, wantJSON: false, wantDebug: true},
		{name: "prod is json", env: envProd, wantJSON: true, wantDebug: false},
		{name: "unknown env falls back to json", env: "staging", wantJSON: true, wantDebug: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := newWithWriter(tt.env, &buf)

			log.Debug("debug line")
			assert.Equal(t, tt.wantDebug, strings.Contains(buf.String(), "debug line"))

			buf.Reset()
			log.Info("info line", "key", "value")
			out := buf.String()
			require.Contains(t, out, "info line")

			var decoded map[string]any
			isJSON := json.Unmarshal([]byte(strings.TrimSpace(out)), &decoded) == nil
			assert.Equal(t, tt.wantJSON, isJSON)
		})
	}
}
