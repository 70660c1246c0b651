package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf, "info", "production")
	l.WithField("case_number", "2024-001").Info("cycle started")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "cycle started", entry["msg"])
	assert.Equal(t, "2024-001", entry["case_number"])
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l := NewWithOutput(&bytes.Buffer{}, "loud", "development")
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf, "debug", "development")
	l.Debug("monitoring disabled")
	assert.Contains(t, buf.String(), "monitoring disabled")
}
