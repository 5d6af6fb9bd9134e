package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in     string
		want   Severity
		wantOK bool
	}{
		{"error", SeverityError, true},
		{"ERROR", SeverityError, true},
		{"warning", SeverityWarning, true},
		{" warn ", SeverityWarning, true},
		{"info", SeverityWarning, false},
		{"", SeverityWarning, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSeverity(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeverityJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		S Severity `json:"s"`
		C Category `json:"c"`
		V Verdict  `json:"v"`
	}{SeverityError, CategorySafety, VerdictReject})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"error","c":"safety","v":"reject"}`, string(data))

	var s Severity
	require.NoError(t, s.UnmarshalText([]byte("warning")))
	assert.Equal(t, SeverityWarning, s)
	assert.Error(t, s.UnmarshalText([]byte("fatal")))
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "accept", VerdictAccept.String())
	assert.Equal(t, "reject", VerdictReject.String())
	assert.Equal(t, "unknown", Verdict(9).String())
}
