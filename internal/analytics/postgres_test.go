package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatasetPattern(t *testing.T) {
	tests := []struct {
		dataset string
		ok      bool
	}{
		{"access_logs", true},
		{"AccessLogs2", true},
		{"_hidden", true},
		{"", false},
		{"1logs", false},
		{"logs; DROP TABLE links", false},
		{"logs-prod", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, datasetPattern.MatchString(tt.dataset), tt.dataset)
	}
}

func TestBuildStatements(t *testing.T) {
	s := &PostgresSink{dataset: "access_logs"}
	s.buildStatements()

	assert.Contains(t, s.insertStmt, "INSERT INTO access_logs (index1, blob1,")
	assert.Contains(t, s.insertStmt, "blob16, double1, double2)")
	assert.Contains(t, s.insertStmt, "$19)")
	assert.Equal(t,
		"SELECT COALESCE(SUM(_sample_interval), 0) FROM access_logs WHERE blob1 = $1",
		s.sumStmt)
}
