package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunReport_CleanIgnoresInfoLines(t *testing.T) {
	var report RunReport
	assert.True(t, report.Clean())

	report.Infof("fetched %d reservations", 3)
	report.Created = 2
	assert.True(t, report.Clean())

	report.Warnf("paris", "something recoverable")
	assert.False(t, report.Clean())
}

func TestRunReport_Merge(t *testing.T) {
	var total, partial RunReport
	partial.Created = 1
	partial.Errorf("paris", "boom")
	partial.Warnf("lyon", "meh")

	total.Merge(partial)
	total.Merge(partial)

	assert.Equal(t, 2, total.Created)
	assert.Equal(t, 2, total.ErrorCount)
	assert.Equal(t, 2, total.WarningCount)
	assert.Len(t, total.Lines, 4)
}

func TestRunReport_OfficeLinesScopedAndActionable(t *testing.T) {
	var report RunReport
	report.Infof("run started")
	report.Warnf("paris", "reservation RES-1 overbooked")
	report.Errorf("paris", "reservation RES-2 failed")
	report.Warnf("lyon", "ack failed")
	report.Errorf("", "channel unreachable") // no office to route to

	offices := report.OfficeLines()
	assert.Len(t, offices, 2)
	assert.Len(t, offices["paris"], 2)
	assert.Equal(t, []string{"ack failed"}, offices["lyon"])
}
