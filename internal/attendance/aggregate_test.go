package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(class, date string, status Status) Record {
	return Record{Class: class, Date: ParseDate([]byte(`"` + date + `"`)), Status: status}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)

	assert.Equal(t, 0, stats.TotalPresent)
	assert.Equal(t, 0, stats.TotalAbsent)
	assert.Equal(t, 0, stats.TotalLate)
	assert.Equal(t, 0, stats.AverageAttendance, "empty input yields 0, not NaN")
	assert.Empty(t, stats.ClassWiseData)
	assert.Empty(t, stats.MonthlyData)

	// The distribution always has exactly three entries, even with no data.
	require.Len(t, stats.StatusData, 3)
	assert.Equal(t, StatusCount{Name: "Present", Value: 0, Color: ColorPresent}, stats.StatusData[0])
	assert.Equal(t, StatusCount{Name: "Absent", Value: 0, Color: ColorAbsent}, stats.StatusData[1])
	assert.Equal(t, StatusCount{Name: "Late", Value: 0, Color: ColorLate}, stats.StatusData[2])
}

func TestComputeStatsTotals(t *testing.T) {
	records := []Record{
		rec("10-A", "2025-01-10", StatusPresent),
		rec("10-A", "2025-01-11", StatusPresent),
		rec("10-A", "2025-01-12", StatusAbsent),
		rec("10-B", "2025-01-10", StatusLate),
	}
	stats := ComputeStats(records)

	assert.Equal(t, 2, stats.TotalPresent)
	assert.Equal(t, 1, stats.TotalAbsent)
	assert.Equal(t, 1, stats.TotalLate)
	// round(2/4*100) = 50
	assert.Equal(t, 50, stats.AverageAttendance)
}

func TestComputeStatsUnknownStatusCountsNowhere(t *testing.T) {
	records := []Record{
		rec("10-A", "2025-01-10", StatusPresent),
		rec("10-A", "2025-01-11", Status("Excused")),
	}
	stats := ComputeStats(records)

	assert.Equal(t, 1, stats.TotalPresent)
	assert.Equal(t, 0, stats.TotalAbsent)
	assert.Equal(t, 0, stats.TotalLate)
	// The unknown record still dilutes the average: round(1/2*100) = 50.
	assert.Equal(t, 50, stats.AverageAttendance)

	require.Len(t, stats.ClassWiseData, 1)
	assert.Equal(t, 2, stats.ClassWiseData[0].Total)
	assert.Equal(t, 1, stats.ClassWiseData[0].Present)
}

func TestComputeStatsClassOrderIsFirstSeen(t *testing.T) {
	records := []Record{
		rec("9-C", "2025-01-10", StatusPresent),
		rec("10-A", "2025-01-10", StatusPresent),
		rec("9-C", "2025-01-11", StatusAbsent),
		rec("8-B", "2025-01-10", StatusLate),
	}
	stats := ComputeStats(records)

	require.Len(t, stats.ClassWiseData, 3)
	assert.Equal(t, "9-C", stats.ClassWiseData[0].Class)
	assert.Equal(t, "10-A", stats.ClassWiseData[1].Class)
	assert.Equal(t, "8-B", stats.ClassWiseData[2].Class)

	assert.Equal(t, 50, stats.ClassWiseData[0].Attendance)
	assert.Equal(t, 100, stats.ClassWiseData[1].Attendance)
	assert.Equal(t, 0, stats.ClassWiseData[2].Attendance)
}

func TestComputeStatsMonthlyChronological(t *testing.T) {
	// Lexically "Feb 2026" < "Nov 2025" < "Dec 2025"; chronological order must win.
	records := []Record{
		rec("10-A", "2026-02-05", StatusPresent),
		rec("10-A", "2025-11-20", StatusAbsent),
		rec("10-A", "2025-12-01", StatusPresent),
		rec("10-A", "2025-11-21", StatusPresent),
	}
	stats := ComputeStats(records)

	require.Len(t, stats.MonthlyData, 3)
	assert.Equal(t, "Nov 2025", stats.MonthlyData[0].Month)
	assert.Equal(t, "Dec 2025", stats.MonthlyData[1].Month)
	assert.Equal(t, "Feb 2026", stats.MonthlyData[2].Month)

	nov := stats.MonthlyData[0]
	assert.Equal(t, 2, nov.Total)
	assert.Equal(t, 1, nov.Present)
	assert.Equal(t, 50, nov.Percentage)
}

func TestComputeStatsUnparseableDateExcludedFromMonthlyOnly(t *testing.T) {
	bad := Record{Class: "10-A", Status: StatusPresent} // zero Date
	records := []Record{
		bad,
		rec("10-A", "2025-11-20", StatusPresent),
	}
	stats := ComputeStats(records)

	// Status totals include the dateless record.
	assert.Equal(t, 2, stats.TotalPresent)
	// The monthly trend does not.
	require.Len(t, stats.MonthlyData, 1)
	assert.Equal(t, 1, stats.MonthlyData[0].Total)
}

func TestSummarize(t *testing.T) {
	records := []Record{
		rec("10-A", "2025-01-10", StatusPresent),
		rec("10-A", "2025-01-11", StatusPresent),
		rec("10-A", "2025-01-12", StatusLate),
	}
	sum := Summarize(records)

	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 2, sum.Present)
	assert.Equal(t, 0, sum.Absent)
	assert.Equal(t, 1, sum.Late)
	// round(2/3*100) = 67
	assert.Equal(t, 67, sum.Percentage)
	assert.Len(t, sum.Records, 3)
}

func TestRoundPct(t *testing.T) {
	tests := []struct {
		part, total, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{5, 5, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundPct(tt.part, tt.total), "roundPct(%d, %d)", tt.part, tt.total)
	}
}
