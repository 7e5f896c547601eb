package attendance

import (
	"math"
	"sort"
	"time"
)

// Fixed chart colors for the status distribution.
const (
	ColorPresent = "#22c55e"
	ColorAbsent  = "#ef4444"
	ColorLate    = "#f59e0b"
)

// Stats is the full derived view over a set of records.
type Stats struct {
	TotalPresent      int                 `json:"totalPresent"`
	TotalAbsent       int                 `json:"totalAbsent"`
	TotalLate         int                 `json:"totalLate"`
	AverageAttendance int                 `json:"averageAttendance"`
	ClassWiseData     []ClassAttendance   `json:"classWiseData"`
	MonthlyData       []MonthlyAttendance `json:"monthlyData"`
	StatusData        []StatusCount       `json:"statusData"`
}

// ClassAttendance is one per-class summary row.
type ClassAttendance struct {
	Class      string `json:"class"`
	Attendance int    `json:"attendance"`
	Present    int    `json:"present"`
	Absent     int    `json:"absent"`
	Late       int    `json:"late"`
	Total      int    `json:"total"`
}

// MonthlyAttendance is one per-month trend row, labelled "Jan 2006".
type MonthlyAttendance struct {
	Month      string `json:"month"`
	Present    int    `json:"present"`
	Absent     int    `json:"absent"`
	Late       int    `json:"late"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

// StatusCount is one slice of the status distribution chart.
type StatusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// Summary folds a record list into one row, used for daily/class/person views.
type Summary struct {
	Total      int      `json:"total"`
	Present    int      `json:"present"`
	Absent     int      `json:"absent"`
	Late       int      `json:"late"`
	Percentage int      `json:"percentage"`
	Records    []Record `json:"records"`
}

// roundPct computes round(part/total*100) with a floor of 1 on the denominator,
// so an empty input yields 0 instead of a division error.
func roundPct(part, total int) int {
	if total < 1 {
		total = 1
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

type bucket struct {
	present, absent, late, total int
}

func (b *bucket) add(s Status) {
	b.total++
	switch s {
	case StatusPresent:
		b.present++
	case StatusAbsent:
		b.absent++
	case StatusLate:
		b.late++
	}
}

// ComputeStats derives all chart shapes from an unordered record list. Pure:
// no store or network access, deterministic for a given input order. Records
// with a status outside the closed enumeration count toward no bucket; records
// with an unparseable date are excluded from the monthly trend only.
func ComputeStats(records []Record) Stats {
	var overall bucket
	for _, r := range records {
		overall.add(r.Status)
	}

	// Class buckets keep first-seen order.
	classOrder := make([]string, 0)
	classes := make(map[string]*bucket)
	for _, r := range records {
		b, ok := classes[r.Class]
		if !ok {
			b = &bucket{}
			classes[r.Class] = b
			classOrder = append(classOrder, r.Class)
		}
		b.add(r.Status)
	}

	classWise := make([]ClassAttendance, 0, len(classOrder))
	for _, name := range classOrder {
		b := classes[name]
		classWise = append(classWise, ClassAttendance{
			Class:      name,
			Attendance: roundPct(b.present, b.total),
			Present:    b.present,
			Absent:     b.absent,
			Late:       b.late,
			Total:      b.total,
		})
	}

	// Month buckets sort by the first-of-month date behind each label, never
	// lexically ("Nov 2025" must precede "Jan 2026").
	type monthBucket struct {
		bucket
		start time.Time
	}
	months := make(map[string]*monthBucket)
	for _, r := range records {
		if r.Date.IsZero() {
			continue
		}
		key := r.Date.MonthKey()
		b, ok := months[key]
		if !ok {
			y, m, _ := r.Date.Date()
			b = &monthBucket{start: time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)}
			months[key] = b
		}
		b.add(r.Status)
	}

	monthly := make([]MonthlyAttendance, 0, len(months))
	for key, b := range months {
		monthly = append(monthly, MonthlyAttendance{
			Month:      key,
			Present:    b.present,
			Absent:     b.absent,
			Late:       b.late,
			Total:      b.total,
			Percentage: roundPct(b.present, b.total),
		})
	}
	sort.Slice(monthly, func(i, j int) bool {
		return months[monthly[i].Month].start.Before(months[monthly[j].Month].start)
	})

	return Stats{
		TotalPresent:      overall.present,
		TotalAbsent:       overall.absent,
		TotalLate:         overall.late,
		AverageAttendance: roundPct(overall.present, len(records)),
		ClassWiseData:     classWise,
		MonthlyData:       monthly,
		StatusData: []StatusCount{
			{Name: string(StatusPresent), Value: overall.present, Color: ColorPresent},
			{Name: string(StatusAbsent), Value: overall.absent, Color: ColorAbsent},
			{Name: string(StatusLate), Value: overall.late, Color: ColorLate},
		},
	}
}

// Summarize folds records into a single summary row.
func Summarize(records []Record) Summary {
	var b bucket
	for _, r := range records {
		b.add(r.Status)
	}
	return Summary{
		Total:      len(records),
		Present:    b.present,
		Absent:     b.absent,
		Late:       b.late,
		Percentage: roundPct(b.present, len(records)),
		Records:    records,
	}
}
