package timelog

import "time"

// HistogramDays is the length of the dashboard activity window.
const HistogramDays = 7

var weekdayLabels = [...]string{"dom.", "seg.", "ter.", "qua.", "qui.", "sex.", "sáb."}

type DayActivity struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Histogram counts logs per calendar day for the trailing seven days ending
// on now's day, oldest first. Days are bucketed in loc.
func Histogram(logs []TimeLog, now time.Time, loc *time.Location) []DayActivity {
	now = now.In(loc)
	days := make([]DayActivity, HistogramDays)
	index := make(map[string]int, HistogramDays)

	for i := 0; i < HistogramDays; i++ {
		d := time.Date(now.Year(), now.Month(), now.Day()-(HistogramDays-1-i), 12, 0, 0, 0, loc)
		key := d.Format(time.DateOnly)
		days[i] = DayActivity{Date: key, Label: weekdayLabels[d.Weekday()]}
		index[key] = i
	}

	for _, l := range logs {
		if i, ok := index[l.LocalDate(loc)]; ok {
			days[i].Count++
		}
	}

	return days
}

// MaxActivity is the tallest bar of the histogram, never less than 1.
func MaxActivity(days []DayActivity) int {
	max := 1
	for _, d := range days {
		if d.Count > max {
			max = d.Count
		}
	}
	return max
}
