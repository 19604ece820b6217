package sleep

import (
	"math"
	"time"
)

// None is reported for FavoriteSound and BestDay when there is no data.
const None = "Nenhum"

var weekdayNames = [7]string{
	time.Sunday:    "Domingo",
	time.Monday:    "Segunda-feira",
	time.Tuesday:   "Terça-feira",
	time.Wednesday: "Quarta-feira",
	time.Thursday:  "Quinta-feira",
	time.Friday:    "Sexta-feira",
	time.Saturday:  "Sábado",
}

// WeekdayName returns the Portuguese name of d.
func WeekdayName(d time.Weekday) string {
	return weekdayNames[d]
}

// Stats summarises a sleep history.
type Stats struct {
	AverageQuality  float64    `json:"averageQuality"`
	AverageDuration float64    `json:"averageDuration"`
	TotalSessions   int        `json:"totalSessions"`
	TotalHours      float64    `json:"totalHours"`
	FavoriteSound   string     `json:"favoriteSound"`
	BestDay         string     `json:"bestDay"`
	WeeklyTrend     [7]float64 `json:"weeklyTrend"`
}

// Compute derives Stats from sessions in history order (newest first).
// WeeklyTrend[i] is the average quality of sessions dated i days before now.
func Compute(sessions []Session, now time.Time) Stats {
	st := Stats{
		TotalSessions: len(sessions),
		FavoriteSound: None,
		BestDay:       None,
	}
	if len(sessions) == 0 {
		return st
	}

	var quality, duration int
	for _, s := range sessions {
		quality += s.Quality
		duration += s.Duration
	}
	n := float64(len(sessions))
	st.AverageQuality = float64(quality) / n
	st.AverageDuration = float64(duration) / n
	st.TotalHours = float64(duration) / 60

	if fav, ok := favoriteSound(sessions); ok {
		st.FavoriteSound = fav
	}
	if day, ok := bestDay(sessions, now.Location()); ok {
		st.BestDay = WeekdayName(day)
	}
	st.WeeklyTrend = weeklyTrend(sessions, now)
	return st
}

func favoriteSound(sessions []Session) (string, bool) {
	counts := make(map[string]int)
	var order []string
	for _, s := range sessions {
		for _, name := range s.SoundsUsed {
			if counts[name] == 0 {
				order = append(order, name)
			}
			counts[name]++
		}
	}
	best, bestCount := "", 0
	for _, name := range order {
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}
	return best, bestCount > 0
}

type tally struct {
	sum, n int
}

func (t tally) avg() float64 {
	if t.n == 0 {
		return 0
	}
	return float64(t.sum) / float64(t.n)
}

func bestDay(sessions []Session, loc *time.Location) (time.Weekday, bool) {
	var days [7]tally
	var order []time.Weekday
	for _, s := range sessions {
		d := s.Date.In(loc).Weekday()
		if days[d].n == 0 {
			order = append(order, d)
		}
		days[d].sum += s.Quality
		days[d].n++
	}
	if len(order) == 0 {
		return 0, false
	}
	best := order[0]
	for _, d := range order[1:] {
		if days[d].avg() > days[best].avg() {
			best = d
		}
	}
	return best, true
}

func weeklyTrend(sessions []Session, now time.Time) [7]float64 {
	var slots [7]tally
	today := midnight(now, now.Location())
	for _, s := range sessions {
		day := midnight(s.Date, now.Location())
		ago := int(math.Round(today.Sub(day).Hours() / 24))
		if ago < 0 || ago >= len(slots) {
			continue
		}
		slots[ago].sum += s.Quality
		slots[ago].n++
	}
	var trend [7]float64
	for i, sl := range slots {
		trend[i] = sl.avg()
	}
	return trend
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
