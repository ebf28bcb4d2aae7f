package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	dbpkg "agentline/db"

	"github.com/gin-gonic/gin"
)

type processedPerDayRow struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// GET /api/events/dashboard/processed-per-day (operator)
// Query params:
// - from=YYYY-MM-DD (optional, default: today-6)
// - to=YYYY-MM-DD   (optional, default: today)
// Returns a daily series including zero days.
func GetEventsProcessedPerDay(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not configured in context", http.StatusInternalServerError)
		return
	}

	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}

	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.Local)
	toInclusive := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.Local)
	toExclusive := toInclusive.AddDate(0, 0, 1)

	dialect := strings.ToLower(db.Dialect().GetName())
	dayExpr := "date(processed_at)"
	if strings.Contains(dialect, "sqlite") {
		dayExpr = "strftime('%Y-%m-%d', processed_at, 'localtime')"
	} else if strings.Contains(dialect, "postgres") {
		dayExpr = "to_char(date_trunc('day', processed_at), 'YYYY-MM-DD')"
	}

	var rows []processedPerDayRow
	q := db.Table("webhook_events").
		Select(fmt.Sprintf("%s as day, count(*) as count", dayExpr)).
		Where("processed = ? AND processed_at IS NOT NULL AND processed_at >= ? AND processed_at < ?",
			true, from, toExclusive).
		Group("day").
		Order("day asc")

	if err := q.Scan(&rows).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	series := fillDailySeries(from, toInclusive, rows)
	RespondSuccess(c, gin.H{
		"from":   from.Format("2006-01-02"),
		"to":     toInclusive.Format("2006-01-02"),
		"series": series,
	})
}

func parseDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	from := now.AddDate(0, 0, -6)
	to := now

	if v := strings.TrimSpace(c.Query("from")); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			RespondError(c, "invalid from date", http.StatusBadRequest)
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if v := strings.TrimSpace(c.Query("to")); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			RespondError(c, "invalid to date", http.StatusBadRequest)
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}
	if to.Before(from) {
		RespondError(c, "to must not be before from", http.StatusBadRequest)
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func fillDailySeries(from, to time.Time, rows []processedPerDayRow) []processedPerDayRow {
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Day] = r.Count
	}

	var series []processedPerDayRow
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		day := d.Format("2006-01-02")
		series = append(series, processedPerDayRow{Day: day, Count: counts[day]})
	}
	return series
}
