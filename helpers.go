package polls

import (
	"html/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
)

var NowFunc func() time.Time = time.Now

var helpers template.FuncMap = template.FuncMap{
	"ago": func(t time.Time) string {
		return humanize.RelTime(t, NowFunc(), "ago", "from now")
	},
	"votes": func(n int64) string {
		return humanize.Comma(n) + " " + english.PluralWord(int(n), "vote", "")
	},
	"percent": func(f float64) string {
		return humanize.FtoaWithDigits(f, 1) + "%"
	},
}
