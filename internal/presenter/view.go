package presenter

import (
	"github.com/MikeSquared-Agency/taghvim/internal/calendar"
	"github.com/MikeSquared-Agency/taghvim/internal/converter"
	"github.com/MikeSquared-Agency/taghvim/internal/era"
)

// DateView is the JSON shape of one side of a conversion.
type DateView struct {
	Era   era.Era `json:"era"`
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Day   int     `json:"day"`
	Short string  `json:"short"`
	Long  string  `json:"long"`
}

// ConversionView is the JSON shape returned by the HTTP API and NATS responder.
type ConversionView struct {
	Input  DateView `json:"input"`
	Output DateView `json:"output"`
}

func dateView(d calendar.Date, loc calendar.Locale) DateView {
	return DateView{
		Era:   d.Era,
		Year:  d.Year,
		Month: d.Month,
		Day:   d.Day,
		Short: d.Short(),
		Long:  d.Long(loc),
	}
}

func View(res *converter.Result, loc calendar.Locale) ConversionView {
	return ConversionView{
		Input:  dateView(res.Input, loc),
		Output: dateView(res.Output, loc),
	}
}
