package domain

import (
	"errors"
	"time"
)

var ErrInvalidPeriod = errors.New("a data de início não pode ser posterior à data de fim")

// Period é um intervalo fechado [Start, End]
type Period struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

func NewPeriod(start, end time.Time) (Period, error) {
	if start.After(end) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Start: start, End: end}, nil
}

// PreviousMonth desloca os dois limites um mês de calendário para trás.
// O dia é limitado ao último dia do mês de destino (31/03 -> 29/02).
func (p Period) PreviousMonth() Period {
	return Period{
		Start: shiftMonths(p.Start, -1),
		End:   shiftMonths(p.End, -1),
	}
}

func shiftMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	first := time.Date(year, month+time.Month(months), 1, hour, min, sec, t.Nanosecond(), t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(first.Year(), first.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}
