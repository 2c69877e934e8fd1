package entity

import (
	"fmt"
	"time"

	"github.com/th3void/lotus-routine/pkg/dateutil"
)

type LeaderBoardPeriodType interface {
	Period() string
	Start() time.Time
	End() time.Time
}

type LeaderBoardPeriodWeek struct {
	current time.Time
}

func NewLeaderBoardPeriodWeek(current time.Time) LeaderBoardPeriodWeek {
	return LeaderBoardPeriodWeek{current: current}
}

func (p LeaderBoardPeriodWeek) Period() string {
	year, week := p.current.ISOWeek()
	return fmt.Sprintf("%d:%d", week, year)
}

func (p LeaderBoardPeriodWeek) Start() time.Time {
	return dateutil.CurrentWeek(p.current)
}

func (p LeaderBoardPeriodWeek) End() time.Time {
	return p.Start().AddDate(0, 0, 7)
}

type LeaderBoardPeriodMonth struct {
	current time.Time
}

func NewLeaderBoardPeriodMonth(current time.Time) LeaderBoardPeriodMonth {
	return LeaderBoardPeriodMonth{current: current}
}

func (p LeaderBoardPeriodMonth) Period() string {
	return fmt.Sprintf("%s:%d", p.current.Month(), p.current.Year())
}

func (p LeaderBoardPeriodMonth) Start() time.Time {
	return time.Date(p.current.Year(), p.current.Month(), 1, 0, 0, 0, 0, p.current.Location())
}

func (p LeaderBoardPeriodMonth) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// LeaderBoardPeriodAllTime has zero Start and End; aggregate filters skip
// zero bounds.
type LeaderBoardPeriodAllTime struct{}

func NewLeaderBoardPeriodAllTime() LeaderBoardPeriodAllTime {
	return LeaderBoardPeriodAllTime{}
}

func (p LeaderBoardPeriodAllTime) Period() string {
	return "alltime"
}

func (p LeaderBoardPeriodAllTime) Start() time.Time {
	return time.Time{}
}

func (p LeaderBoardPeriodAllTime) End() time.Time {
	return time.Time{}
}
