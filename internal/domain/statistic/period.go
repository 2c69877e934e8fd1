package statistic

import (
	"fmt"
	"time"

	"github.com/th3void/lotus-routine/internal/entity"
)

func ToPeriod(periodString string) (entity.LeaderBoardPeriodType, error) {
	return ToPeriodWithTime(periodString, time.Now())
}

func ToPeriodWithTime(periodString string, current time.Time) (entity.LeaderBoardPeriodType, error) {
	switch periodString {
	case "week":
		return entity.NewLeaderBoardPeriodWeek(current), nil
	case "month":
		return entity.NewLeaderBoardPeriodMonth(current), nil
	case "alltime":
		return entity.NewLeaderBoardPeriodAllTime(), nil
	}

	return nil, fmt.Errorf("invalid period, expected week, month, or alltime, but got %s", periodString)
}
