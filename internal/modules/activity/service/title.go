package activity

import (
	"math"

	"github.com/chromacord/api/pkg/dto"
)

// Title thresholds. A title is a pure function of the current point total, so
// it can never drift out of sync with the counter.
const (
	PointsLegend     = 1000
	PointsMaster     = 500
	PointsArtist     = 200
	PointsApprentice = 50
)

const (
	TitleLegend     = "Legend"
	TitleMaster     = "Master"
	TitleArtist     = "Artist"
	TitleApprentice = "Apprentice"
	TitleNovice     = "Novice"
)

// TitleForPoints computes the derived title projection for a point total.
func TitleForPoints(points int) dto.TitleStatus {
	var status dto.TitleStatus
	status.CurrentPoints = points

	switch {
	case points >= PointsLegend:
		status.Title = TitleLegend
		status.NextTitle = "Max Level"
		status.TargetPoints = PointsLegend
		status.Progress = 100

	case points >= PointsMaster:
		status.Title = TitleMaster
		status.NextTitle = TitleLegend
		status.TargetPoints = PointsLegend
		status.Progress = (float64(points) / float64(PointsLegend)) * 100

	case points >= PointsArtist:
		status.Title = TitleArtist
		status.NextTitle = TitleMaster
		status.TargetPoints = PointsMaster
		status.Progress = (float64(points) / float64(PointsMaster)) * 100

	case points >= PointsApprentice:
		status.Title = TitleApprentice
		status.NextTitle = TitleArtist
		status.TargetPoints = PointsArtist
		status.Progress = (float64(points) / float64(PointsArtist)) * 100

	default:
		status.Title = TitleNovice
		status.NextTitle = TitleApprentice
		status.TargetPoints = PointsApprentice
		if points > 0 {
			status.Progress = (float64(points) / float64(PointsApprentice)) * 100
		}
	}

	status.Progress = math.Round(status.Progress*100) / 100

	return status
}
