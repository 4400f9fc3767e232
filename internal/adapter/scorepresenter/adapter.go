package scorepresenter

import (
	"github.com/park285/daily-scores-bot/internal/domain"
	"github.com/park285/daily-scores-bot/pkg/scoredto"
)

const addedTSLayout = "2006-01-02 15:04:05"

func ToDTORecord(r *domain.ScoreRecord) *scoredto.ScoreRecord {
	if r == nil {
		return nil
	}
	return &scoredto.ScoreRecord{
		GameDate:    r.GameDate,
		GameName:    r.GameName,
		GameScore:   r.GameScore,
		AddedTS:     r.AddedAt.Format(addedTSLayout),
		SubmitterID: r.SubmitterID,
		GameDetail:  r.GameDetail,
		Metric01:    r.Metric01,
		Metric02:    r.Metric02,
		Metric03:    r.Metric03,
	}
}

func ToDTORecords(list []*domain.ScoreRecord) []*scoredto.ScoreRecord {
	if len(list) == 0 {
		return nil
	}
	out := make([]*scoredto.ScoreRecord, 0, len(list))
	for _, r := range list {
		if dto := ToDTORecord(r); dto != nil {
			out = append(out, dto)
		}
	}
	return out
}
