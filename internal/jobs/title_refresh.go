package jobs

import (
	"context"
	"log"

	"github.com/chromacord/api/internal/entity"
	activity "github.com/chromacord/api/internal/modules/activity/service"
	"gorm.io/gorm"
)

// TitleRefreshJob recomputes every user's cached title from their lifetime
// points. Promotion normally updates the cache inline; the nightly sweep
// repairs any drift from failed writes or manual point adjustments.
type TitleRefreshJob struct {
	db *gorm.DB
}

func NewTitleRefreshJob(db *gorm.DB) *TitleRefreshJob {
	return &TitleRefreshJob{db: db}
}

func (j *TitleRefreshJob) Name() string { return "title-refresh" }

func (j *TitleRefreshJob) Schedule() string { return "0 3 * * *" }

func (j *TitleRefreshJob) Run(ctx context.Context) error {
	var users []entity.User
	var fixed int

	err := j.db.WithContext(ctx).FindInBatches(&users, 100, func(tx *gorm.DB, _ int) error {
		for _, user := range users {
			title := activity.TitleForPoints(user.ActivityPoints).Title
			if user.CurrentTitle != nil && *user.CurrentTitle == title {
				continue
			}
			err := tx.Model(&entity.User{}).
				Where("id = ?", user.ID).
				Update("current_title", title).Error
			if err != nil {
				return err
			}
			fixed++
		}
		return nil
	}).Error
	if err != nil {
		return err
	}

	if fixed > 0 {
		log.Printf("title refresh corrected %d cached titles", fixed)
	}
	return nil
}
