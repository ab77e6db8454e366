package helper

import (
	"event_manager/model"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const DefaultArchiveSchedule = "*/15 * * * *"

var eventScheduler gocron.Scheduler

// ArchiveEndedEvents unpublishes events whose end date has passed.
func ArchiveEndedEvents(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Model(&model.Event{}).
		Where("end_date < ? AND is_archived = ?", now, false).
		Updates(map[string]interface{}{"is_archived": true, "is_published": false})
	return res.RowsAffected, res.Error
}

// StartEventScheduler runs ArchiveEndedEvents on the standard cron spec.
func StartEventScheduler(db *gorm.DB, spec string) error {
	parsed, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("invalid archive schedule %q: %w", spec, err)
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return err
	}

	_, err = s.NewJob(
		gocron.CronJob(spec, false),
		gocron.NewTask(func() {
			n, err := ArchiveEndedEvents(db, time.Now())
			if err != nil {
				zap.L().Error("[CRON] archive ended events", zap.Error(err))
				return
			}
			if n > 0 {
				zap.L().Info("[CRON] archived ended events", zap.Int64("count", n))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	eventScheduler = s
	s.Start()
	zap.L().Info("event scheduler started", zap.String("spec", spec), zap.Time("nextRun", parsed.Next(time.Now().UTC())))
	return nil
}

func StopEventScheduler() {
	if eventScheduler != nil {
		if err := eventScheduler.Shutdown(); err != nil {
			zap.L().Warn("stop event scheduler", zap.Error(err))
		}
	}
}
