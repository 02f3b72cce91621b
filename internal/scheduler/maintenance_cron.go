package cron

import (
	"context"

	"github.com/bilashs/StudyBuddy-Server/internal/jobs"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func StartMaintenanceCronJobs(maintenance *jobs.Maintenance) {
	c := cron.New()

	// Conversation summary repair
	c.AddFunc("@hourly", func() {
		err := maintenance.RepairConversations(context.Background())
		if err != nil {
			logrus.WithError(err).Error("RepairConversations failed")
		}
	})

	// Stale acceptance notice cleanup
	c.AddFunc("0 0 * * *", func() {
		err := maintenance.PruneNotices(context.Background())
		if err != nil {
			logrus.WithError(err).Error("PruneNotices failed")
		}
	})

	c.Start()
}
