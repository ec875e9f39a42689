package jobs

import (
	"context"
	"log"
	"time"

	"merchant-crm.backend/internal/domain/repositories"
)

// NextActionReminderJob periodically scans active pipelines for next actions
// whose planned date has passed and logs a reminder for each. Closed-stage
// pipelines (Won, Rejected) are never scanned.
type NextActionReminderJob struct {
	repo     repositories.PipelineRepository
	interval time.Duration
	stop     chan struct{}
}

func NewNextActionReminderJob(repo repositories.PipelineRepository, interval time.Duration) *NextActionReminderJob {
	if interval <= 0 {
		interval = time.Minute
	}
	return &NextActionReminderJob{
		repo:     repo,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *NextActionReminderJob) Start(ctx context.Context) {
	log.Println("🕐 Starting next action reminder job...")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Next action reminder job stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Next action reminder job stopped")
			return
		case <-ticker.C:
			j.processOverdueActions(ctx)
		}
	}
}

func (j *NextActionReminderJob) Stop() {
	close(j.stop)
}

func (j *NextActionReminderJob) processOverdueActions(ctx context.Context) {
	overdue, err := j.repo.ListOverdueNextActions(ctx, time.Now(), 100)
	if err != nil {
		log.Printf("❌ Error fetching overdue next actions: %v", err)
		return
	}

	if len(overdue) == 0 {
		return
	}

	log.Printf("🔔 %d overdue next actions", len(overdue))
	for _, p := range overdue {
		log.Printf("   merchant=%s stage=%s action=%q due=%s",
			p.MerchantID, p.CurrentStage, p.NextActionDescription.String, p.NextActionDate.Time.Format(time.RFC3339))
	}
}
