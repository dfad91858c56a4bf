package renders

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"slidestack/database"
	"slidestack/projects"
)

// Recover puts jobs that were being planned when the process died back in
// the queue.
func Recover() error {
	db := database.Get()
	result := db.Model(&Job{}).
		Where("status = ? AND plan IS NULL", StatusProcessing).
		Update("status", StatusQueued)
	if result.RowsAffected > 0 {
		log.Infof("requeued %d interrupted render jobs", result.RowsAffected)
	}
	return result.Error
}

// PlanPending plans queued jobs, at most planners at a time, until none are
// left.
func PlanPending(ctx context.Context, planners int) error {
	log.Debugln("PlanPending...")
	if planners < 1 {
		planners = 1
	}
	db := database.Get()

	for {
		var jobs []Job
		err := db.WithContext(ctx).Where("status = ?", StatusQueued).
			Order("created_at").Limit(planners).Find(&jobs).Error
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			log.Debugln("no queued render jobs")
			return nil
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(planners)
		for i := range jobs {
			job := &jobs[i]
			g.Go(func() error {
				return planJob(gctx, job)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
}

// planJob returns an error only for database failures; a request that
// cannot be planned fails the job.
func planJob(ctx context.Context, job *Job) error {
	db := database.Get().WithContext(ctx)
	now := time.Now().UTC()
	job.Status, job.StartedAt = StatusProcessing, &now
	if err := db.Model(job).Updates(map[string]interface{}{
		"status":     job.Status,
		"started_at": job.StartedAt,
	}).Error; err != nil {
		return err
	}
	publish(job)

	req, err := job.request()
	var plan *Plan
	if err == nil {
		plan, err = BuildPlan(req)
	}
	if err != nil {
		log.Errorf("render %s: %v", job.ID, err)
		job.Status, job.ErrorMessage, job.CompletedAt = StatusFailed, err.Error(), &now
		if err := db.Model(job).Updates(map[string]interface{}{
			"status":        job.Status,
			"error_message": job.ErrorMessage,
			"completed_at":  job.CompletedAt,
		}).Error; err != nil {
			return err
		}
		if err := projects.SetStatus(job.ProjectID, projects.StatusFailed); err != nil {
			log.Warnf("render %s: %v", job.ID, err)
		}
		publish(job)
		return nil
	}

	data, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	job.Plan = datatypes.JSON(data)
	job.Progress = 10
	if err := db.Model(job).Updates(map[string]interface{}{
		"plan":     job.Plan,
		"progress": job.Progress,
	}).Error; err != nil {
		return err
	}
	log.Infof("planned render %s: %d segments, %d crossfades, %d texts, %d audio",
		job.ID, len(plan.Segments), len(plan.Crossfades), len(plan.Texts), len(plan.Audio))
	publish(job)
	return nil
}

// Worker plans queued jobs now and then every interval until ctx is done.
func Worker(ctx context.Context, interval time.Duration, planners int) error {
	if err := Recover(); err != nil {
		log.Errorln("recover render jobs:", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := PlanPending(ctx, planners); err != nil && ctx.Err() == nil {
			log.Errorln("plan render jobs:", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
