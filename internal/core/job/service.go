package job

import (
	"context"
	"fmt"

	rds "restyler/internal/platform/redis"
)

type JobService struct{ redis *rds.Service }

func NewJobService(redis *rds.Service) *JobService { return &JobService{redis: redis} }

func (s *JobService) GetJobStatus(ctx context.Context, jobID string) (*Job, error) {
	var job Job
	if err := s.redis.CacheGet(ctx, key(jobID), &job); err != nil {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	return &job, nil
}

func (s *JobService) store(ctx context.Context, jobID string, jobType Type, status Status, errMsg string, result interface{}) error {
	var job Job
	_ = s.redis.CacheGet(ctx, key(jobID), &job)
	job.JobID = jobID
	job.Type = jobType
	job.Status = status
	job.Error = errMsg
	applyResult(&job, result)
	if err := s.redis.CacheSet(ctx, key(jobID), job, ttl(status)); err != nil {
		return err
	}
	// notify pollers/SSE listeners
	_ = s.redis.Client().Publish(ctx, key(jobID), "updated").Err()
	return nil
}

func (s *JobService) InitPending(ctx context.Context, jobID string, jobType Type) error {
	return s.store(ctx, jobID, jobType, StatusPending, "", nil)
}

func (s *JobService) SetProcessing(ctx context.Context, jobID string, jobType Type) error {
	return s.store(ctx, jobID, jobType, StatusProcessing, "", nil)
}

func (s *JobService) Complete(ctx context.Context, jobID string, jobType Type, result interface{}) error {
	return s.store(ctx, jobID, jobType, StatusCompleted, "", result)
}

func (s *JobService) Fail(ctx context.Context, jobID string, jobType Type, failure error) error {
	msg := ""
	if failure != nil {
		msg = failure.Error()
	}
	return s.store(ctx, jobID, jobType, StatusFailed, msg, nil)
}

// applyResult slots a typed result into the job; nil keeps whatever the
// previous write stored.
func applyResult(job *Job, result interface{}) {
	switch v := result.(type) {
	case GenerateResult:
		job.Results = JobResult{GenerateResult: &v}
	case *GenerateResult:
		job.Results = JobResult{GenerateResult: v}
	case ScreenshotResult:
		job.Results = JobResult{ScreenshotResult: &v}
	case *ScreenshotResult:
		job.Results = JobResult{ScreenshotResult: v}
	case ExportResult:
		job.Results = JobResult{ExportResult: &v}
	case *ExportResult:
		job.Results = JobResult{ExportResult: v}
	}
}

func key(id string) string { return "job:" + id }

func ttl(s Status) int {
	if s == StatusCompleted || s == StatusFailed {
		return 3600
	}
	return 600
}
