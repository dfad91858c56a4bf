package renders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"slidestack/database"
	"slidestack/projects"
	"slidestack/timeline"
)

var ErrInvalidRequest = errors.New("invalid render request")
var ErrNotFound = errors.New("no render jobs found")

type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

const maxFPS = 120

// Job is one render request. The worker fills in Plan; encoding it is left
// to an external encoder.
type Job struct {
	ID           string         `gorm:"primaryKey" json:"id"`
	ProjectID    string         `gorm:"index" json:"projectId"`
	Status       Status         `json:"status"`
	Progress     int            `json:"progress"` // 0-100
	Request      datatypes.JSON `json:"-"`
	Plan         datatypes.JSON `json:"plan,omitempty"`
	OutputURL    string         `json:"outputUrl,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	StartedAt    *time.Time     `json:"startedAt,omitempty"`
	CompletedAt  *time.Time     `json:"completedAt,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

var resolutionRe = regexp.MustCompile(`^([1-9][0-9]{1,4})x([1-9][0-9]{1,4})$`)

// ParseResolution splits "WIDTHxHEIGHT".
func ParseResolution(s string) (int, int, error) {
	m := resolutionRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: resolution %q", ErrInvalidRequest, s)
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	return w, h, nil
}

// Validate checks a request after defaults are applied.
func Validate(req *timeline.RenderRequest) error {
	if _, _, err := ParseResolution(req.Resolution); err != nil {
		return err
	}
	if math.IsNaN(req.FPS) || req.FPS <= 0 || req.FPS > maxFPS {
		return fmt.Errorf("%w: fps %v", ErrInvalidRequest, req.FPS)
	}
	switch req.Quality {
	case timeline.QualityLow, timeline.QualityMedium, timeline.QualityHigh:
	default:
		return fmt.Errorf("%w: quality %q", ErrInvalidRequest, req.Quality)
	}
	if math.IsNaN(req.Duration) || math.IsInf(req.Duration, 0) || req.Duration < 0 {
		return fmt.Errorf("%w: duration %v", ErrInvalidRequest, req.Duration)
	}
	if len(timeline.TrackClips(req.Timeline, timeline.TrackVideo)) == 0 {
		return fmt.Errorf("%w: no video clips to render", ErrInvalidRequest)
	}
	return nil
}

// Submit queues a render of a project and returns the job id.
func Submit(ctx context.Context, projectID string, req timeline.RenderRequest) (*Job, error) {
	if _, err := projects.Get(projectID); err != nil {
		return nil, err
	}
	req.ApplyDefaults()
	if err := Validate(&req); err != nil {
		return nil, err
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode render request: %w", err)
	}

	job := &Job{
		ID:        uuid.Must(uuid.NewV7()).String(),
		ProjectID: projectID,
		Status:    StatusQueued,
		Request:   datatypes.JSON(data),
	}
	if err := database.Get().WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	if err := projects.RecordRender(projectID, job.ID, req); err != nil {
		log.Errorf("record render on project %s: %v", projectID, err)
	}
	log.Infof("queued render %s for project %s (%s@%vfps, %s)", job.ID, projectID, req.Resolution, req.FPS, req.Quality)
	publish(job)
	return job, nil
}

func Get(id string) (*Job, error) {
	var job Job
	err := database.Get().First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &job, err
}

// Latest returns the newest job of a project.
func Latest(projectID string) (*Job, error) {
	var job Job
	err := database.Get().Where("project_id = ?", projectID).
		Order("created_at DESC").Order("id DESC").First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w for project %s", ErrNotFound, projectID)
	}
	return &job, err
}

func (j *Job) request() (timeline.RenderRequest, error) {
	var req timeline.RenderRequest
	err := json.Unmarshal(j.Request, &req)
	return req, err
}

// Renderer adapts Submit to the editor's render collaborator.
type Renderer struct{}

func (Renderer) SubmitRender(ctx context.Context, projectID string, req timeline.RenderRequest) (string, error) {
	job, err := Submit(ctx, projectID, req)
	if err != nil {
		return "", err
	}
	return job.ID, nil
}
