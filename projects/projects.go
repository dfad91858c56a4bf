package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"slidestack/database"
	"slidestack/timeline"
)

var ErrNotFound = errors.New("project not found")
var ErrInvalid = errors.New("invalid project")

type Status string

const (
	StatusDraft      Status = "draft"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

const maxTitle = 100

// Project stores a timeline as an opaque clip array. Nothing reads inside it
// except timeline.Load.
type Project struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Status      Status         `json:"status"`
	Timeline    datatypes.JSON `json:"timeline"`
	Duration    float64        `json:"duration"`
	LastSaved   *time.Time     `json:"lastSaved,omitempty"`
	// Config carries the settings of the last render request.
	Config    datatypes.JSON `json:"config,omitempty"`
	OutputURL string         `json:"outputUrl,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func validTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if len(title) > maxTitle {
		return fmt.Errorf("%w: title longer than %d characters", ErrInvalid, maxTitle)
	}
	return nil
}

func Create(title, description string) (*Project, error) {
	if err := validTitle(title); err != nil {
		return nil, err
	}
	p := &Project{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Title:       strings.TrimSpace(title),
		Description: description,
		Status:      StatusDraft,
		Timeline:    datatypes.JSON("[]"),
	}
	if err := database.Get().Create(p).Error; err != nil {
		return nil, err
	}
	log.Infof("created project %s %q", p.ID, p.Title)
	return p, nil
}

func Get(id string) (*Project, error) {
	var p Project
	err := database.Get().First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all projects, newest first.
func List() ([]Project, error) {
	var ps []Project
	err := database.Get().Order("created_at DESC").Find(&ps).Error
	return ps, err
}

// Update changes title and description; nil leaves a field alone.
func Update(id string, title, description *string) (*Project, error) {
	p, err := Get(id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if title != nil {
		if err := validTitle(*title); err != nil {
			return nil, err
		}
		updates["title"] = strings.TrimSpace(*title)
	}
	if description != nil {
		updates["description"] = *description
	}
	if len(updates) == 0 {
		return p, nil
	}
	if err := database.Get().Model(p).Updates(updates).Error; err != nil {
		return nil, err
	}
	return Get(id)
}

func Delete(id string) error {
	result := database.Get().Delete(&Project{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	log.Infof("deleted project %s", id)
	return nil
}

func SetStatus(id string, status Status) error {
	log.Debugln("project", id, "status ->", status)
	result := database.Get().Model(&Project{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// SaveTimeline replaces the stored clip array of a project.
func SaveTimeline(id string, payload timeline.SavePayload) error {
	data, err := json.Marshal(payload.Timeline)
	if err != nil {
		return fmt.Errorf("encode timeline: %w", err)
	}
	saved := payload.LastSaved
	if saved.IsZero() {
		saved = time.Now().UTC()
	}
	result := database.Get().Model(&Project{}).Where("id = ?", id).Updates(map[string]interface{}{
		"timeline":   datatypes.JSON(data),
		"duration":   payload.Duration,
		"last_saved": saved,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	log.Debugf("saved timeline of %s: %d clips, %.2fs", id, len(payload.Timeline), payload.Duration)
	return nil
}

// LoadTimeline hydrates the stored clip array. Malformed entries are dropped
// by timeline.Load and counted in the second result.
func LoadTimeline(id string) (*timeline.Timeline, int, error) {
	p, err := Get(id)
	if err != nil {
		return nil, 0, err
	}
	tl, dropped := timeline.Load(p.Timeline)
	if dropped > 0 {
		log.Warnf("project %s: dropped %d malformed clips", id, dropped)
	}
	return tl, dropped, nil
}

// RecordRender stores the last render settings on the project and marks it
// processing.
func RecordRender(id, jobID string, settings timeline.RenderRequest) error {
	settings.Timeline = nil
	cfg, err := json.Marshal(map[string]interface{}{
		"lastRender": map[string]interface{}{
			"jobId":     jobID,
			"settings":  settings,
			"startedAt": time.Now().UTC(),
		},
	})
	if err != nil {
		return err
	}
	return database.Get().Model(&Project{}).Where("id = ?", id).Updates(map[string]interface{}{
		"config": datatypes.JSON(cfg),
		"status": StatusProcessing,
	}).Error
}

// Store adapts the package to the editor's save collaborator.
type Store struct{}

func (Store) SaveTimeline(ctx context.Context, projectID string, p timeline.SavePayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return SaveTimeline(projectID, p)
}
