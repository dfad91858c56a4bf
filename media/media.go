package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"slidestack/content"
	"slidestack/database"
	"slidestack/ffmpeg"
)

var ErrInvalid = errors.New("invalid media file")

// File is one uploaded asset of a project's media library.
type File struct {
	ID        string            `gorm:"primaryKey" json:"id"`
	ProjectID string            `gorm:"index" json:"projectId"`
	Type      content.MediaType `json:"type"`
	URL       string            `json:"url"`
	Filename  string            `json:"filename"`
	Size      int64             `json:"size"`
	Duration  *float64          `json:"duration,omitempty"` // seconds, audio and video only
	Order     int               `json:"order"`
	CreatedAt time.Time         `json:"createdAt"`
}

// ToContent is the descriptor the editor places on the timeline.
func (f *File) ToContent() content.MediaFile {
	return content.MediaFile{
		ID:       f.ID,
		Name:     f.Filename,
		Size:     f.Size,
		Type:     f.Type,
		URL:      f.URL,
		Duration: f.Duration,
	}
}

// New is an upload as the media endpoint receives it.
type New struct {
	Type     content.MediaType `json:"type"`
	URL      string            `json:"url"`
	Filename string            `json:"filename"`
	Size     int64             `json:"size"`
	Duration *float64          `json:"duration,omitempty"`
}

func (n *New) validate() error {
	switch n.Type {
	case content.TypeImage, content.TypeVideo, content.TypeAudio:
	default:
		return fmt.Errorf("%w: type %q", ErrInvalid, n.Type)
	}
	if strings.TrimSpace(n.URL) == "" {
		return fmt.Errorf("%w: url is required", ErrInvalid)
	}
	if n.Size < 0 {
		return fmt.Errorf("%w: negative size", ErrInvalid)
	}
	if n.Duration != nil && *n.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalid)
	}
	return nil
}

// Prober reports the duration of a media URL. Replaced in tests.
var Prober = ffmpeg.ProbeDuration

// Create adds an upload at the end of the project's library. When probe is
// set, audio and video without a duration are probed; a failed probe only
// leaves the duration unset.
func Create(ctx context.Context, projectID string, n New, probe bool) (*File, error) {
	if err := n.validate(); err != nil {
		return nil, err
	}
	db := database.Get()

	var count int64
	if err := db.Model(&File{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
		return nil, err
	}

	f := &File{
		ID:        uuid.Must(uuid.NewV7()).String(),
		ProjectID: projectID,
		Type:      n.Type,
		URL:       n.URL,
		Filename:  n.Filename,
		Size:      n.Size,
		Duration:  n.Duration,
		Order:     int(count),
	}
	if f.Filename == "" {
		f.Filename = f.URL[strings.LastIndex(f.URL, "/")+1:]
	}
	if probe && f.Duration == nil && f.Type != content.TypeImage {
		if d, err := Prober(ctx, f.URL); err != nil {
			log.Warnf("no duration for %s: %v", f.URL, err)
		} else {
			f.Duration = &d
		}
	}

	if err := db.Create(f).Error; err != nil {
		return nil, err
	}
	log.Infof("added %s %s to project %s", f.Type, f.Filename, projectID)
	return f, nil
}

// List returns the library of a project in upload order.
func List(projectID string) ([]File, error) {
	var files []File
	err := database.Get().Where("project_id = ?", projectID).Order("\"order\"").Find(&files).Error
	return files, err
}

// DeleteProject removes the library of a deleted project.
func DeleteProject(projectID string) error {
	return database.Get().Where("project_id = ?", projectID).Delete(&File{}).Error
}
