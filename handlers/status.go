package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"golang.org/x/sys/unix"

	"slidestack/config"
	"slidestack/database"
	"slidestack/ffmpeg"
	"slidestack/projects"
	"slidestack/renders"
)

// freeBytes is the space left on the filesystem holding dir.
func freeBytes(dir string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", dir, err)
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

func usedBytes(dir string) (int64, error) {
	var size int64
	err := filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk %s: %w", dir, err)
	}
	return size, nil
}

func mib(n float64) string {
	return fmt.Sprintf("%.2f", n/1024/1024)
}

type Status struct {
	Ffmpeg        string `json:"ffmpeg"`
	FreeMiB       string `json:"freeMiB"`
	UsedMiB       string `json:"usedMiB"`
	Projects      int64  `json:"projects"`
	QueuedRenders int64  `json:"queuedRenders"`
	Build         Build  `json:"build"`
}

func StatusGet(c echo.Context) error {
	version, err := ffmpeg.Version(c.Request().Context())
	if err != nil {
		log.Errorln(err)
		version = "unavailable"
	}

	dir := config.GetDataDir()
	free, err := freeBytes(dir)
	if err != nil {
		log.Warnln(err)
	}
	used, err := usedBytes(dir)
	if err != nil {
		log.Warnln(err)
	}

	st := Status{
		Ffmpeg:  version,
		FreeMiB: mib(float64(free)),
		UsedMiB: mib(float64(used)),
		Build:   MakeBuild(),
	}
	db := database.Get()
	if err := db.Model(&projects.Project{}).Count(&st.Projects).Error; err != nil {
		return fail(c, err)
	}
	if err := db.Model(&renders.Job{}).Where("status = ?", renders.StatusQueued).Count(&st.QueuedRenders).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, st)
}
