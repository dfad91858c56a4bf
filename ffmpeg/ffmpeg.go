package ffmpeg

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

func run(ctx context.Context, bin string, args ...string) ([]byte, []byte, error) {
	log.Debugln(bin, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	if err != nil {
		log.Errorf("%s error: %v: %s", bin, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), stderr.Bytes(), err
}

// runs ffmpeg with the provided args and returns (stdout, stderr, error)
func Ffmpeg(ctx context.Context, args ...string) ([]byte, []byte, error) {
	return run(ctx, ffmpegBin, args...)
}

// Version returns the first line of `ffmpeg -version`.
func Version(ctx context.Context) (string, error) {
	stdout, _, err := Ffmpeg(ctx, "-version")
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(stdout), "\n")
	return strings.TrimSpace(line), nil
}
