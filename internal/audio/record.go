// Package audio is a thin wrapper around an external recorder command. It
// produces WAV files and knows nothing about the rest of the pipeline.
package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultRecorder captures mono 44.1kHz WAV until interrupted. ffmpeg is the
// most commonly available recorder; the command is overridable in
// config.yaml.
const DefaultRecorder = "ffmpeg -y -loglevel error -f alsa -i default -ac 1 -ar 44100 {output}"

// Recorder shells out to a user-configurable command to capture audio.
type Recorder struct {
	command string
}

// NewRecorder builds a Recorder; an empty command selects the default.
func NewRecorder(command string) *Recorder {
	if strings.TrimSpace(command) == "" {
		command = DefaultRecorder
	}
	return &Recorder{command: command}
}

// TempWAVPath returns a fresh temp file path for one capture.
func TempWAVPath() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("fasttoggl_%s.wav", uuid.New().String()))
}

// Capture records into outputFile, blocking until the recorder exits. The
// recorder runs with the terminal's stdin/stderr so the operator can stop it
// (ffmpeg stops on 'q', arecord on Ctrl-C).
func (r *Recorder) Capture(ctx context.Context, outputFile string) error {
	cmdline := strings.ReplaceAll(r.command, "{output}", outputFile)
	parts := strings.Fields(cmdline)
	if len(parts) == 0 {
		return fmt.Errorf("empty recorder command")
	}

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("recorder %q failed: %w", parts[0], err)
	}

	if fi, err := os.Stat(outputFile); err != nil || fi.Size() == 0 {
		return fmt.Errorf("recorder produced no audio at %s", outputFile)
	}
	return nil
}
