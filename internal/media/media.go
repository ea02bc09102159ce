// Package media handles video download and audio extraction for the
// transcription stage. Both operations shell out to external tools
// (yt-dlp and ffmpeg) that must be on PATH.
package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ppiankov/claimstream/internal/errs"
)

const (
	videosDir      = "videos"
	audioDir       = "audio"
	transcriptsDir = "transcripts"
)

// Manager lays out the data directory and runs the external tools
type Manager struct {
	dataDir    string
	sampleRate int
}

// NewManager creates the data directory tree (videos/, audio/,
// transcripts/) under dataDir
func NewManager(dataDir string, sampleRate int) (*Manager, error) {
	for _, sub := range []string{videosDir, audioDir, transcriptsDir} {
		if err := os.MkdirAll(filepath.Join(dataDir, sub), 0o755); err != nil {
			return nil, errs.Storage("creating data directory", err)
		}
	}
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return &Manager{dataDir: dataDir, sampleRate: sampleRate}, nil
}

// AudioPath returns where extracted audio for a video ID is written
func (m *Manager) AudioPath(videoID string) string {
	return filepath.Join(m.dataDir, audioDir, videoID+".wav")
}

// TranscriptPath returns where a transcript for a video ID is written
func (m *Manager) TranscriptPath(videoID string) string {
	return filepath.Join(m.dataDir, transcriptsDir, videoID+".txt")
}

// ExtractAudio converts a video file to mono 16-bit PCM WAV at the
// configured sample rate, overwriting any previous output
func (m *Manager) ExtractAudio(ctx context.Context, videoPath, videoID string) (string, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return "", errs.Validation("video file not found: %s", videoPath)
	}

	outPath := m.AudioPath(videoID)
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", videoPath,
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(m.sampleRate),
		"-ac", "1",
		"-y",
		outPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errs.Transport("ffmpeg audio extraction",
			fmt.Errorf("%v: %s", err, lastLine(stderr.String())))
	}
	return outPath, nil
}

// DownloadVideo fetches a video by URL with yt-dlp into the videos
// directory and returns the downloaded file path
func (m *Manager) DownloadVideo(ctx context.Context, videoURL, videoID string) (string, error) {
	outTemplate := filepath.Join(m.dataDir, videosDir, videoID+".%(ext)s")
	cmd := exec.CommandContext(ctx, "yt-dlp",
		"-f", "best[height<=480]",
		"-o", outTemplate,
		"--no-playlist",
		videoURL,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errs.Transport("yt-dlp download",
			fmt.Errorf("%v: %s", err, lastLine(stderr.String())))
	}

	matches, err := filepath.Glob(filepath.Join(m.dataDir, videosDir, videoID+".*"))
	if err != nil || len(matches) == 0 {
		return "", errs.Storage("locating downloaded video", fmt.Errorf("no file matched %s", outTemplate))
	}
	return matches[0], nil
}

// SaveTranscript writes transcript text next to the other artifacts
func (m *Manager) SaveTranscript(videoID, text string) (string, error) {
	path := m.TranscriptPath(videoID)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", errs.Storage("writing transcript", err)
	}
	return path, nil
}

// lastLine keeps error output short: ffmpeg and yt-dlp put the useful
// message on the final non-empty line
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
