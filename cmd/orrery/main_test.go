package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/plus3/orrery/encode"
	"github.com/plus3/orrery/engine"
	"github.com/plus3/orrery/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orrery.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const smallWindow = `
[window]
width = 64
height = 36
`

func TestRunHeadless(t *testing.T) {
	t.Run("captures every frame", func(t *testing.T) {
		dir := t.TempDir()
		var out bytes.Buffer

		code := run([]string{
			"--config", writeConfig(t, smallWindow),
			"--headless", "--frames", "3",
			"--capture", "--capture-dir", dir,
			"--video=false",
		}, &out, io.Discard)
		require.Equal(t, exitOK, code)

		frames, err := filepath.Glob(filepath.Join(dir, "*", "frame_*.png"))
		require.NoError(t, err)
		assert.Len(t, frames, 3)

		assert.Contains(t, out.String(), "**Frames:** 3")
		assert.Contains(t, out.String(), "**Frames Written:** 3 (png)")
		assert.Contains(t, out.String(), "- not assembled")

		manifests, err := filepath.Glob(filepath.Join(dir, "*", encode.ManifestName))
		require.NoError(t, err)
		require.Len(t, manifests, 1)

		m, err := encode.ReadManifest(manifests[0])
		require.NoError(t, err)
		assert.Equal(t, 3, m.Frames)
		assert.Equal(t, 64, m.Width)
		assert.False(t, m.Encoded)
	})

	t.Run("missing encoder keeps frames and reports", func(t *testing.T) {
		dir := t.TempDir()
		video := filepath.Join(t.TempDir(), "out", "video.mp4")
		cfg := writeConfig(t, smallWindow+`
[video]
tool = "orrery-missing-encoder"
`)
		var out bytes.Buffer

		code := run([]string{
			"--config", cfg,
			"--headless", "-n", "2",
			"--capture", "--capture-dir", dir,
			"--video-output", video,
		}, &out, io.Discard)
		assert.Equal(t, exitEncoding, code)

		frames, err := filepath.Glob(filepath.Join(dir, "*", "frame_*.png"))
		require.NoError(t, err)
		assert.Len(t, frames, 2)

		assert.Contains(t, out.String(), "**Encoded:** false")
		assert.Contains(t, out.String(), "not found")

		manifests, err := filepath.Glob(filepath.Join(dir, "*", encode.ManifestName))
		require.NoError(t, err)
		require.Len(t, manifests, 1)

		m, err := encode.ReadManifest(manifests[0])
		require.NoError(t, err)
		assert.Equal(t, video, m.Video)
		assert.False(t, m.Encoded)
		assert.NotEmpty(t, m.Error)
		assert.Equal(t, "orrery-missing-encoder", m.Command[0])
	})

	t.Run("sessions sharing a video output keep their own manifests", func(t *testing.T) {
		dir := t.TempDir()
		video := filepath.Join(t.TempDir(), "video.mp4")
		cfg := writeConfig(t, smallWindow+`
[video]
tool = "orrery-missing-encoder"
`)
		for range 2 {
			code := run([]string{
				"--config", cfg,
				"--headless", "-n", "1",
				"--capture", "--capture-dir", dir,
				"--video-output", video,
			}, io.Discard, io.Discard)
			require.Equal(t, exitEncoding, code)
		}

		manifests, err := filepath.Glob(filepath.Join(dir, "*", encode.ManifestName))
		require.NoError(t, err)
		require.Len(t, manifests, 2)

		sessions := map[string]bool{}
		for _, path := range manifests {
			m, err := encode.ReadManifest(path)
			require.NoError(t, err)
			assert.Equal(t, filepath.Base(filepath.Dir(path)), m.Session)
			sessions[m.Session] = true
		}
		assert.Len(t, sessions, 2)
		assert.NoFileExists(t, filepath.Join(filepath.Dir(video), encode.ManifestName))
	})

	t.Run("no capture writes nothing", func(t *testing.T) {
		var out bytes.Buffer
		code := run([]string{"--config", writeConfig(t, smallWindow), "--headless", "-n", "1"}, &out, io.Discard)
		require.Equal(t, exitOK, code)
		assert.Contains(t, out.String(), "- disabled")
		assert.Contains(t, out.String(), "SpinSystem")
	})
}

func TestRunUsage(t *testing.T) {
	assert.Equal(t, exitUsage, run([]string{"--no-such-flag"}, io.Discard, io.Discard))
	assert.Equal(t, exitUsage, run([]string{"--frame-rate", "0", "--headless"}, io.Discard, io.Discard))
	assert.Equal(t, exitOK, run([]string{"--help"}, io.Discard, io.Discard))
}

func TestLimited(t *testing.T) {
	forward := input.State{}.Press(input.KeyW)
	var sampler engine.InputSampler = &limited{
		InputSampler: &input.Script{Devices: []input.State{forward}},
		frames:       2,
	}

	assert.True(t, sampler.Sample().Device.Down(input.KeyW))
	assert.False(t, sampler.Sample().Quit)
	assert.True(t, sampler.Sample().Quit)
}
