package encode_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/plus3/orrery/capture"
	"github.com/plus3/orrery/encode"
	"github.com/plus3/orrery/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobArgs(t *testing.T) {
	t.Run("lossless h264 at the loop rate", func(t *testing.T) {
		job := encode.DefaultJob(144)
		job.Pattern = "frames/frame_%d.jpg"

		args, err := job.Args()
		require.NoError(t, err)
		assert.Equal(t, []string{
			"-y", "-r", "144", "-f", "image2", "-i", "frames/frame_%d.jpg",
			"-vcodec", "libx264", "-crf", "0", "video/video.mp4",
		}, args)
	})

	t.Run("fractional rate and extra args", func(t *testing.T) {
		job := encode.DefaultJob(29.97)
		job.Overwrite = false
		job.ExtraArgs = `-pix_fmt yuv420p -metadata "title=Solar system"`

		args, err := job.Args()
		require.NoError(t, err)
		assert.Equal(t, []string{
			"-r", "29.97", "-f", "image2", "-i", "frames/frame_%d.png",
			"-vcodec", "libx264", "-crf", "0",
			"-pix_fmt", "yuv420p", "-metadata", "title=Solar system",
			"video/video.mp4",
		}, args)
	})

	t.Run("invalid jobs", func(t *testing.T) {
		_, err := encode.DefaultJob(0).Args()
		assert.Error(t, err)

		job := encode.DefaultJob(144)
		job.Output = ""
		_, err = job.Args()
		assert.Error(t, err)

		job = encode.DefaultJob(144)
		job.ExtraArgs = `-metadata "unterminated`
		_, err = job.Args()
		assert.Error(t, err)
	})
}

func TestAssemble(t *testing.T) {
	t.Run("missing tool", func(t *testing.T) {
		job := encode.DefaultJob(144)
		job.Tool = "orrery-encoder-that-does-not-exist"
		job.Output = filepath.Join(t.TempDir(), "out.mp4")

		err := encode.New(job).Assemble(context.Background())
		var encErr *encode.EncodingError
		require.ErrorAs(t, err, &encErr)
		assert.True(t, encErr.Missing)
		assert.ErrorIs(t, err, exec.ErrNotFound)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("non-zero exit", func(t *testing.T) {
		if _, err := exec.LookPath("false"); err != nil {
			t.Skip("false not available")
		}
		job := encode.DefaultJob(144)
		job.Tool = "false"
		job.Output = filepath.Join(t.TempDir(), "video", "out.mp4")

		err := encode.New(job).Assemble(context.Background())
		var encErr *encode.EncodingError
		require.ErrorAs(t, err, &encErr)
		assert.False(t, encErr.Missing)
		assert.Equal(t, 1, encErr.ExitCode)
		assert.Contains(t, err.Error(), "exited with status 1")
		assert.DirExists(t, filepath.Dir(job.Output))
	})

	t.Run("clean exit without output", func(t *testing.T) {
		if _, err := exec.LookPath("true"); err != nil {
			t.Skip("true not available")
		}
		job := encode.DefaultJob(144)
		job.Tool = "true"
		job.Output = filepath.Join(t.TempDir(), "out.mp4")

		a := encode.New(job)
		err := a.Assemble(context.Background())
		assert.ErrorIs(t, err, encode.ErrEmptyOutput)
		assert.Nil(t, a.Result())
	})

	t.Run("captured frames to video", func(t *testing.T) {
		dir := t.TempDir()
		c, err := capture.New(filepath.Join(dir, "frames"))
		require.NoError(t, err)
		for i := int64(1); i <= 5; i++ {
			fb := render.NewFrameBuffer(64, 64)
			for p := range fb.Pix {
				fb.Pix[p] = uint8(i * 40)
			}
			require.NoError(t, c.Capture(i, fb))
		}

		job := encode.DefaultJob(144)
		job.Pattern = c.Pattern()
		job.Output = filepath.Join(dir, "video", "video.mp4")
		a := encode.New(job)

		err = a.Assemble(context.Background())
		if _, lookErr := exec.LookPath("ffmpeg"); lookErr != nil {
			var encErr *encode.EncodingError
			require.ErrorAs(t, err, &encErr)
			assert.True(t, encErr.Missing)
			return
		}

		if err != nil {
			var encErr *encode.EncodingError
			require.ErrorAs(t, err, &encErr, "failures must be typed")
			assert.False(t, encErr.Missing)
			t.Logf("encoder present but failed: %v", err)
			return
		}
		info, statErr := os.Stat(job.Output)
		require.NoError(t, statErr)
		assert.Greater(t, info.Size(), int64(0))
		require.NotNil(t, a.Result())
		assert.Equal(t, info.Size(), a.Result().Size)
	})

	t.Run("cancelled context", func(t *testing.T) {
		if _, err := exec.LookPath("sleep"); err != nil {
			t.Skip("sleep not available")
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		job := encode.DefaultJob(144)
		job.Tool = "sleep"
		job.Output = filepath.Join(t.TempDir(), "out.mp4")

		var encErr *encode.EncodingError
		assert.ErrorAs(t, encode.New(job).Assemble(ctx), &encErr)
	})
}

func TestEncodingErrorMessage(t *testing.T) {
	err := &encode.EncodingError{
		Tool:     "ffmpeg",
		ExitCode: 1,
		Stderr:   "ffmpeg version 6\nframes/frame_%d.png: No such file or directory\n",
	}
	assert.Equal(t, "encode: ffmpeg exited with status 1: frames/frame_%d.png: No such file or directory", err.Error())
}

func TestAssemblerCommand(t *testing.T) {
	cmd, err := encode.New(encode.DefaultJob(60)).Command()
	require.NoError(t, err)
	assert.Equal(t, "ffmpeg", cmd[0])
	assert.Equal(t, "60", cmd[3])
}
