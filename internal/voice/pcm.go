package voice

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
)

// pcmStream runs ffmpeg against a stream URL, producing interleaved s16le
// stereo PCM at 48kHz on stdout.
type pcmStream struct {
	cmd    *exec.Cmd
	reader *bufio.Reader
	stdout io.ReadCloser
	stderr *bytes.Buffer
	cancel context.CancelFunc
}

func startPCM(ctx context.Context, ffmpegPath, inputURL string) (*pcmStream, error) {
	ctx, cancel := context.WithCancel(ctx)

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-reconnect", "1", "-reconnect_streamed", "1", "-reconnect_delay_max", "5",
		"-i", inputURL,
		"-vn",
		"-ac", fmt.Sprint(channels),
		"-ar", fmt.Sprint(sampleRate),
		"-f", "s16le",
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("ffmpeg stdout: %w", err)
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("ffmpeg start: %w (stderr: %s)", err, stderr.String())
	}

	return &pcmStream{
		cmd:    cmd,
		reader: bufio.NewReaderSize(stdout, 64*1024),
		stdout: stdout,
		stderr: stderr,
		cancel: cancel,
	}, nil
}

// ReadFrame fills buf with one frame of PCM. io.EOF marks a clean end of
// stream; a partial trailing frame counts as clean.
func (s *pcmStream) ReadFrame(buf []byte) error {
	if _, err := io.ReadFull(s.reader, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return io.EOF
		}
		return fmt.Errorf("read pcm: %w", err)
	}
	return nil
}

func (s *pcmStream) Close() {
	s.cancel()
	_ = s.cmd.Process.Kill()
	_ = s.cmd.Wait()
}
