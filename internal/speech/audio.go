package speech

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// AudioSource captures raw 16 kHz mono linear16 PCM.
type AudioSource interface {
	// Open starts capturing. Reading stops when ctx is done or the reader is closed.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// AudioSink plays encoded audio (mp3) written to it.
type AudioSink interface {
	// Open starts a player. Close waits for playback to finish; cancelling ctx stops it at once.
	Open(ctx context.Context) (io.WriteCloser, error)
}

// CommandSource captures audio from an external recorder writing PCM to stdout.
type CommandSource struct {
	Command string
	Args    []string
}

// NewRecorderSource returns a source running command, with arecord arguments
// when command is arecord.
func NewRecorderSource(command string) *CommandSource {
	src := &CommandSource{Command: command}
	if command == "arecord" {
		src.Args = []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "raw"}
	}
	return src
}

// Open starts the recorder process.
func (s *CommandSource) Open(ctx context.Context) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, s.Command, s.Args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open recorder output: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start recorder %s: %w", s.Command, err)
	}
	return &processReader{ReadCloser: stdout, cmd: cmd}, nil
}

type processReader struct {
	io.ReadCloser
	cmd  *exec.Cmd
	once sync.Once
}

// Close stops the recorder and reaps it.
func (r *processReader) Close() error {
	r.once.Do(func() {
		if r.cmd.Process != nil {
			_ = r.cmd.Process.Kill()
		}
		_ = r.cmd.Wait()
	})
	return nil
}

// CommandSink plays audio through an external player reading from stdin.
type CommandSink struct {
	Command string
	Args    []string
}

// NewPlayerSink returns a sink running command, with ffplay arguments when command is ffplay.
func NewPlayerSink(command string) *CommandSink {
	sink := &CommandSink{Command: command}
	switch command {
	case "ffplay":
		sink.Args = []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "-i", "-"}
	case "mpv":
		sink.Args = []string{"--no-video", "--really-quiet", "-"}
	}
	return sink
}

// Open starts the player process.
func (s *CommandSink) Open(ctx context.Context) (io.WriteCloser, error) {
	cmd := exec.CommandContext(ctx, s.Command, s.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open player input: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start player %s: %w", s.Command, err)
	}
	return &processWriter{WriteCloser: stdin, cmd: cmd}, nil
}

type processWriter struct {
	io.WriteCloser
	cmd  *exec.Cmd
	once sync.Once
	err  error
}

// Close ends the input and waits for the player to drain it.
func (w *processWriter) Close() error {
	w.once.Do(func() {
		_ = w.WriteCloser.Close()
		w.err = w.cmd.Wait()
	})
	return w.err
}

// CommandAvailable reports whether command resolves on PATH.
func CommandAvailable(command string) bool {
	if command == "" {
		return false
	}
	_, err := exec.LookPath(command)
	return err == nil
}
