package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nagyistge/manta-madtom/internal/model"
)

// Sink accepts the final host list.
type Sink interface {
	Write(hosts []model.Host) error
}

// FileSink renders hosts into a file. The file is replaced atomically so
// readers never see a partial inventory.
type FileSink struct {
	Path     string
	Renderer Renderer
	Mode     os.FileMode
}

func (s *FileSink) Write(hosts []model.Host) error {
	data, err := s.Renderer.Render(hosts)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	mode := s.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.Path, err)
	}
	return nil
}

// WriterSink renders hosts to a stream, such as stdout.
type WriterSink struct {
	W        io.Writer
	Renderer Renderer
}

func (s *WriterSink) Write(hosts []model.Host) error {
	data, err := s.Renderer.Render(hosts)
	if err != nil {
		return err
	}
	_, err = s.W.Write(data)
	return err
}

// NewSink returns a stdout sink for path "-" and a file sink otherwise.
func NewSink(path string, r Renderer, stdout io.Writer) Sink {
	if path == "-" {
		return &WriterSink{W: stdout, Renderer: r}
	}
	return &FileSink{Path: path, Renderer: r}
}
