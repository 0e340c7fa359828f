package out

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	surfaceout "gazeink/internal/modules/surface/port/out"
)

type LocalFileWriter struct{}

var _ surfaceout.FileWriter = LocalFileWriter{}

func NewLocalFileWriter() LocalFileWriter {
	return LocalFileWriter{}
}

func (LocalFileWriter) WritePNG(_ context.Context, path string, img image.Image) error {
	return writeFile(path, func(w io.Writer) error {
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
		return nil
	})
}

func (LocalFileWriter) WriteDocument(_ context.Context, path string, doc io.WriterTo) error {
	return writeFile(path, func(w io.Writer) error {
		_, err := doc.WriteTo(w)
		return err
	})
}

func writeFile(path string, fill func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := fill(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalize %s: %w", filepath.Base(path), err)
	}
	return nil
}
