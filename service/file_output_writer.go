package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

// FileOutputWriter writes rendered output to a file or to a fallback writer
type FileOutputWriter struct {
	status io.Writer // where to print status messages (typically stderr)
}

// NewFileOutputWriter creates a new FileOutputWriter.
func NewFileOutputWriter(status io.Writer) *FileOutputWriter {
	if status == nil {
		status = os.Stderr
	}
	return &FileOutputWriter{status: status}
}

// Write sends output to outputPath when set, otherwise to writer
func (w *FileOutputWriter) Write(writer io.Writer, outputPath string, output string) error {
	if outputPath == "" {
		return writeString(writer, output)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return domain.NewOutputError(fmt.Sprintf("failed to create output directory: %s", dir), err)
		}
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to create output file: %s", outputPath), err)
	}
	defer file.Close()

	if err := writeString(file, output); err != nil {
		return err
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		absPath = outputPath
	}
	fmt.Fprintf(w.status, "Report written: %s\n", absPath)
	return nil
}
