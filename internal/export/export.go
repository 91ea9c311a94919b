// Package export renders lecture notes as downloadable artifacts.
package export

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	MIMEText = "text/plain"
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Artifact is a rendered file ready to be written or offered for download.
type Artifact struct {
	Name string
	MIME string
	Data []byte
}

// Text returns the notes byte for byte as lecture_notes.txt.
func Text(notes string) Artifact {
	return Artifact{
		Name: "lecture_notes.txt",
		MIME: MIMEText,
		Data: []byte(notes),
	}
}

// Render dispatches on a format name: txt, pdf or docx.
func Render(format, notes string, opts PDFOptions) (Artifact, error) {
	switch format {
	case "txt":
		return Text(notes), nil
	case "pdf":
		return PDF(notes, opts)
	case "docx":
		return DOCX(notes)
	default:
		return Artifact{}, fmt.Errorf("unknown export format %q", format)
	}
}

// Write stores the artifact in dir under its own name and returns the path.
func Write(dir string, a Artifact) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, a.Name)
	if err := os.WriteFile(path, a.Data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
