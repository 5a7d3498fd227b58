package medichain

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// FileStore persists an uploaded document and returns the URL recorded
// on the patient's account. Actual document storage is a collaborator;
// the disk implementation below stands in for it.
type FileStore interface {
	Save(patientID string, file io.Reader, filename string) (string, error)
}

type diskFileStore struct {
	dir string
}

func NewDiskFileStore(dir string) FileStore {
	return &diskFileStore{dir: dir}
}

func (d *diskFileStore) Save(patientID string, file io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%d-%s", patientID, time.Now().UnixNano(), filepath.Base(filename))
	path := filepath.Join(d.dir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", err
	}
	return path, nil
}
