package strava

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type TokenStore interface {
	Read() (string, error)
	Write(token string) error
}

// FileTokenStore keeps the refresh token as plain text in a single file.
type FileTokenStore struct {
	File string
}

func NewFileTokenStore(file string) *FileTokenStore {
	return &FileTokenStore{
		File: file,
	}
}

func (s *FileTokenStore) Read() (string, error) {
	b, err := os.ReadFile(s.File)
	if err != nil {
		return "", err
	}

	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", fmt.Errorf("refresh token file %v is empty", s.File)
	}

	return token, nil
}

func (s *FileTokenStore) Write(token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("invalid refresh token")
	}

	if err := os.MkdirAll(filepath.Dir(s.File), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(s.File, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	if _, err := f.WriteString(token); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
