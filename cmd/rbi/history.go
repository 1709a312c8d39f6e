package main

import (
	"io"
	"os"
	"path/filepath"
)

const historyFileName = ".rbi_history"

// historyStore keeps line history, liner.State is one. It caps history
// at liner.HistoryLimit lines.
type historyStore interface {
	ReadHistory(r io.Reader) (int, error)
	WriteHistory(w io.Writer) (int, error)
}

func historyPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, historyFileName), nil
}

// readHistory loads history file, missing file is not an error
func readHistory(h historyStore, path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = h.ReadHistory(f)
	return err
}

func writeHistory(h historyStore, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := h.WriteHistory(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
