package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// State — contenu persisté du panier, l'équivalent du localStorage du front
type State struct {
	MerchantID string  `json:"merchantId,omitempty"`
	Entries    []Entry `json:"entries"`
}

// Store — persistance synchrone du panier local
type Store interface {
	Load() (State, error)
	Save(State) error
}

// FileStore persiste le panier dans un fichier JSON
type FileStore struct {
	Path string
}

func (s *FileStore) Load() (State, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return State{}, nil
	}
	if err != nil {
		return State{}, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		// Fichier corrompu : on repart d'un panier vide plutôt que de bloquer
		return State{}, nil
	}
	return state, nil
}

func (s *FileStore) Save(state State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.Path, data, 0o644)
}
