// Package storage хранит файлы изображений объявлений.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store — хранилище двоичных файлов. Путь, возвращаемый Save, относительный.
type Store interface {
	Save(ctx context.Context, ext string, data []byte) (string, error)
	Delete(ctx context.Context, path string) error
}

// ErrBadPath: путь выходит за пределы корня хранилища.
var ErrBadPath = errors.New("storage: path escapes root")

// LocalStore хранит файлы в локальном каталоге.
type LocalStore struct {
	Root string
	Dir  string // подкаталог для изображений, например "images"
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore создаёт каталог хранилища при необходимости.
func NewLocalStore(root string) (*LocalStore, error) {
	s := &LocalStore{Root: root, Dir: "images"}
	if err := os.MkdirAll(filepath.Join(root, s.Dir), 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return s, nil
}

// Save пишет данные в файл со случайным именем и возвращает путь вида images/<uuid><ext>.
func (s *LocalStore) Save(ctx context.Context, ext string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rel := s.Dir + "/" + uuid.NewString() + ext
	full, err := s.resolve(rel)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", rel, err)
	}
	return rel, nil
}

// Delete удаляет файл. Отсутствующий файл ошибкой не считается.
func (s *LocalStore) Delete(ctx context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

func (s *LocalStore) resolve(rel string) (string, error) {
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return "", err
	}
	full := filepath.Join(root, filepath.FromSlash(rel))
	if !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", ErrBadPath
	}
	return full, nil
}
