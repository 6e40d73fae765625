package objectstore

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Buckets soportados. Espeja los buckets del storage gestionado original.
const (
	BucketAvatars          = "avatars"
	BucketPetPhotos        = "pet-photos"
	BucketChatImages       = "chat-images"
	BucketVerificationDocs = "verification-docs"
)

var (
	ErrUnknownBucket = errors.New("unknown bucket")
	ErrEmptyFile     = errors.New("empty file")
)

var allowedBuckets = map[string]struct{}{
	BucketAvatars:          {},
	BucketPetPhotos:        {},
	BucketChatImages:       {},
	BucketVerificationDocs: {},
}

// Store guarda archivos en disco bajo root/<bucket>/ y expone URLs
// públicas bajo publicPrefix (por defecto /files).
type Store struct {
	root         string
	publicPrefix string
}

func New(root string) (*Store, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "data/files"
	}

	for b := range allowedBuckets {
		if err := os.MkdirAll(filepath.Join(root, b), 0o755); err != nil {
			return nil, fmt.Errorf("objectstore mkdir %s: %w", b, err)
		}
	}

	return &Store{root: root, publicPrefix: "/files"}, nil
}

// Save escribe data con un nombre generado (uuid + extensión original)
// y devuelve la URL pública relativa.
func (s *Store) Save(bucket, originalName string, data []byte) (string, error) {
	if _, ok := allowedBuckets[bucket]; !ok {
		return "", ErrUnknownBucket
	}
	if len(data) == 0 {
		return "", ErrEmptyFile
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if len(ext) > 10 {
		ext = "" // extensiones raras no nos interesan
	}
	name := uuid.NewString() + ext

	full := filepath.Join(s.root, bucket, name)
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("objectstore write: %w", err)
	}

	return path.Join(s.publicPrefix, bucket, name), nil
}

// Handler sirve los archivos guardados. Montar en /files/*.
// Los nombres son uuids generados por Save, así que no hay nada
// adivinable ni traversal posible después del Clean.
func (s *Store) Handler() http.Handler {
	fs := http.StripPrefix(s.publicPrefix+"/", http.FileServer(http.Dir(s.root)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clean := path.Clean(r.URL.Path)
		if strings.Contains(clean, "..") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		fs.ServeHTTP(w, r)
	})
}
