package memory

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

// DocumentStore keeps uploaded documents in memory. Dev only.
type DocumentStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{objects: make(map[string][]byte)}
}

func (d *DocumentStore) Upload(ctx context.Context, f domain.UploadFile, folder string) (domain.StoredObject, error) {
	rc, err := f.Open()
	if err != nil {
		return domain.StoredObject{}, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return domain.StoredObject{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.StoredObject{}, err
	}

	ext := strings.ToLower(filepath.Ext(f.Name))
	publicID := path.Join(folder, uuid.NewString()+ext)

	d.mu.Lock()
	d.objects[publicID] = data
	d.mu.Unlock()

	return domain.StoredObject{
		URL:      "memory://" + publicID,
		PublicID: publicID,
		Format:   strings.TrimPrefix(ext, "."),
		Bytes:    int64(len(data)),
	}, nil
}

func (d *DocumentStore) Delete(ctx context.Context, publicID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.objects, publicID)
	return nil
}

func (d *DocumentStore) Has(publicID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.objects[publicID]
	return ok
}
