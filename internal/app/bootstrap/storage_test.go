// internal/app/bootstrap/storage_test.go
package bootstrap

import (
	"context"
	"testing"

	"github.com/dalemusser/waffle/pantry/storage"
)

func TestBuildStorageLocal(t *testing.T) {
	cfg := AppConfig{
		StorageType:      "local",
		StorageLocalPath: t.TempDir(),
		StorageLocalURL:  "/uploads/assets",
	}

	store, err := buildStorage(context.Background(), cfg)
	if err != nil {
		t.Fatalf("buildStorage: %v", err)
	}
	if _, ok := store.(*storage.Local); !ok {
		t.Fatalf("expected *storage.Local, got %T", store)
	}
}

func TestBuildStorageUnknownType(t *testing.T) {
	_, err := buildStorage(context.Background(), AppConfig{StorageType: "ftp"})
	if err == nil {
		t.Fatal("expected error for unknown storage_type")
	}
}
