package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/ayam04/Contract-Farming/internal/core/domain"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(openTestStore(t))
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h", Role: domain.RoleFarmer}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "x", Role: domain.RoleBuyer}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	u, err := repo.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u.PasswordHash != "h" || u.Role != domain.RoleFarmer {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := repo.FindByUsername(ctx, "nobody"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_ReadsLegacyFile(t *testing.T) {
	s := openTestStore(t)
	legacy := `[{"username":"old","password":"$2b$10$hash","role":"buyer"}]`
	if err := os.WriteFile(filepath.Join(s.Dir(), "users.json"), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	u, err := NewUserRepository(s).FindByUsername(context.Background(), "old")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u.PasswordHash != "$2b$10$hash" || u.Role != domain.RoleBuyer {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestCropRepository_ReadsLegacyFile(t *testing.T) {
	s := openTestStore(t)
	legacy := `[{"id":"c1","name":"Rice","description":"","location":"Kerala","price":3.5,"farmer":"old","image":null}]`
	if err := os.WriteFile(filepath.Join(s.Dir(), "crops.json"), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := NewCropRepository(s).FindByID(context.Background(), "c1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if c.Name != "Rice" || c.Price != 3.5 || c.Image != "" || c.Quantity != 0 {
		t.Fatalf("unexpected crop: %+v", c)
	}
}

func TestCropRepository_FindByID_NotFound(t *testing.T) {
	repo := NewCropRepository(openTestStore(t))
	if _, err := repo.FindByID(context.Background(), "nope"); !errors.Is(err, domain.ErrCropNotFound) {
		t.Fatalf("expected ErrCropNotFound, got %v", err)
	}
}

func TestCropRepository_ParallelCreates(t *testing.T) {
	repo := NewCropRepository(openTestStore(t))
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := &domain.Crop{ID: uuid.NewString(), Name: fmt.Sprintf("crop-%d", i), Farmer: "fiona"}
			if err := repo.Create(ctx, c); err != nil {
				t.Errorf("create %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	crops, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(crops) != n {
		t.Fatalf("expected %d crops, got %d", n, len(crops))
	}
	seen := make(map[string]bool, n)
	for _, c := range crops {
		if seen[c.ID] {
			t.Fatalf("duplicate id %s", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestReadUsersFile_AndCropsFile(t *testing.T) {
	dir := t.TempDir()
	usersPath := filepath.Join(dir, "legacy-users.json")
	cropsPath := filepath.Join(dir, "legacy-crops.json")
	if err := os.WriteFile(usersPath, []byte(`[{"username":"u1","password":"$2b$10$hash","role":"farmer"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cropsPath, []byte(`[{"id":"c1","name":"Rice","price":3,"farmer":"u1","image":null}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	users, err := ReadUsersFile(usersPath)
	if err != nil {
		t.Fatalf("read users: %v", err)
	}
	if len(users) != 1 || users[0].PasswordHash != "$2b$10$hash" || users[0].Role != domain.RoleFarmer {
		t.Fatalf("unexpected users: %+v", users)
	}

	crops, err := ReadCropsFile(cropsPath)
	if err != nil {
		t.Fatalf("read crops: %v", err)
	}
	if len(crops) != 1 || crops[0].ID != "c1" || crops[0].Image != "" {
		t.Fatalf("unexpected crops: %+v", crops)
	}

	if _, err := ReadCropsFile(filepath.Join(dir, "absent.json")); err != nil {
		t.Fatalf("missing file should read as empty, got %v", err)
	}
}
