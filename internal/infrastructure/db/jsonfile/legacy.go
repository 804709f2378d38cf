package jsonfile

import (
	"path/filepath"

	"github.com/ayam04/Contract-Farming/internal/core/domain"
)

// ReadUsersFile decodes a standalone users file in the on-disk format of this
// package. Roles are returned as found; callers validate them.
func ReadUsersFile(path string) ([]domain.User, error) {
	records, err := readRecords[fileUser](path, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(records))
	for _, r := range records {
		users = append(users, r.toDomain())
	}
	return users, nil
}

// ReadCropsFile decodes a standalone crops file.
func ReadCropsFile(path string) ([]domain.Crop, error) {
	return readRecords[domain.Crop](path, filepath.Base(path))
}
