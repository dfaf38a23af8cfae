// Package basedata reads the preloaded base dataset: the fixture file of
// configuration, users, and other seed records the downstream system
// already contains. It is read for two things only: per-model id maxima
// to seed the allocator, and the user pool for time-entry authorship.
package basedata

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

const userModel = "core.user"

// User is one seed user, with the privilege flags relevant to picking a
// time-entry author.
type User struct {
	ID          int
	IsSuperuser bool
	IsStaff     bool
}

type Base struct {
	// Records holds the fixture entries verbatim, in file order, for
	// pass-through emission.
	Records []json.RawMessage

	// MaxIDs maps model label to the highest numeric pk present.
	// String pks (e.g. configuration keys) are ignored.
	MaxIDs map[string]int

	Users []User
}

type fixture struct {
	Model  string          `json:"model"`
	PK     json.RawMessage `json:"pk"`
	Fields struct {
		IsSuperuser bool `json:"is_superuser"`
		IsStaff     bool `json:"is_staff"`
	} `json:"fields"`
}

// Load reads the base fixture file. A missing file yields an empty base
// dataset; a malformed file is an error.
func Load(path string) (*Base, error) {
	b := &Base{MaxIDs: make(map[string]int)}
	if path == "" {
		return b, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return b, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read base dataset %s", path)
	}

	if err := json.Unmarshal(data, &b.Records); err != nil {
		return nil, errors.Wrapf(err, "parse base dataset %s", path)
	}

	for i, raw := range b.Records {
		var f fixture
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, errors.Wrapf(err, "parse base dataset %s record %d", path, i)
		}

		var pk int
		if err := json.Unmarshal(f.PK, &pk); err != nil {
			continue // string pk
		}
		if pk > b.MaxIDs[f.Model] {
			b.MaxIDs[f.Model] = pk
		}
		if f.Model == userModel {
			b.Users = append(b.Users, User{
				ID:          pk,
				IsSuperuser: f.Fields.IsSuperuser,
				IsStaff:     f.Fields.IsStaff,
			})
		}
	}
	return b, nil
}

// TimeEntryAuthor picks the lowest-privilege existing user: prefer
// non-superuser non-staff accounts, then lower pks. Returns 0 when the
// base dataset has no users.
func (b *Base) TimeEntryAuthor() int {
	best := 0
	bestRank := -1
	for _, u := range b.Users {
		rank := 0
		if u.IsStaff {
			rank++
		}
		if u.IsSuperuser {
			rank += 2
		}
		if bestRank == -1 || rank < bestRank || (rank == bestRank && u.ID < best) {
			best = u.ID
			bestRank = rank
		}
	}
	return best
}
