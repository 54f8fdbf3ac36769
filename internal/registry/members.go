package registry

import (
	"fmt"
	"slices"
	"strings"

	"github.com/feral-file/ff-emoji-insights/internal/adapter"
)

// Member is a display name and the member id events are recorded under
type Member struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// MemberDirectory resolves member display names to ids. It is read-only after loading.
//
//go:generate mockgen -source=members.go -destination=../mocks/member_directory.go -package=mocks -mock_names=MemberDirectory=MockMemberDirectory
type MemberDirectory interface {
	// Lookup returns the id of the member with the given display name
	Lookup(name string) (string, bool)

	// Members returns every member sorted by display name
	Members() []Member
}

// MemberData represents the structure of the members.json file: display name -> member id.
// Several names may share one id.
type MemberData map[string]string

type memberDirectory struct {
	ids     map[string]string
	members []Member
}

// MemberDirectoryLoader loads a member directory from a JSON file
type MemberDirectoryLoader struct {
	fs   adapter.FileSystem
	json adapter.JSON
}

// NewMemberDirectoryLoader creates a loader reading through fs and decoding with json
func NewMemberDirectoryLoader(fs adapter.FileSystem, json adapter.JSON) *MemberDirectoryLoader {
	return &MemberDirectoryLoader{fs: fs, json: json}
}

// Load reads and validates the member directory at filePath
func (l *MemberDirectoryLoader) Load(filePath string) (MemberDirectory, error) {
	data, err := l.fs.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read member directory: %w", err)
	}

	var memberData MemberData
	if err := l.json.Unmarshal(data, &memberData); err != nil {
		return nil, fmt.Errorf("failed to parse member directory JSON: %w", err)
	}

	return NewMemberDirectory(memberData)
}

// NewMemberDirectory builds a directory from in-memory data
func NewMemberDirectory(data MemberData) (MemberDirectory, error) {
	dir := &memberDirectory{
		ids:     make(map[string]string, len(data)),
		members: make([]Member, 0, len(data)),
	}

	for name, id := range data {
		name = strings.TrimSpace(name)
		id = strings.TrimSpace(id)
		if name == "" {
			return nil, fmt.Errorf("member directory has an entry with an empty name")
		}
		if id == "" {
			return nil, fmt.Errorf("member %q has an empty id", name)
		}
		if _, dup := dir.ids[name]; dup {
			return nil, fmt.Errorf("member %q is listed more than once", name)
		}
		dir.ids[name] = id
		dir.members = append(dir.members, Member{Name: name, ID: id})
	}

	slices.SortFunc(dir.members, func(a, b Member) int {
		return strings.Compare(a.Name, b.Name)
	})

	return dir, nil
}

// Lookup returns the id of the member with the given display name
func (d *memberDirectory) Lookup(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	id, ok := d.ids[name]
	return id, ok
}

// Members returns a copy of every member sorted by display name
func (d *memberDirectory) Members() []Member {
	if d == nil {
		return nil
	}
	return slices.Clone(d.members)
}
