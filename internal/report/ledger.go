package report

import (
	"time"

	"github.com/frahmantamala/mediscript/internal"
	"github.com/google/uuid"
)

// Version is an immutable snapshot of the report body.
type Version struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Content    string    `json:"content"`
	AuthorName string    `json:"author_name"`
}

// Ledger is the newest-first version history of one session. It is not
// safe for concurrent use; the owning Session serialises access.
type Ledger struct {
	versions []Version
	now      func() time.Time
}

func NewLedger(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{now: now}
}

// Snapshot records content as the newest version.
func (l *Ledger) Snapshot(content, authorName string) Version {
	v := Version{
		ID:         uuid.NewString(),
		Timestamp:  l.now(),
		Content:    content,
		AuthorName: authorName,
	}
	l.versions = append([]Version{v}, l.versions...)
	return v
}

// Revert returns the stored content of a version. The ledger is unchanged.
func (l *Ledger) Revert(versionID string) (string, error) {
	v, ok := l.Find(versionID)
	if !ok {
		return "", internal.ErrVersionNotFound
	}
	return v.Content, nil
}

func (l *Ledger) Find(versionID string) (Version, bool) {
	for _, v := range l.versions {
		if v.ID == versionID {
			return v, true
		}
	}
	return Version{}, false
}

func (l *Ledger) Latest() (Version, bool) {
	if len(l.versions) == 0 {
		return Version{}, false
	}
	return l.versions[0], true
}

// Versions returns a copy, newest first.
func (l *Ledger) Versions() []Version {
	out := make([]Version, len(l.versions))
	copy(out, l.versions)
	return out
}

func (l *Ledger) Len() int {
	return len(l.versions)
}
