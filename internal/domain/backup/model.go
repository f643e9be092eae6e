package backup

import "time"

// Document names as persisted by the stores.
const (
	DocDB       = "db"
	DocSettings = "settings"
	DocVisitors = "visitors"
	DocActivity = "activity"
	DocNotes    = "notes"
)

// Documents lists every document a full backup covers.
var Documents = []string{DocDB, DocSettings, DocVisitors, DocActivity, DocNotes}

// Manifest records the artifacts written by one backup.
type Manifest struct {
	CreatedAt time.Time         `json:"createdAt"`
	Location  string            `json:"location"`
	Files     map[string]string `json:"files"`
	Checksums map[string]string `json:"checksums,omitempty"`
}

// Empty reports whether no artifact was written.
func (m Manifest) Empty() bool {
	return len(m.Files) == 0
}

// Timestamp formats t for artifact names: ISO-8601 with ':' and '.' replaced by '-'.
func Timestamp(t time.Time) string {
	s := t.UTC().Format("2006-01-02T15:04:05.000Z")
	out := []byte(s)
	for i, c := range out {
		if c == ':' || c == '.' {
			out[i] = '-'
		}
	}
	return string(out)
}

// ArtifactName is "<doc>-<timestamp>.json".
func ArtifactName(doc string, t time.Time) string {
	return doc + "-" + Timestamp(t) + ".json"
}
