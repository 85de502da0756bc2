package usage

import (
	"errors"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"
)

// SnapshotVersion is the document version written by WriteSnapshot.
const SnapshotVersion = 1

// Snapshot is the serialized form of a Store.
type Snapshot struct {
	Version int      `json:"version"`
	Records []Record `json:"records"`
}

// WriteSnapshot writes s as YAML. JSON readers can consume the same document
// after conversion; ReadSnapshot accepts both.
func WriteSnapshot(w io.Writer, s *Store) error {
	data, err := yaml.Marshal(Snapshot{Version: SnapshotVersion, Records: s.Records()})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = w.Write(data)

	return err
}

// ReadSnapshot parses a YAML or JSON snapshot and rebuilds a Store. Records
// violating the store invariants are rejected.
func ReadSnapshot(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	if err := yaml.UnmarshalStrict(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	s := NewStore()

	var errs []error

	for i, rec := range snap.Records {
		switch {
		case rec.Entity == "":
			errs = append(errs, fmt.Errorf("record #%d: missing entity", i))
		case !rec.Select:
			errs = append(errs, fmt.Errorf("record %q: select must be true", rec.Entity))
		case s.Has(rec.Entity):
			errs = append(errs, fmt.Errorf("record %q: duplicate entity", rec.Entity))
		default:
			s.Apply(rec.Entity, rec.Table, rec.Ops())
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return s, nil
}
