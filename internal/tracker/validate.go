package tracker

import (
	"fmt"
	"path"
	"strings"
	"time"

	"gitissue/internal/idgen"
)

// Violation is one structural invariant broken somewhere in the
// repository. Fixable violations can be repaired by Fix.
type Violation struct {
	ID      string // offending issue identifier, "" for tree-level problems
	Path    string // file or directory relative to the issues root
	Message string
	Fixable bool
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// propertyFiles are the per-issue files checked for the trailing
// newline invariant.
var propertyFiles = []string{propDescription, propCreated, propTags, propMilestone, propDueDate}

// Validate walks the whole repository and collects every structural
// violation it finds. One bad issue never aborts the scan; failure is
// signalled only in aggregate by the caller when the returned slice is
// non-empty.
func (t *Tracker) Validate() ([]Violation, error) {
	var violations []Violation

	buckets, err := t.store.List("issues")
	if err != nil {
		return nil, err
	}
	for _, bucket := range buckets {
		entries, err := t.store.List(path.Join("issues", bucket))
		if err != nil {
			violations = append(violations, Violation{
				Path:    path.Join("issues", bucket),
				Message: fmt.Sprintf("unreadable bucket: %v", err),
			})
			continue
		}
		for _, entry := range entries {
			id := idFromDir(bucket, entry)
			if !idgen.Valid(string(id)) {
				violations = append(violations, Violation{
					ID:      string(id),
					Path:    path.Join("issues", bucket, entry),
					Message: "identifier does not match the expected token format",
				})
				continue
			}
			violations = append(violations, t.validateIssue(id)...)
		}
	}
	return violations, nil
}

func (t *Tracker) validateIssue(id ID) []Violation {
	var violations []Violation
	short := t.ShortID(id)

	if !t.store.Exists(id.File(propDescription)) {
		violations = append(violations, Violation{
			ID:      string(id),
			Path:    id.File(propDescription),
			Message: "missing description file",
		})
	}

	for _, prop := range propertyFiles {
		p := id.File(prop)
		if !t.store.Exists(p) {
			continue
		}
		data, err := t.store.Read(p)
		if err != nil {
			violations = append(violations, Violation{
				ID: string(id), Path: p,
				Message: fmt.Sprintf("unreadable: %v", err),
			})
			continue
		}
		if len(data) == 0 || data[len(data)-1] != '\n' {
			violations = append(violations, Violation{
				ID: string(id), Path: p,
				Message: fmt.Sprintf("%s/%s missing newline at end of file", short, prop),
				Fixable: true,
			})
		}
		if strings.TrimSpace(string(data)) == "" && (prop == propMilestone || prop == propTags) {
			violations = append(violations, Violation{
				ID: string(id), Path: p,
				Message: "dangling record: file present but empty",
			})
		}
	}

	violations = append(violations, t.validateLifecycle(id)...)
	violations = append(violations, t.validateTimestamps(id)...)
	return violations
}

func (t *Tracker) validateLifecycle(id ID) []Violation {
	tags, err := t.readTags(id)
	if err != nil {
		return []Violation{{
			ID: string(id), Path: id.File(propTags),
			Message: fmt.Sprintf("unreadable tags: %v", err),
		}}
	}
	reserved := 0
	for _, tag := range tags {
		if tag == TagOpen || tag == TagClosed {
			reserved++
		}
	}
	if reserved != 1 {
		return []Violation{{
			ID: string(id), Path: id.File(propTags),
			Message: fmt.Sprintf("expected exactly one of %q/%q, found %d reserved tags", TagOpen, TagClosed, reserved),
		}}
	}
	return nil
}

func (t *Tracker) validateTimestamps(id ID) []Violation {
	var violations []Violation
	for _, prop := range []string{propCreated, propDueDate} {
		if !t.store.Exists(id.File(prop)) {
			continue
		}
		text, err := t.readProperty(id, prop)
		if err != nil {
			continue // unreadable already reported
		}
		if _, err := time.Parse(time.RFC3339, text); err != nil {
			violations = append(violations, Violation{
				ID: string(id), Path: id.File(prop),
				Message: fmt.Sprintf("not a valid RFC 3339 timestamp: %q", text),
			})
		}
	}
	return violations
}

// Fix repairs every fixable violation as one transaction. Currently
// that is the missing trailing newline class; everything else needs a
// human.
func (t *Tracker) Fix(violations []Violation) (Outcome, error) {
	// Fixable violations are always per-issue; the first one anchors the
	// commit message in relaxed mode.
	var first ID
	for _, v := range violations {
		if v.Fixable {
			first = ID(v.ID)
			break
		}
	}
	if first == "" {
		return NothingToDo, nil
	}

	if err := t.tx.Begin(); err != nil {
		return NothingToDo, txErr(err)
	}
	for _, v := range violations {
		if !v.Fixable {
			continue
		}
		data, err := t.store.Read(v.Path)
		if err != nil {
			return NothingToDo, t.rollback(err)
		}
		if err := t.store.Write(v.Path, append(data, '\n')); err != nil {
			return NothingToDo, t.rollback(err)
		}
		if err := t.tx.Stage(v.Path); err != nil {
			return NothingToDo, t.rollback(err)
		}
		if v.ID != "" {
			t.invalidate(ID(v.ID))
		}
	}
	return t.commit(first, "Fix issue files", "Fix issue files", "gi validate --fix")
}
