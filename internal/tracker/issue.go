package tracker

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
)

// Issue is the in-memory representation of one issue. Persisted fields
// are read lazily and memoized for the lifetime of the instance; any
// mutation through the owning Tracker invalidates the cache, including
// the rendered view.
type Issue struct {
	id ID
	t  *Tracker

	desc        string
	descOK      bool
	created     time.Time
	createdOK   bool
	due         *time.Time
	dueOK       bool
	milestone   string
	milestoneOK bool
	tags        []string
	tagsOK      bool

	view    string
	viewKey string
	viewOK  bool
}

func newIssue(t *Tracker, id ID) *Issue {
	return &Issue{id: id, t: t}
}

// ID returns the issue's full identifier.
func (is *Issue) ID() ID { return is.id }

// Description returns the issue's description text. A missing or
// unreadable description file makes the issue corrupt.
func (is *Issue) Description() (string, error) {
	if !is.descOK {
		desc, err := is.t.readProperty(is.id, propDescription)
		if err != nil {
			return "", fmt.Errorf("%w: %s: description: %v", ErrCorruptIssue, is.t.ShortID(is.id), err)
		}
		is.desc = desc
		is.descOK = true
	}
	return is.desc, nil
}

// Title returns the first line of the description.
func (is *Issue) Title() (string, error) {
	desc, err := is.Description()
	if err != nil {
		return "", err
	}
	title, _, _ := strings.Cut(desc, "\n")
	return title, nil
}

// Created returns the issue's creation timestamp.
func (is *Issue) Created() (time.Time, error) {
	if !is.createdOK {
		text, err := is.t.readProperty(is.id, propCreated)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s: created: %v", ErrCorruptIssue, is.t.ShortID(is.id), err)
		}
		created, err := time.Parse(time.RFC3339, text)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s: created: %v", ErrCorruptIssue, is.t.ShortID(is.id), err)
		}
		is.created = created
		is.createdOK = true
	}
	return is.created, nil
}

// Due returns the issue's due date, or nil when none is set.
func (is *Issue) Due() (*time.Time, error) {
	if !is.dueOK {
		text, err := is.t.readProperty(is.id, propDueDate)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
			is.due = nil
		} else {
			due, err := time.Parse(time.RFC3339, text)
			if err != nil {
				return nil, err
			}
			is.due = &due
		}
		is.dueOK = true
	}
	return is.due, nil
}

// Milestone returns the issue's milestone label, or "" when none is
// set.
func (is *Issue) Milestone() (string, error) {
	if !is.milestoneOK {
		m, err := is.t.readProperty(is.id, propMilestone)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return "", err
			}
			m = ""
		}
		is.milestone = m
		is.milestoneOK = true
	}
	return is.milestone, nil
}

// Tags returns the issue's tag set as stored: sorted and unique.
func (is *Issue) Tags() ([]string, error) {
	if !is.tagsOK {
		tags, err := is.t.readTags(is.id)
		if err != nil {
			return nil, err
		}
		is.tags = tags
		is.tagsOK = true
	}
	return is.tags, nil
}

// HasTag reports membership against the cached tag set.
func (is *Issue) HasTag(tag string) (bool, error) {
	tags, err := is.Tags()
	if err != nil {
		return false, err
	}
	return contains(tags, tag), nil
}

// Closed reports whether the issue's lifecycle state is closed.
func (is *Issue) Closed() (bool, error) {
	return is.HasTag(TagClosed)
}

// Rendered returns the issue formatted by f, memoized per instance.
// The memo survives until a mutation invalidates this Issue or a
// different format is requested.
func (is *Issue) Rendered(f *FormatString) string {
	if is.viewOK && is.viewKey == f.key {
		return is.view
	}
	is.view = f.format(is)
	is.viewKey = f.key
	is.viewOK = true
	return is.view
}

// invalidate drops every memoized field and the rendered view.
func (is *Issue) invalidate() {
	is.descOK = false
	is.createdOK = false
	is.dueOK = false
	is.milestoneOK = false
	is.tagsOK = false
	is.viewOK = false
}
