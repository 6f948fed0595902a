package tracker

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DirName is the marker directory that roots an issues repository.
const DirName = ".issues"

// Property file names inside an issue directory.
const (
	propDescription = "description"
	propCreated     = "created"
	propTags        = "tags"
	propMilestone   = "milestone"
	propDueDate     = "duedate"
	commentsDir     = "comments"
)

// Reserved lifecycle tags. Exactly one of them is present on every
// issue at all times.
const (
	TagOpen   = "open"
	TagClosed = "closed"
)

// Options configure a Tracker at construction. The strict-compatibility
// flag is resolved once per process and threaded in here, never read
// from ambient state.
type Options struct {
	StrictCompat  bool
	ShortIDLength int
}

// Tracker owns the repository's mapping from identifier to issue and
// performs every read and transaction-wrapped mutation against it.
type Tracker struct {
	store  Store
	tx     Transactor
	strict bool
	short  int

	issues map[ID]*Issue
}

// New creates a Tracker over the given persistence and transaction
// adapters.
func New(store Store, tx Transactor, opts Options) *Tracker {
	short := opts.ShortIDLength
	if short <= 0 {
		short = 8
	}
	return &Tracker{
		store:  store,
		tx:     tx,
		strict: opts.StrictCompat,
		short:  short,
		issues: make(map[ID]*Issue),
	}
}

// Discover walks up from dir looking for the issues marker directory.
func Discover(dir string) (string, error) {
	cur, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		needle := filepath.Join(cur, DirName)
		if info, err := os.Stat(needle); err == nil && info.IsDir() {
			return needle, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", ErrNoRepository
		}
		cur = parent
	}
}

// ShortID abbreviates id using the configured display length.
func (t *Tracker) ShortID(id ID) string {
	return id.Short(t.short)
}

// IDs returns every issue identifier in the repository, sorted.
func (t *Tracker) IDs() ([]ID, error) {
	buckets, err := t.store.List("issues")
	if err != nil {
		return nil, err
	}
	var ids []ID
	for _, bucket := range buckets {
		entries, err := t.store.List(path.Join("issues", bucket))
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			ids = append(ids, idFromDir(bucket, entry))
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Issue returns the in-memory representation of id. Instances are
// memoized per Tracker so repeated lookups share one cache; mutations
// through this Tracker invalidate it.
func (t *Tracker) Issue(id ID) *Issue {
	if is, ok := t.issues[id]; ok {
		return is
	}
	is := newIssue(t, id)
	t.issues[id] = is
	return is
}

// Load reads an issue's persisted fields eagerly. A missing or
// unreadable issue is a CorruptIssue error, never silently defaulted.
func (t *Tracker) Load(id ID) (*Issue, error) {
	if !t.store.Exists(id.Dir()) {
		return nil, fmt.Errorf("%w: no issue %s", ErrNotFound, id)
	}
	is := t.Issue(id)
	if _, err := is.Description(); err != nil {
		return nil, err
	}
	if _, err := is.Created(); err != nil {
		return nil, err
	}
	return is, nil
}

// All returns every issue in the repository.
func (t *Tracker) All() ([]*Issue, error) {
	ids, err := t.IDs()
	if err != nil {
		return nil, err
	}
	issues := make([]*Issue, len(ids))
	for i, id := range ids {
		issues[i] = t.Issue(id)
	}
	return issues, nil
}

// Template returns the named template from the templates directory, or
// "" when absent.
func (t *Tracker) Template(name string) string {
	data, err := t.store.Read(path.Join("templates", name))
	if err != nil {
		return ""
	}
	return string(data)
}

// Comment is one entry of an issue's ordered, append-only comment
// sequence.
type Comment struct {
	Seq  string
	Text string
}

// Comments returns the issue's comment sequence in order. Issues
// without comments yield an empty slice.
func (t *Tracker) Comments(id ID) ([]Comment, error) {
	names, err := t.store.List(id.File(commentsDir))
	if err != nil {
		return nil, err
	}
	comments := make([]Comment, 0, len(names))
	for _, name := range names {
		data, err := t.store.Read(path.Join(id.File(commentsDir), name))
		if err != nil {
			return nil, err
		}
		comments = append(comments, Comment{Seq: name, Text: strings.TrimRight(string(data), "\n")})
	}
	return comments, nil
}

// --- property access ---

// readProperty returns the trimmed contents of a property file.
func (t *Tracker) readProperty(id ID, prop string) (string, error) {
	data, err := t.store.Read(id.File(prop))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func (t *Tracker) readTags(id ID) ([]string, error) {
	text, err := t.readProperty(id, propTags)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var tags []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			tags = append(tags, line)
		}
	}
	return tags, nil
}

// writeProperty writes a newline-terminated property file and stages it.
func (t *Tracker) writeProperty(id ID, prop, value string) error {
	p := id.File(prop)
	if err := t.store.Write(p, []byte(strings.TrimRight(value, "\n")+"\n")); err != nil {
		return err
	}
	slog.Debug("wrote property", "issue", t.ShortID(id), "property", prop)
	return t.tx.Stage(p)
}

func (t *Tracker) removeProperty(id ID, prop string) error {
	p := id.File(prop)
	if err := t.store.Remove(p); err != nil {
		return err
	}
	return t.tx.Stage(p)
}

func (t *Tracker) writeTags(id ID, tags []string) error {
	sort.Strings(tags)
	tags = dedup(tags)
	return t.writeProperty(id, propTags, strings.Join(tags, "\n"))
}

// addTag inserts tag into the issue's tag set, enforcing the mutual
// exclusion of the reserved lifecycle pair. Reports whether the set
// changed.
func (t *Tracker) addTag(id ID, tag string) (bool, error) {
	tags, err := t.readTags(id)
	if err != nil {
		return false, err
	}
	if contains(tags, tag) {
		return false, nil
	}
	switch tag {
	case TagOpen:
		tags = remove(tags, TagClosed)
	case TagClosed:
		tags = remove(tags, TagOpen)
	}
	tags = append(tags, tag)
	if err := t.writeTags(id, tags); err != nil {
		return false, err
	}
	t.invalidate(id)
	return true, nil
}

// removeTag removes a non-reserved tag. Bare removal of a lifecycle tag
// is disallowed; only the close/reopen transitions touch the reserved
// pair.
func (t *Tracker) removeTag(id ID, tag string) (bool, error) {
	if tag == TagOpen || tag == TagClosed {
		return false, fmt.Errorf("%w: %q can only change via close/reopen", ErrReservedTag, tag)
	}
	tags, err := t.readTags(id)
	if err != nil {
		return false, err
	}
	if !contains(tags, tag) {
		return false, nil
	}
	if err := t.writeTags(id, remove(tags, tag)); err != nil {
		return false, err
	}
	t.invalidate(id)
	return true, nil
}

func (t *Tracker) setMilestone(id ID, milestone string) (bool, error) {
	cur, err := t.readProperty(id, propMilestone)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if cur == milestone {
		return false, nil
	}
	if err := t.writeProperty(id, propMilestone, milestone); err != nil {
		return false, err
	}
	t.invalidate(id)
	return true, nil
}

func (t *Tracker) clearMilestone(id ID) (bool, error) {
	if !t.store.Exists(id.File(propMilestone)) {
		return false, nil
	}
	if err := t.removeProperty(id, propMilestone); err != nil {
		return false, err
	}
	t.invalidate(id)
	return true, nil
}

func (t *Tracker) invalidate(id ID) {
	if is, ok := t.issues[id]; ok {
		is.invalidate()
	}
}

// --- transactions ---

// Create allocates an identifier and persists a new issue as one
// transaction. The initial lifecycle state is open.
func (t *Tracker) Create(description string, tags []string, milestone string, due *time.Time) (ID, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", errors.New("empty description")
	}
	if err := t.tx.Begin(); err != nil {
		return "", txErr(err)
	}
	created := time.Now()
	id, err := t.allocate(description, created)
	if err != nil {
		return "", t.rollback(err)
	}
	slog.Debug("allocated identifier", "id", t.ShortID(id))

	if err := t.writeProperty(id, propDescription, description); err != nil {
		return "", t.rollback(err)
	}
	if err := t.writeProperty(id, propCreated, created.Format(time.RFC3339)); err != nil {
		return "", t.rollback(err)
	}
	// The lifecycle tag goes in first; initial tags then pass through
	// addTag so a reserved tag transitions the issue instead of
	// coexisting with its counterpart.
	if err := t.writeTags(id, []string{TagOpen}); err != nil {
		return "", t.rollback(err)
	}
	for _, tag := range tags {
		if _, err := t.addTag(id, tag); err != nil {
			return "", t.rollback(err)
		}
	}
	if milestone != "" {
		if err := t.writeProperty(id, propMilestone, milestone); err != nil {
			return "", t.rollback(err)
		}
	}
	if due != nil {
		if err := t.writeProperty(id, propDueDate, due.Format(time.RFC3339)); err != nil {
			return "", t.rollback(err)
		}
	}

	title, _, _ := strings.Cut(description, "\n")
	if _, err := t.commit(id, "Add issue", title, "gi new "+string(id)); err != nil {
		return "", err
	}
	return id, nil
}

// AddTags adds tags to an issue as one transaction. Tags already
// present are skipped; if every tag was present the transaction commits
// nothing and reports NothingToDo.
func (t *Tracker) AddTags(id ID, tags []string) (Outcome, error) {
	return t.tagOp(id, tags, "Add", t.addTag)
}

// RemoveTags removes tags from an issue as one transaction. Reserved
// lifecycle tags are rejected.
func (t *Tracker) RemoveTags(id ID, tags []string) (Outcome, error) {
	return t.tagOp(id, tags, "Remove", t.removeTag)
}

func (t *Tracker) tagOp(id ID, tags []string, verb string, apply func(ID, string) (bool, error)) (Outcome, error) {
	if err := t.tx.Begin(); err != nil {
		return NothingToDo, txErr(err)
	}
	var applied []string
	for _, tag := range tags {
		changed, err := apply(id, tag)
		if err != nil {
			return NothingToDo, t.rollback(err)
		}
		if changed {
			applied = append(applied, tag)
		} else {
			slog.Info("skipping tag, no change", "issue", t.ShortID(id), "tag", tag)
		}
	}
	word := "tag"
	if len(applied) > 1 {
		word = "tags"
	}
	summary := fmt.Sprintf("%s %s", verb, word)
	trailer := fmt.Sprintf("gi tag %s %s", strings.ToLower(verb), strings.Join(applied, ", "))
	return t.commit(id, summary, summary+" "+strings.Join(applied, ", "), trailer)
}

// Close moves the given issues from open to closed as one transaction.
// Issues already closed contribute no changes; if all were closed the
// outcome is NothingToDo.
func (t *Tracker) Close(ids []ID) (Outcome, error) {
	return t.lifecycle(ids, TagClosed, "Close")
}

// Reopen moves the given issues from closed back to open as one
// transaction.
func (t *Tracker) Reopen(ids []ID) (Outcome, error) {
	return t.lifecycle(ids, TagOpen, "Reopen")
}

func (t *Tracker) lifecycle(ids []ID, target, verb string) (Outcome, error) {
	if err := t.tx.Begin(); err != nil {
		return NothingToDo, txErr(err)
	}
	shorts := make([]string, len(ids))
	for i, id := range ids {
		if _, err := t.addTag(id, target); err != nil {
			return NothingToDo, t.rollback(err)
		}
		shorts[i] = t.ShortID(id)
	}
	word := "issue"
	if len(ids) > 1 {
		word = "issues"
	}
	summary := fmt.Sprintf("%s %s", verb, word)
	trailer := fmt.Sprintf("gi %s %s", strings.ToLower(verb), strings.Join(shorts, ", "))
	return t.commit(ids[0], summary, summary+" "+strings.Join(shorts, ", "), trailer)
}

// SetMilestone assigns the milestone label as one transaction. Setting
// the already-assigned label is NothingToDo.
func (t *Tracker) SetMilestone(id ID, milestone string) (Outcome, error) {
	if err := t.tx.Begin(); err != nil {
		return NothingToDo, txErr(err)
	}
	if _, err := t.setMilestone(id, milestone); err != nil {
		return NothingToDo, t.rollback(err)
	}
	return t.commit(id, "Add milestone", "Add milestone "+milestone, "gi milestone add "+milestone)
}

// ClearMilestone removes the milestone label as one transaction.
// Clearing an issue with no milestone is NothingToDo, distinct from an
// error.
func (t *Tracker) ClearMilestone(id ID) (Outcome, error) {
	if err := t.tx.Begin(); err != nil {
		return NothingToDo, txErr(err)
	}
	if _, err := t.clearMilestone(id); err != nil {
		return NothingToDo, t.rollback(err)
	}
	return t.commit(id, "Remove milestone", "Remove milestone", "gi milestone remove")
}

// commit finishes the current transaction with a mode-dependent
// message. A failed commit unwinds the transaction so pending writes
// and any stashed user changes are not left behind.
func (t *Tracker) commit(id ID, strictSummary, summary, trailer string) (Outcome, error) {
	outcome, err := t.tx.Commit(t.message(id, strictSummary, summary, trailer))
	if err != nil {
		return NothingToDo, t.rollback(err)
	}
	if outcome == NothingToDo {
		slog.Info("nothing to do", "issue", t.ShortID(id))
	}
	return outcome, nil
}

// message renders a commit message for the active compatibility mode.
// Strict mode keeps the minimal pass-through shape older gi tooling
// parses; the relaxed mode prefixes the abbreviated issue identifier
// and a fuller summary. Git revision IDs are never embedded.
func (t *Tracker) message(id ID, strictSummary, summary, trailer string) string {
	if t.strict {
		return fmt.Sprintf("gi: %s\n\n%s", strictSummary, trailer)
	}
	return fmt.Sprintf("gi(%s): %s\n\n%s", t.ShortID(id), summary, trailer)
}

// rollback unwinds the active transaction after err. The original
// error wins; a rollback failure is appended as advice.
func (t *Tracker) rollback(err error) error {
	slog.Warn("rolling back transaction", "cause", err)
	if rbErr := t.tx.Rollback(); rbErr != nil {
		return fmt.Errorf("%w (rollback also failed: %v)", txErr(err), rbErr)
	}
	return txErr(err)
}

func txErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTransaction) || errors.Is(err, ErrAllocationExhausted) ||
		errors.Is(err, ErrReservedTag) || errors.Is(err, ErrCorruptIssue) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrTransaction, err)
}

// --- small helpers ---

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func remove(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

func dedup(sorted []string) []string {
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || sorted[i-1] != v {
			out = append(out, v)
		}
	}
	return out
}
