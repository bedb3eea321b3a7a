package store

import (
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/guardian/internal/common"
)

// Collection names of the default registry.
const (
	Users               = "users"
	EmergencyContacts   = "emergency_contacts"
	Evidence            = "evidence"
	SOSAlerts           = "sos_alerts"
	LocationHistory     = "location_history"
	SafeZones           = "safe_zones"
	UserPreferences     = "user_preferences"
	CommunityResponders = "community_responders"
	FakeCallTemplates   = "fake_call_templates"
	RiskDetections      = "risk_detections"
)

// UserIDField is the index field that marks a collection as user-scoped.
const UserIDField = "user_id"

var (
	ErrUnknownCollection = fmt.Errorf("unknown collection: %w", common.ErrInvalidArgument)
	ErrUnknownIndex      = fmt.Errorf("unknown index: %w", common.ErrInvalidArgument)
)

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Index is a secondary index over one top-level field of the record body.
// The index name doubles as the lookup key passed to GetByIndex.
type Index struct {
	Name   string
	Field  string
	Unique bool
	// Since is the schema version that introduced the index. Zero means
	// "same as the collection".
	Since int64
}

// CollectionDef declares one collection. The primary key is always the
// synthetic auto-increment id.
type CollectionDef struct {
	Name    string
	Indexes []Index
	Since   int64
}

// Index looks up an index by name.
func (c *CollectionDef) Index(name string) (Index, error) {
	for _, ix := range c.Indexes {
		if ix.Name == name {
			return ix, nil
		}
	}
	return Index{}, fmt.Errorf("%s.%s: %w", c.Name, name, ErrUnknownIndex)
}

// HasField reports whether some index of the collection covers field.
func (c *CollectionDef) HasField(field string) bool {
	for _, ix := range c.Indexes {
		if ix.Field == field {
			return true
		}
	}
	return false
}

func (c *CollectionDef) indexSince(ix Index) int64 {
	if ix.Since > c.Since {
		return ix.Since
	}
	return c.Since
}

// Registry is the static schema: every collection the engine knows about.
type Registry struct {
	order   []string
	byName  map[string]*CollectionDef
	version int64
}

// NewRegistry validates defs and builds a registry. Names must be lower
// snake case identifiers; they end up verbatim in SQL.
func NewRegistry(defs ...CollectionDef) (*Registry, error) {
	r := &Registry{byName: make(map[string]*CollectionDef, len(defs)), version: 1}
	for i := range defs {
		d := defs[i]
		if !identRe.MatchString(d.Name) {
			return nil, fmt.Errorf("bad collection name %q", d.Name)
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, fmt.Errorf("collection %q declared twice", d.Name)
		}
		if d.Since < 1 {
			d.Since = 1
		}
		seen := make(map[string]struct{}, len(d.Indexes))
		for _, ix := range d.Indexes {
			if !identRe.MatchString(ix.Name) || !identRe.MatchString(ix.Field) {
				return nil, fmt.Errorf("bad index %q on %q", ix.Name, d.Name)
			}
			if _, dup := seen[ix.Name]; dup {
				return nil, fmt.Errorf("index %q declared twice on %q", ix.Name, d.Name)
			}
			seen[ix.Name] = struct{}{}
			if v := d.indexSince(ix); v > r.version {
				r.version = v
			}
		}
		if d.Since > r.version {
			r.version = d.Since
		}
		r.order = append(r.order, d.Name)
		r.byName[d.Name] = &d
	}
	return r, nil
}

// MustRegistry is NewRegistry that panics on a bad declaration.
func MustRegistry(defs ...CollectionDef) *Registry {
	r, err := NewRegistry(defs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Version is the highest schema version declared.
func (r *Registry) Version() int64 { return r.version }

// Names returns collection names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Collection returns the declaration for name.
func (r *Registry) Collection(name string) (*CollectionDef, error) {
	d, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownCollection)
	}
	return d, nil
}

// WithField lists, in declaration order, the collections indexed on field.
func (r *Registry) WithField(field string) []string {
	var out []string
	for _, name := range r.order {
		if r.byName[name].HasField(field) {
			out = append(out, name)
		}
	}
	return out
}

// statements returns the DDL that brings a database from version-1 to
// version. Every statement is idempotent.
func (r *Registry) statements(version int64) []string {
	var out []string
	if version == 1 {
		out = append(out, auxTables...)
	}
	for _, name := range r.order {
		d := r.byName[name]
		if d.Since == version {
			out = append(out, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	body       TEXT NOT NULL,
	created_at TEXT NOT NULL
)`, d.Name))
		}
		for _, ix := range d.Indexes {
			if d.indexSince(ix) != version {
				continue
			}
			unique := ""
			if ix.Unique {
				unique = "UNIQUE "
			}
			out = append(out, fmt.Sprintf(`CREATE %sINDEX IF NOT EXISTS idx_%s_%s ON %s(%s)`,
				unique, d.Name, ix.Name, d.Name, fieldExpr(ix.Field)))
		}
	}
	return out
}

// fieldExpr must stay byte-identical between CREATE INDEX and queries,
// otherwise SQLite will not pick the expression index.
func fieldExpr(field string) string {
	return fmt.Sprintf("json_extract(body, '$.%s')", field)
}

// auxTables live outside the collections: key/value settings (session and
// friends) and the offline sync queue.
var auxTables = []string{
	`CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS sync_queue (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	endpoint   TEXT NOT NULL,
	payload    BLOB NOT NULL,
	attempts   INTEGER NOT NULL DEFAULT 0,
	last_error TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
)`,
}

// DefaultRegistry declares the ten Guardian collections.
func DefaultRegistry() *Registry {
	idx := func(field string) Index { return Index{Name: field, Field: field} }
	uniq := func(field string) Index { return Index{Name: field, Field: field, Unique: true} }

	return MustRegistry(
		CollectionDef{Name: Users, Indexes: []Index{uniq("phone_number"), idx("email")}},
		CollectionDef{Name: EmergencyContacts, Indexes: []Index{idx(UserIDField), idx("contact_type")}},
		CollectionDef{Name: Evidence, Indexes: []Index{idx(UserIDField), idx("type"), idx("created_at")}},
		CollectionDef{Name: SOSAlerts, Indexes: []Index{idx(UserIDField), idx("status"), idx("triggered_at")}},
		CollectionDef{Name: LocationHistory, Indexes: []Index{idx(UserIDField), idx("timestamp")}},
		CollectionDef{Name: SafeZones, Indexes: []Index{idx(UserIDField)}},
		CollectionDef{Name: UserPreferences, Indexes: []Index{uniq(UserIDField)}},
		CollectionDef{Name: CommunityResponders, Indexes: []Index{idx("type"), idx("is_verified")}},
		CollectionDef{Name: FakeCallTemplates, Indexes: []Index{idx(UserIDField)}},
		CollectionDef{Name: RiskDetections, Indexes: []Index{idx(UserIDField), idx("risk_level")}},
	)
}
