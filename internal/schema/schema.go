// Package schema declares the persisted shape of every matzip entity.
//
// The model is expressed as plain descriptors (entities, typed fields,
// directed relationships) instead of migration files, and is rendered
// to SQLite DDL by the store at open time. It is built once per
// process and immutable afterwards. There is no migration mechanism;
// a mismatched store file is handled by the store's reset policy.
package schema

import "sync"

// FieldType enumerates the storable attribute types
type FieldType int

const (
	String FieldType = iota
	Double
	Int32
	Int16
	Bool
	Date
	Blob
)

// Field is a single typed attribute of an entity
type Field struct {
	Name     string
	Type     FieldType
	Optional bool
	Default  any // only meaningful for required numeric/bool fields
}

// DeleteRule controls what happens to destination records when a
// record of the declaring entity is deleted
type DeleteRule int

const (
	Nullify DeleteRule = iota
	Cascade
)

// Relationship is one direction of a link between two entities.
// Column names the column realizing the reference on the side that
// stores it (a foreign key for to-one, a blob of ids for many-to-many).
type Relationship struct {
	Entity      string
	Name        string
	Destination string
	ToMany      bool
	Rule        DeleteRule
	Inverse     string
	Column      string
}

// Entity describes one stored record type
type Entity struct {
	Name      string
	Table     string
	Fields    []Field
	OrderBy   string // default fetch order column
	OrderDesc bool
	Indexes   []string // single-column secondary indexes
}

// Model is the complete immutable schema
type Model struct {
	Entities      []Entity
	Relationships []Relationship
}

var (
	once  sync.Once
	model *Model
)

// Definition returns the process-wide schema, building it on first use
func Definition() *Model {
	once.Do(func() {
		model = build()
	})
	return model
}

// Entity looks an entity up by name
func (m *Model) Entity(name string) (*Entity, bool) {
	for i := range m.Entities {
		if m.Entities[i].Name == name {
			return &m.Entities[i], true
		}
	}
	return nil, false
}

// relationship looks a directed relationship up by owning entity and name
func (m *Model) relationship(entity, name string) (*Relationship, bool) {
	for i := range m.Relationships {
		r := &m.Relationships[i]
		if r.Entity == entity && r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// Entity names used throughout the store and service layers
const (
	Restaurant = "Restaurant"
	Review     = "Review"
	UserList   = "UserList"
	UserFollow = "UserFollow"
)

func build() *Model {
	return &Model{
		Entities: []Entity{
			{
				Name:    Restaurant,
				Table:   "restaurants",
				OrderBy: "name",
				Fields: []Field{
					{Name: "id", Type: String},
					{Name: "name", Type: String},
					{Name: "category", Type: String},
					{Name: "address", Type: String},
					{Name: "latitude", Type: Double, Default: 0.0},
					{Name: "longitude", Type: Double, Default: 0.0},
					{Name: "phone_number", Type: String, Optional: true},
					{Name: "rating", Type: Double, Default: 0.0},
					{Name: "review_count", Type: Int32, Default: 0},
					{Name: "price_range", Type: Int16, Default: 0},
					{Name: "description", Type: String, Optional: true},
					{Name: "image_urls", Type: Blob, Optional: true},
					{Name: "is_favorite", Type: Bool, Default: false},
					{Name: "created_at", Type: Date, Optional: true},
					{Name: "updated_at", Type: Date, Optional: true},
				},
			},
			{
				Name:      Review,
				Table:     "reviews",
				OrderBy:   "created_at",
				OrderDesc: true,
				Indexes:   []string{"restaurant_id"},
				Fields: []Field{
					{Name: "id", Type: String},
					{Name: "restaurant_id", Type: String},
					{Name: "user_id", Type: String},
					{Name: "user_name", Type: String},
					{Name: "user_profile_image_url", Type: String, Optional: true},
					{Name: "rating", Type: Double, Default: 0.0},
					{Name: "content", Type: String, Optional: true},
					{Name: "image_urls", Type: Blob, Optional: true},
					{Name: "created_at", Type: Date, Optional: true},
					{Name: "updated_at", Type: Date, Optional: true},
				},
			},
			{
				Name:      UserList,
				Table:     "user_lists",
				OrderBy:   "created_at",
				OrderDesc: true,
				Indexes:   []string{"user_id"},
				Fields: []Field{
					{Name: "id", Type: String},
					{Name: "user_id", Type: String},
					{Name: "name", Type: String},
					{Name: "description", Type: String, Optional: true},
					{Name: "restaurant_ids", Type: Blob, Optional: true},
					{Name: "is_public", Type: Bool, Default: false},
					{Name: "created_at", Type: Date, Optional: true},
					{Name: "updated_at", Type: Date, Optional: true},
				},
			},
			{
				Name:      UserFollow,
				Table:     "user_follows",
				OrderBy:   "created_at",
				OrderDesc: true,
				Indexes:   []string{"follower_id", "following_id"},
				Fields: []Field{
					{Name: "id", Type: String},
					{Name: "follower_id", Type: String},
					{Name: "following_id", Type: String},
					{Name: "created_at", Type: Date, Optional: true},
					{Name: "updated_at", Type: Date, Optional: true},
				},
			},
		},
		Relationships: []Relationship{
			{
				Entity:      Restaurant,
				Name:        "reviews",
				Destination: Review,
				ToMany:      true,
				Rule:        Cascade,
				Inverse:     "restaurant",
			},
			{
				Entity:      Review,
				Name:        "restaurant",
				Destination: Restaurant,
				Rule:        Nullify,
				Inverse:     "reviews",
				Column:      "restaurant_id",
			},
			{
				Entity:      Restaurant,
				Name:        "lists",
				Destination: UserList,
				ToMany:      true,
				Rule:        Nullify,
				Inverse:     "restaurants",
			},
			{
				Entity:      UserList,
				Name:        "restaurants",
				Destination: Restaurant,
				ToMany:      true,
				Rule:        Nullify,
				Inverse:     "lists",
				Column:      "restaurant_ids",
			},
		},
	}
}
