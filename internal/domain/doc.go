// Package domain defines the value objects persisted by matzip.
//
// All entities are identified by a string id (UUID for locally created
// records). Values are plain structs: the persistence layer maps them
// to and from stored records, so nothing here knows about SQL or
// encoding. Timestamps are owned by the persistence layer and reflect
// store truth after a write round-trips.
package domain
