package entity

import "time"

// ChangeEvent reports a change to a document or image under a storage root
type ChangeEvent struct {
	Collection string    `json:"collection"` // presentations, images
	Op         string    `json:"op"`         // CREATE, WRITE, REMOVE, RENAME
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	At         time.Time `json:"at"`
}
