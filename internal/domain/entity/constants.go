package entity

// Storage layout constants
const (
	PresentationExt = ".json"  // Presentation documents live directly under the storage root
	ImagesDirName   = "images" // Image assets live under <root>/images
)

// ImageExtensions is the allow-list of image file extensions, lower-case and without the dot
var ImageExtensions = []string{"png", "jpg", "jpeg", "gif", "webp", "svg", "bmp"}

// Collection names used in change events
const (
	CollectionPresentations = "presentations"
	CollectionImages        = "images"
)

// Change operation constants
const (
	ChangeCreate = "CREATE"
	ChangeWrite  = "WRITE"
	ChangeRemove = "REMOVE"
	ChangeRename = "RENAME"
)
