package domain

import "time"

// FileRecord is the metadata document persisted for each stored blob. It is
// written exactly once, after the object store write succeeded, and never
// mutated afterwards.
type FileRecord struct {
	ID          string    `bson:"-" json:"id"`
	Filename    string    `bson:"filename" json:"filename"`
	StoredKey   string    `bson:"stored_key" json:"stored_key"`
	PublicURL   string    `bson:"public_url" json:"public_url"`
	ContentType string    `bson:"content_type" json:"content_type"`
	SizeBytes   int64     `bson:"size_bytes" json:"size_bytes"`
	UploadedAt  time.Time `bson:"uploaded_at" json:"uploaded_at"`

	// ThumbnailURL is set only for image uploads whose thumbnail rendered.
	ThumbnailURL string `bson:"thumbnail_url,omitempty" json:"thumbnail_url,omitempty"`
}

// UploadResult is what a completed upload hands back to the caller.
type UploadResult struct {
	ID     string
	Record FileRecord
}

type Post struct {
	ID         string    `bson:"-" json:"id,omitempty"`
	Title      string    `bson:"title" json:"title"`
	Content    string    `bson:"content" json:"content"`
	ImageURL   *string   `bson:"image_url" json:"image_url"`
	AuthorName string    `bson:"author_name" json:"author_name"`
	AuthorPic  *string   `bson:"author_pic" json:"author_pic"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

type Org struct {
	ID        string    `bson:"-" json:"id,omitempty"`
	OrgName   string    `bson:"org_name" json:"org_name"`
	APIKey    string    `bson:"api_key" json:"api_key"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

const (
	DocumentStatusUploaded  = "uploaded"
	DocumentStatusProcessed = "processed"
)

// Document is the placeholder record for the future retrieval pipeline. Only
// registration and listing exist; nothing moves a document past "uploaded".
type Document struct {
	ID        string    `bson:"-" json:"id,omitempty"`
	OrgID     string    `bson:"org_id" json:"org_id"`
	FileName  string    `bson:"file_name" json:"file_name"`
	FileType  string    `bson:"file_type" json:"file_type"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
