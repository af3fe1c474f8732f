package models

import (
	"encoding/json"
	"time"

	"github.com/pgvector/pgvector-go"
)

// RegisteredFace is one enrollment record: the original face image, the
// processed (cropped and filtered) variant, and the embedding of each. An
// account may own any number of them.
type RegisteredFace struct {
	ID        int64 `gorm:"primaryKey" json:"id"`
	AccountID int64 `gorm:"index;not null" json:"account_id"`

	// Publicly resolvable URLs of the stored image files.
	FaceImage        string `gorm:"size:255" json:"face_image"`
	FaceImageProcess string `gorm:"size:255" json:"face_image_process"`

	// Tagged embeddings as stored, see TaggedEmbedding for the wire format.
	ImageVector        json.RawMessage `gorm:"type:jsonb" json:"-"`
	ImageVectorProcess json.RawMessage `gorm:"type:jsonb" json:"-"`

	// Original-image embedding duplicated as a pgvector column for cosine
	// similarity search. face_recognition (dlib) vectors are 128-dim; rows
	// whose detector returned a different width store NULL and are skipped by
	// similarity search.
	Embedding *pgvector.Vector `gorm:"type:vector(128)" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Account Account `gorm:"foreignKey:AccountID" json:"-"`
}

func (RegisteredFace) TableName() string {
	return "tbl_register_faces"
}
