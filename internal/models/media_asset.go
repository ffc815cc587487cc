package models

import "time"

const (
	MediaKindImage = "image"
	MediaKindVideo = "video"
)

const (
	StudioModeGenerate = "generate"
	StudioModeEdit     = "edit"
	StudioModeAnimate  = "animate"
)

// MediaAsset records one generated file saved under the media directory.
type MediaAsset struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Kind        string `gorm:"size:16;not null;index:idx_media_kind" json:"kind"` // "image" | "video"
	Mode        string `gorm:"size:16;not null" json:"mode"`                      // "generate" | "edit" | "animate"
	Prompt      string `gorm:"type:text;not null" json:"prompt"`
	AspectRatio string `gorm:"size:16" json:"aspectRatio"`
	Path        string `gorm:"size:512;not null;uniqueIndex" json:"path"`
	MIMEType    string `gorm:"size:64;not null" json:"mimeType"`
	CreatedAt   time.Time `json:"createdAt"`
}
