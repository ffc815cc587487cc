package models

// StudioResult describes one finished generation, including the payload as
// base64 so the UI can display it without touching the filesystem.
type StudioResult struct {
	AssetID     uint   `json:"assetId"`
	Kind        string `json:"kind"`
	Mode        string `json:"mode"`
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspectRatio,omitempty"`
	Path        string `json:"path"`
	MIMEType    string `json:"mimeType"`
	Data        string `json:"data"`
}
