package assets

import _ "embed"

// ModelsData holds the raw JSON catalog of generation models.
//
//go:embed models.json
var ModelsData []byte
