package inkwell

import "embed"

// EmbeddedAssets contains files shipped with inkwell: the default error
// page, an interpolated page expecting error_code and error_message.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
