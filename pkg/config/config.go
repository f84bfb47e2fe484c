package config

// Debug toggles debug logging and gstreamer bus tracing. Set once at
// startup by the CLI before any pipeline is built.
var Debug bool
