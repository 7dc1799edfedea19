package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todolist configuration file
# Values can be overridden by TODOLIST_* environment variables or CLI flags

# Tasks file (relative to the working directory)
data_file = "tasks.json"

# External JSON Schema for the tasks file (empty uses the built-in schema).
# "todolist init" writes a copy of the built-in schema next to the tasks file.
# schema_file = "tasks.schema.json"

# Categories offered by the form; the first one is the default
categories = ["Work", "Personal", "Urgent"]

# Log directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.todolist"

# Record every change in a rotated activity log under log_dir
activity_log = true

# Console logging
log_level = "info"       # debug, info, warn, error
log_format = "text"      # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
