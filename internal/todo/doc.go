// Package todo owns the task collection and its backing file.
//
// The tasks file (tasks.json) is a JSON array, one object per task, in
// insertion order:
//
//	[
//	  {
//	    "title": "Write report",
//	    "description": "Quarterly numbers for the team",
//	    "category": "Work",
//	    "completed": false,
//	    "created_at": "2024-01-01 09:30:00"
//	  }
//	]
//
// A task has no stable ID. It is addressed by its position in the list,
// 0-based in this package and 1-based in everything a user sees.
//
// # Validation
//
// Files are checked against the embedded JSON Schema (draft 2020-12),
// or against an external schema file when ValidationOptions.SchemaPath
// is set. When the external schema cannot be used the package falls
// back to minimal structural checks.
//
// # Recovery
//
// Open never fails. A missing, unreadable, undecodable or invalid file
// yields an empty collection and a logged warning; the next mutation
// overwrites it.
//
// # File Format
//
// When writing task files, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - A temporary file renamed over the target
package todo
