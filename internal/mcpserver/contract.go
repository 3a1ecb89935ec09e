package mcpserver

// StatusFileContract describes the status file format that external
// consumers (the dictation grammar among them) depend on.
const StatusFileContract = `# Status File Contract

The status file is the shared signal between modeswitch and any consumer
that adjusts its behaviour based on the current mode.

## Format

- Plain text, UTF-8.
- After a successful write: exactly one line holding a decimal integer in
  the range [0, max-status], followed by a newline.
- On read, only the first line is inspected. It is valid when it ends in a
  run of decimal digits; that trailing digit run is the value. A line such
  as "status: 5" therefore reads as 5.
- A write replaces the entire file contents. Trailing lines are discarded.

## Lifecycle

- The file is seeded by a consumer (or via set_status) before the first
  rotation; rotate fails when the file is absent.
- Writes are rename-atomic: readers never observe a partially written file.
- There is no change notification on the file itself. Consumers re-read the
  file, or subscribe to the status.changed SSE event of the serve command.

## Modes

Mode numbers and their meanings are deployment configuration. The default
set mirrors the dictation grammar this tool was built for:

| Value | Mode              |
|-------|-------------------|
| 0     | command           |
| 1     | command+dictation |
| 2     | dictation-only    |
`
