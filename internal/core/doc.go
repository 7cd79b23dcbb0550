// Package core provides the dashboard's business logic independent of any
// transport. The web server and tests drive it through [Service].
//
// # Sessions
//
// An upload is parsed once by [dataset.Load] and kept in memory as a
// session. The session holds the original table, the working table (the
// original projected onto the selected numeric columns) and the last chart
// rendered from it. Sessions expire after a period of inactivity; a cron job
// started by [Service.StartSessionSweeper] evicts them, and the store also
// evicts the least recently used session once it is full.
//
// Nothing is persisted. Restarting the server discards every session.
//
// # Upload flow
//
//  1. [Service.Upload] waits for a slot in the [UploadLimiter]
//  2. The body is read up to the configured size limit
//  3. [dataset.Load] picks a parser from the file extension
//  4. All numeric columns start out selected
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages using [MapError].
// Each error category has a code for support reference:
//
//   - LOAD001-LOAD003: File format and parse errors
//   - SEL001-SEL003: Column selection errors
//   - CHART001-CHART004: Chart warnings and render failures
//   - SES001: Session expired or unknown
//   - FILE001, FILE004: Upload size and missing file
//   - UPL002, UPL004, UPL005: Upload capacity, cancellation, timeout
//   - RATE001: Rate limiting
package core
