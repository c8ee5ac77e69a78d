// Package http provides HTTP handlers and middleware for the room booking API.
//
// The router exposes the following endpoints. All of them expect the client
// identity headers `X-User-ID` and (for administrators) `X-User-Role: admin`
// supplied by the fronting proxy:
//   - GET /rooms: lists the room catalog. Query: `min_capacity`, `amenities`
//     (comma separated names). Response: {"rooms":[roomDTO]}.
//   - GET /rooms/{id}/availability?date=YYYY-MM-DD: busy hours plus the start
//     and end hour candidates for the day, clamped into the booking window.
//   - GET /calendar?month=YYYY-MM: the 42 cell month grid used by the date
//     picker, with per-cell selectability and month navigation flags.
//   - GET /schedule: the caller's bookings in display order with cancel and
//     check-in eligibility per row.
//   - POST /bookings/{id}/cancel: relays a cancellation to the collaborator.
//   - POST /selections: opens a selection session. Body: {"room_id","date"}.
//   - POST /selections/{id}/picks: applies one hour pick. Body: {"hour"}.
//   - POST /selections/{id}/reset: discards the held selection.
//   - POST /selections/{id}/confirm: revalidates and submits the range.
//   - DELETE /selections/{id}: closes the session.
//   - GET /admin/report?date=YYYY-MM-DD: the per-room usage report. Query:
//     `name`, `min_capacity`, `min_utilization`, `sort`, `order`.
//   - GET /admin/report/export?format=csv|xlsx: the report as a download.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
