// Package untis defines the canonical, dialect-independent domain model for
// WebUntis data.
//
// # Overview
//
// WebUntis servers answer the same logical question in several wire shapes
// depending on vendor version and dialect. This package holds the one
// representation everything downstream consumes: timetables, periods, users,
// master data, messages, exams, homework, absences, holidays, and session
// credentials. Values of these types are always structurally complete —
// required fields are never absent, missing source data is replaced by the
// documented defaults before a value leaves the normalization layer.
//
// # Core Types
//
// Timetable:
//   - Display date range plus periods in source order (no implied sort)
//
// Period:
//   - Identity: ID and LessonID
//   - Time span: StartDateTime and EndDateTime, always EndDateTime >= StartDateTime
//   - Colors: ForeColor and BackColor, defaulted to black-on-white
//   - Text: lesson, substitution, and info strings, possibly empty
//   - Elements: classes, teachers, subjects, and rooms, possibly empty
//   - Is/Can: state and right flags, possibly empty
//
// Credentials:
//   - Opaque (user, session key) pair produced by login and consumed by every
//     authenticated call; replaced as a whole on refresh, never mutated
//
// # Date And Time Encoding
//
// WebUntis payloads mix compact numeric forms with ISO forms. The parse
// helpers accept both, trying the compact legacy forms first:
//
//   - Compact date: 20250108
//   - Compact time: 0805 (also 805)
//   - Compact datetime: 202501080805
//   - ISO date: 2025-01-08
//   - ISO datetime: 2025-01-08T08:05 with optional seconds and zone
//
// FormatDate and FormatTime emit the compact forms, which every dialect
// accepts as request parameters.
package untis
