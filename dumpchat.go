// Package dumpchat exports conversations from chat assistant web pages.
// It discovers the turns of a rendered conversation, captures each
// message's canonical text through the page's own copy controls, and
// reconciles captures, DOM reads and role hints into an ordered export
// with a provenance record and a health verdict.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, yaml/).
package dumpchat
