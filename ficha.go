// Package ficha provides a resumable scraper for a paginated,
// JavaScript-rendered public registry listing. It walks the listing
// page by page, opens each row's detail modal, classifies the record
// (normal vs confidential), waits for asynchronous content to settle,
// captures a PDF snapshot of the modal content, and appends every
// attempt to a ledger so an interrupted run can resume without
// repeating completed work.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., rod/,
// csv/, sqlite/).
package ficha
