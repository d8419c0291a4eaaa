package domain

// Date is the packed (year, month, day) triple used for Drawing.Date and
// search-query date ranges. It serializes to exactly 4 raw bytes
// (spec §3.2, §4.3 step 2): year as little-endian uint16, then month, then
// day, matching the original implementation's packed date struct.
type Date struct {
	Year  uint16
	Month uint8
	Day   uint8
}
