// Package drive pulls contact rosters from Google Drive and pushes the
// tracked state back.
//
// Three source shapes are supported: native Google Sheets (exported as
// CSV and written back through the Sheets API), CSV files (downloaded
// and re-uploaded as media) and anything else Drive can serve as CSV.
// Parsing reuses the mirror's header matching so legacy accented
// Spanish headers load the same from a sheet as from the local file.
package drive
