package sqlite

// Tables every supported Duplicati local database carries.
var requiredTables = []string{
	"Version",
	"Fileset",
	"FilesetEntry",
	"FileLookup",
	"PathPrefix",
	"Blockset",
	"BlocksetEntry",
	"Block",
	"DeletedBlock",
}

const (
	queryTables = `SELECT name FROM sqlite_master WHERE type IN ('table', 'view')`

	queryVersion = `SELECT COALESCE(MAX("Version"), 0) FROM "Version"`

	queryPrefixes = `SELECT "ID", "Prefix" FROM "PathPrefix"`

	queryFilesets = `
		SELECT "ID", "Timestamp", "VolumeID"
		FROM "Fileset"
		ORDER BY "Timestamp" DESC, "ID" DESC`

	queryFilesInFileset = `
		SELECT fl."PrefixID", fl."Path", fl."BlocksetID", bs."Length"
		FROM "FilesetEntry" fe
		JOIN "FileLookup" fl ON fl."ID" = fe."FileID"
		LEFT JOIN "Blockset" bs ON bs."ID" = fl."BlocksetID"
		WHERE fe."FilesetID" = ?
		ORDER BY fl."PrefixID", fl."Path"`

	queryBlocksByBlockset = `
		SELECT b."Size"
		FROM "BlocksetEntry" be
		JOIN "Block" b ON b."ID" = be."BlockID"
		WHERE be."BlocksetID" = ?
		ORDER BY be."Index"`

	queryFilesetSize = `
		SELECT COALESCE(SUM(bs."Length"), 0)
		FROM "FilesetEntry" fe
		JOIN "FileLookup" fl ON fl."ID" = fe."FileID"
		JOIN "Blockset" bs ON bs."ID" = fl."BlocksetID"
		WHERE fe."FilesetID" = ?`

	queryTotalSize = `SELECT COALESCE(SUM("Size"), 0) FROM "Block"`

	queryWastedSpace = `SELECT COALESCE(SUM("Size"), 0) FROM "DeletedBlock"`
)
