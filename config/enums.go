package config

// Specification of requested output type.
// ENUM(json, yaml, sqlite)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtJson:
		return ".json"
	case OutputFmtYaml:
		return ".yaml"
	case OutputFmtSqlite:
		return ".db"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}
