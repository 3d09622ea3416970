// Package languages maps file extensions to language labels.
package languages

// Unknown is the label for files whose extension is not in the table.
const Unknown = "Unknown"

// Table maps a language label to the extensions (with leading dot) that
// identify it. Extensions are matched exactly, including case.
type Table map[string][]string

// DefaultTable returns the built-in extension table. A fresh copy is
// returned on every call so callers cannot alter the defaults.
func DefaultTable() Table {
	return Table{
		"Python":     {".py"},
		"JavaScript": {".js"},
		"C++":        {".cpp", ".h"},
		"Java":       {".java"},
		"HTML":       {".html", ".htm"},
		"CSS":        {".css"},
		"Ruby":       {".rb"},
		"PHP":        {".php"},
		"C#":         {".cs"},
		"Go":         {".go"},
		"R":          {".r"},
		"SQL":        {".sql"},
		"Shell":      {".sh"},
	}
}
