package csvstore

// Header maps column names to their index in a row.
type Header map[string]int

// ParseHeader indexes a header row and checks that every required column is
// present. Column order does not matter.
func ParseHeader(row []string, required ...string) (Header, error) {
	h := make(Header, len(row))
	for i, name := range row {
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}

	var missing []string
	for _, name := range required {
		if _, ok := h[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &ColumnError{Missing: missing}
	}
	return h, nil
}

// Field returns the value of column name in row, or "" if the row is too
// short or the column is unknown.
func (h Header) Field(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
