package aimeta

// Standardize merges the metadata of all sources into one record.
// Sources earlier in the list win: tool, positive and negative come from the first source that has them
// (a tool other than Unknown), and parameters never overwrite a key already set.
func Standardize(sources []Source) NormalizedRecord {
	record := NormalizedRecord{
		Tool:       ToolUnknown,
		Parameters: Params{},
	}
	for _, source := range sources {
		meta := source.Meta
		if meta == nil {
			continue
		}
		if record.Tool == ToolUnknown && meta.Tool != "" {
			record.Tool = meta.Tool
		}
		if record.Positive == "" {
			record.Positive = meta.Positive
		}
		if record.Negative == "" {
			record.Negative = meta.Negative
		}
		for key, value := range meta.Parameters {
			record.Parameters.setIfAbsent(key, value)
		}
	}
	return record
}
