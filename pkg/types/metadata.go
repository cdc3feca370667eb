package types

// Metadata provides type-safe metadata storage with JSON serialization.
type Metadata map[string]any

// Set sets a key-value pair in the metadata and returns it for chaining.
func (m Metadata) Set(key string, value any) Metadata {
	m[key] = value
	return m
}

// GetString retrieves a string value from the metadata.
func (m Metadata) GetString(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
