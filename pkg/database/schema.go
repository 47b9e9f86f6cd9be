package database

// Schema resolves host table names, which carry an installation-wide prefix.
type Schema struct {
	Prefix string
}

// NewSchema returns a Schema for the given prefix.
func NewSchema(prefix string) Schema {
	return Schema{Prefix: prefix}
}

// Table returns the prefixed table name.
func (s Schema) Table(name string) string {
	return s.Prefix + name
}
