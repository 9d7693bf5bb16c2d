package schema

// MorphKeyType selects the key column type created by the morphs helpers.
type MorphKeyType string

const (
	MorphKeyInt  MorphKeyType = "int"
	MorphKeyUUID MorphKeyType = "uuid"
	MorphKeyULID MorphKeyType = "ulid"
)

// Config holds the settings a Blueprint reads while columns are declared.
// It is passed explicitly instead of living in package state.
type Config struct {
	// DefaultStringLength is used by String and Char when no length is given.
	DefaultStringLength int
	// MorphKeyType selects the id column type of Morphs and NullableMorphs.
	MorphKeyType MorphKeyType
}

// DefaultConfig returns a 255 character default string length and integer
// morph keys.
func DefaultConfig() Config {
	return Config{DefaultStringLength: 255, MorphKeyType: MorphKeyInt}
}

func (c Config) normalized() Config {
	if c.DefaultStringLength <= 0 {
		c.DefaultStringLength = 255
	}
	switch c.MorphKeyType {
	case MorphKeyUUID, MorphKeyULID:
	default:
		c.MorphKeyType = MorphKeyInt
	}
	return c
}
