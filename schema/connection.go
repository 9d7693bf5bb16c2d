package schema

// Connection is the environment a schema grammar may consult while
// compiling. Create statements read the default charset, collation and
// engine from it; listing queries read the database and schema names.
type Connection interface {
	TablePrefix() string
	DatabaseName() string
	ConfigString(key string) string
}

// StaticConnection is a Connection backed by fixed values. It serves offline
// compilation, where no database is open.
type StaticConnection struct {
	Prefix   string
	Database string
	Settings map[string]string
}

func (c StaticConnection) TablePrefix() string  { return c.Prefix }
func (c StaticConnection) DatabaseName() string { return c.Database }

func (c StaticConnection) ConfigString(key string) string {
	return c.Settings[key]
}
