package canon

// Enum is a closed, tagged string set with a distinguished "all" sentinel.
// Every chamber/decision-type/outcome/application-type/norm-type set in the
// tool surface is modeled as one of these. Serializers call Wire to get the
// upstream value; the sentinel's wire value is the upstream's own idiomatic
// "omit" representation — usually the empty string, but sometimes a fixed
// GUID — or, for a key that must be left out of the payload entirely, the
// adapter checks IsAll first.
type Enum struct {
	// Values maps every accepted friendly name (including "" for "all") to
	// the upstream wire value. The sentinel entry is conventionally "" or
	// "all" depending on the source's own vocabulary; callers check against
	// Sentinel, not against the literal "all" string.
	Values   map[string]string
	Sentinel string
}

// NewEnum builds an Enum. values must contain the sentinel key.
func NewEnum(sentinel string, values map[string]string) Enum {
	return Enum{Values: values, Sentinel: sentinel}
}

// Valid reports whether name is in the closed set — used by adapters to
// reject out-of-set enum values with InvalidInput before any upstream
// request is built.
func (e Enum) Valid(name string) bool {
	_, ok := e.Values[name]
	return ok
}

// IsAll reports whether name is the sentinel.
func (e Enum) IsAll(name string) bool {
	return name == e.Sentinel || name == ""
}

// Wire returns the upstream value for name, or "" if name is unknown.
// Callers validate with Valid before calling Wire in request-building code.
func (e Enum) Wire(name string) string {
	return e.Values[name]
}

// Names returns every accepted friendly name, for building a JSON-schema
// enum list on the MCP tool's input schema.
func (e Enum) Names() []string {
	names := make([]string, 0, len(e.Values))
	for k := range e.Values {
		names = append(names, k)
	}
	return names
}
