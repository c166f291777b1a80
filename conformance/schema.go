package conformance

// Suite represents a complete YAML test file
type Suite struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Tests       []Case `yaml:"tests"`
}

// Case represents a single test within a suite
type Case struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Skip        interface{} `yaml:"skip,omitempty"` // bool or string
	Program     string      `yaml:"program"`        // JSON syntax tree
	Expect      Expectation `yaml:"expect"`
}

// Expectation defines what result is expected from a case.
// Exactly one of Output, Error or IRContains is normally set; IRContains may
// accompany Output when a case pins both behavior and shape.
type Expectation struct {
	Output     string   `yaml:"output,omitempty"`      // exact program stdout
	Error      string   `yaml:"error,omitempty"`       // error code name, e.g. KindMismatch
	IRContains []string `yaml:"ir_contains,omitempty"` // substrings of the textual IR
}

// IsSkipped returns true if this case should be skipped
func (c *Case) IsSkipped() (bool, string) {
	if c.Skip == nil {
		return false, ""
	}

	switch v := c.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
		return false, ""
	case string:
		return true, v
	default:
		return false, ""
	}
}
