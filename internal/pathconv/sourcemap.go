package pathconv

// Rule rewrites server paths starting with Server to start with Client.
type Rule struct {
	Server string `json:"server"`
	Client string `json:"client"`
}

// Table is an ordered list of sourcemap rules. The first matching rule
// wins, so more specific prefixes must be added before general ones.
type Table struct {
	rules []Rule
}

// Add appends a rule.
func (t *Table) Add(server, client string) {
	t.rules = append(t.rules, Rule{Server: server, Client: client})
}

// Clear removes every rule.
func (t *Table) Clear() {
	t.rules = nil
}

// Len returns the number of rules.
func (t *Table) Len() int {
	return len(t.rules)
}

// Rules returns a copy of the rules in insertion order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Match rewrites srv with the first rule whose server prefix matches it.
func (t *Table) Match(srv string) (string, bool) {
	for i := range t.rules {
		if cli, ok := t.rules[i].apply(srv); ok {
			return cli, true
		}
	}
	return "", false
}

// apply matches the rule's server prefix against srv. Separators of either
// flavor are equal and ASCII letters compare case-insensitively; other
// bytes must be identical. The unmatched suffix is kept verbatim.
func (r Rule) apply(srv string) (string, bool) {
	prefix := r.Server
	if len(srv) < len(prefix) {
		return "", false
	}
	for i := 0; i < len(prefix); i++ {
		a, b := prefix[i], srv[i]
		if isSep(a) && isSep(b) {
			continue
		}
		if asciiLower(a) != asciiLower(b) {
			return "", false
		}
	}
	return r.Client + srv[len(prefix):], true
}

func asciiLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
