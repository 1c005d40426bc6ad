package state

import "encoding/json"

// SkillContext holds user slot data shared with connected skills. Keys keep
// their insertion order so slot filling is deterministic across turns.
type SkillContext struct {
	keys   []string
	values map[string]any
}

// NewSkillContext returns an empty SkillContext.
func NewSkillContext() *SkillContext {
	return &SkillContext{values: make(map[string]any)}
}

// Set stores a value under key. Re-setting an existing key updates the value
// in place without changing its position.
func (c *SkillContext) Set(key string, value any) {
	if c.values == nil {
		c.values = make(map[string]any)
	}
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
}

// Get returns the value stored under key.
func (c *SkillContext) Get(key string) (any, bool) {
	if c.values == nil {
		return nil, false
	}
	v, ok := c.values[key]
	return v, ok
}

// Delete removes key from the context.
func (c *SkillContext) Delete(key string) {
	if c.values == nil {
		return
	}
	if _, ok := c.values[key]; !ok {
		return
	}
	delete(c.values, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (c *SkillContext) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the number of entries.
func (c *SkillContext) Len() int {
	return len(c.keys)
}

// contextEntry is the wire form of one SkillContext pair.
type contextEntry struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// MarshalJSON encodes the context as an ordered array of key/value pairs.
func (c *SkillContext) MarshalJSON() ([]byte, error) {
	entries := make([]contextEntry, 0, len(c.keys))
	for _, k := range c.keys {
		entries = append(entries, contextEntry{Key: k, Value: c.values[k]})
	}
	return json.Marshal(entries)
}

// UnmarshalJSON decodes an ordered array of key/value pairs.
func (c *SkillContext) UnmarshalJSON(data []byte) error {
	var entries []contextEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	c.keys = nil
	c.values = make(map[string]any, len(entries))
	for _, e := range entries {
		c.Set(e.Key, e.Value)
	}
	return nil
}
