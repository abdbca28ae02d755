package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errNotObject = errors.New("expected a JSON object")

// apiDocument is the subset of a Swagger/OpenAPI document the loader reads.
type apiDocument struct {
	Info *struct {
		Title   string `json:"title"`
		Version string `json:"version"`
	} `json:"info"`
	Host     string     `json:"host"`
	BasePath string     `json:"basePath"`
	Paths    *pathTable `json:"paths"`
}

// pathTable keeps document order, which drives every "first match" rule.
type pathTable struct {
	items []pathItem
}

type pathItem struct {
	Path       string
	Operations []operation
}

type operation struct {
	Method   string
	Consumes []string
}

func (p *pathItem) has(method string) bool {
	for _, op := range p.Operations {
		if op.Method == method {
			return true
		}
	}
	return false
}

func (t *pathTable) UnmarshalJSON(data []byte) error {
	items := make([]pathItem, 0)
	err := walkObject(data, func(key string, raw json.RawMessage) error {
		ops, err := decodeOperations(raw)
		if err != nil {
			return fmt.Errorf("path %q: %w", key, err)
		}
		items = append(items, pathItem{Path: key, Operations: ops})
		return nil
	})
	if err != nil {
		return err
	}
	t.items = items
	return nil
}

func decodeOperations(data []byte) ([]operation, error) {
	var ops []operation
	err := walkObject(data, func(key string, raw json.RawMessage) error {
		op := operation{Method: strings.ToLower(key)}
		var body struct {
			Consumes []string `json:"consumes"`
		}
		// Path-level keys such as "parameters" are not operation objects.
		if json.Unmarshal(raw, &body) == nil {
			op.Consumes = body.Consumes
		}
		ops = append(ops, op)
		return nil
	})
	return ops, err
}

// walkObject visits the members of a JSON object in source order.
func walkObject(data []byte, visit func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errNotObject
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := visit(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

// firstContentType returns the first "consumes" entry of the first
// operation of the first path.
func (t *pathTable) firstContentType() string {
	if len(t.items) == 0 || len(t.items[0].Operations) == 0 {
		return DefaultContentType
	}
	consumes := t.items[0].Operations[0].Consumes
	if len(consumes) == 0 || strings.TrimSpace(consumes[0]) == "" {
		return DefaultContentType
	}
	return consumes[0]
}

// find returns the first path exposing method whose path contains keyword.
func (t *pathTable) find(method, keyword string) string {
	for _, item := range t.items {
		if item.has(method) && strings.Contains(item.Path, keyword) {
			return item.Path
		}
	}
	return ""
}

// availableTimesPath applies the availability discovery fallbacks.
func (t *pathTable) availableTimesPath() string {
	if p := t.find("get", "availableTimes"); p != "" {
		return p
	}
	if p := t.find("get", "available"); p != "" {
		return p
	}
	return t.find("get", "")
}

// bookingPath prefers POST and falls back to PUT.
func (t *pathTable) bookingPath() string {
	if p := t.find("post", "booking"); p != "" {
		return p
	}
	return t.find("put", "booking")
}
