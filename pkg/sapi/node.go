package sapi

import (
	"encoding/json"
	"net/url"
	"strconv"
	"time"
)

// clientIDParam is the query parameter carrying the client identifier on
// every constructed URL.
const clientIDParam = "client_id"

// env is the long-lived context shared by every Node a client produces:
// the process-wide client identifier and the date-layout cache.
type env struct {
	clientID string
	layouts  *layoutCache
}

// Node is one position in a decoded JSON tree. Indexing never fails: an
// out-of-range index or absent key yields the empty node, and every
// typed extractor on the empty node reports absent. Numbers are decoded
// as json.Number, so integer precision is preserved up to uint64.
type Node struct {
	value any
	env   *env
}

func newNode(value any, env *env) Node {
	return Node{value: value, env: env}
}

// empty returns the distinguished empty node for this tree.
func (n Node) empty() Node {
	return Node{env: n.env}
}

// Index returns the element at position i of a sequence node. A
// non-sequence node or an out-of-range index yields the empty node.
func (n Node) Index(i int) Node {
	seq, ok := n.value.([]any)
	if !ok || i < 0 || i >= len(seq) {
		return n.empty()
	}

	return newNode(seq[i], n.env)
}

// Key returns the member named key of a mapping node. A non-mapping
// node or an absent key yields the empty node.
func (n Node) Key(key string) Node {
	obj, ok := n.value.(map[string]any)
	if !ok {
		return n.empty()
	}

	value, ok := obj[key]
	if !ok {
		return n.empty()
	}

	return newNode(value, n.env)
}

// Int extracts the node's value as an int64. Absent on type mismatch.
func (n Node) Int() (int64, bool) {
	num, ok := n.value.(json.Number)
	if !ok {
		return 0, false
	}

	i, err := num.Int64()
	if err != nil {
		return 0, false
	}

	return i, true
}

// Uint64 extracts the node's value as a uint64. Absent on type mismatch
// or a negative value.
func (n Node) Uint64() (uint64, bool) {
	num, ok := n.value.(json.Number)
	if !ok {
		return 0, false
	}

	u, err := strconv.ParseUint(num.String(), 10, 64)
	if err != nil {
		return 0, false
	}

	return u, true
}

// Float64 extracts the node's value as a float64. Absent on type mismatch.
func (n Node) Float64() (float64, bool) {
	num, ok := n.value.(json.Number)
	if !ok {
		return 0, false
	}

	f, err := num.Float64()
	if err != nil {
		return 0, false
	}

	return f, true
}

// Bool extracts the node's value as a bool. Absent on type mismatch.
func (n Node) Bool() (bool, bool) {
	b, ok := n.value.(bool)

	return b, ok
}

// String extracts the node's value as a string. Absent on type mismatch.
func (n Node) String() (string, bool) {
	s, ok := n.value.(string)

	return s, ok
}

// URL extracts the node's value as a URL with the client identifier
// appended as an authentication query parameter. Absent if the node is
// not a parseable URL string. An unset client identifier is a
// configuration error and panics rather than producing an
// unauthenticated URL.
func (n Node) URL() (*url.URL, bool) {
	s, ok := n.value.(string)
	if !ok {
		return nil, false
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, false
	}

	if n.env == nil || n.env.clientID == "" {
		panic("sapi: client identifier is not configured")
	}

	query := u.Query()
	query.Set(clientIDParam, n.env.clientID)
	u.RawQuery = query.Encode()

	return u, true
}

// Time parses the node's string value using the given date layout.
// Formatters are looked up in the client's layout cache. Absent if the
// node is not a string or the value does not match the layout.
func (n Node) Time(layout string) (time.Time, bool) {
	s, ok := n.value.(string)
	if !ok || n.env == nil {
		return time.Time{}, false
	}

	t, err := n.env.layouts.get(layout).parse(s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// Nodes returns the elements of a sequence node. Absent if the node is
// not a sequence.
func (n Node) Nodes() ([]Node, bool) {
	seq, ok := n.value.([]any)
	if !ok {
		return nil, false
	}

	nodes := make([]Node, len(seq))
	for i, value := range seq {
		nodes[i] = newNode(value, n.env)
	}

	return nodes, true
}

// MapNodes applies transform to each element of a sequence node and
// keeps only the elements for which transform reported a present value.
// Absent if the node is not a sequence.
func MapNodes[T any](n Node, transform func(Node) (T, bool)) ([]T, bool) {
	nodes, ok := n.Nodes()
	if !ok {
		return nil, false
	}

	values := make([]T, 0, len(nodes))

	for _, node := range nodes {
		if value, ok := transform(node); ok {
			values = append(values, value)
		}
	}

	return values, true
}
