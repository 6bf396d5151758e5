package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Column is a single column reported by schema introspection.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Table is a named table and its columns.
type Table struct {
	Name    string
	Columns []Column
}

// Schema is the structure returned after connecting a datastore.
// Tables keep the order the backend listed them in.
type Schema struct {
	Tables []Table
}

// UnmarshalJSON decodes {"tables": {"name": {"columns": [...]}}} keeping key order.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var raw struct {
		Tables json.RawMessage `json:"tables"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Tables = nil
	if isNull(raw.Tables) {
		return nil
	}

	return decodeObject(raw.Tables, func(name string, value json.RawMessage) error {
		var info struct {
			Columns []Column `json:"columns"`
		}
		if !isNull(value) {
			if err := json.Unmarshal(value, &info); err != nil {
				return fmt.Errorf("table %q: %w", name, err)
			}
		}
		s.Tables = append(s.Tables, Table{Name: name, Columns: info.Columns})
		return nil
	})
}

// MarshalJSON encodes the schema in the backend's wire shape.
func (s Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"tables":{`)
	for i, t := range s.Tables {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(t.Name)
		if err != nil {
			return nil, err
		}
		cols := t.Columns
		if cols == nil {
			cols = []Column{}
		}
		body, err := json.Marshal(struct {
			Columns []Column `json:"columns"`
		}{cols})
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// UploadResult is the backend's report for an ingested batch.
// Only ProcessedChunks is guaranteed; the rest are informational.
type UploadResult struct {
	Status                 string   `json:"status,omitempty"`
	Filenames              []string `json:"filenames,omitempty"`
	ProcessedChunks        int      `json:"processed_chunks"`
	ChromaAdded            int      `json:"chroma_added,omitempty"`
	InsertedDocuments      int      `json:"inserted_documents,omitempty"`
	InsertedStructuredRows int      `json:"inserted_structured_rows,omitempty"`
}

// Query types reported in QueryResult.QueryType.
const (
	QueryTypeSQL    = "sql"
	QueryTypeDoc    = "doc"
	QueryTypeHybrid = "hybrid"
)

// QueryRequest is the body of a query call. Zero Limit and Offset are
// omitted so the backend applies its own defaults.
type QueryRequest struct {
	Query  string `json:"query"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// QueryResult is the payload produced by the backend for one question.
// Every field is optional; consumers must not assume any combination.
type QueryResult struct {
	QueryType    string      `json:"query_type,omitempty"`
	GeneratedSQL *string     `json:"generated_sql,omitempty"`
	SQLResults   []Row       `json:"sql_results,omitempty"`
	SQLError     *string     `json:"sql_error,omitempty"`
	DocResults   []DocResult `json:"doc_results,omitempty"`
	DocAnswer    *string     `json:"doc_answer,omitempty"`
	DocError     *string     `json:"doc_error,omitempty"`
}

// DocResult is one retrieved document chunk.
type DocResult struct {
	Text  string   `json:"text"`
	Score *float64 `json:"score,omitempty"`
}

// File is one local document queued for upload.
type File struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// Row is a single SQL result row. Column order is the order of the keys
// in the backend's JSON object.
type Row struct {
	keys   []string
	values map[string]any
}

// NewRow builds a row from parallel key and value slices.
func NewRow(keys []string, values []any) Row {
	r := Row{values: make(map[string]any, len(keys))}
	for i, k := range keys {
		var v any
		if i < len(values) {
			v = values[i]
		}
		r.set(k, v)
	}
	return r
}

// Keys returns the column names in order.
func (r Row) Keys() []string {
	return r.keys
}

// Get returns the value for a column.
func (r Row) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Len returns the number of columns.
func (r Row) Len() int {
	return len(r.keys)
}

func (r *Row) set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// UnmarshalJSON decodes a JSON object keeping its key order.
// Numbers are kept as json.Number.
func (r *Row) UnmarshalJSON(data []byte) error {
	*r = Row{values: make(map[string]any)}
	if isNull(data) {
		return nil
	}
	return decodeObject(data, func(key string, value json.RawMessage) error {
		dec := json.NewDecoder(bytes.NewReader(value))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("column %q: %w", key, err)
		}
		r.set(key, v)
		return nil
	})
}

// MarshalJSON encodes the row as a JSON object in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeObject walks the members of a JSON object in document order.
func decodeObject(data []byte, fn func(key string, value json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}

	_, err = dec.Token()
	return err
}

func isNull(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
