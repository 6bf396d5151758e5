package backend

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_UnmarshalKeepsOrder(t *testing.T) {
	var row Row
	require.NoError(t, json.Unmarshal([]byte(`{"z":1,"a":"x","m":null,"n":{"k":[1,2]}}`), &row))

	assert.Equal(t, []string{"z", "a", "m", "n"}, row.Keys())

	v, ok := row.Get("m")
	assert.True(t, ok)
	assert.Nil(t, v)

	v, _ = row.Get("z")
	assert.Equal(t, json.Number("1"), v)

	_, ok = row.Get("missing")
	assert.False(t, ok)
}

func TestRow_DuplicateKeys(t *testing.T) {
	var row Row
	require.NoError(t, json.Unmarshal([]byte(`{"a":1,"b":2,"a":3}`), &row))

	assert.Equal(t, []string{"a", "b"}, row.Keys())
	v, _ := row.Get("a")
	assert.Equal(t, json.Number("3"), v)
}

func TestRow_RejectsNonObject(t *testing.T) {
	var row Row
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &row))
}

func TestRow_MarshalJSON(t *testing.T) {
	row := NewRow([]string{"name", "id"}, []any{"Ann", 1})
	b, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Ann","id":1}`, string(b))
}

func TestSchema_RoundTripOrder(t *testing.T) {
	in := `{"tables":{"b":{"columns":[{"name":"x","type":"TEXT"}]},"a":{"columns":[]}}}`

	var s Schema
	require.NoError(t, json.Unmarshal([]byte(in), &s))
	require.Len(t, s.Tables, 2)
	assert.Equal(t, "b", s.Tables[0].Name)
	assert.Equal(t, "a", s.Tables[1].Name)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
	assert.Less(t, indexOf(string(out), `"b"`), indexOf(string(out), `"a"`))
}

func TestSchema_NullTables(t *testing.T) {
	var s Schema
	require.NoError(t, json.Unmarshal([]byte(`{"tables":null}`), &s))
	assert.Empty(t, s.Tables)

	require.NoError(t, json.Unmarshal([]byte(`{}`), &s))
	assert.Empty(t, s.Tables)
}

func TestQueryResult_OptionalFields(t *testing.T) {
	var res QueryResult
	require.NoError(t, json.Unmarshal([]byte(`{"query_type":"doc","doc_results":[{"text":"t"}],"sql_error":null}`), &res))

	assert.Equal(t, QueryTypeDoc, res.QueryType)
	assert.Nil(t, res.SQLError)
	assert.Nil(t, res.DocAnswer)
	require.Len(t, res.DocResults, 1)
	assert.Nil(t, res.DocResults[0].Score)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
