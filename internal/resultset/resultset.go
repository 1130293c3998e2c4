/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package resultset

import (
	"bytes"
	"encoding/json"
)

// ResultSet holds the rows returned by one statement
type ResultSet struct {
	Columns []string
	Rows    [][]interface{}
}

// Record is one row keyed by column name. It marshals to a JSON object with
// the keys in column order.
type Record struct {
	Columns []string
	Values  []interface{}
}

// Records returns the rows as ordered records
func (rs *ResultSet) Records() []Record {
	records := make([]Record, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		records = append(records, Record{Columns: rs.Columns, Values: row})
	}
	return records
}

// MarshalJSON writes the record as an object in column order
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var value interface{}
		if i < len(r.Values) {
			value = r.Values[i]
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
