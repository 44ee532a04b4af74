package load

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/sqlmap/schema"
)

// File is the layout of a YAML schema file.
//
//	tables:
//	  - schema: app
//	    name: accounts
//	    primary_key: [id]
//	    columns:
//	      - {name: id, type: BIGINT}
//	      - {name: name, type: VARCHAR, size: 64}
type File struct {
	Tables []*schema.Table `yaml:"tables"`
}

// ReadFiles decodes the tables of every file, in order.
func ReadFiles(paths ...string) ([]*schema.Table, error) {
	var tables []*schema.Table
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		ts, err := Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("load: %s: %w", path, err)
		}
		tables = append(tables, ts...)
	}
	return tables, nil
}

// Decode reads one YAML schema document. Type tags may be JDBC tags or
// database type names.
func Decode(r io.Reader) ([]*schema.Table, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	for _, t := range f.Tables {
		for _, c := range t.Columns {
			if c.Type != "" {
				c.Type = schema.ParseJDBCType(string(c.Type))
			}
		}
	}
	return f.Tables, nil
}

// Encode writes tables as a YAML schema document.
func Encode(w io.Writer, tables []*schema.Table) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(File{Tables: tables}); err != nil {
		return err
	}
	return enc.Close()
}
