package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"schoolerp/internal/domain/student"
)

// Output formats
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

type table struct {
	header []string
	rows   [][]string
	footer []string
}

// emit writes v as JSON or YAML, or t as aligned columns.
func (cli *commandLine) emit(v any, t table) error {
	switch cli.format {
	case formatJSON:
		enc := json.NewEncoder(cli.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(cli.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(t.rows) == 0 {
		_, err := fmt.Fprintln(cli.out, "No results.")
		return err
	}
	tw := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.header, "\t"))
	for _, row := range t.rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if t.footer != nil {
		fmt.Fprintln(tw, strings.Join(t.footer, "\t"))
	}
	return tw.Flush()
}

func studentTable(students []student.Student) table {
	t := table{header: []string{"ID", "NAME", "FAMILY", "DOCUMENT", "BIRTH DATE"}}
	for _, s := range students {
		family := s.FamilyCode
		if family == "" {
			family = s.FamilyID
		}
		t.rows = append(t.rows, []string{s.ID, s.FullName(), family, deref(s.DocumentNumber), deref(s.BirthDate)})
	}
	return t
}
