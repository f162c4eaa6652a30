package cli

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/casemap/internal/fixture"
	"github.com/mesh-intelligence/casemap/pkg/casemap"
	"github.com/mesh-intelligence/casemap/pkg/types"
)

// Output formats for decode.
const (
	formatYAML = "yaml"
	formatJSON = "json"
	formatDump = "dump"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func newDecodeCmd(a *app) *cobra.Command {
	var (
		minimal bool
		list    bool
		format  string
	)
	cmd := &cobra.Command{
		Use:   "decode [file.xml]",
		Short: "Decode an XML document into an entity",
		Long: `Decode parses a document returned by the service and prints the entity
it describes. With no argument or "-", the document is read from stdin.

Formats: yaml (fixture form), json, dump (full Go value graph).

Example:
  casemap decode ticket.xml
  casemap decode --list --minimal --format json tickets.xml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("minimal") && a.cfg != nil {
				minimal = a.cfg.GetBool(cfgKeyMinimalLoad)
			}
			if a.flags.jsonMode {
				format = formatJSON
			}
			opts := casemap.DecodeOptions{Minimal: minimal, Logger: a.logger}

			if list {
				l, err := casemap.UnmarshalList(data, opts)
				if err != nil {
					return err
				}
				return renderList(cmd.OutOrStdout(), l, format)
			}
			e, err := casemap.Unmarshal(data, opts)
			if err != nil {
				return err
			}
			return renderEntity(cmd.OutOrStdout(), e, format)
		},
	}
	cmd.Flags().BoolVar(&minimal, "minimal", false, "drop unselected options and dependency records")
	cmd.Flags().BoolVar(&list, "list", false, "parse an Entities listing")
	cmd.Flags().StringVar(&format, "format", formatYAML, "output format: yaml, json or dump")
	return cmd
}

func renderEntity(w io.Writer, e *types.Entity, format string) error {
	switch format {
	case formatYAML:
		out, err := fixture.Marshal(e)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case formatJSON:
		return writeJSON(w, e)
	case formatDump:
		dumpConfig.Fdump(w, e)
		return nil
	}
	return fmt.Errorf("unknown format %q (valid: yaml, json, dump)", format)
}

func renderList(w io.Writer, l *types.List, format string) error {
	switch format {
	case formatYAML:
		fmt.Fprintf(w, "# total: %d, returned: %d, page: %d, page size: %d\n", l.Total, l.Returned, l.Page, l.PageSize)
		for _, e := range l.Entities {
			fmt.Fprintln(w, "---")
			if err := renderEntity(w, e, formatYAML); err != nil {
				return err
			}
		}
		return nil
	case formatJSON:
		return writeJSON(w, l)
	case formatDump:
		dumpConfig.Fdump(w, l)
		return nil
	}
	return fmt.Errorf("unknown format %q (valid: yaml, json, dump)", format)
}
