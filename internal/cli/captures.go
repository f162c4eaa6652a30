package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/casemap/internal/capture"
	"github.com/mesh-intelligence/casemap/pkg/types"
)

func newCapturesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "captures",
		Short: "Manage captured wire exchanges",
		Long:  "Captures are recorded request and response documents kept in the data\ndirectory. They can be listed, exported and re-verified against the\ncurrent marshaling rules.",
	}
	cmd.AddCommand(newCapturesImportCmd(a))
	cmd.AddCommand(newCapturesListCmd(a))
	cmd.AddCommand(newCapturesShowCmd(a))
	cmd.AddCommand(newCapturesExportCmd(a))
	cmd.AddCommand(newCapturesVerifyCmd(a))
	return cmd
}

// withStore opens the capture store of the resolved data directory for
// the duration of fn.
func (a *app) withStore(cmd *cobra.Command, fn func(*capture.Store) error) error {
	dir, err := a.dataDir()
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	store, err := capture.Open(cmd.Context(), dir, a.logger)
	if err != nil {
		return sysError(fmt.Errorf("open capture store: %w", err))
	}
	defer store.Close()
	return fn(store)
}

func newCapturesImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file.jsonl]",
		Short: "Import captures from a JSONL file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(s *capture.Store) error {
				n, err := s.Import(cmd.Context(), bytes.NewReader(data))
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), map[string]int{"imported": n})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d captures\n", n)
				return nil
			})
		},
	}
}

func newCapturesListCmd(a *app) *cobra.Command {
	var filter capture.Filter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List captures, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(s *capture.Store) error {
				captures, err := s.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), captures)
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tCAPTURED\tMETHOD\tURL\tSTATUS")
				for _, c := range captures {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						c.ID, c.CapturedAt.Format(time.RFC3339), c.Method, c.URL, statusText(c))
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&filter.EntityType, "type", "", "only captures of this entity type")
	cmd.Flags().StringVar(&filter.Method, "method", "", "only captures with this HTTP method")
	cmd.Flags().BoolVar(&filter.FailedOnly, "failed", false, "only failed calls")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "maximum number of captures (0 for all)")
	return cmd
}

func statusText(c capture.Capture) string {
	if c.Error != "" && c.StatusCode == 0 {
		return "error"
	}
	return fmt.Sprintf("%d", c.StatusCode)
}

func newCapturesShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one capture with its documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(s *capture.Store) error {
				c, err := s.Get(cmd.Context(), args[0])
				if errors.Is(err, types.ErrCaptureNotFound) {
					return fmt.Errorf("capture %q not found", args[0])
				}
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), c)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "id:       %s\n", c.ID)
				fmt.Fprintf(out, "captured: %s\n", c.CapturedAt.Format(time.RFC3339))
				fmt.Fprintf(out, "call:     %s %s\n", c.Method, c.URL)
				fmt.Fprintf(out, "entity:   %s %d\n", c.EntityType, c.EntityID)
				fmt.Fprintf(out, "status:   %s\n", statusText(c))
				if c.Error != "" {
					fmt.Fprintf(out, "error:    %s\n", c.Error)
				}
				fmt.Fprintf(out, "\nrequest:\n%s\n\nresponse:\n%s\n", c.Request, c.Response)
				return nil
			})
		},
	}
}

func newCapturesExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file.jsonl]",
		Short: "Export all captures as JSONL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(s *capture.Store) error {
				if len(args) == 0 || args[0] == "-" {
					_, err := s.Export(cmd.Context(), cmd.OutOrStdout())
					return err
				}
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("create %s: %w", args[0], err)
				}
				n, err := s.Export(cmd.Context(), f)
				if cerr := f.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %d captures to %s\n", n, args[0])
				return nil
			})
		},
	}
}

func newCapturesVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [id...]",
		Short: "Replay captures through the marshaling engine",
		Long:  "Verify decodes and re-encodes each captured request and parses each\ncaptured response. With no ids, every capture is verified. The command\nfails when any capture does not verify.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(s *capture.Store) error {
				results, err := verifyCaptures(cmd, s, args)
				if err != nil {
					return err
				}

				failed := 0
				for _, v := range results {
					if !v.OK() {
						failed++
					}
				}
				if a.flags.jsonMode {
					if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
						return err
					}
				} else {
					w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tRESULT\tEXACT\tDETAIL")
					for _, v := range results {
						result := "ok"
						if !v.OK() {
							result = "FAIL"
						}
						fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", v.CaptureID, result, v.RequestExact, v.Detail())
					}
					if err := w.Flush(); err != nil {
						return err
					}
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d captures failed verification", failed, len(results))
				}
				return nil
			})
		},
	}
}

func verifyCaptures(cmd *cobra.Command, s *capture.Store, ids []string) ([]capture.Verification, error) {
	results := []capture.Verification{}
	if len(ids) == 0 {
		captures, err := s.List(cmd.Context(), capture.Filter{})
		if err != nil {
			return nil, err
		}
		for _, c := range captures {
			results = append(results, capture.VerifyCapture(c))
		}
		return results, nil
	}
	for _, id := range ids {
		v, err := s.Verify(cmd.Context(), id)
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return results, nil
}
