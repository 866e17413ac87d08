package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/eudoxa/internal/errors"
	"github.com/HendryAvila/eudoxa/internal/eudoxa"
	"github.com/HendryAvila/eudoxa/internal/tabular"
)

func newSessionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List stored decision sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, cleanup, err := a.manager()
			if err != nil {
				return err
			}
			defer cleanup()

			list, err := mgr.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tREVISION\tUPDATED")
			for _, s := range list {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.ID, s.Name, s.Revision, s.UpdatedAt)
			}
			return w.Flush()
		},
	}
}

func newDumpCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "dump <session>",
		Short: "Print a session's model record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, cleanup, err := a.manager()
			if err != nil {
				return err
			}
			defer cleanup()

			var data []byte
			err = mgr.View(cmd.Context(), args[0], func(m *eudoxa.Model) error {
				rec := m.Record()
				var err error
				if asJSON {
					data, err = rec.JSON()
				} else {
					data, err = rec.YAML()
				}
				return err
			})
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of YAML")
	return cmd
}

func newLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load <name> <record-file>",
		Short: "Create a session from a YAML or JSON model record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return errors.Wrap(err, "reading record")
			}
			rec, err := eudoxa.ParseRecord(data)
			if err != nil {
				return err
			}

			mgr, cleanup, err := a.manager()
			if err != nil {
				return err
			}
			defer cleanup()

			sess, err := mgr.Create(cmd.Context(), args[0], rec)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sess.ID)
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <session> <file.xlsx>",
		Short: "Write a session to an .xlsx workbook",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, cleanup, err := a.manager()
			if err != nil {
				return err
			}
			defer cleanup()

			var wb *tabular.Workbook
			err = mgr.View(cmd.Context(), args[0], func(m *eudoxa.Model) error {
				var err error
				wb, err = tabular.Export(m)
				return err
			})
			if err != nil {
				return err
			}

			f, err := os.Create(args[1])
			if err != nil {
				return errors.Wrap(err, "creating workbook")
			}
			if err := tabular.WriteXLSX(f, wb); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <session> <file.xlsx>",
		Short: "Load an .xlsx workbook into a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[1])
			if err != nil {
				return errors.Wrap(err, "opening workbook")
			}
			defer f.Close()
			wb, err := tabular.ReadXLSX(f)
			if err != nil {
				return err
			}

			mgr, cleanup, err := a.manager()
			if err != nil {
				return err
			}
			defer cleanup()

			out, err := mgr.Update(cmd.Context(), args[0], func(m *eudoxa.Model) (eudoxa.Outcome, error) {
				return tabular.Import(m, wb)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d fact(s) changed, %d collision(s)\n", len(out.Adds), len(out.Collisions))
			for _, c := range out.Collisions {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", c)
			}
			return out.Err()
		},
	}
}
