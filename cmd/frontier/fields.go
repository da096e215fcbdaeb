package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-frontier/pkg/model"
)

func (a *app) fieldsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Print the fields derived from the mutation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := a.buildForm(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(f.Model())
			}
			return writeFieldTable(cmd.OutOrStdout(), f.Model())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the form model as JSON")
	return cmd
}

func writeFieldTable(out io.Writer, form model.FormModel) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tTYPE\tREQUIRED\tLABEL\tOPTIONS")
	model.Walk(form.Fields, func(field model.Field) bool {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\n",
			field.Path,
			fieldType(field),
			field.Required,
			field.Label,
			options(field),
		)
		return true
	})
	return tw.Flush()
}

func fieldType(field model.Field) string {
	if field.Type == model.FieldTypeArray && field.Items != nil {
		return "[" + string(field.Items.Type) + "]"
	}
	return string(field.Type)
}

func options(field model.Field) string {
	enum := field.Enum
	if len(enum) == 0 && field.Items != nil {
		enum = field.Items.Enum
	}
	parts := make([]string, 0, len(enum))
	for _, value := range enum {
		parts = append(parts, fmt.Sprint(value))
	}
	return strings.Join(parts, ",")
}
