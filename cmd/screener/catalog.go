package main

import (
	"fmt"
	"os"

	"resume-screener/internal/catalog"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Query stored candidate records",
}

var catalogMask bool

func init() {
	catalogCmd.PersistentFlags().BoolVar(&catalogMask, "mask", false, "Mask names and contact details (also enabled by output.mask_pii)")

	catalogCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all records",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withCatalog(cmd, func(c *catalog.Catalog) (interface{}, error) {
					return c.All(), nil
				})
			},
		},
		&cobra.Command{
			Use:   "get <document-id>",
			Short: "Show one record",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withCatalog(cmd, func(c *catalog.Catalog) (interface{}, error) {
					r, ok := c.GetByID(args[0])
					if !ok {
						return nil, fmt.Errorf("record %s not found", args[0])
					}
					return r, nil
				})
			},
		},
		&cobra.Command{
			Use:   "search <query>",
			Short: "Search skills, education and experience",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withCatalog(cmd, func(c *catalog.Catalog) (interface{}, error) {
					return c.Search(args[0]), nil
				})
			},
		},
		&cobra.Command{
			Use:   "skill <skill>",
			Short: "Records with a skill",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withCatalog(cmd, func(c *catalog.Catalog) (interface{}, error) {
					return c.BySkill(args[0]), nil
				})
			},
		},
		&cobra.Command{
			Use:   "education <text>",
			Short: "Records whose education mentions the text",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withCatalog(cmd, func(c *catalog.Catalog) (interface{}, error) {
					return c.ByEducation(args[0]), nil
				})
			},
		},
	)
	rootCmd.AddCommand(catalogCmd)
}

func withCatalog(cmd *cobra.Command, query func(*catalog.Catalog) (interface{}, error)) error {
	ctx := cmd.Context()
	st, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	if st.Records == nil {
		return fmt.Errorf("storage.backend is none, no records to query")
	}

	c := catalog.New(st.Records, catalog.WithMasking(catalogMask || cfg.Output.MaskPII))
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	out, err := query(c)
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, out)
}
