package main

import (
	"github.com/spf13/cobra"

	"github.com/corel/pkg/reporter"
	"github.com/corel/pkg/tags"
)

func newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List tags and show which one is the latest version",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			backend, err := openBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			names, err := backend.ListTagNames(cmd.Context())
			if err != nil {
				return err
			}
			return reporter.Tags(cmd.OutOrStdout(), tags.List(names), cfg.Output)
		},
	}
}
