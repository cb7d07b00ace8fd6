package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/gitprov/internal/registry"
	"github.com/raphi011/gitprov/internal/repository"
)

// completeRepoNames completes registered repository names.
func completeRepoNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	regPath, err := registry.DefaultPath()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	reg, err := registry.Load(regPath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return filterPrefix(reg.Names(), toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeRefs completes branch and tag names of the selected repository.
func completeRefs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var refs []string
	err := withRepository(ctx, func(ctx context.Context, h *repository.Handle) error {
		branches, err := h.Branches(ctx, true)
		if err != nil {
			return err
		}
		for _, b := range branches {
			refs = append(refs, b.Name)
		}
		tags, err := h.Tags(ctx)
		if err != nil {
			return err
		}
		for _, t := range tags {
			refs = append(refs, t.Name)
		}
		return nil
	})
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return filterPrefix(refs, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func filterPrefix(candidates []string, prefix string) []string {
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}
