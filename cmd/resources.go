package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/brainventure/internal/apperr"
	"github.com/abhisek/brainventure/internal/content"
)

var resourceSorts = map[string]content.ResourceSort{
	"newest":  content.SortNewest,
	"popular": content.SortPopular,
	"alpha":   content.SortAlphabetical,
}

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Browse articles, books, research and tools",
	RunE: withEnv(func(cmd *cobra.Command, args []string, env *appEnv) error {
		f := cmd.Flags()
		kind, _ := f.GetString("kind")
		search, _ := f.GetString("search")
		category, _ := f.GetString("category")
		sortName, _ := f.GetString("sort")

		by, ok := resourceSorts[sortName]
		if !ok {
			return apperr.Validation("bad_sort", "sort must be newest, popular or alpha").With("sort", sortName)
		}
		q := content.ResourceQuery{Kind: content.ResourceKind(kind), Search: search, Category: category, Sort: by}
		if !slices.Contains(content.ResourceKinds(), q.Kind) {
			return apperr.Validation("bad_kind", "kind must be articles, books, research or tools").With("kind", kind)
		}

		lib, err := env.svc.Resources()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		items := lib.Find(q)
		fmt.Fprintf(out, "%s: %d\n", q.Kind.Label(), len(items))
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, r := range items {
			fmt.Fprintf(out, "%-40s  %-24s  %s\n", r.Title, r.Category, r.Byline())
		}
		return nil
	}),
}

func init() {
	f := resourcesCmd.Flags()
	f.String("kind", string(content.KindArticle), "Shelf: articles, books, research or tools")
	f.String("search", "", "Text to look for in titles, summaries and tags")
	f.String("category", "", "Only show this category")
	f.String("sort", "newest", "Order: newest, popular or alpha")
}
