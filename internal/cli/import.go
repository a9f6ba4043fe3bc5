package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"magpie/internal/memstore"
	"magpie/internal/sqlstore"
	"magpie/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <fixture.yaml> <database.sqlite>",
	Short: "Import a YAML fixture into a SQLite store",
	Long: `Reads a YAML store fixture and writes its nodes, links, and
repository objects into a SQLite database usable as a sqlite profile.

Example fixture:

  profile: demo
  nodes:
    - id: 1
      uuid: 6f7ce1d2-9b3a-4c2e-8f41-0a5d2c7b9e10
      kind: Calc
      label: relax
      ctime: 2025-01-10T09:30:00Z
      mtime: 2025-01-10T11:02:00Z
      attributes: {cutoff: 520}
      repo:
        - path: docs/a.txt
          content: hello
  links:
    - {type: CREATE, label: result, source: 1, target: 2}`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := memstore.LoadFile(args[0])
		if err != nil {
			return err
		}

		dst, err := sqlstore.Open(args[1], src.Profile())
		if err != nil {
			return err
		}
		defer dst.Close()

		nodes := src.Nodes()
		for _, n := range nodes {
			if err := dst.InsertNode(n); err != nil {
				return err
			}
			err := src.WalkRepo(n.ID, func(path string, obj store.RepoObject, content []byte) error {
				if obj.Kind == store.FileKindDirectory {
					return dst.PutRepoDir(n.ID, path)
				}
				return dst.PutRepoFile(n.ID, path, content)
			})
			if err != nil {
				return err
			}
		}
		links := src.AllLinks()
		for _, l := range links {
			if err := dst.InsertLink(l); err != nil {
				return err
			}
		}

		fmt.Printf("Imported %d nodes and %d links into %s\n", len(nodes), len(links), args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
