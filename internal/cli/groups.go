package cli

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modu-ai/pbxpatch/internal/pbxproj"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List the groups and targets files can be added to",
	Args:  cobra.NoArgs,
	RunE:  runGroups,
}

func init() {
	rootCmd.AddCommand(groupsCmd)
	groupsCmd.Flags().Bool("json", false, "Print the table as JSON")
}

type groupsOutput struct {
	Groups  []pbxproj.GroupEntry `json:"groups"`
	Targets []string             `json:"targets"`
}

func runGroups(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	lookup, err := pbxproj.BuildLookup(s.doc, lookupOptions(s.cfg))
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		out := groupsOutput{Groups: lookup.Groups(), Targets: lookup.TargetNames()}
		if out.Groups == nil {
			out.Groups = []pbxproj.GroupEntry{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	s.report.Groups(lookup.Groups())
	if targets := lookup.TargetNames(); len(targets) > 0 {
		s.report.Notice("targets: %s", strings.Join(targets, ", "))
	}
	return nil
}
