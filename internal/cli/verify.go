package cli

import (
	"github.com/spf13/cobra"

	"github.com/modu-ai/pbxpatch/internal/pbxproj"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the manifest for dangling references",
	Long: `Check that every build file points at an existing file reference and
that every group child and Sources phase entry resolves to a record of the
right kind. Exits non-zero when problems are found.`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	problems := s.doc.CheckIntegrity()
	s.report.Problems(s.displayPath(), s.doc.Len(), problems)
	if len(problems) > 0 {
		return &pbxproj.IntegrityError{Problems: problems}
	}
	return nil
}
